package models

// StarDetail is the full record of an actor.
type StarDetail struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Birthday  string `json:"birthday"`
	Age       string `json:"age"`
	Height    string `json:"height"`
	Bust      string `json:"bust"`
	Waistline string `json:"waistline"`
	Hipline   string `json:"hipline"`
	AvatarURL string `json:"avatar"`
}
