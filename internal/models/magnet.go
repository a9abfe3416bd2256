package models

// Magnet is a single downloadable link for a movie, as returned by the
// magnet endpoint.
type Magnet struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Size        string `json:"size"` // human-readable, e.g. "5.46GB"
	ShareDate   string `json:"shareDate"`
	IsHD        bool   `json:"isHD"`
	HasSubtitle bool   `json:"hasSubtitle"`
	Link        string `json:"link"`
}
