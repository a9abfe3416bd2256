package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MovieSummary is one entry of a movie list or search response.
type MovieSummary struct {
	ID       string   `json:"id"` // catalog code, e.g. "ABC-123"
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	CoverURL string   `json:"img"`
}

// SearchResult is the response of the movie list and search endpoints.
type SearchResult struct {
	Movies     []MovieSummary `json:"movies"`
	Pagination Pagination     `json:"pagination"`
}

// Total returns the number of movies matched by the query. The API does not
// report an overall count, so the current page size is the best available
// figure.
func (r *SearchResult) Total() int {
	return len(r.Movies)
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	HasNextPage bool  `json:"hasNextPage"`
	NextPage    int   `json:"nextPage"`
	Pages       []int `json:"pages"`
}

// CastMember is a single entry of a movie's star list.
type CastMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the full record of a single movie. Gid and UC are only
// present when the API exposes a magnet session for the movie; when either is
// empty the magnet endpoint must not be called.
type MovieDetail struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Date        string       `json:"date"`
	Tags        []string     `json:"tags"`
	CoverURL    string       `json:"img"`
	VideoLength Duration     `json:"videoLength"`
	Stars       []CastMember `json:"stars"`
	Director    Director     `json:"director"`
	Gid         string       `json:"gid"`
	UC          string       `json:"uc"`
}

// HasMagnetSession reports whether both magnet session parameters are present.
func (d *MovieDetail) HasMagnetSession() bool {
	return d.Gid != "" && d.UC != ""
}

// Duration is a movie length that the API serves either as an integer number
// of minutes or as a free-form string. Missing or null decodes to the zero
// value.
type Duration struct {
	Minutes int
	Raw     string
	IsInt   bool
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Duration{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Duration{Minutes: n, Raw: strconv.Itoa(n), IsInt: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("videoLength is neither int nor string: %w", err)
	}
	*d = Duration{Raw: s}
	return nil
}

// Director is served either as an object with a name field or as a plain
// string, depending on the movie record.
type Director struct {
	Name string
}

func (dr *Director) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*dr = Director{}
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*dr = Director{Name: obj.Name}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("director is neither object nor string: %w", err)
	}
	*dr = Director{Name: s}
	return nil
}
