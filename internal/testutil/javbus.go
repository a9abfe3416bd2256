// Shared fake JavBus API server for tests across packages.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// SearchResponse is the canned body of the search endpoint: two movies.
const SearchResponse = `{"movies":[
	{"id":"ABC-123","title":"First Movie","date":"2023-01-01","tags":["tag1","tag2"],"img":"https://www.javbus.com/pics/cover/abc123.jpg"},
	{"id":"DEF-456","title":"Second Movie","date":"2023-02-02","tags":["tag3"],"img":"https://www.javbus.com/pics/cover/def456.jpg"}
],"pagination":{"currentPage":1,"hasNextPage":false}}`

// DetailResponse is the canned body of the movie detail endpoint. The record
// carries a magnet session (gid/uc), three cast members, an object director
// and an integer duration.
const DetailResponse = `{
	"id":"ABC-123","title":"First Movie","date":"2023-01-01","tags":["tag1"],
	"img":"https://www.javbus.com/pics/cover/abc123.jpg",
	"videoLength":125,
	"director":{"id":"d1","name":"Some Director"},
	"stars":[{"id":"s1","name":"三上悠亜"},{"id":"s2","name":"深田えいみ"},{"id":"s3","name":"河北彩花"}],
	"gid":"gid-1","uc":"uc-1"}`

// DetailNoMagnetResponse is a detail record without a magnet session. Its
// director is a plain string and its duration a free-form string, the other
// shape the API serves for both fields.
const DetailNoMagnetResponse = `{
	"id":"DEF-456","title":"Second Movie","date":"2023-02-02","tags":["tag3"],
	"img":"https://www.javbus.com/pics/cover/def456.jpg",
	"videoLength":"不详",
	"director":"Another Director",
	"stars":[{"id":"s1","name":"三上悠亜"}]}`

// MagnetsResponse is the canned body of the magnet endpoint: two links.
const MagnetsResponse = `[
	{"id":"m1","title":"ABC-123-HD","size":"5.46GB","shareDate":"2023-01-05","isHD":true,"hasSubtitle":true,"link":"magnet:?xt=urn:btih:aaa"},
	{"id":"m2","title":"ABC-123","size":"1.2GB","shareDate":"2023-01-03","isHD":false,"hasSubtitle":false,"link":"magnet:?xt=urn:btih:bbb"}
]`

// StarResponse is the canned body of the star detail endpoint.
const StarResponse = `{"id":"s1","name":"三上悠亜","birthday":"1993-08-16","age":"31","height":"159cm",
	"bust":"84cm","waistline":"59cm","hipline":"87cm","avatar":"https://www.javbus.com/pics/actress/s1.jpg"}`

// NewJavbusServer starts a fake metadata API returning the canned fixtures
// above. The caller owns no cleanup; the server closes with the test.
func NewJavbusServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/movies/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, SearchResponse)
	})
	mux.HandleFunc("/api/movies/ABC-123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, DetailResponse)
	})
	mux.HandleFunc("/api/movies/DEF-456", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, DetailNoMagnetResponse)
	})
	mux.HandleFunc("/api/magnets/ABC-123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, MagnetsResponse)
	})
	mux.HandleFunc("/api/stars/s1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, StarResponse)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
