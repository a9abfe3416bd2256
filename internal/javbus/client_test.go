package javbus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcranesss/javbus-bot/internal/testutil"
)

func newTestClient(baseURL string) *Client {
	return New(baseURL, 5*time.Second)
}

func TestSearchMovies(t *testing.T) {
	srv := testutil.NewJavbusServer(t)
	c := newTestClient(srv.URL)

	result, err := c.SearchMovies(context.Background(), "test", MovieQuery{})
	require.NoError(t, err)
	require.Len(t, result.Movies, 2)
	assert.Equal(t, "ABC-123", result.Movies[0].ID)
	assert.Equal(t, "First Movie", result.Movies[0].Title)
	assert.Equal(t, []string{"tag1", "tag2"}, result.Movies[0].Tags)
	assert.Equal(t, 2, result.Total())
}

func TestSearchMoviesDefaults(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"keyword": q.Get("keyword"),
			"page":    q.Get("page"),
			"magnet":  q.Get("magnet"),
			"type":    q.Get("type"),
		}
		fmt.Fprint(w, `{"movies":[]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchMovies(context.Background(), "keyword", MovieQuery{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"keyword": "keyword",
		"page":    "1",
		"magnet":  "exist",
		"type":    "normal",
	}, gotQuery)
}

func TestGetMovieDetail(t *testing.T) {
	srv := testutil.NewJavbusServer(t)
	c := newTestClient(srv.URL)

	detail, err := c.GetMovieDetail(context.Background(), "ABC-123")
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", detail.ID)
	assert.True(t, detail.HasMagnetSession())
	assert.Equal(t, "gid-1", detail.Gid)
	assert.Equal(t, "uc-1", detail.UC)
	assert.Equal(t, 125, detail.VideoLength.Minutes)
	assert.Len(t, detail.Stars, 3)
}

func TestGetMovieDetailFlexibleFields(t *testing.T) {
	srv := testutil.NewJavbusServer(t)
	c := newTestClient(srv.URL)

	detail, err := c.GetMovieDetail(context.Background(), "DEF-456")
	require.NoError(t, err)
	assert.False(t, detail.HasMagnetSession())
	assert.False(t, detail.VideoLength.IsInt)
	assert.Equal(t, "不详", detail.VideoLength.Raw)
	assert.Equal(t, "Another Director", detail.Director.Name)
}

func TestGetMagnets(t *testing.T) {
	var gotQuery map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/magnets/ABC-123", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"gid":       q.Get("gid"),
			"uc":        q.Get("uc"),
			"sortBy":    q.Get("sortBy"),
			"sortOrder": q.Get("sortOrder"),
		}
		fmt.Fprint(w, testutil.MagnetsResponse)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	magnets, err := newTestClient(srv.URL).GetMagnets(context.Background(), "ABC-123", "gid-1", "uc-1", MagnetQuery{})
	require.NoError(t, err)
	require.Len(t, magnets, 2)
	assert.True(t, magnets[0].IsHD)
	assert.True(t, magnets[0].HasSubtitle)
	assert.Equal(t, "magnet:?xt=urn:btih:aaa", magnets[0].Link)
	assert.Equal(t, map[string]string{
		"gid":       "gid-1",
		"uc":        "uc-1",
		"sortBy":    "size",
		"sortOrder": "desc",
	}, gotQuery)
}

func TestGetStarDetail(t *testing.T) {
	srv := testutil.NewJavbusServer(t)
	c := newTestClient(srv.URL)

	star, err := c.GetStarDetail(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "三上悠亜", star.Name)
	assert.Equal(t, "159cm", star.Height)
	assert.Equal(t, "84cm", star.Bust)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := testutil.NewJavbusServer(t)
	c := newTestClient(srv.URL + "/")

	_, err := c.SearchMovies(context.Background(), "test", MovieQuery{})
	assert.NoError(t, err)
}

func TestErrorKinds(t *testing.T) {
	t.Run("http error on non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GetMovieDetail(context.Background(), "NOPE-000")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindHTTP, apiErr.Kind)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})

	t.Run("decode error on malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"movies": not json`)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).SearchMovies(context.Background(), "x", MovieQuery{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindDecode, apiErr.Kind)
	})

	t.Run("network error on dead server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newTestClient(srv.URL).SearchMovies(context.Background(), "x", MovieQuery{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindNetwork, apiErr.Kind)
	})
}
