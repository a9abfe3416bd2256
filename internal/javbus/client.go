package javbus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudcranesss/javbus-bot/internal/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Client is a typed wrapper around the JavBus metadata API. One instance is
// created at startup and shared by all command executions; it holds no
// mutable state beyond the underlying connection pool.
type Client struct {
	client  *http.Client
	baseURL string
}

// New creates a Client for the given API base URL. A trailing slash on the
// base URL is stripped once here.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// MovieQuery holds the optional filters of the movie list endpoint.
type MovieQuery struct {
	Page        int
	Magnet      string // "exist" or "all"
	FilterType  string // "star", "genre", "director", "studio", "label", "series"
	FilterValue string
	MovieType   string // "normal" or "uncensored"
}

// GetMovies fetches one page of the movie list, optionally filtered.
func (c *Client) GetMovies(ctx context.Context, q MovieQuery) (*models.SearchResult, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(orDefaultInt(q.Page, 1)))
	params.Set("magnet", orDefault(q.Magnet, "exist"))
	params.Set("type", orDefault(q.MovieType, "normal"))
	if q.FilterType != "" && q.FilterValue != "" {
		params.Set("filterType", q.FilterType)
		params.Set("filterValue", q.FilterValue)
	}

	var result models.SearchResult
	if err := c.getJSON(ctx, "/api/movies", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchMovies searches movies by keyword. Page defaults to 1, the magnet
// filter to "exist" and the movie type to "normal" when zero-valued.
func (c *Client) SearchMovies(ctx context.Context, keyword string, q MovieQuery) (*models.SearchResult, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("page", strconv.Itoa(orDefaultInt(q.Page, 1)))
	params.Set("magnet", orDefault(q.Magnet, "exist"))
	params.Set("type", orDefault(q.MovieType, "normal"))

	var result models.SearchResult
	if err := c.getJSON(ctx, "/api/movies/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovieDetail fetches the full record of one movie by its catalog code.
// An absent gid/uc pair in the response is not an error; it means the magnet
// endpoint cannot be called for this movie.
func (c *Client) GetMovieDetail(ctx context.Context, movieID string) (*models.MovieDetail, error) {
	var detail models.MovieDetail
	if err := c.getJSON(ctx, "/api/movies/"+url.PathEscape(movieID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// MagnetQuery holds the sort parameters of the magnet endpoint.
type MagnetQuery struct {
	SortBy    string // "date" or "size"
	SortOrder string // "asc" or "desc"
}

// GetMagnets fetches the magnet links of a movie. Gid and uc come from a
// prior GetMovieDetail call; the caller must have confirmed both are present.
func (c *Client) GetMagnets(ctx context.Context, movieID, gid, uc string, q MagnetQuery) ([]models.Magnet, error) {
	params := url.Values{}
	params.Set("gid", gid)
	params.Set("uc", uc)
	params.Set("sortBy", orDefault(q.SortBy, "size"))
	params.Set("sortOrder", orDefault(q.SortOrder, "desc"))

	var magnets []models.Magnet
	if err := c.getJSON(ctx, "/api/magnets/"+url.PathEscape(movieID), params, &magnets); err != nil {
		return nil, err
	}
	return magnets, nil
}

// GetStarDetail fetches the full record of one actor by id.
func (c *Client) GetStarDetail(ctx context.Context, starID, starType string) (*models.StarDetail, error) {
	params := url.Values{}
	params.Set("type", orDefault(starType, "normal"))

	var star models.StarDetail
	if err := c.getJSON(ctx, "/api/stars/"+url.PathEscape(starID), params, &star); err != nil {
		return nil, err
	}
	return &star, nil
}

// getJSON issues one GET request and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &APIError{Kind: KindNetwork, URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Kind: KindHTTP, Status: resp.StatusCode, URL: reqURL}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindDecode, URL: reqURL, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
