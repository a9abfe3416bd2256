package javbus

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/cloudcranesss/javbus-bot/internal/models"
)

// MatchMode selects how a star name is matched against a movie's cast list.
// The substring rule is the historical behavior; exact matching is available
// for deployments that want stricter resolution.
type MatchMode string

const (
	MatchSubstring MatchMode = "substring"
	MatchExact     MatchMode = "exact"
)

// StarResolver resolves an actor name to a full StarDetail by cross-
// referencing the movie catalog: search movies by the name, pick one movie,
// scan its cast list for the name, then fetch the matched actor's record.
type StarResolver struct {
	client *Client
	mode   MatchMode
	rng    *rand.Rand
}

// NewStarResolver creates a resolver. Mode defaults to substring matching
// when empty.
func NewStarResolver(client *Client, mode MatchMode) *StarResolver {
	if mode == "" {
		mode = MatchSubstring
	}
	return &StarResolver{
		client: client,
		mode:   mode,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ResolveByName looks up an actor by name. It returns ErrStarNotFound when
// the search matches no movies or no cast entry matches the name; any API
// failure propagates unwrapped.
//
// The candidate movie is chosen at random from the search results. This
// spreads follow-up detail requests across an actor's filmography; any single
// candidate is sufficient for resolution.
func (r *StarResolver) ResolveByName(ctx context.Context, name string) (*models.StarDetail, error) {
	result, err := r.client.SearchMovies(ctx, name, MovieQuery{})
	if err != nil {
		return nil, err
	}
	if len(result.Movies) == 0 {
		return nil, ErrStarNotFound
	}

	movie := result.Movies[r.rng.Intn(len(result.Movies))]

	detail, err := r.client.GetMovieDetail(ctx, movie.ID)
	if err != nil {
		return nil, err
	}

	for _, member := range detail.Stars {
		if r.matches(member.Name, name) {
			return r.client.GetStarDetail(ctx, member.ID, "")
		}
	}
	return nil, ErrStarNotFound
}

func (r *StarResolver) matches(castName, query string) bool {
	if r.mode == MatchExact {
		return castName == query
	}
	return strings.Contains(castName, query)
}
