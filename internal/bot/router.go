package bot

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/cloudcranesss/javbus-bot/internal/delivery"
	"github.com/cloudcranesss/javbus-bot/internal/format"
	"github.com/cloudcranesss/javbus-bot/internal/javbus"
	"github.com/cloudcranesss/javbus-bot/internal/models"
)

// Event is one inbound chat message together with its sender coordinates.
// GroupID is empty for private messages.
type Event struct {
	Text     string
	SenderID string
	GroupID  string
}

// Recipient returns the delivery address of the event's sender.
func (e Event) Recipient() delivery.Recipient {
	return delivery.Recipient{UserID: e.SenderID, GroupID: e.GroupID}
}

// MetadataAPI is the slice of the JavBus client the router consumes.
type MetadataAPI interface {
	SearchMovies(ctx context.Context, keyword string, q javbus.MovieQuery) (*models.SearchResult, error)
	GetMovieDetail(ctx context.Context, movieID string) (*models.MovieDetail, error)
	GetMagnets(ctx context.Context, movieID, gid, uc string, q javbus.MagnetQuery) ([]models.Magnet, error)
}

// StarFinder resolves an actor name to a full record.
type StarFinder interface {
	ResolveByName(ctx context.Context, name string) (*models.StarDetail, error)
}

// Translator converts a search keyword to the catalog's language. Optional.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Deliverer hands formatted blocks to the chat platform.
type Deliverer interface {
	Deliver(ctx context.Context, blocks []models.ContentBlock, rcpt delivery.Recipient, sink delivery.ReplySink) error
}

// Command patterns. Only the keyword search is case-insensitive; the magnet
// command requires a catalog code right after the marker.
var (
	searchPattern = regexp.MustCompile(`(?i)^搜关键词(.+)`)
	starPattern   = regexp.MustCompile(`^搜演员(.+)`)
	magnetPattern = regexp.MustCompile(`^搜磁力([A-Za-z0-9-]+)`)
)

// Router classifies inbound messages against the three command patterns and
// runs the matching handler. Each inbound message is classified once; the
// handlers own the full API call chain for their command.
type Router struct {
	api        MetadataAPI
	stars      StarFinder
	gateway    Deliverer
	translator Translator // nil when keyword translation is disabled
	proxyBase  string
	log        *zap.SugaredLogger
}

// New creates a Router. translator may be nil.
func New(api MetadataAPI, stars StarFinder, gateway Deliverer, translator Translator, imageProxyBase string, log *zap.SugaredLogger) *Router {
	return &Router{
		api:        api,
		stars:      stars,
		gateway:    gateway,
		translator: translator,
		proxyBase:  imageProxyBase,
		log:        log,
	}
}

// HandleMessage runs the command matching the event text, replying through
// sink. It reports whether the text matched any command at all.
func (r *Router) HandleMessage(ctx context.Context, ev Event, sink delivery.ReplySink) bool {
	switch {
	case searchPattern.MatchString(ev.Text):
		r.handleSearch(ctx, ev, searchPattern.FindStringSubmatch(ev.Text)[1], sink)
	case starPattern.MatchString(ev.Text):
		r.handleStar(ctx, ev, starPattern.FindStringSubmatch(ev.Text)[1], sink)
	case magnetPattern.MatchString(ev.Text):
		r.handleMagnet(ctx, ev, magnetPattern.FindStringSubmatch(ev.Text)[1], sink)
	default:
		return false
	}
	return true
}

func (r *Router) handleSearch(ctx context.Context, ev Event, keyword string, sink delivery.ReplySink) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		r.log.Warnw("empty search keyword", "sender", ev.SenderID)
		r.replyText(ctx, sink, "请输入搜索关键词")
		return
	}
	r.log.Infow("movie search", "sender", ev.SenderID, "group", ev.GroupID, "keyword", keyword)

	if r.translator != nil {
		translated, err := r.translator.Translate(ctx, keyword)
		if err != nil {
			r.log.Warnw("keyword translation failed, using original", "keyword", keyword, "error", err)
		} else if translated != "" {
			r.log.Infow("keyword translated", "from", keyword, "to", translated)
			keyword = translated
		}
	}

	result, err := r.api.SearchMovies(ctx, keyword, javbus.MovieQuery{})
	if err != nil {
		r.log.Errorw("movie search failed", "keyword", keyword, "error", err)
		r.replyText(ctx, sink, "搜索服务暂时不可用")
		return
	}
	if len(result.Movies) == 0 {
		r.log.Infow("no movies matched", "keyword", keyword)
		r.replyText(ctx, sink, "没有找到相关影片")
		return
	}

	r.deliver(ctx, ev, format.MovieList(result, r.proxyBase), sink)
}

func (r *Router) handleStar(ctx context.Context, ev Event, name string, sink delivery.ReplySink) {
	name = strings.TrimSpace(name)
	if name == "" {
		r.log.Warnw("empty star name", "sender", ev.SenderID)
		r.replyText(ctx, sink, "请输入演员名称")
		return
	}
	r.log.Infow("star search", "sender", ev.SenderID, "group", ev.GroupID, "name", name)

	star, err := r.stars.ResolveByName(ctx, name)
	if errors.Is(err, javbus.ErrStarNotFound) {
		r.log.Infow("star not found", "name", name)
		r.replyText(ctx, sink, "未找到该演员信息")
		return
	}
	if err != nil {
		r.log.Errorw("star search failed", "name", name, "error", err)
		r.replyText(ctx, sink, "演员查询服务异常")
		return
	}

	r.deliver(ctx, ev, []models.ContentBlock{format.Star(star, r.proxyBase)}, sink)
}

func (r *Router) handleMagnet(ctx context.Context, ev Event, movieID string, sink delivery.ReplySink) {
	r.log.Infow("magnet search", "sender", ev.SenderID, "group", ev.GroupID, "movie", movieID)

	detail, err := r.api.GetMovieDetail(ctx, movieID)
	if err != nil {
		r.log.Errorw("movie detail fetch failed", "movie", movieID, "error", err)
		r.replyText(ctx, sink, "影片详情获取失败")
		return
	}
	if detail.ID == "" {
		r.log.Infow("movie not found", "movie", movieID)
		r.replyText(ctx, sink, "没有找到该影片")
		return
	}

	var magnets []models.Magnet
	if detail.HasMagnetSession() {
		magnets, err = r.api.GetMagnets(ctx, movieID, detail.Gid, detail.UC, javbus.MagnetQuery{})
		if err != nil {
			// Degrade to a detail-only report; the detail itself was fetched.
			r.log.Errorw("magnet fetch failed", "movie", movieID, "error", err)
			magnets = nil
		}
	} else {
		r.log.Warnw("movie has no magnet session, skipping magnet lookup", "movie", movieID)
	}

	r.deliver(ctx, ev, []models.ContentBlock{format.MovieDetail(detail, magnets, r.proxyBase)}, sink)
}

// deliver hands the blocks to the gateway. Relay failures are logged here and
// swallowed; relay error details must never reach the chat.
func (r *Router) deliver(ctx context.Context, ev Event, blocks []models.ContentBlock, sink delivery.ReplySink) {
	if err := r.gateway.Deliver(ctx, blocks, ev.Recipient(), sink); err != nil {
		r.log.Errorw("delivery failed", "sender", ev.SenderID, "group", ev.GroupID, "error", err)
	}
}

// replyText sends a single plain prompt or error message directly, bypassing
// the forward relay.
func (r *Router) replyText(ctx context.Context, sink delivery.ReplySink, text string) {
	if err := sink.Reply(ctx, text); err != nil {
		r.log.Errorw("reply failed", "error", err)
	}
}
