package onebot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// handlerTimeout bounds one command execution, covering the full API call
// chain plus delivery.
const handlerTimeout = 2 * time.Minute

// upstreamImageBase is the origin the image proxy fetches from.
const upstreamImageBase = "https://www.javbus.com"

// Server receives OneBot webhook events and serves the built-in image proxy.
type Server struct {
	handler MessageHandler
	api     *APIClient
	port    int
	log     *zap.SugaredLogger

	imageClient *http.Client
	imageBase   string
}

// NewServer creates the webhook server. api is used as the direct reply
// channel for events received here.
func NewServer(handler MessageHandler, api *APIClient, port int, log *zap.SugaredLogger) *Server {
	return &Server{
		handler:     handler,
		api:         api,
		port:        port,
		log:         log,
		imageClient: &http.Client{Timeout: 30 * time.Second},
		imageBase:   upstreamImageBase,
	}
}

// Router sets up and returns the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer) // Recovers from panics

	r.Post("/onebot", s.handleEvent)
	r.Get("/proxy/*", s.handleProxyImage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("webhook server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleEvent accepts one OneBot event. Message events are dispatched on
// their own goroutine so the webhook response never waits on API calls or
// relay submission; concurrent commands share nothing mutable.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}

	ev, ok := parseMessageEvent(body)
	if ok {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
			defer cancel()
			s.handler.HandleMessage(ctx, ev, s.api.SinkFor(ev.Recipient()))
		}()
	}

	// OneBot expects a quick acknowledgement regardless of handling.
	w.WriteHeader(http.StatusNoContent)
}

// handleProxyImage fetches an upstream image and relays it. With image_proxy
// pointed at this endpoint, rewritten cover URLs resolve through the bot
// itself: {proxy}/pics/cover/x.jpg -> https://www.javbus.com/pics/cover/x.jpg.
func (s *Server) handleProxyImage(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")
	if rest == "" {
		http.Error(w, "missing image path", http.StatusBadRequest)
		return
	}

	upstream := s.imageBase + "/" + rest
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		http.Error(w, "bad image path", http.StatusBadRequest)
		return
	}
	// The upstream refuses image requests without a site referer.
	req.Header.Set("Referer", s.imageBase+"/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := s.imageClient.Do(req)
	if err != nil {
		s.log.Warnw("image proxy fetch failed", "url", upstream, "error", err)
		http.Error(w, "failed to fetch image", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warnw("image proxy upstream error", "url", upstream, "status", resp.StatusCode)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	// Covers are immutable per catalog code; cache for a day.
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, resp.Body); err != nil {
		s.log.Warnw("image proxy copy failed", "url", upstream, "error", err)
	}
}
