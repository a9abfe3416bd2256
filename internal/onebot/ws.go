package onebot

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cloudcranesss/javbus-bot/internal/delivery"
)

// reconnectDelay is the fixed wait between connection attempts.
const reconnectDelay = 5 * time.Second

// WSClient consumes events from a OneBot forward-WebSocket endpoint. The
// same connection carries outgoing action frames, so direct replies are
// written back over the socket.
type WSClient struct {
	url         string
	accessToken string
	handler     MessageHandler
	log         *zap.SugaredLogger

	mu   sync.Mutex // guards writes to conn
	conn *websocket.Conn
}

// NewWSClient creates a client for the given ws:// or wss:// URL.
func NewWSClient(url, accessToken string, handler MessageHandler, log *zap.SugaredLogger) *WSClient {
	return &WSClient{
		url:         url,
		accessToken: accessToken,
		handler:     handler,
		log:         log,
	}
}

// Run connects and consumes events until ctx is cancelled, reconnecting
// with a fixed delay after any connection failure.
func (c *WSClient) Run(ctx context.Context) {
	for {
		if err := c.runOnce(ctx); err != nil {
			c.log.Warnw("websocket connection lost", "url", c.url, "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *WSClient) runOnce(ctx context.Context) error {
	header := http.Header{}
	if c.accessToken != "" {
		header.Set("Authorization", "Bearer "+c.accessToken)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.log.Infow("websocket connected", "url", c.url)

	// Close the connection when ctx ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		ev, ok := parseMessageEvent(raw)
		if !ok {
			continue
		}
		go func() {
			hctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
			defer cancel()
			c.handler.HandleMessage(hctx, ev, &wsSink{client: c, rcpt: ev.Recipient()})
		}()
	}
}

// action is one outgoing OneBot API call frame.
type action struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

func (c *WSClient) send(a action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(a)
}

// wsSink replies to one recipient over the shared socket.
type wsSink struct {
	client *WSClient
	rcpt   delivery.Recipient
}

func (s *wsSink) Reply(_ context.Context, text string) error {
	if s.rcpt.GroupID != "" {
		return s.client.send(action{
			Action: "send_group_msg",
			Params: map[string]any{"group_id": s.rcpt.GroupID, "message": text},
		})
	}
	return s.client.send(action{
		Action: "send_private_msg",
		Params: map[string]any{"user_id": s.rcpt.UserID, "message": text},
	})
}
