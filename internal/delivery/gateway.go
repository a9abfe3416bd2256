// Delivery of formatted content blocks to the chat platform, either as one
// aggregated forward message through a relay endpoint or as plain per-block
// replies through the host's reply primitive.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cloudcranesss/javbus-bot/internal/models"
)

// Recipient addresses a delivery. A non-empty GroupID targets the group
// chat; otherwise the user's private channel.
type Recipient struct {
	UserID  string
	GroupID string
}

// ReplySink is the host-provided primitive for sending one plain message
// back to the chat the command came from.
type ReplySink interface {
	Reply(ctx context.Context, text string) error
}

// RelayError is a failed forward-relay submission. It carries internal
// detail (URLs, relay messages) and must never be rendered into the chat.
type RelayError struct {
	Endpoint string
	Status   int    // non-zero for HTTP-level failures
	Message  string // relay-reported application error, if any
	Err      error
}

func (e *RelayError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("forward relay %s: %v", e.Endpoint, e.Err)
	case e.Message != "":
		return fmt.Sprintf("forward relay %s: relay error: %s", e.Endpoint, e.Message)
	default:
		return fmt.Sprintf("forward relay %s: status %d", e.Endpoint, e.Status)
	}
}

func (e *RelayError) Unwrap() error { return e.Err }

// Gateway delivers content blocks. When a forward URL is configured every
// command reply is packaged as one aggregated forward message; otherwise
// each block becomes an independent reply.
type Gateway struct {
	forwardURL  string // empty disables the relay path
	accessToken string
	botUserID   string
	botNickname string
	client      *http.Client
	log         *zap.SugaredLogger
}

// NewGateway creates a Gateway. forwardURL may be empty, which selects the
// direct-reply path. A trailing slash on forwardURL is stripped once.
func NewGateway(forwardURL, accessToken, botUserID, botNickname string, log *zap.SugaredLogger) *Gateway {
	if botUserID == "" {
		botUserID = "10086"
	}
	if botNickname == "" {
		botNickname = "CloudCrane Bot"
	}
	return &Gateway{
		forwardURL:  strings.TrimRight(forwardURL, "/"),
		accessToken: accessToken,
		botUserID:   botUserID,
		botNickname: botNickname,
		client:      &http.Client{Timeout: 30 * time.Second},
		log:         log,
	}
}

// Deliver sends the blocks to the recipient, preserving block order. Blocks
// must be non-empty; empty results are converted to an explanatory block
// upstream.
func (g *Gateway) Deliver(ctx context.Context, blocks []models.ContentBlock, rcpt Recipient, sink ReplySink) error {
	g.log.Infow("delivering reply", "blocks", len(blocks), "group", rcpt.GroupID, "user", rcpt.UserID)
	if g.forwardURL != "" {
		return g.forward(ctx, blocks, rcpt)
	}
	for _, b := range blocks {
		if err := sink.Reply(ctx, renderBlock(b)); err != nil {
			return err
		}
	}
	return nil
}

// forwardNode is one entry of a OneBot aggregated forward message.
type forwardNode struct {
	Type string          `json:"type"`
	Data forwardNodeData `json:"data"`
}

type forwardNodeData struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Content  string `json:"content"`
}

type forwardRequest struct {
	Messages    []forwardNode `json:"messages"`
	GroupID     string        `json:"group_id,omitempty"`
	UserID      string        `json:"user_id,omitempty"`
	AccessToken string        `json:"access_token,omitempty"`
}

type forwardResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// forward packages all blocks as one relayed batch and submits it once.
func (g *Gateway) forward(ctx context.Context, blocks []models.ContentBlock, rcpt Recipient) error {
	nodes := make([]forwardNode, 0, len(blocks))
	for _, b := range blocks {
		nodes = append(nodes, forwardNode{
			Type: "node",
			Data: forwardNodeData{
				UserID:   g.botUserID,
				Nickname: g.botNickname,
				Content:  renderBlock(b),
			},
		})
	}

	req := forwardRequest{Messages: nodes, AccessToken: g.accessToken}
	endpoint := g.forwardURL
	if rcpt.GroupID != "" {
		req.GroupID = rcpt.GroupID
		endpoint += "/send_group_forward_msg"
	} else {
		req.UserID = rcpt.UserID
		endpoint += "/send_private_forward_msg"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return &RelayError{Endpoint: endpoint, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &RelayError{Endpoint: endpoint, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return &RelayError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RelayError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	var relayResp forwardResponse
	if err := json.NewDecoder(resp.Body).Decode(&relayResp); err != nil {
		return &RelayError{Endpoint: endpoint, Err: fmt.Errorf("decoding relay response: %w", err)}
	}
	if relayResp.Status != "ok" {
		return &RelayError{Endpoint: endpoint, Message: relayResp.Message}
	}

	g.log.Infow("forward message accepted", "endpoint", endpoint, "nodes", len(nodes))
	return nil
}

// renderBlock flattens a block into message text, appending a CQ image
// segment when the block carries an image.
func renderBlock(b models.ContentBlock) string {
	if !b.HasImage() {
		return b.Text
	}
	return b.Text + "\n" + fmt.Sprintf("[CQ:image,file=%s]", b.ImageURL)
}
