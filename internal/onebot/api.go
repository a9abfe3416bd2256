package onebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudcranesss/javbus-bot/internal/delivery"
)

// APIClient calls the bot platform's HTTP message API. It backs the direct
// ReplySink when events arrive over the webhook.
type APIClient struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// NewAPIClient creates a client for the platform API at baseURL.
func NewAPIClient(baseURL, accessToken string) *APIClient {
	return &APIClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// SendGroupMsg sends one plain message to a group chat.
func (c *APIClient) SendGroupMsg(ctx context.Context, groupID, text string) error {
	return c.post(ctx, "/send_group_msg", map[string]any{
		"group_id": groupID,
		"message":  text,
	})
}

// SendPrivateMsg sends one plain message to a user's private channel.
func (c *APIClient) SendPrivateMsg(ctx context.Context, userID, text string) error {
	return c.post(ctx, "/send_private_msg", map[string]any{
		"user_id": userID,
		"message": text,
	})
}

func (c *APIClient) post(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("onebot api %s: status %d", path, resp.StatusCode)
	}
	return nil
}

// apiSink adapts the APIClient to a single recipient's reply channel.
type apiSink struct {
	client *APIClient
	rcpt   delivery.Recipient
}

// SinkFor returns a ReplySink that sends to the given recipient.
func (c *APIClient) SinkFor(rcpt delivery.Recipient) delivery.ReplySink {
	return &apiSink{client: c, rcpt: rcpt}
}

func (s *apiSink) Reply(ctx context.Context, text string) error {
	if s.rcpt.GroupID != "" {
		return s.client.SendGroupMsg(ctx, s.rcpt.GroupID, text)
	}
	return s.client.SendPrivateMsg(ctx, s.rcpt.UserID, text)
}
