// OneBot v11 host adapter: receives chat events over an HTTP webhook or a
// forward WebSocket connection and sends replies through the platform's
// message API.
package onebot

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cloudcranesss/javbus-bot/internal/bot"
	"github.com/cloudcranesss/javbus-bot/internal/delivery"
)

// MessageHandler is implemented by the command router.
type MessageHandler interface {
	HandleMessage(ctx context.Context, ev bot.Event, sink delivery.ReplySink) bool
}

// event is the subset of a OneBot v11 event the adapter consumes.
type event struct {
	PostType    string `json:"post_type"`
	MessageType string `json:"message_type"` // "group" or "private"
	RawMessage  string `json:"raw_message"`
	UserID      int64  `json:"user_id"`
	GroupID     int64  `json:"group_id"`
	SelfID      int64  `json:"self_id"`
}

// parseMessageEvent decodes raw JSON and converts it to a bot.Event. The
// second return is false for non-message events and malformed payloads.
func parseMessageEvent(raw []byte) (bot.Event, bool) {
	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return bot.Event{}, false
	}
	if ev.PostType != "message" || ev.RawMessage == "" {
		return bot.Event{}, false
	}

	out := bot.Event{
		Text:     ev.RawMessage,
		SenderID: strconv.FormatInt(ev.UserID, 10),
	}
	if ev.MessageType == "group" && ev.GroupID != 0 {
		out.GroupID = strconv.FormatInt(ev.GroupID, 10)
	}
	return out, true
}
