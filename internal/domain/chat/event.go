package chat

import "jobportal/internal/common"

type EventType string

const (
	EventMessageReceived    EventType = "message_received"
	EventUnreadCountChanged EventType = "unread_count_changed"
)

// Event is the typed notification fanned out to channel participants. The
// presentation layer consumes these; the coordinator knows nothing about UI.
type Event struct {
	Type        EventType   `json:"type"`
	ChannelID   common.UUID `json:"channel_id"`
	RecipientID common.UUID `json:"recipient_id"`
	Message     *Message    `json:"message,omitempty"`
	UnreadCount int         `json:"unread_count,omitempty"`
}
