package chat

import (
	"time"

	"jobportal/internal/common"
)

// Channel is a realtime conversation tied 1:1 to a mutually accepted
// application. It outlives any later hide action: history stays reachable
// by channel id even when the application is gone from list views.
type Channel struct {
	ID            common.UUID `json:"id"`
	ApplicationID common.UUID `json:"application_id"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Message struct {
	ID        common.UUID `json:"id"`
	ChannelID common.UUID `json:"channel_id"`
	SenderID  common.UUID `json:"sender_id"`
	Content   string      `json:"content"`
	SentAt    time.Time   `json:"sent_at"`
}

// ReadState tracks one participant's read cursor. LastReadAt only moves
// forward: a stale MarkRead never rewinds it.
type ReadState struct {
	ChannelID     common.UUID `json:"channel_id"`
	ParticipantID common.UUID `json:"participant_id"`
	LastReadAt    time.Time   `json:"last_read_at"`
}
