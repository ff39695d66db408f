package chat

import (
	"context"
	"time"

	"jobportal/internal/common"
)

type Repository interface {
	CreateChannel(ctx context.Context, ch Channel) (*Channel, error)
	GetChannel(ctx context.Context, id common.UUID) (*Channel, error)

	// AppendMessage persists a message with a server-assigned timestamp.
	// The message list is append-only; SentAt order is the channel order.
	AppendMessage(ctx context.Context, msg Message) (*Message, error)
	ListMessages(ctx context.Context, channelID common.UUID, limit, offset int) ([]Message, error)

	// SetLastRead advances the participant's read cursor, never backward.
	SetLastRead(ctx context.Context, channelID, participantID common.UUID, at time.Time) error
	GetLastRead(ctx context.Context, channelID, participantID common.UUID) (time.Time, error)

	// CountUnread counts messages from other senders after the cursor.
	CountUnread(ctx context.Context, channelID, participantID common.UUID) (int, error)
}
