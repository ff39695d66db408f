package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobportal/internal/common"
	"jobportal/internal/domain/chat"
)

type ChatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateChannel(ctx context.Context, ch chat.Channel) (*chat.Channel, error) {
	ch.ID = common.NewUUID()
	ch.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO chat_channels (id, application_id, created_at) VALUES ($1, $2, $3)`,
		ch.ID, ch.ApplicationID, ch.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create chat channel", err)
	}
	return &ch, nil
}

func (r *ChatRepository) GetChannel(ctx context.Context, id common.UUID) (*chat.Channel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, application_id, created_at FROM chat_channels WHERE id = $1`, id)
	var ch chat.Channel
	if err := row.Scan(&ch.ID, &ch.ApplicationID, &ch.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "chat is no longer available", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load chat channel", err)
	}
	return &ch, nil
}

func (r *ChatRepository) AppendMessage(ctx context.Context, msg chat.Message) (*chat.Message, error) {
	msg.ID = common.NewUUID()
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO chat_messages (id, channel_id, sender_id, content, sent_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.ChannelID, msg.SenderID, msg.Content, msg.SentAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to append message", err)
	}
	return &msg, nil
}

func (r *ChatRepository) ListMessages(ctx context.Context, channelID common.UUID, limit, offset int) ([]chat.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, channel_id, sender_id, content, sent_at FROM chat_messages
		WHERE channel_id = $1 ORDER BY sent_at ASC LIMIT $2 OFFSET $3`, channelID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list messages", err)
	}
	defer rows.Close()
	var items []chat.Message
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.ChannelID, &msg.SenderID, &msg.Content, &msg.SentAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan message", err)
		}
		items = append(items, msg)
	}
	return items, nil
}

// SetLastRead upserts the read cursor. GREATEST keeps it monotonic: a stale
// timestamp arriving late never rewinds the cursor.
func (r *ChatRepository) SetLastRead(ctx context.Context, channelID, participantID common.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO chat_read_state (channel_id, participant_id, last_read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (channel_id, participant_id)
		DO UPDATE SET last_read_at = GREATEST(chat_read_state.last_read_at, EXCLUDED.last_read_at)`,
		channelID, participantID, at)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to mark chat read", err)
	}
	return nil
}

func (r *ChatRepository) GetLastRead(ctx context.Context, channelID, participantID common.UUID) (time.Time, error) {
	row := r.db.QueryRowContext(ctx, `SELECT last_read_at FROM chat_read_state WHERE channel_id = $1 AND participant_id = $2`,
		channelID, participantID)
	var at time.Time
	if err := row.Scan(&at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, common.NewError(common.CodeInternal, "failed to load read state", err)
	}
	return at, nil
}

func (r *ChatRepository) CountUnread(ctx context.Context, channelID, participantID common.UUID) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_messages m
		WHERE m.channel_id = $1
		  AND m.sender_id <> $2
		  AND m.sent_at > COALESCE(
			(SELECT last_read_at FROM chat_read_state WHERE channel_id = $1 AND participant_id = $2),
			'epoch'::timestamptz)`,
		channelID, participantID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count unread messages", err)
	}
	return count, nil
}
