package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"jobportal/internal/common"
	"jobportal/internal/domain/application"
	"jobportal/internal/domain/chat"
	"jobportal/internal/domain/user"
)

// EventPublisher delivers chat events to the realtime transport. A nil or
// failing publisher never loses persisted messages, only their push.
type EventPublisher interface {
	Publish(ctx context.Context, ev chat.Event) error
}

type ChatService struct {
	repo      chat.Repository
	apps      application.Repository
	users     user.Repository
	publisher EventPublisher
	logger    *slog.Logger

	// lastUnread caches the most recent successful count per participant
	// so a store hiccup degrades the badge to its last value, not zero.
	unreadMu   sync.Mutex
	lastUnread map[string]int
}

func NewChatService(repo chat.Repository, apps application.Repository, users user.Repository, publisher EventPublisher, logger *slog.Logger) *ChatService {
	return &ChatService{
		repo:       repo,
		apps:       apps,
		users:      users,
		publisher:  publisher,
		logger:     logger,
		lastUnread: make(map[string]int),
	}
}

func unreadKey(channelID, participantID common.UUID) string {
	return channelID.String() + ":" + participantID.String()
}

func (s *ChatService) rememberUnread(channelID, participantID common.UUID, count int) {
	s.unreadMu.Lock()
	s.lastUnread[unreadKey(channelID, participantID)] = count
	s.unreadMu.Unlock()
}

func (s *ChatService) lastKnownUnread(channelID, participantID common.UUID) int {
	s.unreadMu.Lock()
	defer s.unreadMu.Unlock()
	return s.lastUnread[unreadKey(channelID, participantID)]
}

// EnsureChannel returns the chat channel for a mutually accepted
// application, creating it on first call. Idempotent: the application
// record's chat_id column is the authority, so concurrent accept races end
// with exactly one channel. The channel row is created first and attached
// second, so a set chat_id always points at an existing channel.
func (s *ChatService) EnsureChannel(ctx context.Context, app *application.Application) (common.UUID, error) {
	if app.ChatID != nil {
		return *app.ChatID, nil
	}
	if app.Status != application.StatusBothAccepted {
		return "", common.NewError(common.CodeValidation, "chat unlocks only after both parties accept", nil)
	}
	created, err := s.repo.CreateChannel(ctx, chat.Channel{ApplicationID: app.ID})
	if err != nil {
		return "", err
	}
	if err := s.apps.AttachChat(ctx, app.ID, created.ID); err != nil {
		if common.Is(err, common.CodeConflict) {
			// Lost the race: the other actor's accept already attached a
			// channel. Our unattached row stays orphaned and unreachable.
			fresh, ferr := s.apps.GetByID(ctx, app.ID)
			if ferr != nil {
				return "", ferr
			}
			if fresh.ChatID != nil {
				return *fresh.ChatID, nil
			}
		}
		return "", err
	}
	return created.ID, nil
}

// Send appends a message to the channel and pushes realtime events to the
// other participant. The append is authoritative: when the push transport
// is down the message is already persisted and Send reports the transport
// failure for the caller to retry.
func (s *ChatService) Send(ctx context.Context, channelID, senderID common.UUID, content string) (*chat.Message, error) {
	if content == "" {
		return nil, common.NewError(common.CodeValidation, "message content is required", nil)
	}
	app, err := s.applicationForChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	recipientID, err := otherParticipant(app, senderID)
	if err != nil {
		return nil, err
	}
	msg, err := s.repo.AppendMessage(ctx, chat.Message{
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   content,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.notify(ctx, channelID, recipientID, msg); err != nil {
		return msg, common.NewError(common.CodeUnavailable, "chat delivery is unavailable", err)
	}
	return msg, nil
}

func (s *ChatService) notify(ctx context.Context, channelID, recipientID common.UUID, msg *chat.Message) error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, chat.Event{
		Type:        chat.EventMessageReceived,
		ChannelID:   channelID,
		RecipientID: recipientID,
		Message:     msg,
	}); err != nil {
		return err
	}
	unread, err := s.repo.CountUnread(ctx, channelID, recipientID)
	if err != nil {
		s.logger.Warn("unread count after send failed", "channel_id", channelID.String(), "err", err)
		return nil
	}
	s.rememberUnread(channelID, recipientID, unread)
	if err := s.publisher.Publish(ctx, chat.Event{
		Type:        chat.EventUnreadCountChanged,
		ChannelID:   channelID,
		RecipientID: recipientID,
		UnreadCount: unread,
	}); err != nil {
		return err
	}
	return nil
}

// History returns the channel's messages in send order.
func (s *ChatService) History(ctx context.Context, channelID, actorID common.UUID, limit, offset int) ([]chat.Message, error) {
	app, err := s.applicationForChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if _, err := otherParticipant(app, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, channelID, limit, offset)
}

// MarkRead advances the participant's read cursor to now. The cursor is
// monotonic: a stale call arriving late never moves it backward.
func (s *ChatService) MarkRead(ctx context.Context, channelID, participantID common.UUID) error {
	app, err := s.applicationForChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if _, err := otherParticipant(app, participantID); err != nil {
		return err
	}
	if err := s.repo.SetLastRead(ctx, channelID, participantID, time.Now().UTC()); err != nil {
		return err
	}
	s.rememberUnread(channelID, participantID, 0)
	return nil
}

// UnreadCount counts messages from the other participant sent after the
// read cursor. Store failures degrade to the last successfully observed
// value so a list view never breaks on the badge query.
func (s *ChatService) UnreadCount(ctx context.Context, channelID, participantID common.UUID) (int, error) {
	app, err := s.applicationForChannel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if _, err := otherParticipant(app, participantID); err != nil {
		return 0, err
	}
	count, err := s.repo.CountUnread(ctx, channelID, participantID)
	if err != nil {
		s.logger.Warn("unread count query failed", "channel_id", channelID.String(), "err", err)
		return s.lastKnownUnread(channelID, participantID), nil
	}
	s.rememberUnread(channelID, participantID, count)
	return count, nil
}

// PartnerName resolves the display name of the other side of the chat.
func (s *ChatService) PartnerName(ctx context.Context, channelID, actorID common.UUID) (string, error) {
	app, err := s.applicationForChannel(ctx, channelID)
	if err != nil {
		return "", err
	}
	partnerID, err := otherParticipant(app, actorID)
	if err != nil {
		return "", err
	}
	partner, err := s.users.GetByID(ctx, partnerID)
	if err != nil {
		return "", err
	}
	return partner.FullName, nil
}

func (s *ChatService) applicationForChannel(ctx context.Context, channelID common.UUID) (*application.Application, error) {
	ch, err := s.repo.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.apps.GetByID(ctx, ch.ApplicationID)
}

// otherParticipant validates membership and returns the opposite side.
func otherParticipant(app *application.Application, actorID common.UUID) (common.UUID, error) {
	switch actorID {
	case app.SeekerID:
		return app.ProviderID, nil
	case app.ProviderID:
		return app.SeekerID, nil
	default:
		return "", common.NewError(common.CodeForbidden, "not a participant of this chat", nil)
	}
}
