package app

import (
	"context"
	"testing"

	"jobportal/internal/common"
	"jobportal/internal/domain/application"
	"jobportal/internal/domain/chat"
)

// acceptedChat drives an application to mutual acceptance and returns its
// channel id.
func acceptedChat(t *testing.T, f *serviceFixture) (common.UUID, *application.Application) {
	t.Helper()
	ctx := context.Background()
	app := f.apply(t)
	if _, err := f.apps.ProviderAccept(ctx, app.ID, f.providerID); err != nil {
		t.Fatalf("provider accept: %v", err)
	}
	accepted, err := f.apps.SeekerAccept(ctx, app.ID, f.seekerID)
	if err != nil {
		t.Fatalf("seeker accept: %v", err)
	}
	if accepted.ChatID == nil {
		t.Fatalf("no chat after mutual acceptance")
	}
	return *accepted.ChatID, accepted
}

func TestEnsureChannelIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, app := acceptedChat(t, f)

	again, err := f.chats.EnsureChannel(ctx, app)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if again != channelID {
		t.Fatalf("second ensure returned %s, want %s", again, channelID)
	}
	if len(f.chatRepo.channels) != 1 {
		t.Fatalf("channels = %d, want 1", len(f.chatRepo.channels))
	}
}

func TestEnsureChannelRequiresMutualAcceptance(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	app := f.apply(t)

	if _, err := f.chats.EnsureChannel(ctx, app); !common.Is(err, common.CodeValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSendPublishesEvents(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, _ := acceptedChat(t, f)

	msg, err := f.chats.Send(ctx, channelID, f.providerID, "Can you come in tomorrow?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ID.IsZero() || msg.SentAt.IsZero() {
		t.Fatalf("message missing server-assigned fields: %+v", msg)
	}

	events := f.publisher.published()
	if len(events) != 2 {
		t.Fatalf("published %d events, want 2", len(events))
	}
	if events[0].Type != chat.EventMessageReceived || events[0].RecipientID != f.seekerID {
		t.Fatalf("first event = %+v, want message_received for the seeker", events[0])
	}
	if events[0].Message == nil || events[0].Message.Content != "Can you come in tomorrow?" {
		t.Fatalf("first event carries no message payload: %+v", events[0])
	}
	if events[1].Type != chat.EventUnreadCountChanged || events[1].UnreadCount != 1 {
		t.Fatalf("second event = %+v, want unread_count_changed with count 1", events[1])
	}
}

func TestSendEmptyContent(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, _ := acceptedChat(t, f)

	if _, err := f.chats.Send(ctx, channelID, f.providerID, ""); !common.Is(err, common.CodeValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSendByNonParticipant(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, _ := acceptedChat(t, f)

	if _, err := f.chats.Send(ctx, channelID, common.NewUUID(), "hi"); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

// A dead push transport must not lose the message: Send still persists it
// and reports the delivery failure separately.
func TestSendWithFailingPublisher(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, _ := acceptedChat(t, f)
	f.publisher.fail = true

	msg, err := f.chats.Send(ctx, channelID, f.seekerID, "still there?")
	if !common.Is(err, common.CodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if msg == nil {
		t.Fatalf("persisted message must be returned alongside the delivery error")
	}

	history, herr := f.chats.History(ctx, channelID, f.providerID, 50, 0)
	if herr != nil {
		t.Fatalf("history: %v", herr)
	}
	if len(history) != 1 {
		t.Fatalf("history = %d messages, want 1", len(history))
	}
}

func TestUnreadRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, _ := acceptedChat(t, f)

	if _, err := f.chats.Send(ctx, channelID, f.providerID, "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	count, err := f.chats.UnreadCount(ctx, channelID, f.seekerID)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread = %d, want 1", count)
	}

	// Own messages never count as unread for the sender.
	senderCount, err := f.chats.UnreadCount(ctx, channelID, f.providerID)
	if err != nil {
		t.Fatalf("unread for sender: %v", err)
	}
	if senderCount != 0 {
		t.Fatalf("sender unread = %d, want 0", senderCount)
	}

	if err := f.chats.MarkRead(ctx, channelID, f.seekerID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	count, err = f.chats.UnreadCount(ctx, channelID, f.seekerID)
	if err != nil {
		t.Fatalf("unread after read: %v", err)
	}
	if count != 0 {
		t.Fatalf("unread after read = %d, want 0", count)
	}

	if _, err := f.chats.Send(ctx, channelID, f.providerID, "second"); err != nil {
		t.Fatalf("send after read: %v", err)
	}
	count, err = f.chats.UnreadCount(ctx, channelID, f.seekerID)
	if err != nil {
		t.Fatalf("unread after second send: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread after second send = %d, want 1", count)
	}
}

// A failing unread query returns the last successfully observed count, not
// zero: the badge freezes instead of lying.
func TestUnreadFallsBackToLastKnown(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, _ := acceptedChat(t, f)

	if _, err := f.chats.Send(ctx, channelID, f.providerID, "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	count, err := f.chats.UnreadCount(ctx, channelID, f.seekerID)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread = %d, want 1", count)
	}

	f.chatRepo.failCounts = true
	count, err = f.chats.UnreadCount(ctx, channelID, f.seekerID)
	if err != nil {
		t.Fatalf("unread during outage: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread during outage = %d, want last-known 1", count)
	}
}

func TestHistoryVisibleToBothParticipants(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, _ := acceptedChat(t, f)

	if _, err := f.chats.Send(ctx, channelID, f.seekerID, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	for _, actorID := range []common.UUID{f.seekerID, f.providerID} {
		history, err := f.chats.History(ctx, channelID, actorID, 50, 0)
		if err != nil {
			t.Fatalf("history for %s: %v", actorID, err)
		}
		if len(history) != 1 {
			t.Fatalf("history for %s = %d messages, want 1", actorID, len(history))
		}
	}

	if _, err := f.chats.History(ctx, channelID, common.NewUUID(), 50, 0); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("stranger history: err = %v, want forbidden", err)
	}
}

func TestPartnerName(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	channelID, _ := acceptedChat(t, f)

	name, err := f.chats.PartnerName(ctx, channelID, f.seekerID)
	if err != nil {
		t.Fatalf("partner name: %v", err)
	}
	if name != "Bek Provider" {
		t.Fatalf("partner of seeker = %q, want the provider", name)
	}

	name, err = f.chats.PartnerName(ctx, channelID, f.providerID)
	if err != nil {
		t.Fatalf("partner name: %v", err)
	}
	if name != "Aliya Seeker" {
		t.Fatalf("partner of provider = %q, want the seeker", name)
	}
}
