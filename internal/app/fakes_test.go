package app

import (
	"context"
	"sync"
	"time"

	"jobportal/internal/common"
	"jobportal/internal/domain/application"
	"jobportal/internal/domain/chat"
	"jobportal/internal/domain/job"
	"jobportal/internal/domain/user"
)

type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[common.UUID]*application.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.JobID == app.JobID && existing.SeekerID == app.SeekerID {
			return nil, common.NewError(common.CodeConflict, "already applied for this job", nil)
		}
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	stored := app
	r.byID[app.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByJobAndSeeker(ctx context.Context, jobID, seekerID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.byID {
		if stored.JobID == jobID && stored.SeekerID == seekerID {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) ListBySeeker(ctx context.Context, seekerID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, stored := range r.byID {
		if stored.SeekerID == seekerID {
			items = append(items, *stored)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListByProvider(ctx context.Context, providerID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, stored := range r.byID {
		if stored.ProviderID == providerID {
			items = append(items, *stored)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListAll(ctx context.Context) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, stored := range r.byID {
		items = append(items, *stored)
	}
	return items, nil
}

// UpdateStatus mirrors the SQL compare-and-set: the status column moves
// only if it still holds the expected value.
func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, from, to application.Status) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if stored.Status != from {
		return nil, common.NewError(common.CodeConflict, "application was modified by another actor", nil)
	}
	stored.Status = to
	stored.UpdatedAt = time.Now().UTC()
	copied := *stored
	return &copied, nil
}

func (r *fakeApplicationRepo) AttachChat(ctx context.Context, id common.UUID, chatID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if stored.ChatID != nil {
		return common.NewError(common.CodeConflict, "chat already attached", nil)
	}
	stored.ChatID = &chatID
	return nil
}

func (r *fakeApplicationRepo) SetHidden(ctx context.Context, id common.UUID, role user.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	switch role {
	case user.RoleSeeker:
		stored.SeekerHidden = true
	case user.RoleProvider:
		stored.ProviderHidden = true
	}
	return nil
}

func (r *fakeApplicationRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	delete(r.byID, id)
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*job.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{byID: make(map[common.UUID]*job.Job)}
}

func (r *fakeJobRepo) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j.ID.IsZero() {
		j.ID = common.NewUUID()
	}
	stored := j
	r.byID[j.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[j.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	stored := j
	r.byID[j.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeJobRepo) ListOpen(ctx context.Context, limit, offset int) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, stored := range r.byID {
		if stored.Status == job.StatusOpen {
			items = append(items, *stored)
		}
	}
	return items, nil
}

func (r *fakeJobRepo) ListByProvider(ctx context.Context, providerID common.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []job.Job
	for _, stored := range r.byID {
		if stored.ProviderID == providerID {
			items = append(items, *stored)
		}
	}
	return items, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	channels map[common.UUID]*chat.Channel
	messages map[common.UUID][]chat.Message
	lastRead map[string]time.Time

	failCreates int
	failCounts  bool
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		channels: make(map[common.UUID]*chat.Channel),
		messages: make(map[common.UUID][]chat.Message),
		lastRead: make(map[string]time.Time),
	}
}

func readKey(channelID, participantID common.UUID) string {
	return channelID.String() + ":" + participantID.String()
}

func (r *fakeChatRepo) CreateChannel(ctx context.Context, ch chat.Channel) (*chat.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreates > 0 {
		r.failCreates--
		return nil, common.NewError(common.CodeUnavailable, "chat store unavailable", nil)
	}
	ch.ID = common.NewUUID()
	ch.CreatedAt = time.Now().UTC()
	stored := ch
	r.channels[ch.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeChatRepo) GetChannel(ctx context.Context, id common.UUID) (*chat.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.channels[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "chat is no longer available", nil)
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeChatRepo) AppendMessage(ctx context.Context, msg chat.Message) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = common.NewUUID()
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	r.messages[msg.ChannelID] = append(r.messages[msg.ChannelID], msg)
	return &msg, nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, channelID common.UUID, limit, offset int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[channelID]
	if offset >= len(msgs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(msgs) {
		end = len(msgs)
	}
	out := make([]chat.Message, end-offset)
	copy(out, msgs[offset:end])
	return out, nil
}

// SetLastRead keeps the cursor monotonic, like GREATEST in the SQL upsert.
func (r *fakeChatRepo) SetLastRead(ctx context.Context, channelID, participantID common.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := readKey(channelID, participantID)
	if existing, ok := r.lastRead[key]; ok && existing.After(at) {
		return nil
	}
	r.lastRead[key] = at
	return nil
}

func (r *fakeChatRepo) GetLastRead(ctx context.Context, channelID, participantID common.UUID) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRead[readKey(channelID, participantID)], nil
}

func (r *fakeChatRepo) CountUnread(ctx context.Context, channelID, participantID common.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCounts {
		return 0, common.NewError(common.CodeInternal, "unread query failed", nil)
	}
	cursor := r.lastRead[readKey(channelID, participantID)]
	count := 0
	for _, msg := range r.messages[channelID] {
		if msg.SenderID != participantID && msg.SentAt.After(cursor) {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[common.UUID]*user.User)}
}

func (r *fakeUserRepo) add(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := u
	r.byID[u.ID] = &stored
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copied := *stored
	return &copied, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []chat.Event
	fail   bool
}

func (p *fakePublisher) Publish(ctx context.Context, ev chat.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return context.DeadlineExceeded
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) published() []chat.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]chat.Event, len(p.events))
	copy(out, p.events)
	return out
}
