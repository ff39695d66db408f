package app

import (
	"context"
	"log/slog"

	"jobportal/internal/common"
	"jobportal/internal/domain/application"
	"jobportal/internal/domain/job"
	"jobportal/internal/domain/user"
)

type ApplicationService struct {
	repo   application.Repository
	jobs   job.Repository
	chats  *ChatService
	logger *slog.Logger
}

func NewApplicationService(repo application.Repository, jobs job.Repository, chats *ChatService, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{repo: repo, jobs: jobs, chats: chats, logger: logger}
}

// Apply creates a pending application for (job, seeker). Applying twice for
// the same job fails with a conflict; the first record stays untouched.
func (s *ApplicationService) Apply(ctx context.Context, jobID, seekerID common.UUID, message string) (*application.Application, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.Status != job.StatusOpen {
		return nil, common.NewError(common.CodeValidation, "job is not open for applications", nil)
	}
	if _, err := s.repo.FindByJobAndSeeker(ctx, jobID, seekerID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied for this job", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	app := application.Application{
		JobID:         jobID,
		SeekerID:      seekerID,
		ProviderID:    j.ProviderID,
		SeekerMessage: message,
		Status:        application.StatusPending,
	}
	created, err := s.repo.Create(ctx, app)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ProviderAccept moves the application along the provider's accept edge:
// pending → provider_accepted, seeker_accepted → both_accepted. Reaching
// both_accepted provisions the chat channel.
func (s *ApplicationService) ProviderAccept(ctx context.Context, applicationID, providerID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ProviderID != providerID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another provider", nil)
	}
	return s.transition(ctx, app, application.ActionProviderAccept)
}

// SeekerAccept is the seeker-side agreement: pending → seeker_accepted,
// provider_accepted → both_accepted.
func (s *ApplicationService) SeekerAccept(ctx context.Context, applicationID, seekerID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.SeekerID != seekerID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another seeker", nil)
	}
	return s.transition(ctx, app, application.ActionSeekerAccept)
}

// ProviderReject moves any non-terminal application to rejected.
func (s *ApplicationService) ProviderReject(ctx context.Context, applicationID, providerID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ProviderID != providerID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another provider", nil)
	}
	return s.transition(ctx, app, application.ActionProviderReject)
}

// transition runs the pure state machine and applies the result with a
// compare-and-set on the record. When the CAS loses to a concurrent actor,
// the record is re-fetched once and the action re-evaluated against the
// fresh status instead of being retried blindly.
func (s *ApplicationService) transition(ctx context.Context, app *application.Application, action application.Action) (*application.Application, error) {
	for attempt := 0; ; attempt++ {
		next, provisionChat, err := application.Transition(app.Status, action)
		if err != nil {
			return nil, err
		}
		updated, err := s.repo.UpdateStatus(ctx, app.ID, app.Status, next)
		if err != nil {
			if common.Is(err, common.CodeConflict) && attempt == 0 {
				fresh, ferr := s.repo.GetByID(ctx, app.ID)
				if ferr != nil {
					return nil, ferr
				}
				app = fresh
				continue
			}
			return nil, err
		}
		if provisionChat {
			chatID, err := s.chats.EnsureChannel(ctx, updated)
			if err != nil {
				return nil, err
			}
			updated.ChatID = &chatID
		}
		return updated, nil
	}
}

// Withdraw hard-deletes the seeker's application. Only legal before the
// application reaches a terminal state; finished applications are hidden,
// never deleted.
func (s *ApplicationService) Withdraw(ctx context.Context, applicationID, seekerID common.UUID) error {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.SeekerID != seekerID {
		return common.NewError(common.CodeForbidden, "application belongs to another seeker", nil)
	}
	if !application.CanWithdraw(app.Status) {
		return common.NewError(common.CodeValidation, "cannot withdraw after acceptance or rejection, hide it instead", nil)
	}
	return s.repo.Delete(ctx, applicationID)
}

// Hide soft-removes a finished application from one actor's list view. The
// other party's view and the underlying record are untouched. Idempotent.
func (s *ApplicationService) Hide(ctx context.Context, applicationID, actorID common.UUID, role user.Role) error {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	switch role {
	case user.RoleSeeker:
		if app.SeekerID != actorID {
			return common.NewError(common.CodeForbidden, "application belongs to another seeker", nil)
		}
	case user.RoleProvider:
		if app.ProviderID != actorID {
			return common.NewError(common.CodeForbidden, "application belongs to another provider", nil)
		}
	default:
		return common.NewError(common.CodeForbidden, "role cannot hide applications", nil)
	}
	if !application.CanHide(app.Status) {
		return common.NewError(common.CodeValidation, "only finished applications can be hidden", nil)
	}
	if app.HiddenFor(role) {
		return nil
	}
	return s.repo.SetHidden(ctx, applicationID, role)
}

// ListForSeeker returns the seeker's applications minus hidden ones.
func (s *ApplicationService) ListForSeeker(ctx context.Context, seekerID common.UUID) ([]application.Application, error) {
	items, err := s.repo.ListBySeeker(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	visible := filterVisible(items, user.RoleSeeker)
	for i := range visible {
		s.repairChat(ctx, &visible[i])
	}
	return visible, nil
}

// ListForProvider returns applications to the provider's jobs minus hidden ones.
func (s *ApplicationService) ListForProvider(ctx context.Context, providerID common.UUID) ([]application.Application, error) {
	items, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	visible := filterVisible(items, user.RoleProvider)
	for i := range visible {
		s.repairChat(ctx, &visible[i])
	}
	return visible, nil
}

// ListAll is the admin view: no visibility filtering.
func (s *ApplicationService) ListAll(ctx context.Context) ([]application.Application, error) {
	return s.repo.ListAll(ctx)
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.repairChat(ctx, app)
	return app, nil
}

// repairChat provisions the channel for a mutually accepted record that lost
// it to an earlier provisioning failure. Reads are the retry path: the
// accept action cannot run again once the status is terminal. Failure here
// leaves the record readable; the next read retries.
func (s *ApplicationService) repairChat(ctx context.Context, app *application.Application) {
	if app.Status != application.StatusBothAccepted || app.ChatID != nil {
		return
	}
	chatID, err := s.chats.EnsureChannel(ctx, app)
	if err != nil {
		s.logger.Warn("chat provisioning retry failed", "application_id", app.ID.String(), "err", err)
		return
	}
	app.ChatID = &chatID
}

func filterVisible(items []application.Application, role user.Role) []application.Application {
	visible := make([]application.Application, 0, len(items))
	for _, item := range items {
		if !item.HiddenFor(role) {
			visible = append(visible, item)
		}
	}
	return visible
}
