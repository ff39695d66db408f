package application

import (
	"context"

	"jobportal/internal/common"
	"jobportal/internal/domain/user"
)

// Repository is the single source of truth for application records. All
// status mutations are conditional updates keyed on the current status so
// that concurrent actors are serialized by the store, not by the process.
type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByJobAndSeeker(ctx context.Context, jobID, seekerID common.UUID) (*Application, error)
	ListBySeeker(ctx context.Context, seekerID common.UUID) ([]Application, error)
	ListByProvider(ctx context.Context, providerID common.UUID) ([]Application, error)
	ListAll(ctx context.Context) ([]Application, error)

	// UpdateStatus performs a compare-and-set: the row moves from → to only
	// if its status still equals from. A lost race yields a conflict error.
	UpdateStatus(ctx context.Context, id common.UUID, from, to Status) (*Application, error)

	// AttachChat binds a chat channel id to the application only while
	// chat_id is still NULL. A lost race yields a conflict error; chat_id is
	// never overwritten or cleared.
	AttachChat(ctx context.Context, id common.UUID, chatID common.UUID) error

	// SetHidden flips the hidden flag for exactly one role. Idempotent.
	SetHidden(ctx context.Context, id common.UUID, role user.Role) error

	Delete(ctx context.Context, id common.UUID) error
}
