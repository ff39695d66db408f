package job

import (
	"context"

	"jobportal/internal/common"
)

type Repository interface {
	Create(ctx context.Context, j Job) (*Job, error)
	Update(ctx context.Context, j Job) (*Job, error)
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	ListOpen(ctx context.Context, limit, offset int) ([]Job, error)
	ListByProvider(ctx context.Context, providerID common.UUID) ([]Job, error)
}
