package user

import (
	"context"

	"jobportal/internal/common"
)

type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*User, error)
}
