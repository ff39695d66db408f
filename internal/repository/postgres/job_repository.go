package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"jobportal/internal/common"
	"jobportal/internal/domain/job"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (id, provider_id, title, job_type, description, requirements, salary, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		j.ID, j.ProviderID, j.Title, j.Type, j.Description, pq.Array(j.Requirements), j.Salary, j.Location, j.Status, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	return &j, nil
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) (*job.Job, error) {
	j.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE jobs SET title = $1, job_type = $2, description = $3, requirements = $4, salary = $5, location = $6, status = $7, updated_at = $8
		WHERE id = $9 AND provider_id = $10`,
		j.Title, j.Type, j.Description, pq.Array(j.Requirements), j.Salary, j.Location, j.Status, j.UpdatedAt, j.ID, j.ProviderID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	if affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	return r.GetByID(ctx, j.ID)
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, provider_id, title, job_type, description, requirements, salary, location, status, created_at, updated_at
		FROM jobs WHERE id = $1`, id)
	var j job.Job
	if err := row.Scan(&j.ID, &j.ProviderID, &j.Title, &j.Type, &j.Description, pq.Array(&j.Requirements), &j.Salary, &j.Location, &j.Status, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return &j, nil
}

func (r *JobRepository) ListOpen(ctx context.Context, limit, offset int) ([]job.Job, error) {
	return r.list(ctx, `SELECT id, provider_id, title, job_type, description, requirements, salary, location, status, created_at, updated_at
		FROM jobs WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, job.StatusOpen, limit, offset)
}

func (r *JobRepository) ListByProvider(ctx context.Context, providerID common.UUID) ([]job.Job, error) {
	return r.list(ctx, `SELECT id, provider_id, title, job_type, description, requirements, salary, location, status, created_at, updated_at
		FROM jobs WHERE provider_id = $1 ORDER BY created_at DESC`, providerID)
}

func (r *JobRepository) list(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	defer rows.Close()
	var items []job.Job
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(&j.ID, &j.ProviderID, &j.Title, &j.Type, &j.Description, pq.Array(&j.Requirements), &j.Salary, &j.Location, &j.Status, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan job", err)
		}
		items = append(items, j)
	}
	return items, nil
}
