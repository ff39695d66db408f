package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"jobportal/internal/common"
	"jobportal/internal/domain/application"
	"jobportal/internal/domain/user"
)

const uniqueViolation = "23505"

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, seeker_id, provider_id, seeker_message, status, seeker_hidden, provider_hidden, chat_id, created_at, updated_at`

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, job_id, seeker_id, provider_id, seeker_message, status, seeker_hidden, provider_hidden, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		app.ID, app.JobID, app.SeekerID, app.ProviderID, app.SeekerMessage, app.Status, app.SeekerHidden, app.ProviderHidden, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.NewError(common.CodeConflict, "already applied for this job", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) FindByJobAndSeeker(ctx context.Context, jobID, seekerID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 AND seeker_id = $2`, jobID, seekerID)
	return scanApplication(row)
}

func (r *ApplicationRepository) ListBySeeker(ctx context.Context, seekerID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE seeker_id = $1 ORDER BY created_at DESC`, seekerID)
}

func (r *ApplicationRepository) ListByProvider(ctx context.Context, providerID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE provider_id = $1 ORDER BY created_at DESC`, providerID)
}

func (r *ApplicationRepository) ListAll(ctx context.Context) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC`)
}

// UpdateStatus is the compare-and-set every transition goes through: the row
// is the lock. Zero rows affected means another actor moved the record
// first; the caller re-fetches and re-evaluates.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, from, to application.Status) (*application.Application, error) {
	updatedAt := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, updatedAt, id, from)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application status", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application status", err)
	}
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, common.NewError(common.CodeConflict, "application was modified by another actor", nil)
	}
	return r.GetByID(ctx, id)
}

// AttachChat binds the chat channel in a single atomic step guarded by
// chat_id IS NULL, so concurrent accepts can never attach two channels and
// a set chat_id is never cleared or replaced.
func (r *ApplicationRepository) AttachChat(ctx context.Context, id common.UUID, chatID common.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET chat_id = $1, updated_at = $2 WHERE id = $3 AND chat_id IS NULL`,
		chatID, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to attach chat", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to attach chat", err)
	}
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return common.NewError(common.CodeConflict, "chat already attached", nil)
	}
	return nil
}

func (r *ApplicationRepository) SetHidden(ctx context.Context, id common.UUID, role user.Role) error {
	var column string
	switch role {
	case user.RoleSeeker:
		column = "seeker_hidden"
	case user.RoleProvider:
		column = "provider_hidden"
	default:
		return common.NewError(common.CodeValidation, "role has no hidden flag", nil)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET `+column+` = TRUE, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to hide application", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to hide application", err)
	}
	if affected == 0 {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	if affected == 0 {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return nil
}

func (r *ApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		var app application.Application
		var chatID sql.NullString
		if err := rows.Scan(&app.ID, &app.JobID, &app.SeekerID, &app.ProviderID, &app.SeekerMessage, &app.Status,
			&app.SeekerHidden, &app.ProviderHidden, &chatID, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		app.ChatID = nullableUUID(chatID)
		items = append(items, app)
	}
	return items, nil
}

func scanApplication(row *sql.Row) (*application.Application, error) {
	var app application.Application
	var chatID sql.NullString
	if err := row.Scan(&app.ID, &app.JobID, &app.SeekerID, &app.ProviderID, &app.SeekerMessage, &app.Status,
		&app.SeekerHidden, &app.ProviderHidden, &chatID, &app.CreatedAt, &app.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	app.ChatID = nullableUUID(chatID)
	return &app, nil
}

func nullableUUID(value sql.NullString) *common.UUID {
	if !value.Valid {
		return nil
	}
	id := common.UUID(value.String)
	return &id
}
