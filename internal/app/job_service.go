package app

import (
	"context"

	"jobportal/internal/common"
	"jobportal/internal/domain/job"
)

type JobService struct {
	repo job.Repository
}

func NewJobService(repo job.Repository) *JobService {
	return &JobService{repo: repo}
}

func (s *JobService) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	if j.Title == "" {
		return nil, common.NewError(common.CodeValidation, "title is required", nil)
	}
	if j.Type == "" {
		return nil, common.NewError(common.CodeValidation, "type is required", nil)
	}
	if j.Salary == "" {
		return nil, common.NewError(common.CodeValidation, "salary is required", nil)
	}
	if j.Location == "" {
		return nil, common.NewError(common.CodeValidation, "location is required", nil)
	}
	if j.Status == "" {
		j.Status = job.StatusOpen
	}
	if j.Status != job.StatusOpen && j.Status != job.StatusClosed {
		return nil, common.NewError(common.CodeValidation, "invalid job status", nil)
	}
	return s.repo.Create(ctx, j)
}

func (s *JobService) Update(ctx context.Context, j job.Job, providerID common.UUID) (*job.Job, error) {
	existing, err := s.repo.GetByID(ctx, j.ID)
	if err != nil {
		return nil, err
	}
	if existing.ProviderID != providerID {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another provider", nil)
	}
	j.ProviderID = existing.ProviderID
	return s.repo.Update(ctx, j)
}

func (s *JobService) Close(ctx context.Context, id, providerID common.UUID) (*job.Job, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.ProviderID != providerID {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another provider", nil)
	}
	existing.Status = job.StatusClosed
	return s.repo.Update(ctx, *existing)
}

func (s *JobService) Get(ctx context.Context, id common.UUID) (*job.Job, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *JobService) ListOpen(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListOpen(ctx, limit, offset)
}

func (s *JobService) ListByProvider(ctx context.Context, providerID common.UUID) ([]job.Job, error) {
	return s.repo.ListByProvider(ctx, providerID)
}
