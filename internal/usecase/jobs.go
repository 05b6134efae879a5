package usecase

import (
	"fmt"
	"strings"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// JobService creates and serves job postings.
type JobService struct {
	Jobs domain.JobRepository
}

// Create validates and stores a job posting.
func (s *JobService) Create(ctx domain.Context, j domain.Job) (domain.Job, error) {
	if strings.TrimSpace(j.Title) == "" {
		return domain.Job{}, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(j.JDText) == "" {
		return domain.Job{}, fmt.Errorf("%w: jd_text is required", domain.ErrInvalidArgument)
	}
	if j.Criteria.ExpMin < 0 || j.Criteria.ExpMax < 0 {
		return domain.Job{}, fmt.Errorf("%w: experience bounds must be non-negative", domain.ErrInvalidArgument)
	}
	if j.Criteria.ExpMax > 0 && j.Criteria.ExpMin > j.Criteria.ExpMax {
		return domain.Job{}, fmt.Errorf("%w: exp_min exceeds exp_max", domain.ErrInvalidArgument)
	}
	for key, w := range j.Criteria.Weights {
		if w < 0 {
			return domain.Job{}, fmt.Errorf("%w: weight %q must be non-negative", domain.ErrInvalidArgument, key)
		}
	}

	id, err := s.Jobs.Create(ctx, j)
	if err != nil {
		return domain.Job{}, fmt.Errorf("op=job.create: %w", err)
	}
	return s.Jobs.Get(ctx, id)
}

// Get returns one job.
func (s *JobService) Get(ctx domain.Context, id string) (domain.Job, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Job{}, fmt.Errorf("%w: job id is required", domain.ErrInvalidArgument)
	}
	return s.Jobs.Get(ctx, id)
}

// List returns jobs, newest first.
func (s *JobService) List(ctx domain.Context, skip, limit int) ([]domain.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.Jobs.List(ctx, skip, limit)
}
