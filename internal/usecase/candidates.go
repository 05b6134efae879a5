package usecase

import (
	"fmt"
	"strings"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// CandidateService registers candidates and serves their records.
type CandidateService struct {
	Candidates domain.CandidateRepository
	Jobs       domain.JobRepository
	Scores     domain.ScoreRepository
}

// Register creates a candidate for a job together with its empty score row.
// The resume URI points at the stored upload; the pipeline fills in the rest.
func (s *CandidateService) Register(ctx domain.Context, jobID, email, resumeURI string) (domain.Candidate, error) {
	if strings.TrimSpace(jobID) == "" {
		return domain.Candidate{}, fmt.Errorf("%w: job_id is required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(resumeURI) == "" {
		return domain.Candidate{}, fmt.Errorf("%w: resume file is required", domain.ErrInvalidArgument)
	}
	if _, err := s.Jobs.Get(ctx, jobID); err != nil {
		return domain.Candidate{}, fmt.Errorf("op=candidate.register: %w", err)
	}

	id, err := s.Candidates.Create(ctx, domain.Candidate{
		JobID:     jobID,
		Email:     strings.TrimSpace(email),
		ResumeURI: resumeURI,
		Status:    domain.CandidateUploaded,
	})
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("op=candidate.register: %w", err)
	}
	if _, err := s.Scores.Create(ctx, domain.Score{CandidateID: id, JobID: jobID}); err != nil {
		return domain.Candidate{}, fmt.Errorf("op=candidate.register: %w", err)
	}
	return s.Candidates.Get(ctx, id)
}

// Get returns one candidate.
func (s *CandidateService) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Candidate{}, fmt.Errorf("%w: candidate id is required", domain.ErrInvalidArgument)
	}
	return s.Candidates.Get(ctx, id)
}

// ListByJob returns a job's candidates, newest first.
func (s *CandidateService) ListByJob(ctx domain.Context, jobID string, skip, limit int) ([]domain.Candidate, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("%w: job id is required", domain.ErrInvalidArgument)
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.Candidates.ListByJob(ctx, jobID, skip, limit)
}
