package usecase

import (
	"fmt"
	"strings"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// ScoreService serves score records and job rankings.
type ScoreService struct {
	Scores domain.ScoreRepository
}

// GetByCandidate returns a candidate's score record.
func (s *ScoreService) GetByCandidate(ctx domain.Context, candidateID string) (domain.Score, error) {
	if strings.TrimSpace(candidateID) == "" {
		return domain.Score{}, fmt.Errorf("%w: candidate id is required", domain.ErrInvalidArgument)
	}
	return s.Scores.GetByCandidate(ctx, candidateID)
}

// ListByJob returns a job's score records ranked by final score.
func (s *ScoreService) ListByJob(ctx domain.Context, jobID string, skip, limit int) ([]domain.Score, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("%w: job id is required", domain.ErrInvalidArgument)
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.Scores.ListByJob(ctx, jobID, skip, limit)
}
