package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// ScoreRepo persists the per-candidate score record. A candidate has at most
// one row per job; stage agents fill in matcher, interview and final scores
// as the pipeline advances.
type ScoreRepo struct{ Pool PgxPool }

// NewScoreRepo constructs a ScoreRepo with the given pool.
func NewScoreRepo(p PgxPool) *ScoreRepo { return &ScoreRepo{Pool: p} }

// Create inserts a score row for a candidate and returns its id. Stage
// results are filled in later by the Set methods.
func (r *ScoreRepo) Create(ctx domain.Context, s domain.Score) (string, error) {
	tracer := otel.Tracer("repo.scores")
	ctx, span := tracer.Start(ctx, "scores.Create")
	defer span.End()
	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	q := `INSERT INTO scores (id, candidate_id, job_id, created_at, updated_at) VALUES ($1,$2,$3,$4,$4)`
	if _, err := r.Pool.Exec(ctx, q, id, s.CandidateID, s.JobID, now); err != nil {
		return "", fmt.Errorf("op=score.create: %w", err)
	}
	return id, nil
}

// GetByCandidate loads the score row for a candidate.
func (r *ScoreRepo) GetByCandidate(ctx domain.Context, candidateID string) (domain.Score, error) {
	tracer := otel.Tracer("repo.scores")
	ctx, span := tracer.Start(ctx, "scores.GetByCandidate")
	defer span.End()
	q := `SELECT id, candidate_id, job_id, matcher_score, interview_score, final_score, breakdown, interview_summary, created_at, updated_at
	FROM scores WHERE candidate_id=$1`
	row := r.Pool.QueryRow(ctx, q, candidateID)
	s, err := scanScore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Score{}, fmt.Errorf("op=score.get_by_candidate: %w", domain.ErrNotFound)
		}
		return domain.Score{}, fmt.Errorf("op=score.get_by_candidate: %w", err)
	}
	return s, nil
}

// SetMatcherScore records the matcher stage result and its breakdown.
func (r *ScoreRepo) SetMatcherScore(ctx domain.Context, candidateID string, score float64, breakdown domain.ScoreBreakdown) error {
	tracer := otel.Tracer("repo.scores")
	ctx, span := tracer.Start(ctx, "scores.SetMatcherScore")
	defer span.End()
	b, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("op=score.set_matcher: %w", err)
	}
	q := `UPDATE scores SET matcher_score=$2, breakdown=$3, updated_at=$4 WHERE candidate_id=$1`
	if _, err := r.Pool.Exec(ctx, q, candidateID, score, b, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=score.set_matcher: %w", err)
	}
	return nil
}

// SetInterviewResult records the interview score and its transcript summary.
func (r *ScoreRepo) SetInterviewResult(ctx domain.Context, candidateID string, summary domain.InterviewSummary) error {
	tracer := otel.Tracer("repo.scores")
	ctx, span := tracer.Start(ctx, "scores.SetInterviewResult")
	defer span.End()
	b, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("op=score.set_interview: %w", err)
	}
	q := `UPDATE scores SET interview_score=$2, interview_summary=$3, updated_at=$4 WHERE candidate_id=$1`
	if _, err := r.Pool.Exec(ctx, q, candidateID, summary.OverallScore, b, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=score.set_interview: %w", err)
	}
	return nil
}

// SetFinalScore records the combined final score.
func (r *ScoreRepo) SetFinalScore(ctx domain.Context, candidateID string, score float64) error {
	tracer := otel.Tracer("repo.scores")
	ctx, span := tracer.Start(ctx, "scores.SetFinalScore")
	defer span.End()
	q := `UPDATE scores SET final_score=$2, updated_at=$3 WHERE candidate_id=$1`
	if _, err := r.Pool.Exec(ctx, q, candidateID, score, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=score.set_final: %w", err)
	}
	return nil
}

// ListByJob returns a job's score rows ranked by final score, highest first.
// Rows without a final score sort last.
func (r *ScoreRepo) ListByJob(ctx domain.Context, jobID string, skip, limit int) ([]domain.Score, error) {
	tracer := otel.Tracer("repo.scores")
	ctx, span := tracer.Start(ctx, "scores.ListByJob")
	defer span.End()
	q := `SELECT id, candidate_id, job_id, matcher_score, interview_score, final_score, breakdown, interview_summary, created_at, updated_at
	FROM scores WHERE job_id=$1 ORDER BY final_score DESC NULLS LAST OFFSET $2 LIMIT $3`
	rows, err := r.Pool.Query(ctx, q, jobID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("op=score.list_by_job: %w", err)
	}
	defer rows.Close()
	var out []domain.Score
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("op=score.list_by_job: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanScore(row pgx.Row) (domain.Score, error) {
	var s domain.Score
	var breakdown, summary []byte
	if err := row.Scan(&s.ID, &s.CandidateID, &s.JobID, &s.MatcherScore, &s.InterviewScore, &s.FinalScore, &breakdown, &summary, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.Score{}, err
	}
	if len(breakdown) > 0 {
		var b domain.ScoreBreakdown
		if err := json.Unmarshal(breakdown, &b); err != nil {
			return domain.Score{}, err
		}
		s.Breakdown = &b
	}
	if len(summary) > 0 {
		var is domain.InterviewSummary
		if err := json.Unmarshal(summary, &is); err != nil {
			return domain.Score{}, err
		}
		s.InterviewSummary = &is
	}
	return s, nil
}
