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

// CandidateRepo persists candidates and their parsed profiles.
type CandidateRepo struct{ Pool PgxPool }

// NewCandidateRepo constructs a CandidateRepo with the given pool.
func NewCandidateRepo(p PgxPool) *CandidateRepo { return &CandidateRepo{Pool: p} }

// Create inserts a new candidate and returns its id.
func (r *CandidateRepo) Create(ctx domain.Context, c domain.Candidate) (string, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.Create")
	defer span.End()
	id := c.ID
	if id == "" {
		id = uuid.New().String()
	}
	status := c.Status
	if status == "" {
		status = domain.CandidateUploaded
	}
	q := `INSERT INTO candidates (id, job_id, email, resume_uri, status, profile, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,NULL,$6,$7)`
	now := time.Now().UTC()
	_, err := r.Pool.Exec(ctx, q, id, c.JobID, c.Email, c.ResumeURI, status, now, now)
	if err != nil {
		return "", fmt.Errorf("op=candidate.create: %w", err)
	}
	return id, nil
}

// Get loads a candidate by id.
func (r *CandidateRepo) Get(ctx domain.Context, id string) (domain.Candidate, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.Get")
	defer span.End()
	q := `SELECT id, job_id, COALESCE(email,''), COALESCE(resume_uri,''), status, profile, created_at, updated_at FROM candidates WHERE id=$1`
	c, err := scanCandidate(r.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Candidate{}, fmt.Errorf("op=candidate.get: %w", domain.ErrNotFound)
		}
		return domain.Candidate{}, fmt.Errorf("op=candidate.get: %w", err)
	}
	return c, nil
}

// ListByJob returns candidates for a job, newest first.
func (r *CandidateRepo) ListByJob(ctx domain.Context, jobID string, skip, limit int) ([]domain.Candidate, error) {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.ListByJob")
	defer span.End()
	q := `SELECT id, job_id, COALESCE(email,''), COALESCE(resume_uri,''), status, profile, created_at, updated_at FROM candidates WHERE job_id=$1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`
	rows, err := r.Pool.Query(ctx, q, jobID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("op=candidate.list_by_job: %w", err)
	}
	defer rows.Close()
	var out []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("op=candidate.list_by_job: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateStatus advances a candidate's processing status.
func (r *CandidateRepo) UpdateStatus(ctx domain.Context, id, status string) error {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.UpdateStatus")
	defer span.End()
	q := `UPDATE candidates SET status=$2, updated_at=$3 WHERE id=$1`
	_, err := r.Pool.Exec(ctx, q, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=candidate.update_status: %w", err)
	}
	return nil
}

// SetProfile stores the parsed profile and marks the candidate parsed.
func (r *CandidateRepo) SetProfile(ctx domain.Context, id string, p domain.CandidateProfile) error {
	tracer := otel.Tracer("repo.candidates")
	ctx, span := tracer.Start(ctx, "candidates.SetProfile")
	defer span.End()
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("op=candidate.set_profile: %w", err)
	}
	q := `UPDATE candidates SET profile=$2, status=$3, updated_at=$4 WHERE id=$1`
	_, err = r.Pool.Exec(ctx, q, id, b, domain.CandidateParsed, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=candidate.set_profile: %w", err)
	}
	return nil
}

func scanCandidate(row pgx.Row) (domain.Candidate, error) {
	var c domain.Candidate
	var profile []byte
	if err := row.Scan(&c.ID, &c.JobID, &c.Email, &c.ResumeURI, &c.Status, &profile, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Candidate{}, err
	}
	if len(profile) > 0 {
		var p domain.CandidateProfile
		if err := json.Unmarshal(profile, &p); err != nil {
			return domain.Candidate{}, err
		}
		c.Profile = &p
	}
	return c, nil
}
