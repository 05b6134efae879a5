package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// AuditRepo stores one row per model call made by a stage agent. Prompts are
// truncated by the caller before insert.
type AuditRepo struct{ Pool PgxPool }

// NewAuditRepo constructs an AuditRepo with the given pool.
func NewAuditRepo(p PgxPool) *AuditRepo { return &AuditRepo{Pool: p} }

// Insert records a model interaction and returns the entry id.
func (r *AuditRepo) Insert(ctx domain.Context, e domain.AuditEntry) (string, error) {
	tracer := otel.Tracer("repo.audit")
	ctx, span := tracer.Start(ctx, "audit.Insert")
	defer span.End()
	id := e.ID
	if id == "" {
		id = uuid.New().String()
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	q := `INSERT INTO audit_log (id, trace_id, agent, prompt, response, error, candidate_id, job_id, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	if _, err := r.Pool.Exec(ctx, q, id, e.TraceID, e.Agent, e.Prompt, e.Response, e.Error, e.CandidateID, e.JobID, created); err != nil {
		return "", fmt.Errorf("op=audit.insert: %w", err)
	}
	return id, nil
}

// ListByTrace returns the audit entries for one pipeline run, oldest first.
func (r *AuditRepo) ListByTrace(ctx domain.Context, traceID string) ([]domain.AuditEntry, error) {
	tracer := otel.Tracer("repo.audit")
	ctx, span := tracer.Start(ctx, "audit.ListByTrace")
	defer span.End()
	q := `SELECT id, trace_id, agent, prompt, COALESCE(response,''), COALESCE(error,''), COALESCE(candidate_id,''), COALESCE(job_id,''), created_at
	FROM audit_log WHERE trace_id=$1 ORDER BY created_at ASC`
	return r.list(ctx, q, traceID)
}

// ListByCandidate returns audit entries touching a candidate, oldest first.
func (r *AuditRepo) ListByCandidate(ctx domain.Context, candidateID string, skip, limit int) ([]domain.AuditEntry, error) {
	tracer := otel.Tracer("repo.audit")
	ctx, span := tracer.Start(ctx, "audit.ListByCandidate")
	defer span.End()
	q := `SELECT id, trace_id, agent, prompt, COALESCE(response,''), COALESCE(error,''), COALESCE(candidate_id,''), COALESCE(job_id,''), created_at
	FROM audit_log WHERE candidate_id=$1 ORDER BY created_at ASC OFFSET $2 LIMIT $3`
	return r.list(ctx, q, candidateID, skip, limit)
}

func (r *AuditRepo) list(ctx domain.Context, q string, args ...any) ([]domain.AuditEntry, error) {
	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("op=audit.list: %w", err)
	}
	defer rows.Close()
	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.TraceID, &e.Agent, &e.Prompt, &e.Response, &e.Error, &e.CandidateID, &e.JobID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=audit.list: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
