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

// SessionRepo persists adaptive interview sessions. The Q&A transcript and
// the context map live in JSONB columns; AppendAnswer mutates the transcript
// and the question index in one statement so the session invariant holds
// even under a crashed caller.
type SessionRepo struct{ Pool PgxPool }

// NewSessionRepo constructs a SessionRepo with the given pool.
func NewSessionRepo(p PgxPool) *SessionRepo { return &SessionRepo{Pool: p} }

// Create inserts a new active session and returns its id.
func (r *SessionRepo) Create(ctx domain.Context, s domain.InterviewSession) (string, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Create")
	defer span.End()
	id := s.ID
	if id == "" {
		id = uuid.New().String()
	}
	sessionCtx := s.Context
	if sessionCtx == nil {
		sessionCtx = map[string]string{}
	}
	ctxJSON, err := json.Marshal(sessionCtx)
	if err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	now := time.Now().UTC()
	q := `INSERT INTO interview_sessions (id, candidate_id, job_id, max_questions, status, current_question_index, questions_and_answers, context, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,0,'[]'::jsonb,$6,$7,$8)`
	if _, err := r.Pool.Exec(ctx, q, id, s.CandidateID, s.JobID, s.MaxQuestions, domain.SessionActive, ctxJSON, now, now); err != nil {
		return "", fmt.Errorf("op=session.create: %w", err)
	}
	return id, nil
}

// Get loads a session by id.
func (r *SessionRepo) Get(ctx domain.Context, id string) (domain.InterviewSession, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Get")
	defer span.End()
	q := `SELECT id, candidate_id, job_id, max_questions, status, current_question_index, questions_and_answers, context, overall_score, COALESCE(overall_assessment,''), created_at, updated_at, completed_at
	FROM interview_sessions WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var s domain.InterviewSession
	var qa, sessionCtx []byte
	if err := row.Scan(&s.ID, &s.CandidateID, &s.JobID, &s.MaxQuestions, &s.Status, &s.CurrentQuestionIndex, &qa, &sessionCtx, &s.OverallScore, &s.OverallAssessment, &s.CreatedAt, &s.UpdatedAt, &s.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.InterviewSession{}, fmt.Errorf("op=session.get: %w", domain.ErrNotFound)
		}
		return domain.InterviewSession{}, fmt.Errorf("op=session.get: %w", err)
	}
	if err := json.Unmarshal(qa, &s.QuestionsAndAnswers); err != nil {
		return domain.InterviewSession{}, fmt.Errorf("op=session.get: %w", err)
	}
	if err := json.Unmarshal(sessionCtx, &s.Context); err != nil {
		return domain.InterviewSession{}, fmt.Errorf("op=session.get: %w", err)
	}
	return s, nil
}

// UpdateContext replaces the session context map.
func (r *SessionRepo) UpdateContext(ctx domain.Context, id string, sessionCtx map[string]string) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.UpdateContext")
	defer span.End()
	b, err := json.Marshal(sessionCtx)
	if err != nil {
		return fmt.Errorf("op=session.update_context: %w", err)
	}
	q := `UPDATE interview_sessions SET context=$2, updated_at=$3 WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, b, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=session.update_context: %w", err)
	}
	return nil
}

// AppendAnswer appends one Q&A turn and increments the question index in a
// single statement.
func (r *SessionRepo) AppendAnswer(ctx domain.Context, id string, qa domain.QuestionAnswer) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.AppendAnswer")
	defer span.End()
	b, err := json.Marshal(qa)
	if err != nil {
		return fmt.Errorf("op=session.append_answer: %w", err)
	}
	q := `UPDATE interview_sessions
	SET questions_and_answers = questions_and_answers || $2::jsonb,
	    current_question_index = current_question_index + 1,
	    updated_at = $3
	WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, b, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=session.append_answer: %w", err)
	}
	return nil
}

// Complete marks the session completed with its overall evaluation.
func (r *SessionRepo) Complete(ctx domain.Context, id string, overallScore float64, assessment string) error {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.Complete")
	defer span.End()
	now := time.Now().UTC()
	q := `UPDATE interview_sessions SET status=$2, overall_score=$3, overall_assessment=$4, completed_at=$5, updated_at=$5 WHERE id=$1`
	if _, err := r.Pool.Exec(ctx, q, id, domain.SessionCompleted, overallScore, assessment, now); err != nil {
		return fmt.Errorf("op=session.complete: %w", err)
	}
	return nil
}

// ListByCandidate returns a candidate's sessions, newest first.
func (r *SessionRepo) ListByCandidate(ctx domain.Context, candidateID string, skip, limit int) ([]domain.InterviewSession, error) {
	tracer := otel.Tracer("repo.sessions")
	ctx, span := tracer.Start(ctx, "sessions.ListByCandidate")
	defer span.End()
	q := `SELECT id, candidate_id, job_id, max_questions, status, current_question_index, questions_and_answers, context, overall_score, COALESCE(overall_assessment,''), created_at, updated_at, completed_at
	FROM interview_sessions WHERE candidate_id=$1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`
	rows, err := r.Pool.Query(ctx, q, candidateID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("op=session.list_by_candidate: %w", err)
	}
	defer rows.Close()
	var out []domain.InterviewSession
	for rows.Next() {
		var s domain.InterviewSession
		var qa, sessionCtx []byte
		if err := rows.Scan(&s.ID, &s.CandidateID, &s.JobID, &s.MaxQuestions, &s.Status, &s.CurrentQuestionIndex, &qa, &sessionCtx, &s.OverallScore, &s.OverallAssessment, &s.CreatedAt, &s.UpdatedAt, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("op=session.list_by_candidate: %w", err)
		}
		if err := json.Unmarshal(qa, &s.QuestionsAndAnswers); err != nil {
			return nil, fmt.Errorf("op=session.list_by_candidate: %w", err)
		}
		if err := json.Unmarshal(sessionCtx, &s.Context); err != nil {
			return nil, fmt.Errorf("op=session.list_by_candidate: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
