// Package usecase holds the application services the transport layer calls.
// Services validate input before touching the store or the model gateway and
// return domain sentinel errors the transport maps to status codes.
package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/observability"
	"github.com/rakeshbhasyam/RecruitIQ/internal/agent"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// SessionService drives the adaptive interview state machine. One session
// moves through active turns until max questions are answered, then an
// overall evaluation closes it and updates the candidate's score record.
//
// Callers must serialize turns per session id; concurrent turns against the
// same session are an external contract violation, not a handled case.
type SessionService struct {
	Sessions   domain.SessionRepository
	Candidates domain.CandidateRepository
	Jobs       domain.JobRepository
	Scores     domain.ScoreRepository
	Interview  *agent.Interview
	Scoring    *agent.Scoring

	DefaultMaxQuestions int
}

// StartSessionResult is the response to a session start: the created session
// id and its opening question.
type StartSessionResult struct {
	SessionID     string `json:"session_id"`
	Question      string `json:"question"`
	QuestionIndex int    `json:"question_index"`
	MaxQuestions  int    `json:"max_questions"`
}

// TurnResult is the response to one get-next-question turn.
type TurnResult struct {
	SessionID     string                 `json:"session_id"`
	Question      string                 `json:"question,omitempty"`
	QuestionIndex int                    `json:"question_index"`
	IsComplete    bool                   `json:"is_complete"`
	PreviousQA    *domain.QuestionAnswer `json:"previous_qa,omitempty"`
	OverallScore  *float64               `json:"overall_score,omitempty"`
	Assessment    string                 `json:"overall_assessment,omitempty"`
}

// StartSession creates a session, generates the opening question with no
// prior context, and stores it as pending. The opening question does not
// count toward the question index until it is answered.
func (s *SessionService) StartSession(ctx domain.Context, candidateID, jobID string, maxQuestions int) (StartSessionResult, error) {
	if strings.TrimSpace(candidateID) == "" || strings.TrimSpace(jobID) == "" {
		return StartSessionResult{}, fmt.Errorf("%w: candidate_id and job_id are required", domain.ErrInvalidArgument)
	}
	if _, err := s.Candidates.Get(ctx, candidateID); err != nil {
		return StartSessionResult{}, fmt.Errorf("op=session.start: %w", err)
	}
	if _, err := s.Jobs.Get(ctx, jobID); err != nil {
		return StartSessionResult{}, fmt.Errorf("op=session.start: %w", err)
	}
	if maxQuestions <= 0 {
		maxQuestions = s.DefaultMaxQuestions
	}

	id, err := s.Sessions.Create(ctx, domain.InterviewSession{
		CandidateID:  candidateID,
		JobID:        jobID,
		MaxQuestions: maxQuestions,
	})
	if err != nil {
		return StartSessionResult{}, fmt.Errorf("op=session.start: %w", err)
	}

	traceID := uuid.New().String()
	question, err := s.Interview.NextAdaptiveQuestion(ctx, traceID, candidateID, jobID, nil)
	if err != nil {
		return StartSessionResult{}, fmt.Errorf("op=session.start: %w", err)
	}
	if err := s.Sessions.UpdateContext(ctx, id, map[string]string{domain.SessionPendingQuestion: question}); err != nil {
		return StartSessionResult{}, fmt.Errorf("op=session.start: %w", err)
	}

	observability.InterviewSessionsStarted.Inc()
	return StartSessionResult{
		SessionID:     id,
		Question:      question,
		QuestionIndex: 0,
		MaxQuestions:  maxQuestions,
	}, nil
}

// NextQuestion advances the session one turn. With an answer it scores the
// pending question, appends the turn, and either generates the next question
// or, once max questions are answered, closes the session with an overall
// evaluation. Without an answer it re-serves the pending question.
//
// Each persistence write happens after its model call succeeds, so a model
// failure leaves the session in its last durable state and the turn can be
// retried.
func (s *SessionService) NextQuestion(ctx domain.Context, sessionID, answer string) (TurnResult, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("op=session.next: %w", err)
	}
	if session.Status == domain.SessionCompleted {
		return TurnResult{}, fmt.Errorf("op=session.next: %w", domain.ErrSessionCompleted)
	}

	traceID := uuid.New().String()
	pending := session.Context[domain.SessionPendingQuestion]
	var previous *domain.QuestionAnswer

	if strings.TrimSpace(answer) != "" {
		if pending == "" {
			return TurnResult{}, fmt.Errorf("%w: no pending question to answer", domain.ErrInvalidArgument)
		}
		score, explanation, err := s.Interview.EvaluateAnswer(ctx, traceID, session.CandidateID, session.JobID, session.QuestionsAndAnswers, pending, answer)
		if err != nil {
			return TurnResult{}, fmt.Errorf("op=session.next: %w", err)
		}
		qa := domain.QuestionAnswer{
			Question:    pending,
			Answer:      answer,
			Score:       &score,
			Explanation: explanation,
			Timestamp:   time.Now().UTC(),
		}
		if err := s.Sessions.AppendAnswer(ctx, sessionID, qa); err != nil {
			return TurnResult{}, fmt.Errorf("op=session.next: %w", err)
		}
		session.QuestionsAndAnswers = append(session.QuestionsAndAnswers, qa)
		session.CurrentQuestionIndex++
		pending = ""
		previous = &qa
		observability.InterviewTurnsTotal.Inc()
	}

	if session.CurrentQuestionIndex >= session.MaxQuestions {
		return s.complete(ctx, traceID, session, previous)
	}

	if pending == "" {
		question, err := s.Interview.NextAdaptiveQuestion(ctx, traceID, session.CandidateID, session.JobID, session.QuestionsAndAnswers)
		if err != nil {
			return TurnResult{}, fmt.Errorf("op=session.next: %w", err)
		}
		if err := s.Sessions.UpdateContext(ctx, sessionID, map[string]string{domain.SessionPendingQuestion: question}); err != nil {
			return TurnResult{}, fmt.Errorf("op=session.next: %w", err)
		}
		pending = question
	}

	return TurnResult{
		SessionID:     sessionID,
		Question:      pending,
		QuestionIndex: session.CurrentQuestionIndex,
		IsComplete:    false,
		PreviousQA:    previous,
	}, nil
}

func (s *SessionService) complete(ctx domain.Context, traceID string, session domain.InterviewSession, previous *domain.QuestionAnswer) (TurnResult, error) {
	overall, assessment, err := s.Interview.EvaluateTranscript(ctx, traceID, session.CandidateID, session.JobID, session.QuestionsAndAnswers)
	if err != nil {
		return TurnResult{}, fmt.Errorf("op=session.complete: %w", err)
	}
	if err := s.Sessions.Complete(ctx, session.ID, overall, assessment); err != nil {
		return TurnResult{}, fmt.Errorf("op=session.complete: %w", err)
	}
	if err := s.Sessions.UpdateContext(ctx, session.ID, map[string]string{}); err != nil {
		return TurnResult{}, fmt.Errorf("op=session.complete: %w", err)
	}

	summary := domain.InterviewSummary{
		Questions:    session.QuestionsAndAnswers,
		OverallScore: overall,
		Notes:        assessment,
	}
	if err := s.Scores.SetInterviewResult(ctx, session.CandidateID, summary); err != nil {
		return TurnResult{}, fmt.Errorf("op=session.complete: %w", err)
	}
	if s.Scoring != nil {
		if _, err := s.Scoring.CalculateFinalScore(ctx, traceID, session.CandidateID, session.JobID); err != nil {
			return TurnResult{}, fmt.Errorf("op=session.complete: %w", err)
		}
	}

	observability.InterviewSessionsCompleted.Inc()
	return TurnResult{
		SessionID:     session.ID,
		QuestionIndex: session.CurrentQuestionIndex,
		IsComplete:    true,
		PreviousQA:    previous,
		OverallScore:  &overall,
		Assessment:    assessment,
	}, nil
}

// GetSession returns the durable session state.
func (s *SessionService) GetSession(ctx domain.Context, sessionID string) (domain.InterviewSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.InterviewSession{}, fmt.Errorf("%w: session id is required", domain.ErrInvalidArgument)
	}
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.InterviewSession{}, fmt.Errorf("op=session.get: %w", err)
	}
	return session, nil
}

// ListByCandidate returns a candidate's sessions, newest first.
func (s *SessionService) ListByCandidate(ctx domain.Context, candidateID string, skip, limit int) ([]domain.InterviewSession, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, fmt.Errorf("%w: candidate id is required", domain.ErrInvalidArgument)
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.Sessions.ListByCandidate(ctx, candidateID, skip, limit)
}
