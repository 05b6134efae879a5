package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rakeshbhasyam/RecruitIQ/internal/agent"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// InterviewService exposes the batch interview flow: generate all questions
// up front, then evaluate a full answer sheet in one call. The adaptive
// turn-by-turn flow lives in SessionService.
type InterviewService struct {
	Interview *agent.Interview
	Scoring   *agent.Scoring

	DefaultNumQuestions int
}

// QuestionSet is the batch question-generation result.
type QuestionSet struct {
	TraceID     string   `json:"trace_id"`
	CandidateID string   `json:"candidate_id"`
	JobID       string   `json:"job_id"`
	Questions   []string `json:"questions"`
}

// SubmissionResult is the batch evaluation result, including the recomputed
// final score.
type SubmissionResult struct {
	TraceID   string                  `json:"trace_id"`
	Summary   domain.InterviewSummary `json:"interview_summary"`
	FinalUsed agent.FinalResult       `json:"final_scoring"`
}

// GenerateQuestions produces tailored interview questions for a candidate.
func (s *InterviewService) GenerateQuestions(ctx domain.Context, candidateID, jobID string, numQuestions int) (QuestionSet, error) {
	if strings.TrimSpace(candidateID) == "" || strings.TrimSpace(jobID) == "" {
		return QuestionSet{}, fmt.Errorf("%w: candidate_id and job_id are required", domain.ErrInvalidArgument)
	}
	if numQuestions <= 0 {
		numQuestions = s.DefaultNumQuestions
	}

	traceID := uuid.New().String()
	questions, err := s.Interview.GenerateQuestions(ctx, traceID, candidateID, jobID, numQuestions)
	if err != nil {
		return QuestionSet{}, fmt.Errorf("op=interview.generate: %w", err)
	}
	return QuestionSet{
		TraceID:     traceID,
		CandidateID: candidateID,
		JobID:       jobID,
		Questions:   questions,
	}, nil
}

// SubmitAnswers evaluates a full question/answer sheet, persists the
// interview summary, and recomputes the final score with the interview
// included.
func (s *InterviewService) SubmitAnswers(ctx domain.Context, candidateID, jobID string, qas []domain.QuestionAnswer) (SubmissionResult, error) {
	if strings.TrimSpace(candidateID) == "" || strings.TrimSpace(jobID) == "" {
		return SubmissionResult{}, fmt.Errorf("%w: candidate_id and job_id are required", domain.ErrInvalidArgument)
	}
	if len(qas) == 0 {
		return SubmissionResult{}, fmt.Errorf("%w: questions_and_answers must not be empty", domain.ErrInvalidArgument)
	}
	for i := range qas {
		if strings.TrimSpace(qas[i].Question) == "" || strings.TrimSpace(qas[i].Answer) == "" {
			return SubmissionResult{}, fmt.Errorf("%w: question and answer are required at index %d", domain.ErrInvalidArgument, i)
		}
		if qas[i].Timestamp.IsZero() {
			qas[i].Timestamp = time.Now().UTC()
		}
	}

	traceID := uuid.New().String()
	summary, err := s.Interview.EvaluateAnswers(ctx, traceID, candidateID, jobID, qas)
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("op=interview.submit: %w", err)
	}
	final, err := s.Scoring.CalculateFinalScore(ctx, traceID, candidateID, jobID)
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("op=interview.submit: %w", err)
	}
	return SubmissionResult{TraceID: traceID, Summary: summary, FinalUsed: final}, nil
}
