// Package pipeline sequences the stage agents into one directed run:
// ingestion, parsing, matching, interview criteria generation, final
// scoring. The run carries a single State owned by exactly one goroutine;
// a stage failure abandons the rest of the run and the error is recorded
// against the trace.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/observability"
	"github.com/rakeshbhasyam/RecruitIQ/internal/agent"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// recommendationThreshold separates the two final-report recommendations.
const recommendationThreshold = 0.7

// State is the shared record threaded through one pipeline run. Each stage
// fills exactly its own slots; the zero slots of later stages stay empty
// when a run aborts early.
type State struct {
	TraceID     string
	CandidateID string
	JobID       string
	FileName    string
	FilePath    string

	ResumeText        string
	Profile           *domain.CandidateProfile
	Match             *agent.MatchResult
	InterviewCriteria []domain.InterviewCriterion
	FinalScore        *float64
	FinalReport       *Report
}

// Report is the unified result produced at the end of a successful run.
type Report struct {
	Candidate         string                      `json:"candidate"`
	Role              string                      `json:"role"`
	OverallMatchScore float64                     `json:"overall_match_score"`
	MatchAnalysis     *domain.MatchReport         `json:"match_analysis,omitempty"`
	InterviewCriteria []domain.InterviewCriterion `json:"interview_criteria,omitempty"`
	Recommendation    string                      `json:"recommendation"`
}

// Runner wires the five stage agents into the fixed linear flow.
type Runner struct {
	Ingestion *agent.Ingestion
	Parser    *agent.Parser
	Matcher   *agent.Matcher
	Interview *agent.Interview
	Scoring   *agent.Scoring

	Candidates domain.CandidateRepository
	Jobs       domain.JobRepository
	Audit      domain.AuditRepository

	// QuestionsPerCriterion controls how many sample questions the criteria
	// stage asks for per rubric row.
	QuestionsPerCriterion int
}

func (r *Runner) questionsPerCriterion() int {
	if r.QuestionsPerCriterion > 0 {
		return r.QuestionsPerCriterion
	}
	return 3
}

func (r *Runner) runStage(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	observability.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return err
}

// Process runs the full pipeline for one uploaded resume and returns the
// final state. Partial progress stays durable: an aborted run leaves the
// candidate in whatever state the last successful stage wrote, and a re-run
// overwrites it from the start.
func (r *Runner) Process(ctx domain.Context, candidateID, fileName, filePath string) (State, error) {
	state := State{
		TraceID:     uuid.New().String(),
		CandidateID: candidateID,
		FileName:    fileName,
		FilePath:    filePath,
	}

	cand, err := r.Candidates.Get(ctx, candidateID)
	if err != nil {
		return state, r.abort(ctx, state, "lookup", err)
	}
	state.JobID = cand.JobID

	slog.Info("pipeline run started",
		slog.String("trace_id", state.TraceID),
		slog.String("candidate_id", candidateID),
		slog.String("job_id", state.JobID))

	if err := r.runStage("ingest", func() error {
		text, err := r.Ingestion.ProcessResume(ctx, state.TraceID, candidateID, fileName, filePath)
		if err != nil {
			return err
		}
		state.ResumeText = text
		return nil
	}); err != nil {
		return state, r.abort(ctx, state, "ingest", err)
	}

	if err := r.runStage("parse", func() error {
		profile, err := r.Parser.ParseResume(ctx, state.TraceID, candidateID, state.ResumeText)
		if err != nil {
			return err
		}
		state.Profile = &profile
		return nil
	}); err != nil {
		return state, r.abort(ctx, state, "parse", err)
	}

	if err := r.runStage("match", func() error {
		match, err := r.Matcher.MatchCandidate(ctx, state.TraceID, candidateID, state.JobID)
		if err != nil {
			return err
		}
		state.Match = &match
		return nil
	}); err != nil {
		return state, r.abort(ctx, state, "match", err)
	}

	if err := r.runStage("criteria", func() error {
		criteria, err := r.Interview.GenerateCriteria(ctx, state.TraceID, candidateID, state.JobID, r.questionsPerCriterion())
		if err != nil {
			return err
		}
		state.InterviewCriteria = criteria
		return nil
	}); err != nil {
		return state, r.abort(ctx, state, "criteria", err)
	}

	if err := r.runStage("final_score", func() error {
		result, err := r.Scoring.CalculateFinalScore(ctx, state.TraceID, candidateID, state.JobID)
		if err != nil {
			return err
		}
		state.FinalScore = &result.FinalScore
		return nil
	}); err != nil {
		return state, r.abort(ctx, state, "final_score", err)
	}

	state.FinalReport = r.buildReport(ctx, state)
	observability.PipelineRunsTotal.WithLabelValues("ok").Inc()
	slog.Info("pipeline run completed",
		slog.String("trace_id", state.TraceID),
		slog.String("candidate_id", candidateID),
		slog.Float64("final_score", *state.FinalScore))
	return state, nil
}

func (r *Runner) buildReport(ctx domain.Context, state State) *Report {
	report := &Report{
		Candidate:         "N/A",
		Role:              "N/A",
		OverallMatchScore: *state.FinalScore,
		InterviewCriteria: state.InterviewCriteria,
	}
	if state.Profile != nil && state.Profile.Name != "" {
		report.Candidate = state.Profile.Name
	}
	if job, err := r.Jobs.Get(ctx, state.JobID); err == nil && job.Title != "" {
		report.Role = job.Title
	}
	if state.Match != nil {
		report.MatchAnalysis = &state.Match.Report
	}
	if *state.FinalScore > recommendationThreshold {
		report.Recommendation = "Strong candidate for technical interview"
	} else {
		report.Recommendation = "Further review recommended"
	}
	return report
}

func (r *Runner) abort(ctx domain.Context, state State, stage string, err error) error {
	observability.PipelineRunsTotal.WithLabelValues("error").Inc()
	slog.Error("pipeline run aborted",
		slog.String("trace_id", state.TraceID),
		slog.String("candidate_id", state.CandidateID),
		slog.String("stage", stage),
		slog.Any("error", err))
	if r.Audit != nil {
		if _, auditErr := r.Audit.Insert(ctx, domain.AuditEntry{
			TraceID:     state.TraceID,
			Agent:       "PipelineRunner",
			Prompt:      fmt.Sprintf("stage %s", stage),
			Error:       err.Error(),
			CandidateID: state.CandidateID,
			JobID:       state.JobID,
		}); auditErr != nil {
			slog.Warn("audit insert failed", slog.Any("error", auditErr))
		}
	}
	return fmt.Errorf("op=pipeline.%s: %w", stage, err)
}
