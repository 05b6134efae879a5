package agent

import (
	"fmt"
	"log/slog"

	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/observability"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// Scoring combines the matcher and interview scores into the final composite
// score. It makes no model call.
type Scoring struct {
	Base
	Jobs   domain.JobRepository
	Scores domain.ScoreRepository

	// DefaultWeights applies when a job defines no weights of its own.
	DefaultWeights map[string]float64
}

// NewScoring constructs the final scoring agent.
func NewScoring(audit domain.AuditRepository, jobs domain.JobRepository, scores domain.ScoreRepository, defaultWeights map[string]float64) *Scoring {
	if len(defaultWeights) == 0 {
		defaultWeights = domain.DefaultFinalWeights()
	}
	return &Scoring{
		Base:           Base{Name: "FinalScoringAgent", Audit: audit},
		Jobs:           jobs,
		Scores:         scores,
		DefaultWeights: defaultWeights,
	}
}

// FinalResult reports the composite score and the weights actually applied.
type FinalResult struct {
	CandidateID    string             `json:"candidate_id"`
	JobID          string             `json:"job_id"`
	MatcherScore   float64            `json:"matcher_score"`
	InterviewScore float64            `json:"interview_score"`
	FinalScore     float64            `json:"final_score"`
	WeightsUsed    map[string]float64 `json:"weights_used"`
}

// CalculateFinalScore reads the persisted score record and folds the matcher
// and interview scores together under the job's weights. The matcher score
// carries both the skills and experience weights because its experience
// sub-score is already folded in; the formula is kept for behavioral parity
// with historical score data.
func (a *Scoring) CalculateFinalScore(ctx domain.Context, traceID, candidateID, jobID string) (FinalResult, error) {
	record, err := a.Scores.GetByCandidate(ctx, candidateID)
	if err != nil {
		return FinalResult{}, fmt.Errorf("op=scoring.final: %w", err)
	}
	job, err := a.Jobs.Get(ctx, jobID)
	if err != nil {
		return FinalResult{}, fmt.Errorf("op=scoring.final: %w", err)
	}

	weights := job.Criteria.Weights
	if len(weights) == 0 {
		weights = a.DefaultWeights
	}

	var matcherScore, interviewScore float64
	if record.MatcherScore != nil {
		matcherScore = *record.MatcherScore
	}
	if record.InterviewScore != nil {
		interviewScore = *record.InterviewScore
	}

	finalScore := clamp01(
		matcherScore*weightOr(weights, domain.WeightSkills, 0.5) +
			matcherScore*weightOr(weights, domain.WeightExperience, 0.0) +
			interviewScore*weightOr(weights, domain.WeightInterview, 0.2))

	if err := a.Scores.SetFinalScore(ctx, candidateID, finalScore); err != nil {
		return FinalResult{}, fmt.Errorf("op=scoring.final: %w", err)
	}
	observability.FinalScoreHistogram.Observe(finalScore)

	result := FinalResult{
		CandidateID:    candidateID,
		JobID:          jobID,
		MatcherScore:   matcherScore,
		InterviewScore: interviewScore,
		FinalScore:     finalScore,
		WeightsUsed:    weights,
	}
	slog.Info("final score calculated",
		slog.String("trace_id", traceID),
		slog.String("candidate_id", candidateID),
		slog.Float64("final_score", finalScore))
	a.logActivity(ctx, activity{
		traceID:     traceID,
		candidateID: candidateID,
		jobID:       jobID,
		prompt:      fmt.Sprintf("Calculating final score for candidate %s", candidateID),
		response:    fmt.Sprintf("Final score: %.4f", finalScore),
	})
	return result, nil
}
