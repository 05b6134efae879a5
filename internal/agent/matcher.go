package agent

import (
	"fmt"
	"log/slog"

	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/observability"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/pkg/jsonx"
)

// Matcher scores a parsed candidate profile against job criteria.
type Matcher struct {
	Base
	Candidates domain.CandidateRepository
	Jobs       domain.JobRepository
	Scores     domain.ScoreRepository

	// DefaultWeights applies when a job defines no weights of its own.
	DefaultWeights map[string]float64
}

// NewMatcher constructs the matcher agent.
func NewMatcher(model domain.ModelClient, audit domain.AuditRepository, candidates domain.CandidateRepository, jobs domain.JobRepository, scores domain.ScoreRepository, defaultWeights map[string]float64) *Matcher {
	if len(defaultWeights) == 0 {
		defaultWeights = domain.DefaultMatcherWeights()
	}
	return &Matcher{
		Base:           Base{Name: "ResumeMatcherAgent", Model: model, Audit: audit},
		Candidates:     candidates,
		Jobs:           jobs,
		Scores:         scores,
		DefaultWeights: defaultWeights,
	}
}

type rawMatch struct {
	SkillsMatchScore     flexFloat `json:"skills_match_score"`
	ExperienceMatchScore flexFloat `json:"experience_match_score"`
	SkillsAnalysis       string    `json:"skills_analysis"`
	ExperienceAnalysis   string    `json:"experience_analysis"`
	OverallAssessment    string    `json:"overall_assessment"`
	Strengths            []string  `json:"strengths"`
	Gaps                 []string  `json:"gaps"`
}

func fallbackMatch() rawMatch {
	return rawMatch{
		SkillsMatchScore:     0.5,
		ExperienceMatchScore: 0.5,
		SkillsAnalysis:       "Error parsing analysis",
		ExperienceAnalysis:   "Error parsing analysis",
		OverallAssessment:    "Analysis failed",
		Strengths:            []string{},
		Gaps:                 []string{},
	}
}

// MatchResult is the matcher stage output.
type MatchResult struct {
	MatcherScore float64
	Breakdown    domain.ScoreBreakdown
	Report       domain.MatchReport
	Defaulted    bool
}

// MatchCandidate compares the candidate's profile to the job, computes the
// weighted matcher score, and persists it with its breakdown. The candidate
// must have been parsed first.
func (m *Matcher) MatchCandidate(ctx domain.Context, traceID, candidateID, jobID string) (MatchResult, error) {
	cand, err := m.Candidates.Get(ctx, candidateID)
	if err != nil {
		return MatchResult{}, fmt.Errorf("op=matcher.match: %w", err)
	}
	job, err := m.Jobs.Get(ctx, jobID)
	if err != nil {
		return MatchResult{}, fmt.Errorf("op=matcher.match: %w", err)
	}
	var profile domain.CandidateProfile
	if cand.Profile != nil {
		profile = *cand.Profile
	}

	prompt := matchingPrompt(profile, job)
	a := activity{traceID: traceID, candidateID: candidateID, jobID: jobID, prompt: prompt}
	m.logActivity(ctx, a)

	resp, err := m.Model.Generate(ctx, prompt, maxTokensMatch)
	if err != nil {
		a.err = err.Error()
		m.logActivity(ctx, a)
		return MatchResult{}, fmt.Errorf("op=matcher.match: %w", err)
	}

	parsed := jsonx.Decode(resp, fallbackMatch())
	if parsed.Defaulted {
		slog.Warn("match analysis defaulted",
			slog.String("trace_id", traceID),
			slog.String("candidate_id", candidateID),
			slog.String("reason", parsed.Reason))
	}
	raw := parsed.Value

	weights := job.Criteria.Weights
	if len(weights) == 0 {
		weights = m.DefaultWeights
	}
	skillsScore := clamp01(float64(raw.SkillsMatchScore))
	expScore := clamp01(float64(raw.ExperienceMatchScore))
	score := clamp01(skillsScore*weightOr(weights, domain.WeightSkills, 0.7) +
		expScore*weightOr(weights, domain.WeightExperience, 0.3))

	breakdown := domain.ScoreBreakdown{SkillsMatch: skillsScore, ExpMatch: expScore}
	if err := m.Scores.SetMatcherScore(ctx, candidateID, score, breakdown); err != nil {
		a.err = err.Error()
		m.logActivity(ctx, a)
		return MatchResult{}, fmt.Errorf("op=matcher.match: %w", err)
	}
	observability.MatcherScoreHistogram.Observe(score)

	result := MatchResult{
		MatcherScore: score,
		Breakdown:    breakdown,
		Report: domain.MatchReport{
			SkillsMatchScore:     skillsScore,
			ExperienceMatchScore: expScore,
			SkillsAnalysis:       raw.SkillsAnalysis,
			ExperienceAnalysis:   raw.ExperienceAnalysis,
			OverallAssessment:    raw.OverallAssessment,
			Strengths:            raw.Strengths,
			Gaps:                 raw.Gaps,
		},
		Defaulted: parsed.Defaulted,
	}

	a.prompt = ""
	a.response = fmt.Sprintf("matcher_score=%.3f skills=%.3f experience=%.3f", score, skillsScore, expScore)
	m.logActivity(ctx, a)
	return result, nil
}
