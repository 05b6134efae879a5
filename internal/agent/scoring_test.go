package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

func scoringFixtures(matcherScore, interviewScore *float64) (*fakeJobs, *fakeScores) {
	jobs := newFakeJobs(domain.Job{ID: "j1", Title: "Backend Engineer"})
	scores := newFakeScores()
	scores.byCandidate["c1"] = domain.Score{
		CandidateID:    "c1",
		JobID:          "j1",
		MatcherScore:   matcherScore,
		InterviewScore: interviewScore,
	}
	return jobs, scores
}

func fptr(v float64) *float64 { return &v }

func TestCalculateFinalScore_DefaultWeights(t *testing.T) {
	t.Parallel()
	jobs, scores := scoringFixtures(fptr(0.77), nil)
	sc := NewScoring(&fakeAudit{}, jobs, scores, nil)

	result, err := sc.CalculateFinalScore(context.Background(), "t1", "c1", "j1")
	require.NoError(t, err)

	// The matcher score carries both the skills and experience weights:
	// 0.77*0.5 + 0.77*0.3 + 0*0.2 = 0.616.
	assert.InDelta(t, 0.616, result.FinalScore, 1e-9)
	assert.Equal(t, 0.77, result.MatcherScore)
	assert.Equal(t, 0.0, result.InterviewScore)

	persisted, err := scores.GetByCandidate(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, persisted.FinalScore)
	assert.InDelta(t, 0.616, *persisted.FinalScore, 1e-9)
}

func TestCalculateFinalScore_WithInterview(t *testing.T) {
	t.Parallel()
	jobs, scores := scoringFixtures(fptr(0.8), fptr(0.9))
	sc := NewScoring(&fakeAudit{}, jobs, scores, nil)

	result, err := sc.CalculateFinalScore(context.Background(), "t1", "c1", "j1")
	require.NoError(t, err)
	// 0.8*0.5 + 0.8*0.3 + 0.9*0.2 = 0.82
	assert.InDelta(t, 0.82, result.FinalScore, 1e-9)
}

func TestCalculateFinalScore_JobWeightsMissingKeysDefault(t *testing.T) {
	t.Parallel()
	jobs, scores := scoringFixtures(fptr(0.6), fptr(0.5))
	job := jobs.byID["j1"]
	// Only skills specified: experience defaults to 0.0, interview to 0.2.
	job.Criteria.Weights = map[string]float64{"skills": 0.6}
	jobs.byID["j1"] = job
	sc := NewScoring(&fakeAudit{}, jobs, scores, nil)

	result, err := sc.CalculateFinalScore(context.Background(), "t1", "c1", "j1")
	require.NoError(t, err)
	// 0.6*0.6 + 0.6*0.0 + 0.5*0.2 = 0.46
	assert.InDelta(t, 0.46, result.FinalScore, 1e-9)
	assert.Equal(t, job.Criteria.Weights, result.WeightsUsed)
}

func TestCalculateFinalScore_Clamped(t *testing.T) {
	t.Parallel()
	jobs, scores := scoringFixtures(fptr(1.0), fptr(1.0))
	job := jobs.byID["j1"]
	job.Criteria.Weights = map[string]float64{"skills": 0.9, "experience": 0.9, "interview": 0.9}
	jobs.byID["j1"] = job
	sc := NewScoring(&fakeAudit{}, jobs, scores, nil)

	result, err := sc.CalculateFinalScore(context.Background(), "t1", "c1", "j1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.FinalScore)
}

func TestCalculateFinalScore_Rerun_Idempotent(t *testing.T) {
	t.Parallel()
	jobs, scores := scoringFixtures(fptr(0.77), nil)
	sc := NewScoring(&fakeAudit{}, jobs, scores, nil)

	first, err := sc.CalculateFinalScore(context.Background(), "t1", "c1", "j1")
	require.NoError(t, err)
	second, err := sc.CalculateFinalScore(context.Background(), "t2", "c1", "j1")
	require.NoError(t, err)
	assert.Equal(t, first.FinalScore, second.FinalScore)
}

func TestCalculateFinalScore_MissingScoreRecord(t *testing.T) {
	t.Parallel()
	jobs := newFakeJobs(domain.Job{ID: "j1"})
	sc := NewScoring(&fakeAudit{}, jobs, newFakeScores(), nil)

	_, err := sc.CalculateFinalScore(context.Background(), "t1", "missing", "j1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
