package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

var testFallbackQuestions = []string{
	"Tell me about your experience.",
	"Describe a challenging project.",
	"How do you learn new technologies?",
}

func interviewFixtures() (*fakeCandidates, *fakeJobs, *fakeScores) {
	profile := domain.CandidateProfile{Name: "Jane Doe", Skills: []string{"Go"}}
	cands := newFakeCandidates(domain.Candidate{ID: "c1", JobID: "j1", Profile: &profile})
	jobs := newFakeJobs(domain.Job{ID: "j1", Title: "Backend Engineer", JDText: "Build services."})
	return cands, jobs, newFakeScores()
}

func TestGenerateQuestions_FromModel(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{`["How do goroutines differ from threads?", "Explain context cancellation."]`}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	questions, err := iv.GenerateQuestions(context.Background(), "t1", "c1", "j1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"How do goroutines differ from threads?", "Explain context cancellation."}, questions)
}

func TestGenerateQuestions_FallbackOnGarbage(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{"I cannot produce questions right now."}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	questions, err := iv.GenerateQuestions(context.Background(), "t1", "c1", "j1", 5)
	require.NoError(t, err)
	assert.Equal(t, testFallbackQuestions, questions)
}

func TestGenerateCriteria(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{`[
  {"name": "Technical Depth", "description": "Core language knowledge", "scoring_logic": "1 for precise answers", "sample_questions": ["Explain the scheduler."]}
]`}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	criteria, err := iv.GenerateCriteria(context.Background(), "t1", "c1", "j1", 3)
	require.NoError(t, err)
	require.Len(t, criteria, 1)
	assert.Equal(t, "Technical Depth", criteria[0].Name)
	assert.Equal(t, []string{"Explain the scheduler."}, criteria[0].SampleQuestions)
}

func TestGenerateCriteria_UnparseableYieldsEmptyRubric(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{"no rubric today"}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	criteria, err := iv.GenerateCriteria(context.Background(), "t1", "c1", "j1", 3)
	require.NoError(t, err)
	assert.Empty(t, criteria)
}

func TestEvaluateAnswers_IndexAligned(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	// Two answers but the model scores only the first.
	model := &fakeModel{responses: []string{`{
  "question_scores": [0.9],
  "question_explanations": ["Thorough answer"],
  "overall_score": 0.8,
  "overall_assessment": "Solid showing"
}`}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	qas := []domain.QuestionAnswer{
		{Question: "Q1", Answer: "A1", Timestamp: time.Now()},
		{Question: "Q2", Answer: "A2", Timestamp: time.Now()},
	}
	summary, err := iv.EvaluateAnswers(context.Background(), "t1", "c1", "j1", qas)
	require.NoError(t, err)

	require.Len(t, summary.Questions, 2)
	require.NotNil(t, summary.Questions[0].Score)
	assert.Equal(t, 0.9, *summary.Questions[0].Score)
	assert.Equal(t, "Thorough answer", summary.Questions[0].Explanation)
	require.NotNil(t, summary.Questions[1].Score)
	assert.Equal(t, 0.5, *summary.Questions[1].Score)
	assert.Equal(t, "No explanation available", summary.Questions[1].Explanation)
	assert.Equal(t, 0.8, summary.OverallScore)
	assert.Equal(t, "Solid showing", summary.Notes)

	persisted, err := scores.GetByCandidate(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, persisted.InterviewScore)
	assert.Equal(t, 0.8, *persisted.InterviewScore)
}

func TestEvaluateAnswers_UnparseableFallsBack(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{"no evaluation"}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	qas := []domain.QuestionAnswer{{Question: "Q1", Answer: "A1"}}
	summary, err := iv.EvaluateAnswers(context.Background(), "t1", "c1", "j1", qas)
	require.NoError(t, err)
	assert.Equal(t, 0.5, summary.OverallScore)
	assert.Equal(t, "Unable to evaluate responses", summary.Notes)
	require.Len(t, summary.Questions, 1)
	assert.Equal(t, 0.5, *summary.Questions[0].Score)
}

func TestNextAdaptiveQuestion(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{`{"question": "What tradeoffs did you weigh in your last design?"}`}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	q, err := iv.NextAdaptiveQuestion(context.Background(), "t1", "c1", "j1", nil)
	require.NoError(t, err)
	assert.Equal(t, "What tradeoffs did you weigh in your last design?", q)
}

func TestNextAdaptiveQuestion_FallbackIndexedByTranscript(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{"nothing structured"}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	transcript := []domain.QuestionAnswer{{Question: "Q1", Answer: "A1"}}
	q, err := iv.NextAdaptiveQuestion(context.Background(), "t1", "c1", "j1", transcript)
	require.NoError(t, err)
	assert.Equal(t, testFallbackQuestions[1], q)
}

func TestNextAdaptiveQuestion_FallbackExhaustedRepeatsLast(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{"nothing structured"}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	transcript := make([]domain.QuestionAnswer, 10)
	q, err := iv.NextAdaptiveQuestion(context.Background(), "t1", "c1", "j1", transcript)
	require.NoError(t, err)
	assert.Equal(t, testFallbackQuestions[len(testFallbackQuestions)-1], q)
}

func TestEvaluateAnswer_SingleTurn(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{`{"score": 0.75, "explanation": "Covered the key points"}`}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	score, explanation, err := iv.EvaluateAnswer(context.Background(), "t1", "c1", "j1", nil, "Q1", "A1")
	require.NoError(t, err)
	assert.Equal(t, 0.75, score)
	assert.Equal(t, "Covered the key points", explanation)
}

func TestEvaluateTranscript_Defaults(t *testing.T) {
	t.Parallel()
	cands, jobs, scores := interviewFixtures()
	model := &fakeModel{responses: []string{"nope"}}
	iv := NewInterview(model, &fakeAudit{}, cands, jobs, scores, testFallbackQuestions)

	score, assessment, err := iv.EvaluateTranscript(context.Background(), "t1", "c1", "j1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
	assert.Equal(t, "Unable to evaluate responses", assessment)
}
