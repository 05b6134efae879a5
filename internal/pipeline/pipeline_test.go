package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhasyam/RecruitIQ/internal/agent"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/internal/pipeline"
)

// scriptModel returns queued responses in call order: parse, match, criteria.
type scriptModel struct {
	responses []string
	calls     int
}

func (m *scriptModel) Generate(_ domain.Context, _ string, _ int) (string, error) {
	if m.calls >= len(m.responses) {
		return "", domain.ErrModelCall
	}
	resp := m.responses[m.calls]
	m.calls++
	return resp, nil
}

type memStore struct {
	candidates map[string]domain.Candidate
	jobs       map[string]domain.Job
	scores     map[string]domain.Score
	audits     []domain.AuditEntry
	statuses   []string
}

func newMemStore() *memStore {
	return &memStore{
		candidates: map[string]domain.Candidate{},
		jobs:       map[string]domain.Job{},
		scores:     map[string]domain.Score{},
	}
}

func (s *memStore) Create(_ domain.Context, c domain.Candidate) (string, error) {
	s.candidates[c.ID] = c
	return c.ID, nil
}

func (s *memStore) Get(_ domain.Context, id string) (domain.Candidate, error) {
	c, ok := s.candidates[id]
	if !ok {
		return domain.Candidate{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *memStore) ListByJob(_ domain.Context, _ string, _, _ int) ([]domain.Candidate, error) {
	return nil, nil
}

func (s *memStore) UpdateStatus(_ domain.Context, id, status string) error {
	c := s.candidates[id]
	c.Status = status
	s.candidates[id] = c
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *memStore) SetProfile(_ domain.Context, id string, p domain.CandidateProfile) error {
	c := s.candidates[id]
	c.Profile = &p
	s.candidates[id] = c
	return nil
}

type memJobs struct{ store *memStore }

func (j memJobs) Create(_ domain.Context, job domain.Job) (string, error) {
	j.store.jobs[job.ID] = job
	return job.ID, nil
}

func (j memJobs) Get(_ domain.Context, id string) (domain.Job, error) {
	job, ok := j.store.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return job, nil
}

func (j memJobs) List(_ domain.Context, _, _ int) ([]domain.Job, error) { return nil, nil }

type memScores struct{ store *memStore }

func (r memScores) Create(_ domain.Context, s domain.Score) (string, error) {
	r.store.scores[s.CandidateID] = s
	return s.ID, nil
}

func (r memScores) GetByCandidate(_ domain.Context, candidateID string) (domain.Score, error) {
	s, ok := r.store.scores[candidateID]
	if !ok {
		return domain.Score{}, domain.ErrNotFound
	}
	return s, nil
}

func (r memScores) SetMatcherScore(_ domain.Context, candidateID string, score float64, breakdown domain.ScoreBreakdown) error {
	s := r.store.scores[candidateID]
	s.CandidateID = candidateID
	s.MatcherScore = &score
	s.Breakdown = &breakdown
	r.store.scores[candidateID] = s
	return nil
}

func (r memScores) SetInterviewResult(_ domain.Context, candidateID string, summary domain.InterviewSummary) error {
	s := r.store.scores[candidateID]
	sc := summary.OverallScore
	s.InterviewScore = &sc
	sum := summary
	s.InterviewSummary = &sum
	r.store.scores[candidateID] = s
	return nil
}

func (r memScores) SetFinalScore(_ domain.Context, candidateID string, finalScore float64) error {
	s := r.store.scores[candidateID]
	s.FinalScore = &finalScore
	r.store.scores[candidateID] = s
	return nil
}

func (r memScores) ListByJob(_ domain.Context, _ string, _, _ int) ([]domain.Score, error) {
	return nil, nil
}

type memAudit struct{ store *memStore }

func (a memAudit) Insert(_ domain.Context, e domain.AuditEntry) (string, error) {
	a.store.audits = append(a.store.audits, e)
	return "audit-1", nil
}

func (a memAudit) ListByTrace(_ domain.Context, _ string) ([]domain.AuditEntry, error) {
	return a.store.audits, nil
}

func (a memAudit) ListByCandidate(_ domain.Context, _ string, _, _ int) ([]domain.AuditEntry, error) {
	return a.store.audits, nil
}

type staticExtractor struct {
	text string
	err  error
}

func (e staticExtractor) ExtractPath(_ domain.Context, _, _ string) (string, error) {
	return e.text, e.err
}

func newRunner(store *memStore, model domain.ModelClient, extractor domain.TextExtractor) *pipeline.Runner {
	jobs := memJobs{store}
	scores := memScores{store}
	audit := memAudit{store}
	return &pipeline.Runner{
		Ingestion:  agent.NewIngestion(model, audit, store, extractor),
		Parser:     agent.NewParser(model, audit, store),
		Matcher:    agent.NewMatcher(model, audit, store, jobs, scores, nil),
		Interview:  agent.NewInterview(model, audit, store, jobs, scores, []string{"Tell me about your experience."}),
		Scoring:    agent.NewScoring(audit, jobs, scores, nil),
		Candidates: store,
		Jobs:       jobs,
		Audit:      audit,
	}
}

func seedStore() *memStore {
	store := newMemStore()
	store.jobs["j1"] = domain.Job{ID: "j1", Title: "Backend Engineer", JDText: "Build services."}
	store.candidates["c1"] = domain.Candidate{ID: "c1", JobID: "j1", Status: domain.CandidateUploaded}
	store.scores["c1"] = domain.Score{CandidateID: "c1", JobID: "j1"}
	return store
}

func TestProcess_FullRun(t *testing.T) {
	t.Parallel()
	store := seedStore()
	model := &scriptModel{responses: []string{
		`{"name": "Jane Doe", "skills": ["Go", "Postgres"], "experience_years": 5}`,
		`{"skills_match_score": 0.8, "experience_match_score": 0.7, "overall_assessment": "Good fit"}`,
		`[{"name": "Technical Depth", "description": "d", "scoring_logic": "s", "sample_questions": ["q"]}]`,
	}}
	runner := newRunner(store, model, staticExtractor{text: "Jane Doe resume text"})

	state, err := runner.Process(context.Background(), "c1", "resume.pdf", "/tmp/resume.pdf")
	require.NoError(t, err)

	assert.NotEmpty(t, state.TraceID)
	assert.Equal(t, "j1", state.JobID)
	assert.Equal(t, "Jane Doe resume text", state.ResumeText)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "Jane Doe", state.Profile.Name)
	require.NotNil(t, state.Match)
	assert.InDelta(t, 0.77, state.Match.MatcherScore, 1e-9)
	require.Len(t, state.InterviewCriteria, 1)
	require.NotNil(t, state.FinalScore)
	// Matcher carries skills and experience weights: 0.77*0.8 = 0.616.
	assert.InDelta(t, 0.616, *state.FinalScore, 1e-9)

	require.NotNil(t, state.FinalReport)
	assert.Equal(t, "Jane Doe", state.FinalReport.Candidate)
	assert.Equal(t, "Backend Engineer", state.FinalReport.Role)
	assert.InDelta(t, 0.616, state.FinalReport.OverallMatchScore, 1e-9)
	assert.Equal(t, "Further review recommended", state.FinalReport.Recommendation)

	persisted := store.scores["c1"]
	require.NotNil(t, persisted.FinalScore)
	assert.InDelta(t, 0.616, *persisted.FinalScore, 1e-9)
}

func TestProcess_StrongCandidateRecommendation(t *testing.T) {
	t.Parallel()
	store := seedStore()
	model := &scriptModel{responses: []string{
		`{"name": "Jane Doe", "skills": ["Go"], "experience_years": 8}`,
		`{"skills_match_score": 0.95, "experience_match_score": 0.9}`,
		`[]`,
	}}
	runner := newRunner(store, model, staticExtractor{text: "resume"})

	state, err := runner.Process(context.Background(), "c1", "resume.pdf", "/tmp/resume.pdf")
	require.NoError(t, err)
	require.NotNil(t, state.FinalScore)
	assert.Greater(t, *state.FinalScore, 0.7)
	assert.Equal(t, "Strong candidate for technical interview", state.FinalReport.Recommendation)
}

func TestProcess_AbortsOnExtractionFailure(t *testing.T) {
	t.Parallel()
	store := seedStore()
	runner := newRunner(store, &scriptModel{}, staticExtractor{err: domain.ErrExtraction})

	state, err := runner.Process(context.Background(), "c1", "resume.pdf", "/tmp/resume.pdf")
	require.ErrorIs(t, err, domain.ErrExtraction)
	assert.Empty(t, state.ResumeText)
	assert.Nil(t, state.Profile)
	assert.Nil(t, state.FinalReport)

	// The abort is recorded against the trace.
	var found bool
	for _, e := range store.audits {
		if e.Agent == "PipelineRunner" && e.Error != "" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProcess_AbortsOnUnknownCandidate(t *testing.T) {
	t.Parallel()
	store := seedStore()
	runner := newRunner(store, &scriptModel{}, staticExtractor{text: "resume"})

	_, err := runner.Process(context.Background(), "missing", "resume.pdf", "/tmp/resume.pdf")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcess_ModelFailureMidRunKeepsPartialProgress(t *testing.T) {
	t.Parallel()
	store := seedStore()
	// Parse succeeds, match has no response left and fails.
	model := &scriptModel{responses: []string{
		`{"name": "Jane Doe", "skills": ["Go"], "experience_years": 5}`,
	}}
	runner := newRunner(store, model, staticExtractor{text: "resume"})

	state, err := runner.Process(context.Background(), "c1", "resume.pdf", "/tmp/resume.pdf")
	require.ErrorIs(t, err, domain.ErrModelCall)
	require.NotNil(t, state.Profile)
	assert.Nil(t, state.Match)

	// The parsed profile stays durable.
	cand := store.candidates["c1"]
	require.NotNil(t, cand.Profile)
	assert.Equal(t, "Jane Doe", cand.Profile.Name)
}
