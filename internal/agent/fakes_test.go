package agent

import (
	"fmt"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// fakeModel returns queued responses in order, or its error on every call.
type fakeModel struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (m *fakeModel) Generate(_ domain.Context, prompt string, _ int) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("%w: no queued response", domain.ErrModelCall)
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

type fakeCandidates struct {
	byID     map[string]domain.Candidate
	profiles map[string]domain.CandidateProfile
	statuses map[string]string
}

func newFakeCandidates(cands ...domain.Candidate) *fakeCandidates {
	f := &fakeCandidates{
		byID:     map[string]domain.Candidate{},
		profiles: map[string]domain.CandidateProfile{},
		statuses: map[string]string{},
	}
	for _, c := range cands {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCandidates) Create(_ domain.Context, c domain.Candidate) (string, error) {
	f.byID[c.ID] = c
	return c.ID, nil
}

func (f *fakeCandidates) Get(_ domain.Context, id string) (domain.Candidate, error) {
	c, ok := f.byID[id]
	if !ok {
		return domain.Candidate{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCandidates) ListByJob(_ domain.Context, jobID string, _, _ int) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for _, c := range f.byID {
		if c.JobID == jobID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCandidates) UpdateStatus(_ domain.Context, id, status string) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeCandidates) SetProfile(_ domain.Context, id string, p domain.CandidateProfile) error {
	f.profiles[id] = p
	c := f.byID[id]
	c.Profile = &p
	f.byID[id] = c
	return nil
}

type fakeJobs struct {
	byID map[string]domain.Job
}

func newFakeJobs(jobs ...domain.Job) *fakeJobs {
	f := &fakeJobs{byID: map[string]domain.Job{}}
	for _, j := range jobs {
		f.byID[j.ID] = j
	}
	return f
}

func (f *fakeJobs) Create(_ domain.Context, j domain.Job) (string, error) {
	f.byID[j.ID] = j
	return j.ID, nil
}

func (f *fakeJobs) Get(_ domain.Context, id string) (domain.Job, error) {
	j, ok := f.byID[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobs) List(_ domain.Context, _, _ int) ([]domain.Job, error) {
	var out []domain.Job
	for _, j := range f.byID {
		out = append(out, j)
	}
	return out, nil
}

type fakeScores struct {
	byCandidate map[string]domain.Score
}

func newFakeScores() *fakeScores {
	return &fakeScores{byCandidate: map[string]domain.Score{}}
}

func (f *fakeScores) Create(_ domain.Context, s domain.Score) (string, error) {
	f.byCandidate[s.CandidateID] = s
	return s.ID, nil
}

func (f *fakeScores) GetByCandidate(_ domain.Context, candidateID string) (domain.Score, error) {
	s, ok := f.byCandidate[candidateID]
	if !ok {
		return domain.Score{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeScores) SetMatcherScore(_ domain.Context, candidateID string, score float64, breakdown domain.ScoreBreakdown) error {
	s := f.byCandidate[candidateID]
	s.CandidateID = candidateID
	s.MatcherScore = &score
	s.Breakdown = &breakdown
	f.byCandidate[candidateID] = s
	return nil
}

func (f *fakeScores) SetInterviewResult(_ domain.Context, candidateID string, summary domain.InterviewSummary) error {
	s := f.byCandidate[candidateID]
	s.CandidateID = candidateID
	score := summary.OverallScore
	s.InterviewScore = &score
	sum := summary
	s.InterviewSummary = &sum
	f.byCandidate[candidateID] = s
	return nil
}

func (f *fakeScores) SetFinalScore(_ domain.Context, candidateID string, finalScore float64) error {
	s := f.byCandidate[candidateID]
	s.CandidateID = candidateID
	s.FinalScore = &finalScore
	f.byCandidate[candidateID] = s
	return nil
}

func (f *fakeScores) ListByJob(_ domain.Context, jobID string, _, _ int) ([]domain.Score, error) {
	var out []domain.Score
	for _, s := range f.byCandidate {
		if s.JobID == jobID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAudit struct {
	entries []domain.AuditEntry
}

func (f *fakeAudit) Insert(_ domain.Context, e domain.AuditEntry) (string, error) {
	f.entries = append(f.entries, e)
	return fmt.Sprintf("audit-%d", len(f.entries)), nil
}

func (f *fakeAudit) ListByTrace(_ domain.Context, traceID string) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	for _, e := range f.entries {
		if e.TraceID == traceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAudit) ListByCandidate(_ domain.Context, candidateID string, _, _ int) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	for _, e := range f.entries {
		if e.CandidateID == candidateID {
			out = append(out, e)
		}
	}
	return out, nil
}
