package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractPath(_ domain.Context, _, _ string) (string, error) {
	return f.text, f.err
}

func TestProcessResume_AdvancesStatus(t *testing.T) {
	t.Parallel()
	cands := newFakeCandidates(domain.Candidate{ID: "c1", Status: domain.CandidateUploaded})
	audit := &fakeAudit{}
	a := NewIngestion(&fakeModel{}, audit, cands, &fakeExtractor{text: "Jane Doe Senior Engineer"})

	text, err := a.ProcessResume(context.Background(), "t1", "c1", "resume.pdf", "/tmp/resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Senior Engineer", text)
	assert.Equal(t, domain.CandidateIngested, cands.statuses["c1"])
	require.NotEmpty(t, audit.entries)
	assert.Contains(t, audit.entries[0].Prompt, "resume.pdf")
}

func TestProcessResume_ExtractionError(t *testing.T) {
	t.Parallel()
	cands := newFakeCandidates(domain.Candidate{ID: "c1"})
	a := NewIngestion(&fakeModel{}, &fakeAudit{}, cands, &fakeExtractor{err: domain.ErrExtraction})

	_, err := a.ProcessResume(context.Background(), "t1", "c1", "resume.pdf", "/tmp/resume.pdf")
	require.ErrorIs(t, err, domain.ErrExtraction)
	assert.Empty(t, cands.statuses["c1"])
}
