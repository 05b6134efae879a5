package agent

import (
	"fmt"
	"log/slog"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// Ingestion extracts plain text from an uploaded resume and advances the
// candidate status. It is the only stage that makes no model call.
type Ingestion struct {
	Base
	Candidates domain.CandidateRepository
	Extractor  domain.TextExtractor
}

// NewIngestion constructs the ingestion agent.
func NewIngestion(model domain.ModelClient, audit domain.AuditRepository, candidates domain.CandidateRepository, extractor domain.TextExtractor) *Ingestion {
	return &Ingestion{
		Base:       Base{Name: "ResumeIngestionAgent", Model: model, Audit: audit},
		Candidates: candidates,
		Extractor:  extractor,
	}
}

// ProcessResume extracts text from the file at path and marks the candidate
// ingested. Unsupported extensions fail before any extraction work.
func (a *Ingestion) ProcessResume(ctx domain.Context, traceID, candidateID, fileName, path string) (string, error) {
	a.logActivity(ctx, activity{
		traceID:     traceID,
		candidateID: candidateID,
		prompt:      fmt.Sprintf("Processing resume file: %s", fileName),
	})

	text, err := a.Extractor.ExtractPath(ctx, fileName, path)
	if err != nil {
		a.logActivity(ctx, activity{traceID: traceID, candidateID: candidateID, err: err.Error()})
		return "", fmt.Errorf("op=ingestion.process: %w", err)
	}

	if err := a.Candidates.UpdateStatus(ctx, candidateID, domain.CandidateIngested); err != nil {
		a.logActivity(ctx, activity{traceID: traceID, candidateID: candidateID, err: err.Error()})
		return "", fmt.Errorf("op=ingestion.process: %w", err)
	}

	slog.Info("resume ingested",
		slog.String("trace_id", traceID),
		slog.String("candidate_id", candidateID),
		slog.Int("text_length", len(text)))
	a.logActivity(ctx, activity{
		traceID:     traceID,
		candidateID: candidateID,
		response:    fmt.Sprintf("Successfully extracted %d characters", len(text)),
	})
	return text, nil
}
