// Package agent implements the pipeline stage agents. Each agent builds one
// prompt, calls the model gateway, recovers structured output defensively,
// and persists its result. Malformed model output degrades to typed defaults
// instead of failing the stage; model call failures abort the stage.
package agent

import (
	"log/slog"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/pkg/textx"
)

// auditPromptLimit bounds stored prompt snippets.
const auditPromptLimit = 500

// Base carries the collaborators every stage agent shares. Audit writes are
// best-effort: a failed insert is logged and never fails the stage.
type Base struct {
	Name  string
	Model domain.ModelClient
	Audit domain.AuditRepository
}

type activity struct {
	traceID     string
	candidateID string
	jobID       string
	prompt      string
	response    string
	err         string
}

func (b Base) logActivity(ctx domain.Context, a activity) {
	if b.Audit == nil {
		return
	}
	entry := domain.AuditEntry{
		TraceID:     a.traceID,
		Agent:       b.Name,
		Prompt:      textx.Truncate(a.prompt, auditPromptLimit),
		Response:    a.response,
		Error:       a.err,
		CandidateID: a.candidateID,
		JobID:       a.jobID,
	}
	if _, err := b.Audit.Insert(ctx, entry); err != nil {
		slog.Warn("audit insert failed",
			slog.String("agent", b.Name),
			slog.String("trace_id", a.traceID),
			slog.Any("error", err))
	}
}
