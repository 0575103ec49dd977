package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const previewLen = 200

// AuditEntry is one oracle invocation, recorded so that every call can be
// individually reconstructed afterwards for cost and quality review.
type AuditEntry struct {
	RequestID       string
	Method          string
	Model           string
	PromptLength    int
	PromptPreview   string
	ResponseLength  int
	ResponsePreview string
	Success         bool
	Fallback        bool
	Error           string
	Duration        time.Duration
	StartedAt       time.Time
}

// AuditSink persists audit entries. Sink failures are logged and swallowed;
// losing an audit row must never fail an oracle call.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditTrail is the dedicated audit channel for oracle calls: a structured
// logger plus an optional durable sink.
type AuditTrail struct {
	log  *slog.Logger
	sink AuditSink
}

func NewAuditTrail(logger *slog.Logger, sink AuditSink) *AuditTrail {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditTrail{log: logger, sink: sink}
}

// Begin logs the start of an oracle call and returns its request id.
func (a *AuditTrail) Begin(method, model, prompt string) (string, time.Time) {
	rid := uuid.New().String()
	start := time.Now()
	a.log.Info("oracle.request.start",
		"req_id", rid,
		"method", method,
		"model", model,
		"prompt_length", len(prompt),
		"prompt_preview", preview(prompt),
		"timestamp", start.UTC().Format(time.RFC3339),
	)
	return rid, start
}

// End logs the outcome of an oracle call and records it in the sink.
func (a *AuditTrail) End(ctx context.Context, rid, method, model, prompt, response string, start time.Time, callErr error) {
	elapsed := time.Since(start)
	entry := AuditEntry{
		RequestID:       rid,
		Method:          method,
		Model:           model,
		PromptLength:    len(prompt),
		PromptPreview:   preview(prompt),
		ResponseLength:  len(response),
		ResponsePreview: preview(response),
		Success:         callErr == nil,
		Duration:        elapsed,
		StartedAt:       start,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
		a.log.Error("oracle.request.failed",
			"req_id", rid,
			"method", method,
			"error", callErr,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	} else {
		a.log.Info("oracle.request.ok",
			"req_id", rid,
			"method", method,
			"response_length", len(response),
			"response_preview", preview(response),
			"elapsed_ms", elapsed.Milliseconds(),
		)
	}
	a.record(ctx, entry)
}

// FallbackUsed logs that a method short-circuited to the local fallback.
func (a *AuditTrail) FallbackUsed(ctx context.Context, method, reason string) {
	a.log.Info("oracle.fallback",
		"method", method,
		"reason", reason,
	)
	a.record(ctx, AuditEntry{
		RequestID: uuid.New().String(),
		Method:    method,
		Success:   true,
		Fallback:  true,
		Error:     reason,
		StartedAt: time.Now(),
	})
}

func (a *AuditTrail) record(ctx context.Context, entry AuditEntry) {
	if a.sink == nil {
		return
	}
	if err := a.sink.Record(ctx, entry); err != nil {
		a.log.Warn("oracle.audit.sink_failed", "req_id", entry.RequestID, "error", err)
	}
}

func preview(s string) string {
	if len(s) > previewLen {
		return s[:previewLen] + "..."
	}
	return s
}
