package server

import (
	"net/http"
	"time"
)

type auditEntryView struct {
	RequestID       string    `json:"request_id"`
	Method          string    `json:"method"`
	Model           string    `json:"model,omitempty"`
	PromptLength    int       `json:"prompt_length"`
	PromptPreview   string    `json:"prompt_preview,omitempty"`
	ResponseLength  int       `json:"response_length"`
	ResponsePreview string    `json:"response_preview,omitempty"`
	Success         bool      `json:"success"`
	Fallback        bool      `json:"fallback"`
	Error           string    `json:"error,omitempty"`
	DurationMS      int64     `json:"duration_ms"`
	StartedAt       time.Time `json:"started_at"`
}

// handleAuditRecent lists the most recent oracle invocations, newest first.
func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	entries, err := s.auditor.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]auditEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryView{
			RequestID:       e.RequestID,
			Method:          e.Method,
			Model:           e.Model,
			PromptLength:    e.PromptLength,
			PromptPreview:   e.PromptPreview,
			ResponseLength:  e.ResponseLength,
			ResponsePreview: e.ResponsePreview,
			Success:         e.Success,
			Fallback:        e.Fallback,
			Error:           e.Error,
			DurationMS:      e.Duration.Milliseconds(),
			StartedAt:       e.StartedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"calls": out})
}
