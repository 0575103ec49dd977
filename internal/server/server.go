// Package server exposes the HTTP surface: resume upload and status,
// candidate profile operations, filter optimization and search, scoring,
// and export. Request handling stays thin; business logic lives in the
// service packages.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrcopilot/resume-tracker/internal/candidates"
	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/export"
	"github.com/hrcopilot/resume-tracker/internal/ingest"
	"github.com/hrcopilot/resume-tracker/internal/llm"
	"github.com/hrcopilot/resume-tracker/internal/repository"
)

// AuditReader reads back recorded oracle invocations.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]llm.AuditEntry, error)
}

type Server struct {
	ingest     *ingest.Service
	jobs       repository.ExtractionJobRepository
	candidates *candidates.Service
	export     *export.Service
	auditor    AuditReader
	pool       *pgxpool.Pool
	log        *slog.Logger
}

func New(
	ing *ingest.Service,
	jobs repository.ExtractionJobRepository,
	cands *candidates.Service,
	exp *export.Service,
	auditor AuditReader,
	pool *pgxpool.Pool,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ingest:     ing,
		jobs:       jobs,
		candidates: cands,
		export:     exp,
		auditor:    auditor,
		pool:       pool,
		log:        logger,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/resumes/upload", s.handleUpload)
	mux.HandleFunc("GET /api/resumes/{id}/content", s.handleResumeContent)
	mux.HandleFunc("GET /api/resumes/{id}/download", s.handleResumeDownload)
	mux.HandleFunc("GET /api/resumes/candidate/{id}", s.handleCandidateResumes)

	mux.HandleFunc("GET /api/candidates", s.handleListCandidates)
	mux.HandleFunc("POST /api/candidates", s.handleCreateCandidate)
	mux.HandleFunc("GET /api/candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PUT /api/candidates/{id}", s.handleUpdateCandidate)
	mux.HandleFunc("DELETE /api/candidates/{id}", s.handleDeleteCandidate)
	mux.HandleFunc("POST /api/candidates/score", s.handleScoreCandidates)
	mux.HandleFunc("GET /api/candidates/export", s.handleExportCandidates)

	mux.HandleFunc("POST /api/filters/optimize", s.handleOptimizeFilter)
	mux.HandleFunc("POST /api/filters/search", s.handleSearchCandidates)
	mux.HandleFunc("GET /api/filters/suggestions", s.handleFilterSuggestions)

	mux.HandleFunc("GET /api/audit/recent", s.handleAuditRecent)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := repository.HealthCheck(r.Context(), s.pool, s.log); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.log.Warn("request rejected", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, common.NewAppError("INVALID_ID", name+" must be a UUID", common.ErrInvalidInput)
	}
	return id, nil
}
