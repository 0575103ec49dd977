package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/repository"
)

type candidateView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	Education       *string   `json:"education"`
	ExperienceYears *int      `json:"experience_years"`
	CurrentPosition *string   `json:"current_position"`
	CurrentCompany  *string   `json:"current_company"`
	Skills          []string  `json:"skills"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toView(c *repository.Candidate) candidateView {
	return candidateView{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Education:       c.Education,
		ExperienceYears: c.ExperienceYears,
		CurrentPosition: c.CurrentPosition,
		CurrentCompany:  c.CurrentCompany,
		Skills:          c.Skills,
		Status:          string(c.Status),
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)
	cands, err := s.candidates.List(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]candidateView, 0, len(cands))
	for _, c := range cands {
		out = append(out, toView(c))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cand, err := s.candidates.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toView(cand))
}

// candidateCreateRequest is a manual profile entry; everything but the name
// is optional.
type candidateCreateRequest struct {
	Name            string   `json:"name"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	Education       *string  `json:"education"`
	ExperienceYears *int     `json:"experience_years"`
	CurrentPosition *string  `json:"current_position"`
	CurrentCompany  *string  `json:"current_company"`
	Skills          []string `json:"skills"`
	Notes           *string  `json:"notes"`
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.NewAppError("INVALID_BODY", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	cand, err := s.candidates.CreateProfile(r.Context(), req.Name, repository.CandidateUpdate{
		Email:           req.Email,
		Phone:           req.Phone,
		Education:       req.Education,
		ExperienceYears: req.ExperienceYears,
		CurrentPosition: req.CurrentPosition,
		CurrentCompany:  req.CurrentCompany,
		Skills:          req.Skills,
		Notes:           req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toView(cand))
}

// candidateUpdateRequest is the single schema for profile edits, including
// status changes.
type candidateUpdateRequest struct {
	Name            *string  `json:"name"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	Education       *string  `json:"education"`
	ExperienceYears *int     `json:"experience_years"`
	CurrentPosition *string  `json:"current_position"`
	CurrentCompany  *string  `json:"current_company"`
	Skills          []string `json:"skills"`
	Status          *string  `json:"status"`
	Notes           *string  `json:"notes"`
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req candidateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.NewAppError("INVALID_BODY", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	cand, err := s.candidates.UpdateProfile(r.Context(), id, repository.CandidateUpdate{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Education:       req.Education,
		ExperienceYears: req.ExperienceYears,
		CurrentPosition: req.CurrentPosition,
		CurrentCompany:  req.CurrentCompany,
		Skills:          req.Skills,
		Status:          req.Status,
		Notes:           req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toView(cand))
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.candidates.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"detail": "deleted"})
}

type scoreRequest struct {
	Requirements string   `json:"requirements"`
	CandidateIDs []string `json:"candidate_ids"`
}

func (s *Server) handleScoreCandidates(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.NewAppError("INVALID_BODY", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	if req.Requirements == "" {
		s.writeError(w, r, common.NewAppError("INVALID_BODY", "requirements is required", common.ErrInvalidInput))
		return
	}
	ids := make([]uuid.UUID, 0, len(req.CandidateIDs))
	for _, raw := range req.CandidateIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.writeError(w, r, common.NewAppError("INVALID_ID", "candidate_ids must be UUIDs", common.ErrInvalidInput))
			return
		}
		ids = append(ids, id)
	}
	matches, err := s.candidates.Score(r.Context(), req.Requirements, ids)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func (s *Server) handleExportCandidates(w http.ResponseWriter, r *http.Request) {
	data, err := s.export.ExportCandidatesXLSX(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Error("write export failed", "error", err)
	}
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
