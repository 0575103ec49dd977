package server

import (
	"encoding/json"
	"net/http"

	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/llm"
)

type optimizeRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleOptimizeFilter(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.NewAppError("INVALID_BODY", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	if req.Query == "" {
		s.writeError(w, r, common.NewAppError("INVALID_BODY", "query is required", common.ErrInvalidInput))
		return
	}
	criteria, err := s.candidates.OptimizeFilter(r.Context(), req.Query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"criteria": criteria})
}

type experienceRange struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   *int   `json:"max"`
}

type statusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// handleFilterSuggestions returns the static vocabulary the screening UI
// offers before any free-text query is typed.
func (s *Server) handleFilterSuggestions(w http.ResponseWriter, r *http.Request) {
	intp := func(n int) *int { return &n }
	s.writeJSON(w, http.StatusOK, map[string]any{
		"common_skills": []string{
			"Python", "Java", "JavaScript", "React", "Vue.js",
			"Node.js", "Django", "Spring Boot", "MySQL", "PostgreSQL",
			"Docker", "Kubernetes", "AWS", "Git", "Linux",
		},
		"education_levels": []string{"高中", "大专", "本科", "硕士", "博士"},
		"experience_ranges": []experienceRange{
			{Label: "应届生", Min: 0, Max: intp(1)},
			{Label: "1-3年", Min: 1, Max: intp(3)},
			{Label: "3-5年", Min: 3, Max: intp(5)},
			{Label: "5-10年", Min: 5, Max: intp(10)},
			{Label: "10年以上", Min: 10, Max: nil},
		},
		"status_options": []statusOption{
			{Value: "pending", Label: "待处理"},
			{Value: "interviewed", Label: "已面试"},
			{Value: "rejected", Label: "已拒绝"},
			{Value: "hired", Label: "已录用"},
		},
	})
}

type searchRequest struct {
	Criteria llm.FilterCriteria `json:"criteria"`
	Status   string             `json:"status"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

func (s *Server) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.NewAppError("INVALID_BODY", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	if req.Limit <= 0 {
		req.Limit = 100
	}
	cands, err := s.candidates.Search(r.Context(), req.Criteria, req.Status, req.Limit, req.Offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]candidateView, 0, len(cands))
	for _, c := range cands {
		out = append(out, toView(c))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total":      len(out),
		"candidates": out,
	})
}
