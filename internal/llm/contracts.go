package llm

import (
	"context"

	"github.com/hrcopilot/resume-tracker/internal/extract"
)

// FilterCriteria is the structured form of a natural-language screening
// request. Nil / empty members mean the dimension is unconstrained.
type FilterCriteria struct {
	Keywords         []string `json:"keywords,omitempty"`
	Education        string   `json:"education,omitempty"`
	MinExperience    *int     `json:"min_experience,omitempty"`
	MaxExperience    *int     `json:"max_experience,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	PositionKeywords []string `json:"position_keywords,omitempty"`
	CompanyKeywords  []string `json:"company_keywords,omitempty"`
}

// CandidateSummary is the slice of a profile shown to the oracle for scoring.
type CandidateSummary struct {
	ID              string   `json:"candidate_id"`
	Name            string   `json:"name,omitempty"`
	Education       string   `json:"education,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
	CurrentPosition string   `json:"current_position,omitempty"`
	CurrentCompany  string   `json:"current_company,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

// MatchResult is one scored candidate in the oracle's reply.
type MatchResult struct {
	CandidateID string   `json:"candidate_id"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons,omitempty"`
	Concerns    []string `json:"concerns,omitempty"`
}

// Oracle is the interface the pipeline and candidate services depend on.
//
// ExtractResumeInfo returns an error only on a hard (transport/service)
// failure; a malformed reply is a soft failure that yields an empty field set
// and a nil error. Either way the caller may proceed with rule-based fields.
type Oracle interface {
	ExtractResumeInfo(ctx context.Context, resumeText string) (extract.Fields, error)
	OptimizeFilterCriteria(ctx context.Context, naturalQuery string) (FilterCriteria, error)
	ScoreCandidates(ctx context.Context, requirements string, candidates []CandidateSummary) ([]MatchResult, error)
}
