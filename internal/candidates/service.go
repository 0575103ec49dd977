// Package candidates owns profile operations: reconciliation of merged
// extraction fields, screening-filter optimization and search, and
// oracle-backed candidate scoring.
package candidates

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/hrcopilot/resume-tracker/constants"
	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/extract"
	"github.com/hrcopilot/resume-tracker/internal/llm"
	"github.com/hrcopilot/resume-tracker/internal/repository"
)

type Service struct {
	repo   repository.CandidateRepository
	oracle llm.Oracle
	log    *slog.Logger
}

func NewService(repo repository.CandidateRepository, oracle llm.Oracle, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, oracle: oracle, log: logger}
}

// Reconcile applies a sparse, non-destructive update of the candidate
// profile from merged extraction fields. Only present fields are applied. If
// the merged email already belongs to a different profile, that one field is
// dropped (logged as a skipped conflict) and the rest still applies; when
// nothing remains, reconciliation is a no-op.
//
// The uniqueness check is a read followed by a separate write; two jobs
// resolving the same email concurrently race, and the later write wins. That
// is the documented conflict policy, not an oversight to be fixed here.
func (s *Service) Reconcile(ctx context.Context, candidateID uuid.UUID, fields extract.Fields) error {
	upd := updateFromFields(fields)

	if upd.Email != nil {
		existing, err := s.repo.GetByEmail(ctx, *upd.Email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != candidateID {
			s.log.Warn("reconcile: email conflict, skipping email update",
				"candidate_id", candidateID,
				"email", *upd.Email,
				"owner_id", existing.ID,
				"error", common.ErrIdentityConflict,
			)
			upd.Email = nil
		}
	}

	if upd.Empty() {
		s.log.Info("reconcile: nothing to apply", "candidate_id", candidateID)
		return nil
	}

	if _, err := s.repo.Update(ctx, candidateID, upd); err != nil {
		return err
	}
	s.log.Info("reconcile: profile updated", "candidate_id", candidateID)
	return nil
}

// updateFromFields maps present merged fields onto a sparse update.
func updateFromFields(fields extract.Fields) repository.CandidateUpdate {
	var upd repository.CandidateUpdate
	setString := func(key string, dst **string) {
		if s := fields.String(key); s != "" {
			*dst = &s
		}
	}
	setString(extract.FieldName, &upd.Name)
	setString(extract.FieldEmail, &upd.Email)
	setString(extract.FieldPhone, &upd.Phone)
	setString(extract.FieldEducation, &upd.Education)
	setString(extract.FieldCurrentPosition, &upd.CurrentPosition)
	setString(extract.FieldCurrentCompany, &upd.CurrentCompany)
	if _, ok := fields[extract.FieldExperienceYears]; ok {
		years := fields.Int(extract.FieldExperienceYears)
		upd.ExperienceYears = &years
	}
	if skills := fields.Strings(extract.FieldSkills); len(skills) > 0 {
		upd.Skills = skills
	}
	return upd
}

// CreateProfile creates a candidate from a manual API request, unlike the
// eager placeholder profiles made at upload time. A request carrying an email
// that already belongs to another profile is rejected outright; manual entry
// has no merged-fields remainder to fall back on.
func (s *Service) CreateProfile(ctx context.Context, name string, upd repository.CandidateUpdate) (*repository.Candidate, error) {
	if name == "" {
		return nil, common.NewAppError("INVALID_INPUT", "name is required", common.ErrInvalidInput)
	}
	if upd.Email != nil {
		existing, err := s.repo.GetByEmail(ctx, *upd.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, common.NewAppError("EMAIL_EXISTS", "a candidate with this email already exists", common.ErrInvalidInput)
		}
	}

	cand, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return cand, nil
	}
	return s.repo.Update(ctx, cand.ID, upd)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*repository.Candidate, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*repository.Candidate, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// UpdateProfile applies a manual profile edit from the API surface.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd repository.CandidateUpdate) (*repository.Candidate, error) {
	if upd.Status != nil && !constants.ValidCandidateStatus(*upd.Status) {
		return nil, common.NewAppError("INVALID_STATUS", "unknown candidate status: "+*upd.Status, common.ErrInvalidInput)
	}
	return s.repo.Update(ctx, id, upd)
}

// OptimizeFilter converts a natural-language screening request into
// structured criteria via the oracle.
func (s *Service) OptimizeFilter(ctx context.Context, naturalQuery string) (llm.FilterCriteria, error) {
	return s.oracle.OptimizeFilterCriteria(ctx, naturalQuery)
}

// Search filters candidates by structured criteria.
func (s *Service) Search(ctx context.Context, criteria llm.FilterCriteria, status string, limit, offset int) ([]*repository.Candidate, error) {
	return s.repo.Filter(ctx, repository.FilterQuery{
		Keywords:         criteria.Keywords,
		Education:        criteria.Education,
		MinExperience:    criteria.MinExperience,
		MaxExperience:    criteria.MaxExperience,
		Skills:           criteria.Skills,
		PositionKeywords: criteria.PositionKeywords,
		CompanyKeywords:  criteria.CompanyKeywords,
		Status:           status,
		Limit:            limit,
		Offset:           offset,
	})
}

// Score asks the oracle to rate the given candidates against free-text
// requirements. Candidates the oracle omits are excluded from the result;
// ids the oracle invents are discarded by the client. Results are ordered by
// score, best first.
func (s *Service) Score(ctx context.Context, requirements string, ids []uuid.UUID) ([]llm.MatchResult, error) {
	summaries := make([]llm.CandidateSummary, 0, len(ids))
	for _, id := range ids {
		cand, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summarize(cand))
	}

	matches, err := s.oracle.ScoreCandidates(ctx, requirements, summaries)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}

func summarize(c *repository.Candidate) llm.CandidateSummary {
	sum := llm.CandidateSummary{
		ID:     c.ID.String(),
		Name:   c.Name,
		Skills: c.Skills,
	}
	if c.Education != nil {
		sum.Education = *c.Education
	}
	if c.ExperienceYears != nil {
		sum.ExperienceYears = *c.ExperienceYears
	}
	if c.CurrentPosition != nil {
		sum.CurrentPosition = *c.CurrentPosition
	}
	if c.CurrentCompany != nil {
		sum.CurrentCompany = *c.CurrentCompany
	}
	return sum
}
