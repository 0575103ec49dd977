package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrcopilot/resume-tracker/constants"
	"github.com/hrcopilot/resume-tracker/internal/common"
)

// Candidate is the durable profile an extraction ultimately enriches.
type Candidate struct {
	ID              uuid.UUID
	Name            string
	Email           *string
	Phone           *string
	Education       *string
	ExperienceYears *int
	CurrentPosition *string
	CurrentCompany  *string
	Skills          []string
	Status          constants.CandidateStatus
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CandidateUpdate is a sparse update: nil members leave the stored value
// untouched, so reconciliation never nulls out existing profile data.
type CandidateUpdate struct {
	Name            *string
	Email           *string
	Phone           *string
	Education       *string
	ExperienceYears *int
	CurrentPosition *string
	CurrentCompany  *string
	Skills          []string
	Status          *string
	Notes           *string
}

// Empty reports whether the update carries no fields at all.
func (u CandidateUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil &&
		u.Education == nil && u.ExperienceYears == nil &&
		u.CurrentPosition == nil && u.CurrentCompany == nil &&
		u.Skills == nil && u.Status == nil && u.Notes == nil
}

// FilterQuery narrows the candidate listing. Zero values are ignored.
type FilterQuery struct {
	Keywords         []string
	Education        string
	MinExperience    *int
	MaxExperience    *int
	Skills           []string
	PositionKeywords []string
	CompanyKeywords  []string
	Status           string
	Limit            int
	Offset           int
}

type CandidateRepository interface {
	Create(ctx context.Context, name string) (*Candidate, error)
	Get(ctx context.Context, id uuid.UUID) (*Candidate, error)
	GetByEmail(ctx context.Context, email string) (*Candidate, error)
	Update(ctx context.Context, id uuid.UUID, upd CandidateUpdate) (*Candidate, error)
	List(ctx context.Context, limit, offset int) ([]*Candidate, error)
	Filter(ctx context.Context, q FilterQuery) ([]*Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type candidateRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewCandidateRepository(pool *pgxpool.Pool, logger *slog.Logger) CandidateRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &candidateRepo{pool: pool, log: logger}
}

const candidateColumns = `id, name, email, phone, education, experience_years,
	current_position, current_company, skills, status, notes, created_at, updated_at`

func (r *candidateRepo) Create(ctx context.Context, name string) (*Candidate, error) {
	id := uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO candidates (id, name, status)
		VALUES ($1, $2, $3)
		RETURNING `+candidateColumns,
		id, name, constants.CandidatePending)
	cand, err := scanCandidate(row)
	if err != nil {
		r.log.Error("candidate create failed", "name", name, "error", err)
		return nil, common.WrapError(err, "create candidate")
	}
	r.log.Info("candidate created", "candidate_id", cand.ID)
	return cand, nil
}

func (r *candidateRepo) Get(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	cand, err := scanCandidate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("CANDIDATE_NOT_FOUND", "candidate not found", common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get candidate")
	}
	return cand, nil
}

func (r *candidateRepo) GetByEmail(ctx context.Context, email string) (*Candidate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE email = $1`, email)
	cand, err := scanCandidate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapError(err, "get candidate by email")
	}
	return cand, nil
}

// Update applies only the non-nil members of upd in a single write.
func (r *candidateRepo) Update(ctx context.Context, id uuid.UUID, upd CandidateUpdate) (*Candidate, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Education != nil {
		add("education", *upd.Education)
	}
	if upd.ExperienceYears != nil {
		add("experience_years", *upd.ExperienceYears)
	}
	if upd.CurrentPosition != nil {
		add("current_position", *upd.CurrentPosition)
	}
	if upd.CurrentCompany != nil {
		add("current_company", *upd.CurrentCompany)
	}
	if upd.Skills != nil {
		data, err := json.Marshal(upd.Skills)
		if err != nil {
			return nil, common.WrapError(err, "marshal skills")
		}
		add("skills", data)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE candidates SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+candidateColumns, args...)
	cand, err := scanCandidate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("CANDIDATE_NOT_FOUND", "candidate not found", common.ErrNotFound)
	}
	if err != nil {
		r.log.Error("candidate update failed", "candidate_id", id, "error", err)
		return nil, common.WrapError(err, "update candidate")
	}
	return cand, nil
}

func (r *candidateRepo) List(ctx context.Context, limit, offset int) ([]*Candidate, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+candidateColumns+` FROM candidates
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, common.WrapError(err, "list candidates")
	}
	defer rows.Close()
	return collectCandidates(rows)
}

// Filter builds a conjunctive WHERE clause from the populated query
// dimensions. Keyword groups match name/position/company; skills match the
// stored JSON array by quoted containment.
func (r *candidateRepo) Filter(ctx context.Context, q FilterQuery) ([]*Candidate, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.Keywords) > 0 {
		var ors []string
		for _, kw := range q.Keywords {
			p := arg("%" + kw + "%")
			ors = append(ors, fmt.Sprintf(
				"(name ILIKE %[1]s OR current_position ILIKE %[1]s OR current_company ILIKE %[1]s)", p))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	if q.Education != "" {
		where = append(where, "education ILIKE "+arg("%"+q.Education+"%"))
	}
	if q.MinExperience != nil {
		where = append(where, "experience_years >= "+arg(*q.MinExperience))
	}
	if q.MaxExperience != nil {
		where = append(where, "experience_years <= "+arg(*q.MaxExperience))
	}
	for _, skill := range q.Skills {
		where = append(where, "skills::text ILIKE "+arg(`%"`+skill+`"%`))
	}
	for _, kw := range q.PositionKeywords {
		where = append(where, "current_position ILIKE "+arg("%"+kw+"%"))
	}
	for _, kw := range q.CompanyKeywords {
		where = append(where, "current_company ILIKE "+arg("%"+kw+"%"))
	}
	if q.Status != "" {
		where = append(where, "status = "+arg(q.Status))
	}

	sql := `SELECT ` + candidateColumns + ` FROM candidates`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	sql += " ORDER BY created_at DESC LIMIT " + arg(limit) + " OFFSET " + arg(q.Offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.WrapError(err, "filter candidates")
	}
	defer rows.Close()
	return collectCandidates(rows)
}

func (r *candidateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return common.WrapError(err, "delete candidate")
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("CANDIDATE_NOT_FOUND", "candidate not found", common.ErrNotFound)
	}
	r.log.Info("candidate deleted", "candidate_id", id)
	return nil
}

func collectCandidates(rows pgx.Rows) ([]*Candidate, error) {
	var out []*Candidate
	for rows.Next() {
		cand, err := scanCandidate(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan candidate")
		}
		out = append(out, cand)
	}
	return out, rows.Err()
}

func scanCandidate(row rowScanner) (*Candidate, error) {
	var (
		cand   Candidate
		skills []byte
	)
	if err := row.Scan(
		&cand.ID, &cand.Name, &cand.Email, &cand.Phone, &cand.Education,
		&cand.ExperienceYears, &cand.CurrentPosition, &cand.CurrentCompany,
		&skills, &cand.Status, &cand.Notes, &cand.CreatedAt, &cand.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &cand.Skills); err != nil {
			return nil, err
		}
	}
	return &cand, nil
}
