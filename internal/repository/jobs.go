package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrcopilot/resume-tracker/constants"
	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/extract"
)

// ExtractionJob is one ingestion job for one uploaded resume file.
type ExtractionJob struct {
	ID            uuid.UUID
	Filename      string
	FilePath      string
	FileSize      int64
	FileType      string
	RawText       *string
	Fields        extract.Fields
	Status        constants.JobStatus
	ErrorMessage  *string
	CandidateID   uuid.UUID
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// ExtractionJobRepository owns the job state machine. Every transition is a
// single persisted write whose predicate excludes terminal rows, so a reader
// can never observe a completed job without fields or a failed job without
// an error message, and terminal jobs stay immutable.
type ExtractionJobRepository interface {
	Create(ctx context.Context, filename, filePath string, fileSize int64, fileType string, candidateID uuid.UUID) (*ExtractionJob, error)
	Get(ctx context.Context, id uuid.UUID) (*ExtractionJob, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*ExtractionJob, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	FinishSuccess(ctx context.Context, id uuid.UUID, rawText string, fields extract.Fields) error
	FinishFailure(ctx context.Context, id uuid.UUID, message string) error
}

type jobRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewExtractionJobRepository(pool *pgxpool.Pool, logger *slog.Logger) ExtractionJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &jobRepo{pool: pool, log: logger}
}

const jobColumns = `id, filename, file_path, file_size, file_type, raw_text,
	extracted_data, processing_status, error_message, candidate_id, created_at, processed_at`

func (r *jobRepo) Create(ctx context.Context, filename, filePath string, fileSize int64, fileType string, candidateID uuid.UUID) (*ExtractionJob, error) {
	id := uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO extraction_jobs (id, filename, file_path, file_size, file_type, processing_status, candidate_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+jobColumns,
		id, filename, filePath, fileSize, fileType, constants.JobStatusPending, candidateID)
	job, err := scanJob(row)
	if err != nil {
		r.log.Error("extraction_job create failed", "filename", filename, "error", err)
		return nil, common.WrapError(err, "create extraction job")
	}
	r.log.Info("extraction_job created", "job_id", job.ID, "candidate_id", candidateID, "file_type", fileType)
	return job, nil
}

func (r *jobRepo) Get(ctx context.Context, id uuid.UUID) (*ExtractionJob, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM extraction_jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("JOB_NOT_FOUND", "extraction job not found", common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get extraction job")
	}
	return job, nil
}

func (r *jobRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*ExtractionJob, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+jobColumns+` FROM extraction_jobs
		WHERE candidate_id = $1 ORDER BY created_at DESC`, candidateID)
	if err != nil {
		return nil, common.WrapError(err, "list extraction jobs")
	}
	defer rows.Close()

	var jobs []*ExtractionJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan extraction job")
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// MarkProcessing moves pending -> processing immediately before text
// extraction begins.
func (r *jobRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE extraction_jobs
		SET processing_status = $2
		WHERE id = $1 AND processing_status = $3`,
		id, constants.JobStatusProcessing, constants.JobStatusPending)
	if err != nil {
		r.log.Error("extraction_job mark processing failed", "job_id", id, "error", err)
		return common.WrapError(err, "mark processing")
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("INVALID_TRANSITION", "job is not pending", common.ErrInvalidInput)
	}
	r.log.Info("extraction_job processing", "job_id", id)
	return nil
}

// FinishSuccess persists raw text and merged fields atomically with the
// transition into completed.
func (r *jobRepo) FinishSuccess(ctx context.Context, id uuid.UUID, rawText string, fields extract.Fields) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return common.WrapError(err, "marshal extracted fields")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE extraction_jobs
		SET processing_status = $2, raw_text = $3, extracted_data = $4, processed_at = now()
		WHERE id = $1 AND processing_status NOT IN ($5, $6)`,
		id, constants.JobStatusCompleted, rawText, data,
		constants.JobStatusCompleted, constants.JobStatusFailed)
	if err != nil {
		r.log.Error("extraction_job finish(completed) failed", "job_id", id, "error", err)
		return common.WrapError(err, "finish success")
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("INVALID_TRANSITION", "job already terminal", common.ErrInvalidInput)
	}
	r.log.Info("extraction_job completed", "job_id", id, "text_bytes", len(rawText), "field_count", len(fields))
	return nil
}

// FinishFailure persists the error message atomically with the transition
// into failed.
func (r *jobRepo) FinishFailure(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE extraction_jobs
		SET processing_status = $2, error_message = $3, processed_at = now()
		WHERE id = $1 AND processing_status NOT IN ($4, $5)`,
		id, constants.JobStatusFailed, message,
		constants.JobStatusCompleted, constants.JobStatusFailed)
	if err != nil {
		r.log.Error("extraction_job finish(failed) failed", "job_id", id, "error", err)
		return common.WrapError(err, "finish failure")
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("INVALID_TRANSITION", "job already terminal", common.ErrInvalidInput)
	}
	r.log.Info("extraction_job failed", "job_id", id, "message", message)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*ExtractionJob, error) {
	var (
		job  ExtractionJob
		data []byte
	)
	if err := row.Scan(
		&job.ID, &job.Filename, &job.FilePath, &job.FileSize, &job.FileType,
		&job.RawText, &data, &job.Status, &job.ErrorMessage,
		&job.CandidateID, &job.CreatedAt, &job.ProcessedAt,
	); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &job.Fields); err != nil {
			return nil, err
		}
	}
	return &job, nil
}
