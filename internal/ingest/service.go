// Package ingest handles upload intake: validation, file storage, eager
// candidate creation, job creation, and scheduling of pipeline execution.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hrcopilot/resume-tracker/constants"
	"github.com/hrcopilot/resume-tracker/internal/async"
	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/filestore"
	"github.com/hrcopilot/resume-tracker/internal/repository"
)

type Service struct {
	files       *filestore.Store
	jobs        repository.ExtractionJobRepository
	candidates  repository.CandidateRepository
	queue       async.Queue
	maxFileSize int64
	log         *slog.Logger
}

func NewService(
	files *filestore.Store,
	jobs repository.ExtractionJobRepository,
	candidates repository.CandidateRepository,
	queue async.Queue,
	maxFileSize int64,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxFileSize <= 0 {
		maxFileSize = constants.MaxFileSizeDefault
	}
	return &Service{
		files:       files,
		jobs:        jobs,
		candidates:  candidates,
		queue:       queue,
		maxFileSize: maxFileSize,
		log:         logger,
	}
}

// UploadResume accepts one file: validates the extension against the
// allow-list and the size cap, stores the file, creates the candidate
// profile eagerly (it exists whether or not extraction ever succeeds),
// creates the job in pending, and schedules pipeline execution. It returns
// without waiting for extraction to finish.
func (s *Service) UploadResume(ctx context.Context, filename string, r io.Reader) (*repository.ExtractionJob, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		s.log.Warn("upload rejected", "filename", filename, "ext", ext)
		return nil, common.NewAppError("UNSUPPORTED_EXTENSION",
			fmt.Sprintf("unsupported file extension: .%s", ext), common.ErrInvalidInput)
	}

	path, size, err := s.files.Save(filename, r, s.maxFileSize)
	if err != nil {
		s.log.Warn("upload save failed", "filename", filename, "error", err)
		return nil, err
	}

	cand, err := s.candidates.Create(ctx, placeholderName())
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.Create(ctx, filename, path, size, ext, cand.ID)
	if err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, async.Job{JobID: job.ID, SubmittedAt: time.Now()}); err != nil {
		s.log.Error("enqueue failed", "job_id", job.ID, "error", err)
		return nil, err
	}

	s.log.Info("upload accepted",
		"filename", filename,
		"job_id", job.ID,
		"candidate_id", cand.ID,
		"size", size,
	)
	return job, nil
}

// placeholderName labels the eagerly created profile until reconciliation
// fills in the extracted name.
func placeholderName() string {
	return "candidate-" + time.Now().Format("20060102-150405.000")
}

// JobStatus is a direct projection of the ExtractionJob entity for the
// status-read surface.
type JobStatus struct {
	ID          uuid.UUID      `json:"id"`
	Filename    string         `json:"filename"`
	Status      string         `json:"processing_status"`
	RawText     *string        `json:"raw_text"`
	Fields      map[string]any `json:"extracted_data"`
	Error       *string        `json:"error_message"`
	CandidateID uuid.UUID      `json:"candidate_id"`
}

// Status returns the projection for one job.
func (s *Service) Status(ctx context.Context, jobID uuid.UUID) (*JobStatus, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &JobStatus{
		ID:          job.ID,
		Filename:    job.Filename,
		Status:      string(job.Status),
		RawText:     job.RawText,
		Fields:      job.Fields,
		Error:       job.ErrorMessage,
		CandidateID: job.CandidateID,
	}, nil
}
