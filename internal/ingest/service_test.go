package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrcopilot/resume-tracker/constants"
	"github.com/hrcopilot/resume-tracker/internal/async"
	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/extract"
	"github.com/hrcopilot/resume-tracker/internal/filestore"
	"github.com/hrcopilot/resume-tracker/internal/repository"
)

type stubJobRepo struct {
	created []*repository.ExtractionJob
}

func (s *stubJobRepo) Create(ctx context.Context, filename, filePath string, fileSize int64, fileType string, candidateID uuid.UUID) (*repository.ExtractionJob, error) {
	job := &repository.ExtractionJob{
		ID:          uuid.New(),
		Filename:    filename,
		FilePath:    filePath,
		FileSize:    fileSize,
		FileType:    fileType,
		Status:      constants.JobStatusPending,
		CandidateID: candidateID,
	}
	s.created = append(s.created, job)
	return job, nil
}

func (s *stubJobRepo) Get(ctx context.Context, id uuid.UUID) (*repository.ExtractionJob, error) {
	for _, job := range s.created {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, common.NewAppError("JOB_NOT_FOUND", "extraction job not found", common.ErrNotFound)
}

func (s *stubJobRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*repository.ExtractionJob, error) {
	return nil, nil
}

func (s *stubJobRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubJobRepo) FinishSuccess(ctx context.Context, id uuid.UUID, rawText string, fields extract.Fields) error {
	return nil
}

func (s *stubJobRepo) FinishFailure(ctx context.Context, id uuid.UUID, message string) error {
	return nil
}

type stubCandidateRepo struct {
	created []*repository.Candidate
}

func (s *stubCandidateRepo) Create(ctx context.Context, name string) (*repository.Candidate, error) {
	cand := &repository.Candidate{ID: uuid.New(), Name: name, Status: constants.CandidatePending}
	s.created = append(s.created, cand)
	return cand, nil
}

func (s *stubCandidateRepo) Get(ctx context.Context, id uuid.UUID) (*repository.Candidate, error) {
	return nil, common.NewAppError("CANDIDATE_NOT_FOUND", "candidate not found", common.ErrNotFound)
}

func (s *stubCandidateRepo) GetByEmail(ctx context.Context, email string) (*repository.Candidate, error) {
	return nil, nil
}

func (s *stubCandidateRepo) Update(ctx context.Context, id uuid.UUID, upd repository.CandidateUpdate) (*repository.Candidate, error) {
	return nil, nil
}

func (s *stubCandidateRepo) List(ctx context.Context, limit, offset int) ([]*repository.Candidate, error) {
	return nil, nil
}

func (s *stubCandidateRepo) Filter(ctx context.Context, q repository.FilterQuery) ([]*repository.Candidate, error) {
	return nil, nil
}

func (s *stubCandidateRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubQueue struct {
	enqueued []async.Job
	err      error
}

func (s *stubQueue) Enqueue(ctx context.Context, job async.Job) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, job)
	return nil
}

func (s *stubQueue) Shutdown(ctx context.Context) {}

func newTestService(t *testing.T, maxSize int64) (*Service, *stubJobRepo, *stubCandidateRepo, *stubQueue) {
	t.Helper()
	files, err := filestore.New(t.TempDir(), nil)
	require.NoError(t, err)
	jobs := &stubJobRepo{}
	cands := &stubCandidateRepo{}
	queue := &stubQueue{}
	return NewService(files, jobs, cands, queue, maxSize, nil), jobs, cands, queue
}

func TestUploadResumeAccepted(t *testing.T) {
	svc, jobs, cands, queue := newTestService(t, 1024)

	job, err := svc.UploadResume(context.Background(), "resume.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "resume.pdf", job.Filename)
	assert.Equal(t, "pdf", job.FileType)
	assert.Equal(t, constants.JobStatusPending, job.Status)

	require.Len(t, cands.created, 1)
	assert.Equal(t, cands.created[0].ID, job.CandidateID)
	assert.True(t, strings.HasPrefix(cands.created[0].Name, "candidate-"))

	require.Len(t, jobs.created, 1)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, job.ID, queue.enqueued[0].JobID)
}

func TestUploadResumeDocPassesValidation(t *testing.T) {
	// Legacy .doc clears the upload allow-list; the extractor rejects it
	// later and the job fails there.
	svc, _, _, queue := newTestService(t, 1024)

	job, err := svc.UploadResume(context.Background(), "old.doc", strings.NewReader("binary"))
	require.NoError(t, err)
	assert.Equal(t, "doc", job.FileType)
	require.Len(t, queue.enqueued, 1)
}

func TestUploadResumeRejectsExtension(t *testing.T) {
	svc, jobs, cands, queue := newTestService(t, 1024)

	for _, name := range []string{"resume.txt", "resume.png", "resume"} {
		_, err := svc.UploadResume(context.Background(), name, strings.NewReader("data"))
		assert.ErrorIs(t, err, common.ErrInvalidInput, "filename %q", name)
	}
	assert.Empty(t, jobs.created)
	assert.Empty(t, cands.created)
	assert.Empty(t, queue.enqueued)
}

func TestUploadResumeRejectsOversize(t *testing.T) {
	svc, jobs, _, queue := newTestService(t, 10)

	_, err := svc.UploadResume(context.Background(), "big.pdf", strings.NewReader(strings.Repeat("x", 11)))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Empty(t, jobs.created)
	assert.Empty(t, queue.enqueued)
}

func TestUploadResumeSurfacesQueueShutdown(t *testing.T) {
	svc, _, _, queue := newTestService(t, 1024)
	queue.err = async.ErrQueueClosed

	_, err := svc.UploadResume(context.Background(), "resume.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, async.ErrQueueClosed)
}

func TestStatusProjection(t *testing.T) {
	svc, jobs, _, _ := newTestService(t, 1024)

	job, err := svc.UploadResume(context.Background(), "resume.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	raw := "extracted text"
	jobs.created[0].RawText = &raw
	jobs.created[0].Status = constants.JobStatusCompleted
	jobs.created[0].Fields = extract.Fields{extract.FieldName: "Jane"}

	status, err := svc.Status(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", status.Status)
	require.NotNil(t, status.RawText)
	assert.Equal(t, raw, *status.RawText)
	assert.Equal(t, "Jane", status.Fields["name"])
}
