package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrcopilot/resume-tracker/constants"
	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/extract"
	"github.com/hrcopilot/resume-tracker/internal/llm"
	"github.com/hrcopilot/resume-tracker/internal/repository"
)

// fakeJobRepo holds jobs in memory and enforces the same terminal-state rules
// as the SQL implementation.
type fakeJobRepo struct {
	jobs map[uuid.UUID]*repository.ExtractionJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*repository.ExtractionJob)}
}

func (f *fakeJobRepo) add(fileType string, candidateID uuid.UUID) *repository.ExtractionJob {
	job := &repository.ExtractionJob{
		ID:          uuid.New(),
		Filename:    "resume." + fileType,
		FilePath:    "/tmp/resume." + fileType,
		FileType:    fileType,
		Status:      constants.JobStatusPending,
		CandidateID: candidateID,
	}
	f.jobs[job.ID] = job
	return job
}

func (f *fakeJobRepo) Create(ctx context.Context, filename, filePath string, fileSize int64, fileType string, candidateID uuid.UUID) (*repository.ExtractionJob, error) {
	job := f.add(fileType, candidateID)
	job.Filename = filename
	job.FilePath = filePath
	job.FileSize = fileSize
	return job, nil
}

func (f *fakeJobRepo) Get(ctx context.Context, id uuid.UUID) (*repository.ExtractionJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, common.NewAppError("JOB_NOT_FOUND", "extraction job not found", common.ErrNotFound)
	}
	return job, nil
}

func (f *fakeJobRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*repository.ExtractionJob, error) {
	var out []*repository.ExtractionJob
	for _, job := range f.jobs {
		if job.CandidateID == candidateID {
			out = append(out, job)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	job := f.jobs[id]
	if job.Status != constants.JobStatusPending {
		return common.NewAppError("INVALID_TRANSITION", "job is not pending", common.ErrInvalidInput)
	}
	job.Status = constants.JobStatusProcessing
	return nil
}

func (f *fakeJobRepo) FinishSuccess(ctx context.Context, id uuid.UUID, rawText string, fields extract.Fields) error {
	job := f.jobs[id]
	if job.Status.Terminal() {
		return common.NewAppError("INVALID_TRANSITION", "job already terminal", common.ErrInvalidInput)
	}
	job.Status = constants.JobStatusCompleted
	job.RawText = &rawText
	job.Fields = fields
	return nil
}

func (f *fakeJobRepo) FinishFailure(ctx context.Context, id uuid.UUID, message string) error {
	job := f.jobs[id]
	if job.Status.Terminal() {
		return common.NewAppError("INVALID_TRANSITION", "job already terminal", common.ErrInvalidInput)
	}
	job.Status = constants.JobStatusFailed
	job.ErrorMessage = &message
	return nil
}

type fakeOracle struct {
	fields extract.Fields
	err    error
}

func (f *fakeOracle) ExtractResumeInfo(ctx context.Context, resumeText string) (extract.Fields, error) {
	if f.err != nil {
		return extract.Fields{}, f.err
	}
	return f.fields, nil
}

func (f *fakeOracle) OptimizeFilterCriteria(ctx context.Context, naturalQuery string) (llm.FilterCriteria, error) {
	return llm.FilterCriteria{}, nil
}

func (f *fakeOracle) ScoreCandidates(ctx context.Context, requirements string, candidates []llm.CandidateSummary) ([]llm.MatchResult, error) {
	return nil, nil
}

type fakeReconciler struct {
	calls []extract.Fields
	err   error
}

func (f *fakeReconciler) Reconcile(ctx context.Context, candidateID uuid.UUID, fields extract.Fields) error {
	f.calls = append(f.calls, fields)
	return f.err
}

func TestProcessJobCompletes(t *testing.T) {
	repo := newFakeJobRepo()
	job := repo.add("pdf", uuid.New())
	oracle := &fakeOracle{fields: extract.Fields{extract.FieldName: "Jane Doe"}}
	rec := &fakeReconciler{}

	p := NewProcessor(nil, repo, oracle, rec).WithTextExtractor(func(path, declaredType string) (string, error) {
		return "Jane Doe\njane@example.com\n5 years of experience", nil
	})

	require.NoError(t, p.ProcessJob(context.Background(), job.ID))

	assert.Equal(t, constants.JobStatusCompleted, job.Status)
	require.NotNil(t, job.RawText)
	assert.Contains(t, *job.RawText, "jane@example.com")
	assert.Equal(t, "Jane Doe", job.Fields.String(extract.FieldName))
	assert.Equal(t, "jane@example.com", job.Fields.String(extract.FieldEmail))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "Jane Doe", rec.calls[0].String(extract.FieldName))
}

func TestProcessJobTextExtractionFailureIsTerminal(t *testing.T) {
	repo := newFakeJobRepo()
	job := repo.add("pdf", uuid.New())
	rec := &fakeReconciler{}

	extractErr := common.NewAppError("EXTRACTION_FAILED", "open pdf: broken xref", common.ErrExtractionFailed)
	p := NewProcessor(nil, repo, &fakeOracle{}, rec).WithTextExtractor(func(path, declaredType string) (string, error) {
		return "", extractErr
	})

	err := p.ProcessJob(context.Background(), job.ID)
	assert.ErrorIs(t, err, common.ErrExtractionFailed)

	assert.Equal(t, constants.JobStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Contains(t, *job.ErrorMessage, "broken xref")
	assert.Empty(t, rec.calls, "reconciliation must not run for failed jobs")
}

func TestProcessJobOracleHardFailureStillCompletes(t *testing.T) {
	repo := newFakeJobRepo()
	job := repo.add("docx", uuid.New())
	oracle := &fakeOracle{err: common.NewAppError("ORACLE_UNAVAILABLE", "status 500", common.ErrOracleUnavailable)}
	rec := &fakeReconciler{}

	p := NewProcessor(nil, repo, oracle, rec).WithTextExtractor(func(path, declaredType string) (string, error) {
		return "jane@example.com skilled in Go and Docker", nil
	})

	require.NoError(t, p.ProcessJob(context.Background(), job.ID))

	// Degraded run: rule-based fields only, but the job still completes.
	assert.Equal(t, constants.JobStatusCompleted, job.Status)
	assert.Equal(t, "jane@example.com", job.Fields.String(extract.FieldEmail))
	assert.Equal(t, []string{"Go", "Docker"}, job.Fields.Strings(extract.FieldSkills))
	require.Len(t, rec.calls, 1)
}

func TestProcessJobReconcileErrorDoesNotUnwind(t *testing.T) {
	repo := newFakeJobRepo()
	job := repo.add("pdf", uuid.New())
	rec := &fakeReconciler{err: errors.New("db unavailable")}

	p := NewProcessor(nil, repo, &fakeOracle{}, rec).WithTextExtractor(func(path, declaredType string) (string, error) {
		return "text", nil
	})

	require.NoError(t, p.ProcessJob(context.Background(), job.ID))
	assert.Equal(t, constants.JobStatusCompleted, job.Status)
}

func TestProcessJobUnknownJob(t *testing.T) {
	p := NewProcessor(nil, newFakeJobRepo(), &fakeOracle{}, &fakeReconciler{})
	err := p.ProcessJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
