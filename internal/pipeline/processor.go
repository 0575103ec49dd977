// Package pipeline drives a single extraction job from pending to a terminal
// state: text extraction, rule-based extraction, oracle extraction with
// fallback, merge, persistence, candidate reconciliation.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hrcopilot/resume-tracker/internal/extract"
	"github.com/hrcopilot/resume-tracker/internal/llm"
	"github.com/hrcopilot/resume-tracker/internal/repository"
)

// Reconciler applies merged fields to the owning candidate profile.
type Reconciler interface {
	Reconcile(ctx context.Context, candidateID uuid.UUID, fields extract.Fields) error
}

// TextExtractor matches extract.Text; injectable for tests.
type TextExtractor func(path, declaredType string) (string, error)

type Processor struct {
	log        *slog.Logger
	jobs       repository.ExtractionJobRepository
	oracle     llm.Oracle
	reconciler Reconciler
	extractor  TextExtractor
}

func NewProcessor(logger *slog.Logger, jobs repository.ExtractionJobRepository, oracle llm.Oracle, reconciler Reconciler) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		log:        logger,
		jobs:       jobs,
		oracle:     oracle,
		reconciler: reconciler,
		extractor:  extract.Text,
	}
}

// WithTextExtractor swaps the text extraction function. Used by tests.
func (p *Processor) WithTextExtractor(fn TextExtractor) *Processor {
	p.extractor = fn
	return p
}

// ProcessJob runs the full pipeline for one job. Text extraction errors are
// terminal and fail the job with the original cause message. Oracle failures
// of either kind only degrade the field set: the job still completes with
// whatever the rule extractor produced. Reconciliation runs once after the
// job is completed; its errors are logged, never unwound into the terminal
// job record.
func (p *Processor) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := p.jobs.Get(ctx, jobID)
	if err != nil {
		p.log.Error("pipeline.load_job_failed", "job_id", jobID, "error", err)
		return err
	}

	if err := p.jobs.MarkProcessing(ctx, jobID); err != nil {
		p.log.Error("pipeline.mark_processing_failed", "job_id", jobID, "error", err)
		return err
	}

	p.log.Info("pipeline.text_extract.start", "job_id", jobID, "file_type", job.FileType)
	rawText, err := p.extractor(job.FilePath, job.FileType)
	if err != nil {
		p.log.Error("pipeline.text_extract.failed", "job_id", jobID, "error", err)
		if ferr := p.jobs.FinishFailure(ctx, jobID, err.Error()); ferr != nil {
			p.log.Error("pipeline.finish_failure_failed", "job_id", jobID, "error", ferr)
		}
		return err
	}
	p.log.Info("pipeline.text_extract.ok", "job_id", jobID, "text_bytes", len(rawText))

	basic := extract.BasicInfo(rawText)
	p.log.Info("pipeline.rules.ok", "job_id", jobID, "field_count", len(basic))

	oracleFields, err := p.oracle.ExtractResumeInfo(ctx, rawText)
	if err != nil {
		// Hard oracle failure: proceed with rule-based fields only.
		p.log.Warn("pipeline.oracle.degraded", "job_id", jobID, "error", err)
		oracleFields = extract.Fields{}
	}

	merged := extract.Merge(basic, oracleFields)
	p.log.Info("pipeline.merge.ok", "job_id", jobID, "field_count", len(merged))

	if err := p.jobs.FinishSuccess(ctx, jobID, rawText, merged); err != nil {
		p.log.Error("pipeline.finish_success_failed", "job_id", jobID, "error", err)
		if ferr := p.jobs.FinishFailure(ctx, jobID, err.Error()); ferr != nil {
			p.log.Error("pipeline.finish_failure_failed", "job_id", jobID, "error", ferr)
		}
		return err
	}

	if err := p.reconciler.Reconcile(ctx, job.CandidateID, merged); err != nil {
		p.log.Error("pipeline.reconcile_failed", "job_id", jobID, "candidate_id", job.CandidateID, "error", err)
	}

	p.log.Info("pipeline.done", "job_id", jobID, "candidate_id", job.CandidateID)
	return nil
}
