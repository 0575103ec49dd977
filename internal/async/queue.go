package async

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job is the smallest useful unit: one extraction job to run.
type Job struct {
	JobID       uuid.UUID
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
