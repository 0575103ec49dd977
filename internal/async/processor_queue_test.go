package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProcessor struct {
	mu   sync.Mutex
	seen []uuid.UUID
	err  error
}

func (p *countingProcessor) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, jobID)
	return p.err
}

func (p *countingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

func TestQueueProcessesAllJobs(t *testing.T) {
	proc := &countingProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(16))

	const n = 10
	for i := 0; i < n; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{JobID: uuid.New(), SubmittedAt: time.Now()}))
	}
	q.Shutdown(context.Background())

	assert.Equal(t, n, proc.count())
}

func TestQueueProcessorErrorDoesNotStopWorkers(t *testing.T) {
	proc := &countingProcessor{err: errors.New("boom")}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(4))

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{JobID: uuid.New()}))
	}
	q.Shutdown(context.Background())

	assert.Equal(t, 3, proc.count())
}

func TestEnqueueAfterShutdownFails(t *testing.T) {
	proc := &countingProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(1))
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{JobID: uuid.New()})
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.Equal(t, 0, proc.count())
}
