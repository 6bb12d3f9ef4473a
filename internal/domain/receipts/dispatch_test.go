package receipts

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingJob counts executions and blocks until released.
type blockingJob struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
}

func newBlockingJob() *blockingJob {
	return &blockingJob{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (j *blockingJob) Process(ctx context.Context, _, _ uuid.UUID) error {
	j.calls.Add(1)
	j.started <- struct{}{}
	select {
	case <-j.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return j.err
}

type panickingJob struct {
	mu     sync.Mutex
	failed []error
}

func (j *panickingJob) Process(context.Context, uuid.UUID, uuid.UUID) error {
	panic("nil pointer dereference")
}

func (j *panickingJob) Fail(_ context.Context, _, _ uuid.UUID, cause error) {
	j.mu.Lock()
	j.failed = append(j.failed, cause)
	j.mu.Unlock()
}

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// ============================================================================
// MemoryTracker
// ============================================================================

func TestMemoryTracker(t *testing.T) {
	tr := NewMemoryTracker()
	id := uuid.New()

	assert.True(t, tr.TryStart(id))
	assert.False(t, tr.TryStart(id))
	assert.Equal(t, 1, tr.Len())

	tr.Finish(id)
	assert.Equal(t, 0, tr.Len())
	assert.True(t, tr.TryStart(id))
}

func TestMemoryTracker_Concurrent(t *testing.T) {
	tr := NewMemoryTracker()
	id := uuid.New()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.TryStart(id) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

// ============================================================================
// Dispatcher
// ============================================================================

func TestDispatcher_DeduplicatesInFlightReceipt(t *testing.T) {
	job := newBlockingJob()
	d := NewDispatcher(job, NewMemoryTracker(), testLogger(), time.Minute)
	receiptID, userID := uuid.New(), uuid.New()

	assert.True(t, d.Enqueue(receiptID, userID))
	assert.False(t, d.Enqueue(receiptID, userID))

	<-job.started
	close(job.release)
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Equal(t, int32(1), job.calls.Load())
}

func TestDispatcher_ReleasesAfterCompletion(t *testing.T) {
	job := newBlockingJob()
	job.err = errors.New("extraction failed")
	close(job.release)

	tracker := NewMemoryTracker()
	d := NewDispatcher(job, tracker, testLogger(), time.Minute)
	receiptID, userID := uuid.New(), uuid.New()

	require.True(t, d.Enqueue(receiptID, userID))
	<-job.started
	require.Eventually(t, func() bool { return tracker.Len() == 0 }, time.Second, 5*time.Millisecond)

	// a finished receipt can be processed again
	require.True(t, d.Enqueue(receiptID, userID))
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(2), job.calls.Load())
}

func TestDispatcher_DistinctReceiptsRunConcurrently(t *testing.T) {
	job := newBlockingJob()
	d := NewDispatcher(job, nil, testLogger(), time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, d.Enqueue(uuid.New(), uuid.New()))
	}
	for i := 0; i < 3; i++ {
		<-job.started
	}
	close(job.release)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(3), job.calls.Load())
}

func TestDispatcher_PanicMarksFailed(t *testing.T) {
	job := &panickingJob{}
	tracker := NewMemoryTracker()
	d := NewDispatcher(job, tracker, testLogger(), 0)

	require.True(t, d.Enqueue(uuid.New(), uuid.New()))
	require.NoError(t, d.Shutdown(context.Background()))

	job.mu.Lock()
	defer job.mu.Unlock()
	require.Len(t, job.failed, 1)
	assert.Contains(t, job.failed[0].Error(), "nil pointer dereference")
	assert.Equal(t, 0, tracker.Len())
}

func TestDispatcher_JobTimeout(t *testing.T) {
	job := newBlockingJob()
	tracker := NewMemoryTracker()
	d := NewDispatcher(job, tracker, testLogger(), 20*time.Millisecond)

	require.True(t, d.Enqueue(uuid.New(), uuid.New()))
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, 0, tracker.Len())
}

func TestDispatcher_RejectsAfterShutdown(t *testing.T) {
	job := newBlockingJob()
	d := NewDispatcher(job, nil, testLogger(), time.Minute)

	require.NoError(t, d.Shutdown(context.Background()))
	assert.False(t, d.Enqueue(uuid.New(), uuid.New()))
	assert.Zero(t, job.calls.Load())
}

func TestDispatcher_ShutdownHonoursContext(t *testing.T) {
	job := newBlockingJob()
	d := NewDispatcher(job, nil, testLogger(), time.Minute)
	require.True(t, d.Enqueue(uuid.New(), uuid.New()))
	<-job.started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)

	close(job.release)
}
