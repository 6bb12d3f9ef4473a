package receipts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// JobTracker guards against running the same receipt twice at once. The
// in-memory implementation only deduplicates within one process; a shared
// tracker (a database advisory lock or a Redis key) can be swapped in for
// multi-instance deployments.
type JobTracker interface {
	// TryStart claims id. It returns false when id is already in flight.
	TryStart(id uuid.UUID) bool
	// Finish releases id.
	Finish(id uuid.UUID)
}

// MemoryTracker is a process-local JobTracker.
type MemoryTracker struct {
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{inFlight: make(map[uuid.UUID]struct{})}
}

func (t *MemoryTracker) TryStart(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.inFlight[id]; ok {
		return false
	}
	t.inFlight[id] = struct{}{}
	return true
}

func (t *MemoryTracker) Finish(id uuid.UUID) {
	t.mu.Lock()
	delete(t.inFlight, id)
	t.mu.Unlock()
}

// Len returns the number of receipts in flight.
func (t *MemoryTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inFlight)
}

// Job processes one receipt.
type Job interface {
	Process(ctx context.Context, receiptID, userID uuid.UUID) error
}

// failer is implemented by jobs that can record a failure after a panic.
type failer interface {
	Fail(ctx context.Context, receiptID, userID uuid.UUID, cause error)
}

// Dispatcher runs receipt jobs in the background, at most one per receipt.
type Dispatcher struct {
	job     Job
	tracker JobTracker
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex // orders closed checks against wg.Add
	closed atomic.Bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A zero timeout leaves jobs unbounded.
func NewDispatcher(job Job, tracker JobTracker, logger *slog.Logger, timeout time.Duration) *Dispatcher {
	if tracker == nil {
		tracker = NewMemoryTracker()
	}
	return &Dispatcher{job: job, tracker: tracker, logger: logger, timeout: timeout}
}

// Enqueue schedules processing and returns immediately. It reports false
// when the receipt is already in flight or the dispatcher is shut down.
func (d *Dispatcher) Enqueue(receiptID, userID uuid.UUID) bool {
	d.mu.Lock()
	if d.closed.Load() {
		d.mu.Unlock()
		d.logger.Warn("dispatcher closed, dropping receipt", "receipt_id", receiptID)
		return false
	}
	if !d.tracker.TryStart(receiptID) {
		d.mu.Unlock()
		dispatchDeduplicated.Inc()
		d.logger.Debug("receipt already in flight", "receipt_id", receiptID)
		return false
	}
	d.wg.Add(1)
	d.mu.Unlock()

	dispatchInFlight.Inc()
	go d.run(receiptID, userID)
	return true
}

func (d *Dispatcher) run(receiptID, userID uuid.UUID) {
	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if d.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
	}

	defer d.wg.Done()
	defer dispatchInFlight.Dec()
	defer d.tracker.Finish(receiptID)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("receipt processing panicked: %v", r)
			d.logger.Error("receipt job panicked",
				"receipt_id", receiptID,
				"user_id", userID,
				"panic", r,
			)
			if f, ok := d.job.(failer); ok {
				f.Fail(ctx, receiptID, userID, err)
			}
		}
	}()

	if err := d.job.Process(ctx, receiptID, userID); err != nil {
		d.logger.Warn("receipt job failed",
			"receipt_id", receiptID,
			"user_id", userID,
			"error", err,
		)
	}
}

// Shutdown stops accepting receipts and waits for in-flight jobs or ctx.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed.Store(true)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
