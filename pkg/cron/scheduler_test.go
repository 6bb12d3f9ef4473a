package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/receipts"
)

type fakeStale struct {
	rows   []receipts.StaleReceipt
	err    error
	cutoff time.Time
	limit  int
}

func (f *fakeStale) ListStalePending(_ context.Context, cutoff time.Time, limit int) ([]receipts.StaleReceipt, error) {
	f.cutoff, f.limit = cutoff, limit
	return f.rows, f.err
}

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
	busy     map[uuid.UUID]bool
}

func (q *fakeQueue) Enqueue(receiptID, _ uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.busy[receiptID] {
		return false
	}
	q.enqueued = append(q.enqueued, receiptID)
	return true
}

func newTestScheduler(stale StaleLister, queue Enqueuer, cfg SweepConfig) *Scheduler {
	s := NewScheduler(stale, queue, cfg, slog.New(slog.DiscardHandler))
	s.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSweepStalePending(t *testing.T) {
	busy := uuid.New()
	a, b := uuid.New(), uuid.New()
	stale := &fakeStale{rows: []receipts.StaleReceipt{
		{ID: a, UserID: uuid.New()},
		{ID: busy, UserID: uuid.New()},
		{ID: b, UserID: uuid.New()},
	}}
	queue := &fakeQueue{busy: map[uuid.UUID]bool{busy: true}}

	s := newTestScheduler(stale, queue, SweepConfig{StaleAfter: 20 * time.Minute, BatchSize: 25})
	s.sweepStalePending()

	assert.Equal(t, []uuid.UUID{a, b}, queue.enqueued)
	assert.Equal(t, time.Date(2024, 3, 15, 11, 40, 0, 0, time.UTC), stale.cutoff)
	assert.Equal(t, 25, stale.limit)
}

func TestSweepStalePending_ListError(t *testing.T) {
	queue := &fakeQueue{}
	s := newTestScheduler(&fakeStale{err: errors.New("db down")}, queue, SweepConfig{})
	s.sweepStalePending()
	assert.Empty(t, queue.enqueued)
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := newTestScheduler(&fakeStale{}, &fakeQueue{}, SweepConfig{})
	assert.Equal(t, DefaultSweepSpec, s.cfg.Spec)
	assert.Equal(t, 15*time.Minute, s.cfg.StaleAfter)
	assert.Equal(t, 100, s.cfg.BatchSize)
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(&fakeStale{}, &fakeQueue{}, SweepConfig{})
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	<-s.Stop().Done()
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := newTestScheduler(&fakeStale{}, &fakeQueue{}, SweepConfig{Spec: "every tuesday"})
	assert.Error(t, s.Start())
}
