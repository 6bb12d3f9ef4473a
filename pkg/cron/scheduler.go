// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/receipts"
)

// DefaultSweepSpec runs the stale receipt sweep every ten minutes.
const DefaultSweepSpec = "*/10 * * * *"

// StaleLister finds receipts stuck in pending.
type StaleLister interface {
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]receipts.StaleReceipt, error)
}

// Enqueuer schedules a receipt for processing.
type Enqueuer interface {
	Enqueue(receiptID, userID uuid.UUID) bool
}

// SweepConfig controls the stale receipt sweep.
type SweepConfig struct {
	Spec       string
	StaleAfter time.Duration
	BatchSize  int
	Timeout    time.Duration
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	stale  StaleLister
	queue  Enqueuer
	cfg    SweepConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewScheduler creates a new job scheduler.
func NewScheduler(stale StaleLister, queue Enqueuer, cfg SweepConfig, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	if cfg.Spec == "" {
		cfg.Spec = DefaultSweepSpec
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 15 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}

	return &Scheduler{
		cron:   c,
		stale:  stale,
		queue:  queue,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Receipts left pending by a crash or restart lose their in-memory
	// dispatch entry; re-enqueue them.
	_, err := s.cron.AddFunc(s.cfg.Spec, s.sweepStalePending)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
		slog.String("sweep_spec", s.cfg.Spec),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the stale receipt sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.sweepStalePending()
}

// sweepStalePending re-enqueues receipts pending for longer than StaleAfter.
func (s *Scheduler) sweepStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	cutoff := s.now().Add(-s.cfg.StaleAfter)
	stale, err := s.stale.ListStalePending(ctx, cutoff, s.cfg.BatchSize)
	if err != nil {
		s.logger.Error("failed to list stale receipts", slog.Any("error", err))
		return
	}
	if len(stale) == 0 {
		s.logger.Debug("no stale receipts")
		return
	}

	queued := 0
	skipped := 0
	for _, r := range stale {
		if s.queue.Enqueue(r.ID, r.UserID) {
			queued++
			continue
		}
		// already in flight in this process
		skipped++
	}

	s.logger.Info("stale receipt sweep completed",
		slog.Int("found", len(stale)),
		slog.Int("queued", queued),
		slog.Int("skipped", skipped),
	)
}
