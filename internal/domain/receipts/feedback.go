package receipts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

// DefaultFeedbackCap bounds feedback entries per processing run.
const DefaultFeedbackCap = 30

// FeedbackCollector accumulates unresolved category labels for one run.
type FeedbackCollector struct {
	limit   int
	entries []FeedbackEntry
	dropped int
}

// NewFeedbackCollector returns a collector holding at most limit entries.
func NewFeedbackCollector(limit int) *FeedbackCollector {
	if limit <= 0 {
		limit = DefaultFeedbackCap
	}
	return &FeedbackCollector{limit: limit}
}

// Record keeps e unless the cap is reached.
func (c *FeedbackCollector) Record(e FeedbackEntry) bool {
	if len(c.entries) >= c.limit {
		c.dropped++
		return false
	}
	c.entries = append(c.entries, e)
	return true
}

func (c *FeedbackCollector) Entries() []FeedbackEntry { return c.entries }

func (c *FeedbackCollector) Dropped() int { return c.dropped }

// FeedbackWriter persists feedback entries.
type FeedbackWriter interface {
	InsertFeedback(ctx context.Context, entries []FeedbackEntry) error
}

// FeedbackLogger writes feedback in the background. Failures are logged and
// never reach the receipt being processed.
type FeedbackLogger struct {
	writer  FeedbackWriter
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewFeedbackLogger(writer FeedbackWriter, logger *slog.Logger, timeout time.Duration) *FeedbackLogger {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FeedbackLogger{writer: writer, logger: logger, timeout: timeout}
}

// Flush writes entries asynchronously.
func (f *FeedbackLogger) Flush(entries []FeedbackEntry) {
	if f == nil || f.writer == nil || len(entries) == 0 {
		return
	}
	batch := append([]FeedbackEntry(nil), entries...)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				f.logger.Error("feedback writer panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		if err := f.writer.InsertFeedback(ctx, batch); err != nil {
			f.logger.Warn("failed to write category feedback",
				"error", err,
				"entries", len(batch),
			)
			return
		}
		f.logger.Debug("category feedback written", "entries", len(batch))
	}()
}

// Wait blocks until pending writes finish.
func (f *FeedbackLogger) Wait() {
	f.wg.Wait()
}

// WriteFeedbackCSV writes entries as CSV with a header row.
func WriteFeedbackCSV(w io.Writer, entries []FeedbackEntry) error {
	if entries == nil {
		entries = []FeedbackEntry{}
	}
	if err := gocsv.Marshal(&entries, w); err != nil {
		return fmt.Errorf("failed to write feedback csv: %w", err)
	}
	return nil
}
