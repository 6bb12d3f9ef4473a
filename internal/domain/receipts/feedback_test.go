package receipts

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeFeedback(n int) []FeedbackEntry {
	entries := make([]FeedbackEntry, n)
	for i := range entries {
		entries[i] = FeedbackEntry{
			UserID:      uuid.New(),
			ReceiptID:   uuid.New(),
			Description: gofakeit.ProductName(),
			RawCategory: gofakeit.ProductCategory(),
			Locale:      "en",
			StoreName:   gofakeit.Company(),
			FileName:    gofakeit.Word() + ".pdf",
			CreatedAt:   time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		}
	}
	return entries
}

// ============================================================================
// FeedbackCollector
// ============================================================================

func TestFeedbackCollector_Cap(t *testing.T) {
	c := NewFeedbackCollector(DefaultFeedbackCap)
	for i, e := range fakeFeedback(42) {
		kept := c.Record(e)
		assert.Equal(t, i < DefaultFeedbackCap, kept)
	}
	assert.Len(t, c.Entries(), DefaultFeedbackCap)
	assert.Equal(t, 12, c.Dropped())
}

func TestFeedbackCollector_DefaultCap(t *testing.T) {
	c := NewFeedbackCollector(0)
	for _, e := range fakeFeedback(DefaultFeedbackCap + 1) {
		c.Record(e)
	}
	assert.Len(t, c.Entries(), DefaultFeedbackCap)
}

// ============================================================================
// FeedbackLogger
// ============================================================================

type panickingWriter struct{}

func (panickingWriter) InsertFeedback(context.Context, []FeedbackEntry) error {
	panic("writer exploded")
}

func TestFeedbackLogger_Flush(t *testing.T) {
	w := &recordingFeedback{}
	l := NewFeedbackLogger(w, slog.New(slog.DiscardHandler), time.Second)

	entries := fakeFeedback(3)
	l.Flush(entries)
	entries[0].Description = "mutated after flush"
	l.Wait()

	got := w.all()
	require.Len(t, got, 3)
	assert.NotEqual(t, "mutated after flush", got[0].Description)
}

func TestFeedbackLogger_ErrorsAndPanicsAreSwallowed(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	failing := NewFeedbackLogger(&recordingFeedback{err: errors.New("disk full")}, logger, time.Second)
	failing.Flush(fakeFeedback(1))
	failing.Wait()

	panicking := NewFeedbackLogger(panickingWriter{}, logger, time.Second)
	assert.NotPanics(t, func() {
		panicking.Flush(fakeFeedback(1))
		panicking.Wait()
	})
}

func TestFeedbackLogger_NoopCases(t *testing.T) {
	var nilLogger *FeedbackLogger
	assert.NotPanics(t, func() { nilLogger.Flush(fakeFeedback(1)) })

	w := &recordingFeedback{}
	l := NewFeedbackLogger(w, slog.New(slog.DiscardHandler), 0)
	l.Flush(nil)
	l.Wait()
	assert.Empty(t, w.all())
}

// ============================================================================
// CSV export
// ============================================================================

func TestWriteFeedbackCSV(t *testing.T) {
	entries := fakeFeedback(2)
	entries[0].Description = `Chips, "salted"`

	var buf bytes.Buffer
	require.NoError(t, WriteFeedbackCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"user_id", "receipt_id", "description", "raw_category", "closest_category", "locale", "store_name", "file_name", "created_at"}, records[0])
	assert.Equal(t, `Chips, "salted"`, records[1][2])
	assert.Equal(t, entries[1].ReceiptID.String(), records[2][1])
}

func TestWriteFeedbackCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFeedbackCSV(&buf, nil))
	assert.Contains(t, buf.String(), "description")
}
