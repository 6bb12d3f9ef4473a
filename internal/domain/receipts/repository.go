package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ErrReceiptNotFound is returned when a status update touches no row.
var ErrReceiptNotFound = errors.New("receipt not found")

// DB is the query surface shared by *pgxpool.Pool and pgxmock pools.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var lineItemColumns = []string{
	"receipt_id", "user_id", "description", "quantity", "price_per_unit", "total_price",
	"category_id", "category_type_id", "receipt_date", "receipt_time",
}

var feedbackColumns = []string{
	"user_id", "receipt_id", "description", "raw_category", "closest_category", "locale", "store_name", "file_name",
}

// Repository persists receipts and their line items.
type Repository struct {
	db DB
}

// NewRepository creates a new receipts repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// GetReceiptFile loads the receipt row. It returns nil, nil when the row does
// not exist for this user.
func (r *Repository) GetReceiptFile(ctx context.Context, receiptID, userID uuid.UUID) (*ReceiptFile, error) {
	query := `
		SELECT id, user_id, file_key, file_name, mime_type, store_name, status
		FROM receipts
		WHERE id = $1 AND user_id = $2
	`

	var f ReceiptFile
	var status string
	err := r.db.QueryRow(ctx, query, receiptID, userID).Scan(
		&f.ID,
		&f.UserID,
		&f.FileKey,
		&f.FileName,
		&f.MimeType,
		&f.StoreName,
		&status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt: %w", err)
	}
	f.Status = Status(status)
	return &f, nil
}

// Persist replaces the receipt's line items and marks it completed, in one
// transaction.
func (r *Repository) Persist(ctx context.Context, o Outcome) error {
	diagnostics, err := json.Marshal(o.Diagnostics)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := deleteLineItems(ctx, tx, o.ReceiptID, o.UserID); err != nil {
		return err
	}

	date := toDate(o.Meta.Date)
	clock := toTime(o.Meta.Time)

	if len(o.Items) > 0 {
		rows := make([][]any, len(o.Items))
		for i, item := range o.Items {
			var categoryID any
			if item.CategoryID != uuid.Nil {
				categoryID = item.CategoryID
			}
			rows[i] = []any{
				o.ReceiptID,
				o.UserID,
				item.Description,
				toNumeric(item.Quantity),
				toNumeric(item.PricePerUnit),
				toNumeric(item.TotalPrice),
				categoryID,
				item.CategoryTypeID,
				date,
				clock,
			}
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"receipt_transactions"}, lineItemColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to insert line items: %w", err)
		}
		if int(n) != len(rows) {
			return fmt.Errorf("inserted %d of %d line items", n, len(rows))
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE receipts
		SET store_name = $3,
			receipt_date = $4,
			receipt_time = $5,
			total_amount = $6,
			currency = $7,
			status = 'completed',
			diagnostics = $8,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, o.ReceiptID, o.UserID, o.Meta.StoreName, date, clock, toNumeric(o.Meta.Total), o.Meta.Currency, diagnostics)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReceiptNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit receipt: %w", err)
	}
	return nil
}

// MarkFailed removes any line items and marks the receipt failed with the
// error message in its diagnostics.
func (r *Repository) MarkFailed(ctx context.Context, receiptID, userID uuid.UUID, message string, diag Diagnostics) error {
	diag.Error = message
	diagnostics, err := json.Marshal(diag)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := deleteLineItems(ctx, tx, receiptID, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE receipts
		SET status = 'failed',
			diagnostics = $3,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, receiptID, userID, diagnostics)
	if err != nil {
		return fmt.Errorf("failed to mark receipt failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReceiptNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit failed status: %w", err)
	}
	return nil
}

// ListStalePending returns receipts still pending since before cutoff, oldest first.
func (r *Repository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]StaleReceipt, error) {
	query := `
		SELECT id, user_id, updated_at
		FROM receipts
		WHERE status = 'pending' AND updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale receipts: %w", err)
	}
	defer rows.Close()

	var stale []StaleReceipt
	for rows.Next() {
		var s StaleReceipt
		if err := rows.Scan(&s.ID, &s.UserID, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stale = append(stale, s)
	}
	return stale, rows.Err()
}

// InsertFeedback bulk-inserts unresolved category entries.
func (r *Repository) InsertFeedback(ctx context.Context, entries []FeedbackEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, len(entries))
	for i, e := range entries {
		var store any
		if e.StoreName != "" {
			store = e.StoreName
		}
		rows[i] = []any{e.UserID, e.ReceiptID, e.Description, e.RawCategory, e.ClosestCategory, e.Locale, store, e.FileName}
	}
	if _, err := r.db.CopyFrom(ctx, pgx.Identifier{"receipt_category_feedback"}, feedbackColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// ListFeedback returns the most recent feedback entries of a user.
func (r *Repository) ListFeedback(ctx context.Context, userID uuid.UUID, limit int) ([]FeedbackEntry, error) {
	query := `
		SELECT user_id, receipt_id, description, raw_category, closest_category, locale, COALESCE(store_name, ''), file_name, created_at
		FROM receipt_category_feedback
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var entries []FeedbackEntry
	for rows.Next() {
		var e FeedbackEntry
		if err := rows.Scan(
			&e.UserID,
			&e.ReceiptID,
			&e.Description,
			&e.RawCategory,
			&e.ClosestCategory,
			&e.Locale,
			&e.StoreName,
			&e.FileName,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func deleteLineItems(ctx context.Context, tx pgx.Tx, receiptID, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM receipt_transactions WHERE receipt_id = $1 AND user_id = $2`, receiptID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete line items: %w", err)
	}
	return nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func toDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

// toTime converts HH:MM:SS into a TIME value.
func toTime(clock string) pgtype.Time {
	t, err := time.Parse(time.TimeOnly, clock)
	if err != nil {
		return pgtype.Time{}
	}
	us := int64(t.Hour())*3600e6 + int64(t.Minute())*60e6 + int64(t.Second())*1e6
	return pgtype.Time{Microseconds: us, Valid: true}
}
