// Package receipts runs the receipt processing pipeline: extraction,
// normalization, categorization and persistence, plus the in-process
// dispatch queue that schedules it.
package receipts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/extraction"
)

// Status is the receipt processing state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ReceiptFile is the receipt row as the upload handler left it.
type ReceiptFile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FileKey   string
	FileName  string
	MimeType  string
	StoreName *string
	Status    Status
}

// LineItem is one normalized purchased product.
type LineItem struct {
	Description    string
	Quantity       decimal.Decimal
	PricePerUnit   decimal.Decimal
	TotalPrice     decimal.Decimal
	CategoryID     uuid.UUID // uuid.Nil when the catalog has no fallback
	CategoryTypeID *int32
	CategoryName   string
	CategorySource string
}

// ReceiptMeta is the normalized header of a receipt.
type ReceiptMeta struct {
	StoreName *string
	Date      *time.Time
	Time      string // HH:MM:SS
	Currency  string
	Total     decimal.Decimal
}

// Diagnostics is stored as JSON on the receipt row for auditing.
type Diagnostics struct {
	Strategy    string               `json:"strategy,omitempty"`
	Model       string               `json:"model,omitempty"`
	FileName    string               `json:"file_name,omitempty"`
	Locale      string               `json:"locale,omitempty"`
	RawOutput   string               `json:"raw_output,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
	Attempts    []extraction.Attempt `json:"attempts,omitempty"`
	Extra       map[string]any       `json:"extra,omitempty"`
	Unresolved  int                  `json:"unresolved_categories,omitempty"`
	Error       string               `json:"error,omitempty"`
	ProcessedAt time.Time            `json:"processed_at"`
}

// Outcome is everything written for a successfully processed receipt.
type Outcome struct {
	ReceiptID   uuid.UUID
	UserID      uuid.UUID
	Meta        ReceiptMeta
	Items       []LineItem
	Diagnostics Diagnostics
}

// StaleReceipt is a receipt stuck in pending.
type StaleReceipt struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UpdatedAt time.Time
}

// FeedbackEntry is one category label that did not resolve.
type FeedbackEntry struct {
	UserID          uuid.UUID `csv:"user_id"`
	ReceiptID       uuid.UUID `csv:"receipt_id"`
	Description     string    `csv:"description"`
	RawCategory     string    `csv:"raw_category"`
	ClosestCategory string    `csv:"closest_category"` // nearest catalog label, for review
	Locale          string    `csv:"locale"`
	StoreName       string    `csv:"store_name"`
	FileName        string    `csv:"file_name"`
	CreatedAt       time.Time `csv:"created_at"`
}
