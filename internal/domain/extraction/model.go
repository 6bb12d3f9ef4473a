// Package extraction turns an uploaded receipt document into an
// ExtractedReceipt, trying deterministic parsers before model-based strategies.
package extraction

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy names recorded in diagnostics.
const (
	StrategyDeterministic = "deterministic"
	StrategyAIVision      = "ai_vision"
	StrategyAIText        = "ai_text"
	StrategyJSONRepair    = "json_repair"
)

// Document is one uploaded file.
type Document struct {
	FileName string
	MimeType string
	Data     []byte
}

// IsPDF reports whether the document is a PDF, by mime type or magic bytes.
func (d Document) IsPDF() bool {
	if strings.EqualFold(d.MimeType, "application/pdf") {
		return true
	}
	return len(d.Data) >= 5 && string(d.Data[:5]) == "%PDF-"
}

// IsImage reports whether the document is an image.
func (d Document) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(d.MimeType), "image/")
}

// Number is a JSON amount that may be absent. Model output is accepted as a
// JSON number or a string using either decimal separator; anything
// unparseable is treated as absent.
type Number struct {
	Value decimal.Decimal
	Valid bool
}

// Num builds a valid Number.
func Num(v float64) Number {
	return Number{Value: decimal.NewFromFloat(v), Valid: true}
}

// NumFromDecimal builds a valid Number.
func NumFromDecimal(d decimal.Decimal) Number {
	return Number{Value: d, Valid: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = str
	}
	d, ok := ParseAmount(s)
	*n = Number{Value: d, Valid: ok}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.Value.String()), nil
}

// ParseAmount parses "12.30", "12,30", "1.234,56", "1,234.56" and "€ 3,5".
// The right-most separator is the decimal mark.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		}
		return -1
	}, s)
	if s == "" || s == "-" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		s = strings.ReplaceAll(s, ",", "")
	case lastDot > lastComma:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ExtractedItem is one line item as reported by a parser or model.
type ExtractedItem struct {
	Description  string `json:"description"`
	Quantity     Number `json:"quantity"`
	PricePerUnit Number `json:"price_per_unit"`
	TotalPrice   Number `json:"total_price"`
	Category     string `json:"category"`
}

// ExtractedReceipt is the canonical extraction output. Empty strings mean the
// value was absent.
type ExtractedReceipt struct {
	StoreName   string          `json:"store_name"`
	ReceiptDate string          `json:"receipt_date"`
	ReceiptTime string          `json:"receipt_time"`
	Currency    string          `json:"currency"`
	TotalAmount Number          `json:"total_amount"`
	Items       []ExtractedItem `json:"items"`
	Extra       map[string]any  `json:"extra,omitempty"`
}

// Attempt records one strategy that ran, for diagnostics.
type Attempt struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error,omitempty"`
}

// Result is a successful extraction with the metadata persisted as diagnostics.
type Result struct {
	Receipt   *ExtractedReceipt
	Strategy  string
	RawOutput string
	Model     string
	Warnings  []string
	Attempts  []Attempt
}
