package receipts

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/extraction"
)

// ============================================================================
// Dates and times
// ============================================================================

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"iso", "2024-03-15", "2024-03-15"},
		{"day first dashes", "15-03-2024", "2024-03-15"},
		{"day first slashes", "15/03/2024", "2024-03-15"},
		{"day first dots", "15.03.2024", "2024-03-15"},
		{"single digits", "5/3/2024", "2024-03-05"},
		{"year first slashes", "2024/03/15", "2024-03-15"},
		{"two digit year", "15.03.24", "2024-03-15"},
		{"surrounding spaces", "  2024-03-15 ", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format(time.DateOnly))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "yesterday", "32/13/2024", "2024-02-30"} {
		assert.Nil(t, NormalizeDate(raw), raw)
	}
}

func TestNormalizeTime(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 8, 7, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"full", "18:42:05", "18:42:05"},
		{"minutes only", "18:42", "18:42:00"},
		{"dotted", "18.42", "18:42:00"},
		{"absent defaults to now utc", "", "08:08:07"},
		{"invalid defaults to now utc", "25:99", "08:08:07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTime(tt.raw, now))
		})
	}
}

func TestNormalizeStoreName(t *testing.T) {
	assert.Nil(t, NormalizeStoreName(""))
	assert.Nil(t, NormalizeStoreName("   "))
	assert.Nil(t, NormalizeStoreName("null"))

	got := NormalizeStoreName("  MERCADONA   S.A. ")
	require.NotNil(t, got)
	assert.Equal(t, "MERCADONA S.A.", *got)
}

// ============================================================================
// Amount inference
// ============================================================================

func TestInferAmounts(t *testing.T) {
	absent := extraction.Number{}
	num := extraction.Num

	tests := []struct {
		name              string
		qty, unit, total  extraction.Number
		wantQty, wantUnit string
		wantTotal         string
		wantMeasured      string
	}{
		{"all present", num(2), num(1.25), num(2.5), "2", "1.25", "2.5", ""},
		{"total from unit and quantity", num(3), num(2.50), absent, "3", "2.5", "7.5", ""},
		{"unit from total and quantity", num(4), absent, num(10), "4", "2.5", "10", ""},
		{"quantity from unit and total", absent, num(2.5), num(7.5), "3", "2.5", "7.5", ""},
		{"quantity snapped to whole units", absent, num(3.33), num(10), "3", "3.33", "10", ""},
		{"weighed quantity above one kept", absent, num(2), num(3), "1.5", "2", "3", ""},
		{"weighed quantity below one stored as one", absent, num(3.98), num(1.99), "1", "1.99", "1.99", "0.5"},
		{"reported weight below one stored as one", num(0.745), num(8.99), absent, "1", "6.7", "6.7", "0.745"},
		{"only unit", absent, num(1.2), absent, "1", "1.2", "1.2", ""},
		{"only total", absent, absent, num(4.35), "1", "4.35", "4.35", ""},
		{"nothing", absent, absent, absent, "1", "0", "0", ""},
		{"zero quantity treated as missing", num(0), num(2), absent, "1", "2", "2", ""},
		{"negative quantity treated as missing", num(-1), absent, num(3), "1", "3", "3", ""},
		{"rounded to cents", num(3), absent, num(10), "3", "3.33", "10", ""},
		{"zero total derived from unit and quantity", num(3), num(2.50), num(0), "3", "2.5", "7.5", ""},
		{"zero unit derived from total", absent, num(0), num(5), "1", "5", "5", ""},
		{"zero unit derived from total and quantity", num(2), num(0), num(5), "2", "2.5", "5", ""},
		{"inconsistent total recomputed", num(3), num(2.50), num(9), "3", "2.5", "7.5", ""},
		{"per-unit rounding tolerated", num(3), num(3.33), num(10), "3", "3.33", "10", ""},
		{"discount line", absent, absent, num(-0.5), "1", "-0.5", "-0.5", ""},
		{"price signs disagree", absent, num(2), num(-2), "1", "-2", "-2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferAmounts(tt.qty, tt.unit, tt.total, "EUR")
			assert.True(t, decimal.RequireFromString(tt.wantQty).Equal(got.Quantity), "quantity %s", got.Quantity)
			assert.True(t, decimal.RequireFromString(tt.wantUnit).Equal(got.PricePerUnit), "unit %s", got.PricePerUnit)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(got.TotalPrice), "total %s", got.TotalPrice)
			if tt.wantMeasured == "" {
				assert.True(t, got.MeasuredQuantity.IsZero(), "measured %s", got.MeasuredQuantity)
			} else {
				assert.True(t, decimal.RequireFromString(tt.wantMeasured).Equal(got.MeasuredQuantity), "measured %s", got.MeasuredQuantity)
			}
			assert.True(t, got.Quantity.GreaterThanOrEqual(decimal.NewFromInt(1)))
		})
	}
}

func TestInferAmounts_ZeroDecimalCurrency(t *testing.T) {
	got := InferAmounts(extraction.Num(3), extraction.Num(333.4), extraction.Number{}, "JPY")
	assert.True(t, decimal.NewFromInt(1000).Equal(got.TotalPrice), "total %s", got.TotalPrice)
	assert.True(t, decimal.NewFromInt(333).Equal(got.PricePerUnit), "unit %s", got.PricePerUnit)
}
