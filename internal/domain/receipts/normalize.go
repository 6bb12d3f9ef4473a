package receipts

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/extraction"
	"github.com/FACorreiaa/smart-finance-receipts/pkg/money"
)

// Layouts accepted for receipt dates. Day-first layouts win over month-first
// because receipts in every supported locale print the day first.
var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"2006.01.02",
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"02-01-06",
	"02/01/06",
	"02.01.06",
}

var timeLayouts = []string{
	time.TimeOnly,
	"15:04",
	"15.04",
	"15h04",
}

// NormalizeDate parses a receipt date into a UTC date. It returns nil when
// the value is absent or unparseable.
func NormalizeDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// NormalizeTime returns HH:MM:SS, defaulting to the current UTC time.
func NormalizeTime(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.TimeOnly)
		}
	}
	return now.UTC().Format(time.TimeOnly)
}

// NormalizeStoreName trims the store name; empty becomes nil.
func NormalizeStoreName(raw string) *string {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "unknown") {
		return nil
	}
	return &s
}

// Amounts is an item's quantity and prices after inference.
type Amounts struct {
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	TotalPrice   decimal.Decimal

	// MeasuredQuantity is the reported or derived quantity when it was below
	// one (a weight such as 0.745 kg) and Quantity was raised to 1.
	MeasuredQuantity decimal.Decimal
}

// InferAmounts completes quantity, unit price and total price from whichever
// two are usable. A non-positive quantity and a zero price count as missing.
// When all three are present but disagree, the total is recomputed from unit
// price and quantity. Quantity is never below 1: a fractional quantity under
// one is stored as 1 with the unit price set to the line total.
func InferAmounts(qty, unit, total extraction.Number, currency string) Amounts {
	one := decimal.NewFromInt(1)
	q, hasQty := qty.Value, qty.Valid && qty.Value.IsPositive()
	u, hasUnit := unit.Value, unit.Valid && !unit.Value.IsZero()
	t, hasTotal := total.Value, total.Valid && !total.Value.IsZero()

	var a Amounts
	switch {
	case hasQty && hasUnit && hasTotal:
		a = Amounts{Quantity: q, PricePerUnit: u, TotalPrice: t}
		if !amountsAgree(u, q, t, currency) {
			a.TotalPrice = u.Mul(q)
		}
	case hasQty && hasUnit:
		a = Amounts{Quantity: q, PricePerUnit: u, TotalPrice: u.Mul(q)}
	case hasQty && hasTotal:
		a = Amounts{Quantity: q, PricePerUnit: t.Div(q), TotalPrice: t}
	case hasUnit && hasTotal:
		derived := t.Div(u).Round(3)
		if whole := derived.Round(0); whole.IsPositive() && amountsAgree(u, whole, t, currency) {
			derived = whole
		}
		if !derived.IsPositive() {
			// price signs disagree; keep the line total
			a = Amounts{Quantity: one, PricePerUnit: t, TotalPrice: t}
			break
		}
		a = Amounts{Quantity: derived, PricePerUnit: u, TotalPrice: t}
	case hasUnit:
		a = Amounts{Quantity: one, PricePerUnit: u, TotalPrice: u}
	case hasTotal:
		a = Amounts{Quantity: one, PricePerUnit: t, TotalPrice: t}
	default:
		a = Amounts{Quantity: one, PricePerUnit: decimal.Zero, TotalPrice: decimal.Zero}
		if hasQty {
			a.Quantity = q
		}
	}

	a.Quantity = a.Quantity.Round(3)
	a.TotalPrice = money.Round(a.TotalPrice, currency)
	if a.Quantity.LessThan(one) {
		a.MeasuredQuantity = a.Quantity
		a.Quantity = one
		a.PricePerUnit = a.TotalPrice
	}
	a.PricePerUnit = money.Round(a.PricePerUnit, currency)
	return a
}

// amountsAgree reports whether unit*qty matches total within the rounding a
// per-unit price can introduce: one minor unit per whole unit of quantity.
func amountsAgree(unit, qty, total decimal.Decimal, currency string) bool {
	minor := decimal.New(1, -int32(money.Fraction(currency)))
	tolerance := minor.Mul(decimal.Max(qty.Ceil(), decimal.NewFromInt(1)))
	diff := money.Round(unit.Mul(qty), currency).Sub(money.Round(total, currency)).Abs()
	return diff.LessThanOrEqual(tolerance)
}
