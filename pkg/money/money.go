// Package money provides currency-aware rounding and arithmetic for receipt
// amounts. Values travel as decimal.Decimal and are rounded to the minor unit
// of their ISO-4217 currency through go-money.
package money

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	EUR = "EUR"
	USD = "USD"
	GBP = "GBP"
	CHF = "CHF"
	JPY = "JPY"
)

// Money represents a monetary value with currency.
type Money struct {
	m *money.Money
}

// New creates a Money value from minor units.
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: money.New(amountCents, currencyCode)}
}

// NewFromDecimal creates Money from a decimal amount, rounding half away from
// zero to the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	fraction := Fraction(currencyCode)
	cents := amount.Mul(decimal.New(1, int32(fraction))).Round(0).IntPart()
	return New(cents, currencyCode)
}

// Add adds other to m. Currencies must match.
func (m *Money) Add(other *Money) (*Money, error) {
	sum, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: sum}, nil
}

// GreaterThan reports m > other. Mismatched currencies compare as false.
func (m *Money) GreaterThan(other *Money) bool {
	gt, err := m.m.GreaterThan(other.m)
	return err == nil && gt
}

// ToDecimal converts back to a decimal in major units.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(m.m.Currency().Fraction))
}

// Fraction returns the number of minor-unit digits for a currency, two when
// the code is unknown.
func Fraction(currencyCode string) int {
	if c := money.GetCurrency(strings.ToUpper(currencyCode)); c != nil {
		return c.Fraction
	}
	return 2
}

// Round rounds an amount to the currency's minor unit.
func Round(amount decimal.Decimal, currencyCode string) decimal.Decimal {
	return amount.Round(int32(Fraction(currencyCode)))
}

// Sum adds amounts in minor units of the given currency and returns the
// rounded decimal total.
func Sum(currencyCode string, amounts ...decimal.Decimal) decimal.Decimal {
	total := New(0, currencyCode)
	for _, a := range amounts {
		next, err := total.Add(NewFromDecimal(a, currencyCode))
		if err != nil {
			continue
		}
		total = next
	}
	return total.ToDecimal()
}

// Max returns the larger of two amounts after rounding both to the currency.
func Max(currencyCode string, a, b decimal.Decimal) decimal.Decimal {
	ma, mb := NewFromDecimal(a, currencyCode), NewFromDecimal(b, currencyCode)
	if mb.GreaterThan(ma) {
		return mb.ToDecimal()
	}
	return ma.ToDecimal()
}

// NormalizeCurrency upper-cases a currency code and returns fallback when the
// code is empty or not a known ISO-4217 currency. Common symbols are mapped to
// their codes.
func NormalizeCurrency(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch code {
	case "€":
		return EUR
	case "$", "US$":
		return USD
	case "£":
		return GBP
	}
	if code == "" || money.GetCurrency(code) == nil {
		return fallback
	}
	return code
}
