package extraction

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Parser extracts a receipt from the text lines of a known PDF layout.
type Parser interface {
	Name() string
	Match(lines []string) bool
	Parse(lines []string) (*ExtractedReceipt, error)
}

// DefaultParsers returns the built-in layout parsers in the order they are tried.
func DefaultParsers() []Parser {
	return []Parser{MercadonaParser{}, LidlParser{}}
}

// TaxLine is one row of a receipt's VAT summary, kept in Extra["tax_breakdown"].
type TaxLine struct {
	Rate  string          `json:"rate"`
	Base  decimal.Decimal `json:"base"`
	Quota decimal.Decimal `json:"quota"`
}

var errNoItems = errors.New("no items recognized")

func amount(s string) decimal.Decimal {
	d, _ := ParseAmount(s)
	return d
}

func containsAll(lines []string, needles ...string) bool {
	found := make([]bool, len(needles))
	for _, line := range lines {
		upper := strings.ToUpper(line)
		for i, n := range needles {
			if strings.Contains(upper, n) {
				found[i] = true
			}
		}
	}
	for _, f := range found {
		if !f {
			return false
		}
	}
	return true
}

// ============================================================================
// Mercadona
// ============================================================================

var (
	mercadonaDateRe     = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})\s+(\d{2}:\d{2})`)
	mercadonaItemRe     = regexp.MustCompile(`^(\d+)\s+(.+?)\s+(\d+,\d{2})(?:\s+(\d+,\d{2}))?$`)
	mercadonaHeadRe     = regexp.MustCompile(`^(\d+)\s+(\D.*)$`)
	mercadonaWeightRe   = regexp.MustCompile(`^(\d+,\d{3})\s*kg\s+(\d+,\d{2})\s*€/kg\s+(\d+,\d{2})$`)
	mercadonaTotalRe    = regexp.MustCompile(`^TOTAL\s*\(€\)\s+(\d+,\d{2})`)
	mercadonaTaxRe      = regexp.MustCompile(`^(\d{1,2})\s*%\s+(\d+,\d{2})\s+(\d+,\d{2})$`)
	mercadonaItemsStart = regexp.MustCompile(`(?i)^descripci[oó]n`)
)

// MercadonaParser reads Mercadona "factura simplificada" PDFs.
type MercadonaParser struct{}

func (MercadonaParser) Name() string { return "mercadona" }

func (MercadonaParser) Match(lines []string) bool {
	return containsAll(lines, "MERCADONA", "FACTURA SIMPLIFICADA")
}

func (p MercadonaParser) Parse(lines []string) (*ExtractedReceipt, error) {
	receipt := &ExtractedReceipt{StoreName: "Mercadona", Currency: "EUR"}
	var taxes []TaxLine

	inItems, inTaxes := false, false
	var pending *ExtractedItem

	for _, line := range lines {
		switch {
		case receipt.ReceiptDate == "" && mercadonaDateRe.MatchString(line):
			m := mercadonaDateRe.FindStringSubmatch(line)
			receipt.ReceiptDate = fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
			receipt.ReceiptTime = m[4] + ":00"
			continue
		case mercadonaItemsStart.MatchString(line):
			inItems = true
			continue
		case mercadonaTotalRe.MatchString(line):
			receipt.TotalAmount = NumFromDecimal(amount(mercadonaTotalRe.FindStringSubmatch(line)[1]))
			inItems = false
			continue
		case strings.HasPrefix(strings.ToUpper(line), "IVA"):
			inTaxes = true
			continue
		}

		if inTaxes {
			if m := mercadonaTaxRe.FindStringSubmatch(line); m != nil {
				taxes = append(taxes, TaxLine{Rate: m[1] + "%", Base: amount(m[2]), Quota: amount(m[3])})
				continue
			}
			if strings.HasPrefix(strings.ToUpper(line), "TOTAL") {
				inTaxes = false
			}
			continue
		}
		if !inItems {
			continue
		}

		if pending != nil {
			if m := mercadonaWeightRe.FindStringSubmatch(line); m != nil {
				pending.Quantity = NumFromDecimal(amount(m[1]))
				pending.PricePerUnit = NumFromDecimal(amount(m[2]))
				pending.TotalPrice = NumFromDecimal(amount(m[3]))
				receipt.Items = append(receipt.Items, *pending)
				pending = nil
				continue
			}
			pending = nil
		}

		if m := mercadonaItemRe.FindStringSubmatch(line); m != nil {
			item := ExtractedItem{Description: strings.TrimSpace(m[2]), Quantity: NumFromDecimal(amount(m[1]))}
			if m[4] != "" {
				item.PricePerUnit = NumFromDecimal(amount(m[3]))
				item.TotalPrice = NumFromDecimal(amount(m[4]))
			} else {
				item.TotalPrice = NumFromDecimal(amount(m[3]))
			}
			receipt.Items = append(receipt.Items, item)
			continue
		}
		if m := mercadonaHeadRe.FindStringSubmatch(line); m != nil {
			pending = &ExtractedItem{Description: strings.TrimSpace(m[2])}
		}
	}

	if len(receipt.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", p.Name(), errNoItems)
	}
	if len(taxes) > 0 {
		receipt.Extra = map[string]any{"tax_breakdown": taxes}
	}
	return receipt, nil
}

// ============================================================================
// Lidl
// ============================================================================

var (
	lidlDateRe  = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{2}|\d{4})\s+(\d{2}:\d{2})`)
	lidlItemRe  = regexp.MustCompile(`^(.+?)\s+(-?\d+,\d{2})\s+([A-E])$`)
	lidlMultiRe = regexp.MustCompile(`^(\d+(?:,\d+)?)\s*[xX]\s*(\d+,\d{2})$`)
	lidlTotalRe = regexp.MustCompile(`(?i)^total\s+(\d+,\d{2})$`)
	lidlTaxRe   = regexp.MustCompile(`^([A-E])\s+(\d+(?:,\d+)?)\s*%\s+(\d+,\d{2})\s+(\d+,\d{2})\s+(\d+,\d{2})$`)
)

// LidlParser reads Lidl digital receipts.
type LidlParser struct{}

func (LidlParser) Name() string { return "lidl" }

func (LidlParser) Match(lines []string) bool {
	if !containsAll(lines, "LIDL") {
		return false
	}
	for _, line := range lines {
		if lidlItemRe.MatchString(line) {
			return true
		}
	}
	return false
}

func (p LidlParser) Parse(lines []string) (*ExtractedReceipt, error) {
	receipt := &ExtractedReceipt{StoreName: "Lidl", Currency: "EUR"}
	var taxes []TaxLine
	var multi []string // quantity and unit price from a preceding "2 x 0,89" line

	for _, line := range lines {
		if receipt.ReceiptDate == "" {
			if m := lidlDateRe.FindStringSubmatch(line); m != nil {
				year := m[3]
				if len(year) == 2 {
					year = "20" + year
				}
				receipt.ReceiptDate = fmt.Sprintf("%s-%s-%s", year, m[2], m[1])
				receipt.ReceiptTime = m[4] + ":00"
				continue
			}
		}
		if m := lidlTotalRe.FindStringSubmatch(line); m != nil {
			receipt.TotalAmount = NumFromDecimal(amount(m[1]))
			continue
		}
		if m := lidlTaxRe.FindStringSubmatch(line); m != nil {
			taxes = append(taxes, TaxLine{Rate: m[2] + "%", Base: amount(m[3]), Quota: amount(m[4])})
			continue
		}
		if m := lidlMultiRe.FindStringSubmatch(line); m != nil {
			multi = m
			continue
		}
		m := lidlItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		total := amount(m[2])
		desc := strings.TrimSpace(m[1])
		if total.IsNegative() && len(receipt.Items) > 0 {
			// Discount lines reduce the previous article.
			last := &receipt.Items[len(receipt.Items)-1]
			last.TotalPrice = NumFromDecimal(last.TotalPrice.Value.Add(total))
			multi = nil
			continue
		}

		item := ExtractedItem{Description: desc, TotalPrice: NumFromDecimal(total)}
		if multi != nil {
			item.Quantity = NumFromDecimal(amount(multi[1]))
			item.PricePerUnit = NumFromDecimal(amount(multi[2]))
			multi = nil
		}
		receipt.Items = append(receipt.Items, item)
	}

	if len(receipt.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", p.Name(), errNoItems)
	}
	if len(taxes) > 0 {
		receipt.Extra = map[string]any{"tax_breakdown": taxes}
	}
	return receipt, nil
}
