package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Repair candidates
// ============================================================================

func TestRepair_Candidates(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "code fence",
			input: "```json\n{\"store_name\": \"Lidl\", \"items\": []}\n```",
		},
		{
			name:  "prose around object",
			input: "Here is the receipt: {\"store_name\": \"Dia\", \"items\": []} Hope it helps.",
		},
		{
			name:  "trailing commas",
			input: `{"store_name": "Dia", "items": [{"description": "PAN", "total_price": 1.2,},],}`,
		},
		{
			name: "missing commas between fields",
			input: `{
  "store_name": "Mercadona"
  "currency": "EUR"
  "total_amount": 3.5
  "items": []
}`,
		},
		{
			name:  "missing comma between objects",
			input: `{"items": [{"description": "A", "total_price": 1} {"description": "B", "total_price": 2}]}`,
		},
		{
			name:  "raw newline inside string",
			input: "{\"store_name\": \"Super\nmercado\", \"items\": []}",
		},
		{
			name: "everything at once",
			input: "```json\n{\n  \"store_name\": \"Aldi\"\n  \"items\": [\n    {\"description\": \"LECHE\", \"total_price\": 0.99,},\n  ],\n}\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReceipt(tt.input)
			require.Error(t, err, "input should be malformed")

			parsed := false
			for _, c := range Repair(tt.input) {
				if _, err := ParseReceipt(c); err == nil {
					parsed = true
					break
				}
			}
			assert.True(t, parsed, "no candidate parsed")
		})
	}
}

func TestRepair_ExcludesInputAndDuplicates(t *testing.T) {
	input := `{"a": 1}`
	candidates := Repair(input)
	assert.NotContains(t, candidates, input)

	seen := map[string]bool{}
	for _, c := range candidates {
		assert.False(t, seen[c], "duplicate candidate %q", c)
		seen[c] = true
	}
}

func TestRepair_Hopeless(t *testing.T) {
	for _, c := range Repair("I could not read this receipt.") {
		_, err := ParseReceipt(c)
		assert.Error(t, err)
	}
}

// ============================================================================
// Individual steps
// ============================================================================

func TestSliceObject(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`prefix {"a": {"b": 1}} suffix`, `{"a": {"b": 1}}`},
		{`{"a": "}"} tail`, `{"a": "}"}`},
		{`{"a": "x\"}"} tail`, `{"a": "x\"}"}`},
		{`no object`, `no object`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sliceObject(tt.input))
		})
	}
}

func TestStripTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"a": [1, 2]}`, stripTrailingCommas(`{"a": [1, 2,],}`))
}

func TestInsertMissingCommas(t *testing.T) {
	in := "{\n\"a\": 1\n\"b\": \"x\"\n\"c\": true\n}"
	assert.Equal(t, "{\n\"a\": 1,\n\"b\": \"x\",\n\"c\": true\n}", insertMissingCommas(in))
}

// ============================================================================
// ParseReceipt
// ============================================================================

func TestParseReceipt_LenientNumbers(t *testing.T) {
	receipt, err := ParseReceipt(`{
		"store_name": "Carrefour",
		"receipt_date": "2024-03-12",
		"receipt_time": null,
		"currency": "EUR",
		"total_amount": "12,30",
		"items": [
			{"description": "Queso", "quantity": 1, "price_per_unit": "4,50", "total_price": null, "category": "Dairy & Eggs"},
			{"description": "Agua", "quantity": "n/a", "price_per_unit": 0.6, "total_price": 1.8, "category": "Drinks"}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "Carrefour", receipt.StoreName)
	assert.Equal(t, "", receipt.ReceiptTime)
	assert.True(t, receipt.TotalAmount.Valid)
	assert.Equal(t, "12.3", receipt.TotalAmount.Value.String())
	require.Len(t, receipt.Items, 2)
	assert.False(t, receipt.Items[0].TotalPrice.Valid)
	assert.Equal(t, "4.5", receipt.Items[0].PricePerUnit.Value.String())
	assert.False(t, receipt.Items[1].Quantity.Valid)
}

func TestParseReceipt_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", `[1,2]`, `"text"`, `{"items": [}`} {
		_, err := ParseReceipt(in)
		assert.Error(t, err, in)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"12.30", "12.3", true},
		{"12,30", "12.3", true},
		{"1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"€ 3,5", "3.5", true},
		{"-0,30", "-0.3", true},
		{"", "0", false},
		{"abc", "0", false},
		{"-", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}
