package extraction

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/categorization"
)

const receiptSchema = `{
  "store_name": string | null,
  "receipt_date": "YYYY-MM-DD" | null,
  "receipt_time": "HH:MM:SS" | null,
  "currency": string | null,
  "total_amount": number | null,
  "items": [
    {
      "description": string,
      "quantity": number,
      "price_per_unit": number,
      "total_price": number,
      "category": string
    }
  ]
}`

// BuildExtractionPrompt returns the instruction for extracting a receipt. The
// category list is the user's catalog; the fallback category is only offered
// as a last resort.
func BuildExtractionPrompt(categories []string) string {
	var listed []string
	hasOther := false
	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c), categorization.OtherCategory) {
			hasOther = true
			continue
		}
		listed = append(listed, c)
	}

	var b strings.Builder
	b.WriteString("You extract purchase data from a shop receipt.\n")
	b.WriteString("Respond with a single JSON object and nothing else, matching exactly this schema:\n")
	b.WriteString(receiptSchema)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Keep item descriptions in the receipt's original language and spelling.\n")
	b.WriteString("- Use a dot as decimal separator. Amounts are numbers, not strings.\n")
	b.WriteString("- Weighed items: quantity is the weight, price_per_unit the price per kilo.\n")
	b.WriteString("- Discounts are separate items with a negative total_price.\n")
	b.WriteString("- Use null for any receipt field you cannot read. Do not invent values.\n")
	b.WriteString("- currency is the ISO 4217 code, e.g. EUR.\n")
	fmt.Fprintf(&b, "- category must be exactly one of: %s.\n", strings.Join(quoteAll(listed), ", "))
	if hasOther {
		fmt.Fprintf(&b, "- Only if no listed category fits at all, use %q.\n", categorization.OtherCategory)
	}
	return b.String()
}

// BuildRepairPrompt asks the model to turn its own malformed output into
// valid JSON with the same schema.
func BuildRepairPrompt(malformed string) string {
	var b strings.Builder
	b.WriteString("The following text was meant to be a JSON object but is not valid JSON.\n")
	b.WriteString("Return only the corrected JSON object, keeping every value, matching this schema:\n")
	b.WriteString(receiptSchema)
	b.WriteString("\n\nText:\n")
	b.WriteString(malformed)
	return b.String()
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
