// Package rules holds the per-locale merchant and operation tables used to
// normalize raw statement or store text, and the keyword heuristics used to
// suggest item categories.
package rules

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"
)

// Rule maps a case-insensitive pattern to a canonical label and category.
type Rule struct {
	Pattern       *regexp.Regexp
	Label         string
	Category      string
	ExtractPerson bool // transfer rules: the text after the match names a person
}

// Match is the result of a table lookup.
type Match struct {
	Label    string
	Category string
	Locale   language.Locale // locale whose table matched, empty for common rules
	Person   string
}

// Table resolves text against a locale table, then the common table.
type Table struct {
	locales       map[language.Locale][]Rule
	common        []Rule
	defaultLocale language.Locale
}

// NewTable returns the built-in tables. defaultLocale is used when the
// caller's locale is unknown or has no table.
func NewTable(defaultLocale language.Locale) *Table {
	return &Table{
		locales:       localeRules(),
		common:        commonRules(),
		defaultLocale: defaultLocale,
	}
}

// ordered returns the rule list consulted for a locale, in match order.
func (t *Table) ordered(locale language.Locale) []Rule {
	loc := t.effectiveLocale(locale)
	out := make([]Rule, 0, len(t.locales[loc])+len(t.common))
	out = append(out, t.locales[loc]...)
	return append(out, t.common...)
}

// Match returns the first rule matching text. Locale-specific rules are
// checked before the common table; within a table the first entry wins.
func (t *Table) Match(locale language.Locale, text string) *Match {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil
	}

	loc := t.effectiveLocale(locale)
	if m := matchRules(t.locales[loc], cleaned); m != nil {
		m.Locale = loc
		return m
	}
	return matchRules(t.common, cleaned)
}

func (t *Table) effectiveLocale(locale language.Locale) language.Locale {
	if _, ok := t.locales[locale]; ok {
		return locale
	}
	return t.defaultLocale
}

func matchRules(rules []Rule, text string) *Match {
	for _, r := range rules {
		loc := r.Pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		m := &Match{Label: r.Label, Category: r.Category}
		if r.ExtractPerson {
			m.Person = extractPerson(text[loc[1]:])
		}
		return m
	}
	return nil
}

var (
	refSuffix   = regexp.MustCompile(`\s+\d{4,}$`)
	dateSuffix  = regexp.MustCompile(`\s+\d{1,2}/\d{1,2}(/\d{2,4})?$`)
	spaces      = regexp.MustCompile(`\s+`)
	personNoise = regexp.MustCompile(`[^\p{L}\s'.-]+`)
)

var cardPrefixes = []string{
	"COMPRA ", "COMPRAS ", "PAGAMENTO ", "PAGO ", "PAG ",
	"VISA ", "MASTERCARD ", "MAESTRO ", "TPV ",
	"PURCHASE ", "PAYMENT ", "POS ", "CB ", "ACHAT ",
}

// CleanText strips card/terminal prefixes, trailing references and dates, and
// collapses whitespace.
func CleanText(raw string) string {
	result := strings.TrimSpace(raw)
	upper := strings.ToUpper(result)
	for _, prefix := range cardPrefixes {
		if strings.HasPrefix(upper, prefix) {
			result = result[len(prefix):]
			break
		}
	}
	result = refSuffix.ReplaceAllString(result, "")
	result = dateSuffix.ReplaceAllString(result, "")
	result = spaces.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func extractPerson(rest string) string {
	rest = personNoise.ReplaceAllString(rest, " ")
	rest = strings.Trim(spaces.ReplaceAllString(rest, " "), " .-'")
	if rest == "" {
		return ""
	}
	return TitleCase(rest)
}

// TitleCase upper-cases the first letter of each word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		r := []rune(strings.ToLower(word))
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func rule(pattern, label, category string) Rule {
	return Rule{Pattern: regexp.MustCompile(`(?i)` + pattern), Label: label, Category: category}
}

func transfer(pattern, label string) Rule {
	r := rule(pattern, label, "Transfers")
	r.ExtractPerson = true
	return r
}
