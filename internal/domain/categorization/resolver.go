package categorization

import (
	"strings"

	"github.com/FACorreiaa/smart-finance-receipts/pkg/textnorm"
)

// connectors are dropped when comparing labels so that "Food & Drinks",
// "Food and Drinks" and "Food/Drinks" compare equal.
var connectors = map[string]bool{
	"and": true, "y": true, "e": true, "et": true, "und": true, "en": true, "i": true,
}

// typoMinLength is the shortest compact label allowed a one-edit typo match.
const typoMinLength = 6

// Resolve maps a free-form category label onto one of known. It tries an exact
// normalized match, then separator/connector variants, then singular/plural
// variants, then a single-edit typo match for longer labels. Candidates are
// checked in the order of known. It returns false when nothing matches;
// defaulting is the caller's job.
func Resolve(rawLabel string, known []string) (string, bool) {
	label := textnorm.Key(rawLabel)
	if label == "" || len(known) == 0 {
		return "", false
	}

	keys := make([]string, len(known))
	for i, k := range known {
		keys[i] = textnorm.Key(k)
	}

	for i, k := range keys {
		if k != "" && k == label {
			return known[i], true
		}
	}

	compactLabel := compact(label)
	if compactLabel == "" {
		return "", false
	}
	for i, k := range keys {
		if k != "" && compact(k) == compactLabel {
			return known[i], true
		}
	}

	singularLabel := singularKey(label)
	for i, k := range keys {
		if k != "" && singularKey(k) == singularLabel {
			return known[i], true
		}
	}

	if len(singularLabel) >= typoMinLength {
		for i, k := range keys {
			if k == "" {
				continue
			}
			if withinOneEdit(singularLabel, singularKey(k)) {
				return known[i], true
			}
		}
	}

	return "", false
}

// compact drops connector words and joins the rest without separators.
func compact(key string) string {
	var b strings.Builder
	for _, w := range strings.Fields(key) {
		if connectors[w] {
			continue
		}
		b.WriteString(w)
	}
	return b.String()
}

// singularKey compacts a key after reducing every word to a singular form.
func singularKey(key string) string {
	var b strings.Builder
	for _, w := range strings.Fields(key) {
		if connectors[w] {
			continue
		}
		b.WriteString(singular(w))
	}
	return b.String()
}

func singular(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && (strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes") ||
		strings.HasSuffix(w, "xes") || strings.HasSuffix(w, "ses")):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

// NormalizeKey builds the store and description keys used by preferences.
func NormalizeKey(s string) string {
	return textnorm.Key(s)
}
