package categorization

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/FACorreiaa/smart-finance-receipts/pkg/textnorm"
)

// withinOneEdit reports whether a and b differ by at most one insertion,
// deletion or substitution.
func withinOneEdit(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la-lb > 1 || lb-la > 1 {
		return false
	}
	return fuzzy.LevenshteinDistance(a, b) <= 1
}

// Closest suggests the known label nearest to an unresolved raw label, for
// the category feedback log. Labels sharing more words win; ties go to the
// smaller edit distance. Other is never suggested. It returns "" when nothing
// else is known.
func Closest(raw string, known []string) string {
	words := labelWords(raw)
	target := strings.Join(words, "")

	best, bestShared, bestDist := "", -1, -1
	for _, k := range known {
		if strings.EqualFold(strings.TrimSpace(k), OtherCategory) {
			continue
		}
		kw := labelWords(k)
		shared := 0
		for _, w := range kw {
			if slices.Contains(words, w) {
				shared++
			}
		}
		d := fuzzy.LevenshteinDistance(target, strings.Join(kw, ""))
		if shared > bestShared || (shared == bestShared && d < bestDist) {
			best, bestShared, bestDist = k, shared, d
		}
	}
	return best
}

// labelWords returns the singular words of a label without connectors.
func labelWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(textnorm.Key(s)) {
		if connectors[w] {
			continue
		}
		out = append(out, singular(w))
	}
	return out
}
