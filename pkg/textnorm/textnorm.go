// Package textnorm folds free text into comparable keys.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// StripDiacritics removes combining marks after canonical decomposition, so
// "Jamón" becomes "Jamon". Letters without a decomposition (ß, Œ) are kept.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold case-folds and strips diacritics.
func Fold(s string) string {
	return folder.String(StripDiacritics(s))
}

// Upper strips diacritics and upper-cases using language-neutral rules.
func Upper(s string) string {
	return cases.Upper(language.Und).String(StripDiacritics(s))
}

// words folds s and returns its letter/digit runs.
func words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Key folds s into a single-space separated string of words. Empty input
// yields "".
func Key(s string) string {
	return strings.Join(words(s), " ")
}
