// Package language guesses the dominant language of receipt line items from
// weighted keyword signatures.
package language

import (
	"regexp"
	"sort"
	"strings"
)

// Locale is a supported language tag.
type Locale string

const (
	ES      Locale = "es"
	EN      Locale = "en"
	FR      Locale = "fr"
	PT      Locale = "pt"
	IT      Locale = "it"
	DE      Locale = "de"
	NL      Locale = "nl"
	CA      Locale = "ca"
	Unknown Locale = "unknown"
)

// Supported lists the detectable locales. The order is the tie-break order.
var Supported = []Locale{ES, EN, FR, PT, IT, DE, NL, CA}

const (
	// MinConfidence is the lowest winning score that yields a locale.
	MinConfidence = 3
	// MaxSamples bounds how many samples are scanned.
	MaxSamples = 100
)

// Signature is one weighted keyword pattern. Patterns run against upper-cased text.
type Signature struct {
	Pattern *regexp.Regexp
	Weight  int
}

// Result is the outcome of a detection run.
type Result struct {
	Locale Locale
	Score  int
	Scores map[Locale]int
}

// Detector scores text against per-locale signatures.
type Detector struct {
	signatures map[Locale][]Signature
	order      []Locale
	minScore   int
}

// NewDetector returns a detector with the built-in signatures.
func NewDetector() *Detector {
	return &Detector{
		signatures: defaultSignatures(),
		order:      Supported,
		minScore:   MinConfidence,
	}
}

var defaultDetector = NewDetector()

// Detect runs the default detector.
func Detect(samples []string) Result {
	return defaultDetector.Detect(samples)
}

// DetectLocale runs the default detector and returns only the locale.
func DetectLocale(samples []string) Locale {
	return defaultDetector.Detect(samples).Locale
}

// Detect scores the first MaxSamples samples. A winning score below the
// minimum confidence returns Unknown. Equal scores keep the order of Supported.
func (d *Detector) Detect(samples []string) Result {
	if len(samples) > MaxSamples {
		samples = samples[:MaxSamples]
	}

	upper := make([]string, 0, len(samples))
	for _, s := range samples {
		if s = strings.TrimSpace(s); s != "" {
			upper = append(upper, strings.ToUpper(s))
		}
	}
	text := strings.Join(upper, "\n")

	scores := make(map[Locale]int, len(d.order))
	ranked := make([]Locale, len(d.order))
	copy(ranked, d.order)

	for _, loc := range ranked {
		total := 0
		for _, sig := range d.signatures[loc] {
			total += len(sig.Pattern.FindAllStringIndex(text, -1)) * sig.Weight
		}
		scores[loc] = total
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	res := Result{Locale: Unknown, Scores: scores}
	if len(ranked) == 0 {
		return res
	}
	res.Score = scores[ranked[0]]
	if res.Score >= d.minScore {
		res.Locale = ranked[0]
	}
	return res
}

// ParseLocale validates a stored locale tag.
func ParseLocale(s string) (Locale, bool) {
	loc := Locale(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range Supported {
		if l == loc {
			return l, true
		}
	}
	return Unknown, false
}
