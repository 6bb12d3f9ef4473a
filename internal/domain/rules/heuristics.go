package rules

import (
	"strings"
	"sync"
	"unicode"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"
	"github.com/FACorreiaa/smart-finance-receipts/pkg/textnorm"
)

// StrongWeight is the keyword weight from which a suggestion counts as strong.
const StrongWeight = 3

// Keyword maps a product word or phrase to a category.
type Keyword struct {
	Term     string
	Category string
	Weight   int
}

// Suggestion is a heuristic category guess for one item description.
type Suggestion struct {
	Category string
	Keyword  string
	Weight   int
	Strong   bool
}

// Heuristics matches item descriptions against per-locale keyword sets using
// one Aho-Corasick automaton per locale. The locale-agnostic keyword set is
// merged into every automaton.
type Heuristics struct {
	mu            sync.RWMutex
	engines       map[language.Locale]*keywordEngine
	defaultLocale language.Locale
}

type keywordEngine struct {
	mu       sync.Mutex // Matcher keeps per-call state
	matcher  *ahocorasick.Matcher
	patterns []string
	metadata [][]Keyword // several keywords may share one normalized term
}

// NewHeuristics builds the built-in keyword automatons.
func NewHeuristics(defaultLocale language.Locale) *Heuristics {
	h := &Heuristics{defaultLocale: defaultLocale}
	h.Build(localeKeywords(), commonKeywords())
	return h
}

// Build (re)constructs the automatons.
func (h *Heuristics) Build(byLocale map[language.Locale][]Keyword, common []Keyword) {
	engines := make(map[language.Locale]*keywordEngine, len(byLocale))
	for loc, kws := range byLocale {
		all := make([]Keyword, 0, len(kws)+len(common))
		all = append(all, kws...)
		all = append(all, common...)
		engines[loc] = newKeywordEngine(all)
	}

	h.mu.Lock()
	h.engines = engines
	h.mu.Unlock()
}

func newKeywordEngine(keywords []Keyword) *keywordEngine {
	e := &keywordEngine{}
	index := make(map[string]int, len(keywords))

	for _, kw := range keywords {
		term := padTerm(kw.Term)
		if term == "" {
			continue
		}
		if idx, ok := index[term]; ok {
			e.metadata[idx] = append(e.metadata[idx], kw)
			continue
		}
		index[term] = len(e.patterns)
		e.patterns = append(e.patterns, term)
		e.metadata = append(e.metadata, []Keyword{kw})
	}

	if len(e.patterns) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(e.patterns)
	}
	return e
}

// Suggest returns the best keyword suggestion for a description. The
// highest weight wins; longer terms break weight ties.
func (h *Heuristics) Suggest(locale language.Locale, description string) *Suggestion {
	h.mu.RLock()
	e, ok := h.engines[locale]
	if !ok {
		e = h.engines[h.defaultLocale]
	}
	h.mu.RUnlock()

	if e == nil || e.matcher == nil {
		return nil
	}

	text := padTerm(description)
	if text == "" {
		return nil
	}

	e.mu.Lock()
	hits := e.matcher.Match([]byte(text))
	e.mu.Unlock()

	var best *Keyword
	for _, idx := range hits {
		if idx < 0 || idx >= len(e.metadata) {
			continue
		}
		for i := range e.metadata[idx] {
			kw := &e.metadata[idx][i]
			if best == nil || kw.Weight > best.Weight ||
				(kw.Weight == best.Weight && len(kw.Term) > len(best.Term)) {
				best = kw
			}
		}
	}
	if best == nil {
		return nil
	}
	return &Suggestion{
		Category: best.Category,
		Keyword:  best.Term,
		Weight:   best.Weight,
		Strong:   best.Weight >= StrongWeight,
	}
}

// padTerm upper-cases without diacritics, replaces anything that is not a letter or digit with a
// space and pads with single spaces so that automaton hits align to words.
func padTerm(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(' ')
	lastSpace := true
	for _, r := range textnorm.Upper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	out := b.String()
	if strings.TrimSpace(out) == "" {
		return ""
	}
	if !lastSpace {
		out += " "
	}
	return out
}
