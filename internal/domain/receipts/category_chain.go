package receipts

import (
	"strings"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/categorization"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/rules"
)

// Category sources recorded on each pick.
const (
	SourcePreference = "preference"
	SourceSuggested  = "suggested"
	SourceHeuristic  = "heuristic"
	SourceFallback   = "fallback"
)

// ItemContext is what the category strategies see for one line item.
type ItemContext struct {
	Description string
	RawCategory string
	StoreName   string
	Locale      language.Locale

	resolved string // canonical name RawCategory resolved to, if any
}

// Pick is the category chosen so far. A locked pick is final.
type Pick struct {
	Category categorization.Category
	Source   string
	Locked   bool
}

// CategoryStrategy proposes a category for an item given the current pick,
// or returns nil to keep it.
type CategoryStrategy interface {
	Name() string
	Apply(item ItemContext, current *Pick) *Pick
}

// CategoryChain evaluates strategies in order over a per-run catalog and
// preference snapshot.
type CategoryChain struct {
	catalog    *categorization.Catalog
	names      []string
	strategies []CategoryStrategy
}

// NewCategoryChain builds the default order: learned preference, the
// parser or model label, keyword heuristics, then the Other category.
func NewCategoryChain(catalog *categorization.Catalog, prefs categorization.PreferenceMap, heuristics *rules.Heuristics) *CategoryChain {
	c := &CategoryChain{catalog: catalog, names: catalog.Names()}
	c.strategies = []CategoryStrategy{
		preferenceStrategy{catalog: catalog, prefs: prefs},
		suggestedStrategy{catalog: catalog},
		heuristicStrategy{catalog: catalog, names: c.names, heuristics: heuristics},
		fallbackStrategy{catalog: catalog},
	}
	return c
}

// WithStrategies replaces the strategy list.
func (c *CategoryChain) WithStrategies(strategies ...CategoryStrategy) *CategoryChain {
	c.strategies = strategies
	return c
}

// Resolve runs the chain for one item. unresolved reports a non-empty source
// label that matched no canonical category. The pick is nil only when the
// catalog has no Other category and nothing else matched.
func (c *CategoryChain) Resolve(item ItemContext) (pick *Pick, unresolved bool) {
	raw := strings.TrimSpace(item.RawCategory)
	if raw != "" {
		name, ok := categorization.Resolve(raw, c.names)
		if ok {
			item.resolved = name
		} else {
			unresolved = true
		}
	}

	for _, s := range c.strategies {
		if pick != nil && pick.Locked {
			break
		}
		if next := s.Apply(item, pick); next != nil {
			pick = next
		}
	}
	return pick, unresolved
}

type preferenceStrategy struct {
	catalog *categorization.Catalog
	prefs   categorization.PreferenceMap
}

func (preferenceStrategy) Name() string { return SourcePreference }

func (s preferenceStrategy) Apply(item ItemContext, _ *Pick) *Pick {
	id, ok := s.prefs.Lookup(item.StoreName, item.Description)
	if !ok {
		return nil
	}
	// preferences may point at a category deleted since they were saved
	cat, ok := s.catalog.ByID(id)
	if !ok {
		return nil
	}
	return &Pick{Category: cat, Source: SourcePreference, Locked: true}
}

type suggestedStrategy struct {
	catalog *categorization.Catalog
}

func (suggestedStrategy) Name() string { return SourceSuggested }

func (s suggestedStrategy) Apply(item ItemContext, _ *Pick) *Pick {
	if item.resolved == "" {
		return nil
	}
	cat, ok := s.catalog.ByName(item.resolved)
	if !ok {
		return nil
	}
	return &Pick{Category: cat, Source: SourceSuggested}
}

type heuristicStrategy struct {
	catalog    *categorization.Catalog
	names      []string
	heuristics *rules.Heuristics
}

func (heuristicStrategy) Name() string { return SourceHeuristic }

// Apply only improves weak guesses: no pick or Other, a drinks/non-drinks
// disagreement, or a strong keyword that disagrees with the current pick.
func (s heuristicStrategy) Apply(item ItemContext, current *Pick) *Pick {
	if s.heuristics == nil {
		return nil
	}
	sg := s.heuristics.Suggest(item.Locale, item.Description)
	if sg == nil {
		return nil
	}
	name, ok := categorization.Resolve(sg.Category, s.names)
	if !ok {
		return nil
	}
	cat, ok := s.catalog.ByName(name)
	if !ok {
		return nil
	}
	next := &Pick{Category: cat, Source: SourceHeuristic}

	if current == nil || isOther(current.Category) {
		return next
	}
	if current.Category.IsDrink() != cat.IsDrink() {
		return next
	}
	if sg.Strong && current.Category.ID != cat.ID {
		return next
	}
	return nil
}

type fallbackStrategy struct {
	catalog *categorization.Catalog
}

func (fallbackStrategy) Name() string { return SourceFallback }

func (s fallbackStrategy) Apply(_ ItemContext, current *Pick) *Pick {
	if current != nil {
		return nil
	}
	other, ok := s.catalog.Other()
	if !ok {
		return nil
	}
	return &Pick{Category: other, Source: SourceFallback}
}

func isOther(c categorization.Category) bool {
	return categorization.NormalizeKey(c.Name) == categorization.NormalizeKey(categorization.OtherCategory)
}
