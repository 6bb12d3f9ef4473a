package receipts

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/categorization"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"
	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/rules"
)

// newTestCatalog builds the default catalog with fresh ids.
func newTestCatalog(userID uuid.UUID) *categorization.Catalog {
	seeds := categorization.DefaultCatalog()
	cats := make([]categorization.Category, len(seeds))
	for i, s := range seeds {
		typeID := int32(i%3 + 1)
		cats[i] = categorization.Category{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      s.Name,
			Color:     s.Color,
			TypeID:    &typeID,
			BroadType: s.BroadType,
		}
	}
	return categorization.NewCatalog(cats)
}

func mustCategory(t *testing.T, c *categorization.Catalog, name string) categorization.Category {
	t.Helper()
	cat, ok := c.ByName(name)
	require.True(t, ok, "category %q missing", name)
	return cat
}

var testHeuristics = rules.NewHeuristics(language.ES)

// ============================================================================
// Chain order
// ============================================================================

func TestCategoryChain_PreferenceBeatsSuggestionAndHeuristic(t *testing.T) {
	catalog := newTestCatalog(uuid.New())
	snacks := mustCategory(t, catalog, "Salty Snacks")

	prefs := categorization.NewPreferenceMap()
	prefs.Set("Mercadona", "COCA COLA 33CL", snacks.ID)

	chain := NewCategoryChain(catalog, prefs, testHeuristics)
	pick, unresolved := chain.Resolve(ItemContext{
		Description: "COCA COLA 33CL", // heuristic says Drinks, strongly
		RawCategory: "Groceries",      // model says Groceries
		StoreName:   "Mercadona",
		Locale:      language.ES,
	})

	require.NotNil(t, pick)
	assert.Equal(t, "Salty Snacks", pick.Category.Name)
	assert.Equal(t, SourcePreference, pick.Source)
	assert.True(t, pick.Locked)
	assert.False(t, unresolved)
}

func TestCategoryChain_StoreAgnosticPreference(t *testing.T) {
	catalog := newTestCatalog(uuid.New())
	household := mustCategory(t, catalog, "Household")

	prefs := categorization.NewPreferenceMap()
	prefs.Set("", "bolsa reutilizable", household.ID)

	pick, _ := NewCategoryChain(catalog, prefs, testHeuristics).Resolve(ItemContext{
		Description: "BOLSA REUTILIZABLE",
		RawCategory: "Other",
		StoreName:   "Dia",
		Locale:      language.ES,
	})

	require.NotNil(t, pick)
	assert.Equal(t, household.ID, pick.Category.ID)
	assert.Equal(t, SourcePreference, pick.Source)
}

func TestCategoryChain_StalePreferenceIgnored(t *testing.T) {
	catalog := newTestCatalog(uuid.New())
	prefs := categorization.NewPreferenceMap()
	prefs.Set("", "PAN DE MOLDE", uuid.New())

	pick, _ := NewCategoryChain(catalog, prefs, testHeuristics).Resolve(ItemContext{
		Description: "PAN DE MOLDE",
		RawCategory: "Bakery",
		Locale:      language.ES,
	})

	require.NotNil(t, pick)
	assert.Equal(t, "Bakery", pick.Category.Name)
	assert.Equal(t, SourceSuggested, pick.Source)
}

// ============================================================================
// Heuristic override rules
// ============================================================================

func TestCategoryChain_HeuristicOverrides(t *testing.T) {
	tests := []struct {
		name       string
		desc       string
		raw        string
		wantName   string
		wantSource string
	}{
		{"agrees with suggestion", "COCA COLA 33CL", "Drinks", "Drinks", SourceSuggested},
		{"replaces Other", "PATATAS FRITAS LISAS", "Other", "Salty Snacks", SourceHeuristic},
		{"fills missing label", "PATATAS FRITAS LISAS", "", "Salty Snacks", SourceHeuristic},
		{"drink mismatch", "AGUA 1.5L", "Groceries", "Drinks", SourceHeuristic},
		{"food labelled as drink", "PATATAS FRITAS LISAS", "Drinks", "Salty Snacks", SourceHeuristic},
		{"strong disagreement", "LECHE ENTERA", "Groceries", "Dairy & Eggs", SourceHeuristic},
		{"weak disagreement keeps suggestion", "PATATAS FRITAS LISAS", "Groceries", "Groceries", SourceSuggested},
		{"strong agreement within drinks", "CERVEZA TOSTADA", "Alcohol", "Alcohol", SourceSuggested},
		{"no keyword keeps suggestion", "ARTICULO 4471", "Shopping", "Shopping", SourceSuggested},
		{"no keyword and no label falls back", "ARTICULO 4471", "", "Other", SourceFallback},
	}

	catalog := newTestCatalog(uuid.New())
	chain := NewCategoryChain(catalog, categorization.NewPreferenceMap(), testHeuristics)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick, _ := chain.Resolve(ItemContext{
				Description: tt.desc,
				RawCategory: tt.raw,
				Locale:      language.ES,
			})
			require.NotNil(t, pick)
			assert.Equal(t, tt.wantName, pick.Category.Name)
			assert.Equal(t, tt.wantSource, pick.Source)
		})
	}
}

// ============================================================================
// Unresolved labels
// ============================================================================

func TestCategoryChain_UnresolvedLabelFallsBackToOther(t *testing.T) {
	catalog := newTestCatalog(uuid.New())
	chain := NewCategoryChain(catalog, categorization.NewPreferenceMap(), testHeuristics)

	pick, unresolved := chain.Resolve(ItemContext{
		Description: "ARTICULO 4471",
		RawCategory: "Snacks & Chips",
		Locale:      language.ES,
	})

	require.NotNil(t, pick)
	assert.Equal(t, categorization.OtherCategory, pick.Category.Name)
	assert.Equal(t, SourceFallback, pick.Source)
	assert.True(t, unresolved)
}

func TestCategoryChain_TolerantLabelResolves(t *testing.T) {
	catalog := newTestCatalog(uuid.New())
	chain := NewCategoryChain(catalog, categorization.NewPreferenceMap(), testHeuristics)

	pick, unresolved := chain.Resolve(ItemContext{
		Description: "ARTICULO 4471",
		RawCategory: "dairy and egg",
		Locale:      language.ES,
	})

	require.NotNil(t, pick)
	assert.Equal(t, "Dairy & Eggs", pick.Category.Name)
	assert.False(t, unresolved)
}

func TestCategoryChain_UnresolvedEvenWhenPreferenceWins(t *testing.T) {
	catalog := newTestCatalog(uuid.New())
	sweets := mustCategory(t, catalog, "Sweets")
	prefs := categorization.NewPreferenceMap()
	prefs.Set("", "TURRON", sweets.ID)

	pick, unresolved := NewCategoryChain(catalog, prefs, testHeuristics).Resolve(ItemContext{
		Description: "TURRON",
		RawCategory: "Christmas",
		Locale:      language.ES,
	})

	require.NotNil(t, pick)
	assert.Equal(t, "Sweets", pick.Category.Name)
	assert.True(t, unresolved)
}

func TestCategoryChain_NoOtherInCatalog(t *testing.T) {
	catalog := categorization.NewCatalog([]categorization.Category{{ID: uuid.New(), Name: "Groceries", BroadType: categorization.BroadFood}})
	pick, _ := NewCategoryChain(catalog, categorization.NewPreferenceMap(), nil).Resolve(ItemContext{Description: "X"})
	assert.Nil(t, pick)
}

type fixedStrategy struct{ cat categorization.Category }

func (fixedStrategy) Name() string { return "fixed" }

func (s fixedStrategy) Apply(ItemContext, *Pick) *Pick {
	return &Pick{Category: s.cat, Source: "fixed"}
}

func TestCategoryChain_CustomStrategies(t *testing.T) {
	catalog := newTestCatalog(uuid.New())
	health := mustCategory(t, catalog, "Health")

	chain := NewCategoryChain(catalog, categorization.NewPreferenceMap(), testHeuristics).
		WithStrategies(fixedStrategy{cat: health})

	pick, _ := chain.Resolve(ItemContext{Description: "LECHE", RawCategory: "Dairy & Eggs"})
	require.NotNil(t, pick)
	assert.Equal(t, "Health", pick.Category.Name)
}
