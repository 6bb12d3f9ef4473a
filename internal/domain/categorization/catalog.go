package categorization

import (
	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-finance-receipts/pkg/textnorm"
)

const (
	// OtherCategory is the fallback every catalog contains.
	OtherCategory = "Other"

	BroadFood     = "Food"
	BroadDrinks   = "Drinks"
	BroadHome     = "Home"
	BroadServices = "Services"
	BroadLeisure  = "Leisure"
	BroadOther    = "Other"
)

// Category is a canonical spending category owned by a user.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Color     string
	TypeID    *int32
	BroadType string
}

// IsDrink reports whether the category belongs to the drinks broad type.
func (c Category) IsDrink() bool {
	return c.BroadType == BroadDrinks
}

// CategorySeed describes one default category.
type CategorySeed struct {
	Name      string
	Color     string
	TypeName  string // category_types.name
	BroadType string
}

// DefaultCatalog is seeded for users without categories.
func DefaultCatalog() []CategorySeed {
	return []CategorySeed{
		{"Groceries", "#16a34a", "Essentials", BroadFood},
		{"Fruits & Vegetables", "#65a30d", "Essentials", BroadFood},
		{"Meat & Fish", "#b91c1c", "Essentials", BroadFood},
		{"Dairy & Eggs", "#facc15", "Essentials", BroadFood},
		{"Bakery", "#d97706", "Essentials", BroadFood},
		{"Salty Snacks", "#ea580c", "Lifestyle", BroadFood},
		{"Sweets", "#db2777", "Lifestyle", BroadFood},
		{"Drinks", "#0ea5e9", "Essentials", BroadDrinks},
		{"Alcohol", "#7c3aed", "Lifestyle", BroadDrinks},
		{"Household", "#64748b", "Essentials", BroadHome},
		{"Personal Care", "#14b8a6", "Essentials", BroadHome},
		{"Restaurants", "#f97316", "Lifestyle", BroadFood},
		{"Transport", "#2563eb", "Essentials", BroadServices},
		{"Utilities", "#0f766e", "Essentials", BroadServices},
		{"Health", "#dc2626", "Essentials", BroadServices},
		{"Shopping", "#a855f7", "Lifestyle", BroadLeisure},
		{"Entertainment", "#8b5cf6", "Lifestyle", BroadLeisure},
		{"Transfers", "#475569", "Other", BroadOther},
		{OtherCategory, "#9ca3af", "Other", BroadOther},
	}
}

// Catalog is a read-only snapshot of a user's categories taken once per run.
type Catalog struct {
	categories []Category
	byKey      map[string]int
	byID       map[uuid.UUID]int
}

// NewCatalog indexes categories by folded name and id. Later duplicates of a
// folded name are ignored.
func NewCatalog(categories []Category) *Catalog {
	c := &Catalog{
		categories: categories,
		byKey:      make(map[string]int, len(categories)),
		byID:       make(map[uuid.UUID]int, len(categories)),
	}
	for i, cat := range categories {
		key := textnorm.Key(cat.Name)
		if _, dup := c.byKey[key]; !dup {
			c.byKey[key] = i
		}
		c.byID[cat.ID] = i
	}
	return c
}

// Names returns category names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// ByName finds a category by exact (folded) name.
func (c *Catalog) ByName(name string) (Category, bool) {
	i, ok := c.byKey[textnorm.Key(name)]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// ByID finds a category by id.
func (c *Catalog) ByID(id uuid.UUID) (Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Other returns the fallback category.
func (c *Catalog) Other() (Category, bool) {
	return c.ByName(OtherCategory)
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}
