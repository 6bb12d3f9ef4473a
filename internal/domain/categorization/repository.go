package categorization

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CategoryRepository handles database operations for receipt categories.
type CategoryRepository struct {
	db DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListForUser fetches the user's categories in creation order.
func (r *CategoryRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Category, error) {
	query := `
		SELECT id, user_id, name, color, type_id, broad_type
		FROM receipt_categories
		WHERE user_id = $1
		ORDER BY created_at ASC, name ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Name,
			&c.Color,
			&c.TypeID,
			&c.BroadType,
		); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// EnsureCatalog returns the user's categories, seeding the default catalog
// first when the user has none or lacks the fallback category.
func (r *CategoryRepository) EnsureCatalog(ctx context.Context, userID uuid.UUID) (*Catalog, error) {
	categories, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog := NewCatalog(categories)
	if _, ok := catalog.Other(); ok {
		return catalog, nil
	}

	if err := r.seed(ctx, userID, DefaultCatalog()); err != nil {
		return nil, err
	}

	categories, err = r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCatalog(categories), nil
}

func (r *CategoryRepository) seed(ctx context.Context, userID uuid.UUID, seeds []CategorySeed) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO receipt_categories (user_id, name, color, type_id, broad_type)
		VALUES ($1, $2, $3, (SELECT id FROM category_types WHERE name = $4), $5)
		ON CONFLICT (user_id, name) DO NOTHING
	`
	for _, s := range seeds {
		if _, err := tx.Exec(ctx, query, userID, s.Name, s.Color, s.TypeName, s.BroadType); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", s.Name, err)
		}
	}

	return tx.Commit(ctx)
}
