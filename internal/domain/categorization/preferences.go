package categorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"
)

type preferenceKey struct {
	store       string
	description string
}

// PreferenceMap is a per-run snapshot of a user's learned category overrides.
type PreferenceMap struct {
	entries map[preferenceKey]uuid.UUID
}

// NewPreferenceMap returns an empty map.
func NewPreferenceMap() PreferenceMap {
	return PreferenceMap{entries: make(map[preferenceKey]uuid.UUID)}
}

// Set records a preference. Keys are normalized.
func (m PreferenceMap) Set(store, description string, categoryID uuid.UUID) {
	m.entries[preferenceKey{NormalizeKey(store), NormalizeKey(description)}] = categoryID
}

// Lookup returns the store-specific preference for description, then the
// store-agnostic one.
func (m PreferenceMap) Lookup(store, description string) (uuid.UUID, bool) {
	desc := NormalizeKey(description)
	if desc == "" || len(m.entries) == 0 {
		return uuid.Nil, false
	}
	if s := NormalizeKey(store); s != "" {
		if id, ok := m.entries[preferenceKey{s, desc}]; ok {
			return id, true
		}
	}
	id, ok := m.entries[preferenceKey{"", desc}]
	return id, ok
}

// Len returns the number of stored preferences.
func (m PreferenceMap) Len() int {
	return len(m.entries)
}

// PreferenceRepository reads and writes item and store-language preferences.
type PreferenceRepository struct {
	db DB
}

func NewPreferenceRepository(db DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// LoadForUser fetches every item category preference of a user in one query.
func (r *PreferenceRepository) LoadForUser(ctx context.Context, userID uuid.UUID) (PreferenceMap, error) {
	query := `
		SELECT store_key, description_key, category_id
		FROM item_category_preferences
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return NewPreferenceMap(), fmt.Errorf("failed to load preferences: %w", err)
	}
	defer rows.Close()

	prefs := NewPreferenceMap()
	for rows.Next() {
		var store, desc string
		var categoryID uuid.UUID
		if err := rows.Scan(&store, &desc, &categoryID); err != nil {
			return NewPreferenceMap(), err
		}
		prefs.entries[preferenceKey{store, desc}] = categoryID
	}
	if err := rows.Err(); err != nil {
		return NewPreferenceMap(), err
	}

	return prefs, nil
}

// SavePreference upserts a confirmed category for (store, description). An
// empty store records a store-agnostic preference.
func (r *PreferenceRepository) SavePreference(ctx context.Context, userID uuid.UUID, store, description string, categoryID uuid.UUID) error {
	desc := NormalizeKey(description)
	if desc == "" {
		return errors.New("description key is empty")
	}

	query := `
		INSERT INTO item_category_preferences (user_id, store_key, description_key, category_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, store_key, description_key)
		DO UPDATE SET category_id = EXCLUDED.category_id, updated_at = now()
	`
	if _, err := r.db.Exec(ctx, query, userID, NormalizeKey(store), desc, categoryID); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

// StoreLanguage returns the forced locale for a store, if one is stored and valid.
func (r *PreferenceRepository) StoreLanguage(ctx context.Context, userID uuid.UUID, store string) (language.Locale, bool, error) {
	key := NormalizeKey(store)
	if key == "" {
		return language.Unknown, false, nil
	}

	var raw string
	err := r.db.QueryRow(ctx, `
		SELECT locale FROM store_language_preferences
		WHERE user_id = $1 AND store_key = $2
	`, userID, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return language.Unknown, false, nil
	}
	if err != nil {
		return language.Unknown, false, fmt.Errorf("failed to load store language: %w", err)
	}

	locale, ok := language.ParseLocale(raw)
	return locale, ok, nil
}

// SaveStoreLanguage forces a locale for a store.
func (r *PreferenceRepository) SaveStoreLanguage(ctx context.Context, userID uuid.UUID, store string, locale language.Locale) error {
	key := NormalizeKey(store)
	if key == "" {
		return errors.New("store key is empty")
	}
	if _, ok := language.ParseLocale(string(locale)); !ok {
		return fmt.Errorf("unsupported locale %q", locale)
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO store_language_preferences (user_id, store_key, locale)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, store_key)
		DO UPDATE SET locale = EXCLUDED.locale, updated_at = now()
	`, userID, key, string(locale))
	if err != nil {
		return fmt.Errorf("failed to save store language: %w", err)
	}
	return nil
}
