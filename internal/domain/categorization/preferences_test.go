package categorization

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/language"
)

// ============================================================================
// PreferenceMap
// ============================================================================

func TestPreferenceMap_Lookup(t *testing.T) {
	storeSpecific := uuid.New()
	storeAgnostic := uuid.New()

	prefs := NewPreferenceMap()
	prefs.Set("Mercadona", "Leche Entera", storeSpecific)
	prefs.Set("", "leche entera", storeAgnostic)
	prefs.Set("", "pan de molde", storeAgnostic)

	tests := []struct {
		name     string
		store    string
		desc     string
		expected uuid.UUID
		ok       bool
	}{
		{"store specific wins", "MERCADONA", "LECHE ENTERA", storeSpecific, true},
		{"other store falls back to agnostic", "Lidl", "Leche entera", storeAgnostic, true},
		{"no store uses agnostic", "", "pan de molde", storeAgnostic, true},
		{"unknown store falls back", "Dia", "pan de molde", storeAgnostic, true},
		{"no preference", "Mercadona", "aceite", uuid.Nil, false},
		{"empty description", "Mercadona", "  ", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := prefs.Lookup(tt.store, tt.desc)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPreferenceMap_ZeroValue(t *testing.T) {
	var prefs PreferenceMap
	_, ok := prefs.Lookup("store", "item")
	assert.False(t, ok)
	assert.Equal(t, 0, prefs.Len())
}

// ============================================================================
// PreferenceRepository
// ============================================================================

func TestPreferenceRepository_LoadForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	milk := uuid.New()
	bread := uuid.New()

	mock.ExpectQuery(`SELECT store_key, description_key, category_id`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"store_key", "description_key", "category_id"}).
			AddRow("mercadona", "leche entera", milk).
			AddRow("", "pan", bread))

	prefs, err := NewPreferenceRepository(mock).LoadForUser(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 2, prefs.Len())
	id, ok := prefs.Lookup("Mercadona", "Leche Entera")
	assert.True(t, ok)
	assert.Equal(t, milk, id)
	id, ok = prefs.Lookup("Aldi", "PAN")
	assert.True(t, ok)
	assert.Equal(t, bread, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_LoadForUser_ErrorReturnsEmptyMap(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	mock.ExpectQuery(`SELECT store_key, description_key, category_id`).
		WithArgs(userID).
		WillReturnError(errors.New("relation does not exist"))

	prefs, err := NewPreferenceRepository(mock).LoadForUser(context.Background(), userID)
	assert.Error(t, err)
	assert.Equal(t, 0, prefs.Len())
	_, ok := prefs.Lookup("x", "y")
	assert.False(t, ok)
}

func TestPreferenceRepository_SavePreference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	categoryID := uuid.New()

	mock.ExpectExec(`INSERT INTO item_category_preferences`).
		WithArgs(userID, "mercadona", "leche entera", categoryID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPreferenceRepository(mock)
	require.NoError(t, repo.SavePreference(context.Background(), userID, "MERCADONA", "Leche  Entera", categoryID))
	assert.Error(t, repo.SavePreference(context.Background(), userID, "MERCADONA", "--", categoryID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_StoreLanguage(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		setup    func(mock pgxmock.PgxPoolIface)
		store    string
		expected language.Locale
		ok       bool
		wantErr  bool
	}{
		{
			name: "stored locale",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT locale FROM store_language_preferences`).
					WithArgs(userID, "pingo doce").
					WillReturnRows(pgxmock.NewRows([]string{"locale"}).AddRow("pt"))
			},
			store:    "Pingo Doce",
			expected: language.PT,
			ok:       true,
		},
		{
			name: "no row",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT locale FROM store_language_preferences`).
					WithArgs(userID, "lidl").
					WillReturnError(pgx.ErrNoRows)
			},
			store:    "Lidl",
			expected: language.Unknown,
		},
		{
			name: "invalid stored value",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT locale FROM store_language_preferences`).
					WithArgs(userID, "aldi").
					WillReturnRows(pgxmock.NewRows([]string{"locale"}).AddRow("klingon"))
			},
			store:    "Aldi",
			expected: language.Unknown,
		},
		{
			name:     "empty store skips query",
			setup:    func(mock pgxmock.PgxPoolIface) {},
			store:    "",
			expected: language.Unknown,
		},
		{
			name: "query error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT locale FROM store_language_preferences`).
					WithArgs(userID, "dia").
					WillReturnError(errors.New("timeout"))
			},
			store:    "Dia",
			expected: language.Unknown,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setup(mock)

			locale, ok, err := NewPreferenceRepository(mock).StoreLanguage(context.Background(), userID, tt.store)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, locale)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPreferenceRepository_SaveStoreLanguage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	mock.ExpectExec(`INSERT INTO store_language_preferences`).
		WithArgs(userID, "carrefour", "fr").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPreferenceRepository(mock)
	require.NoError(t, repo.SaveStoreLanguage(context.Background(), userID, "Carrefour", language.FR))
	assert.Error(t, repo.SaveStoreLanguage(context.Background(), userID, "Carrefour", language.Locale("xx")))
	assert.Error(t, repo.SaveStoreLanguage(context.Background(), userID, " ", language.FR))
	require.NoError(t, mock.ExpectationsWereMet())
}
