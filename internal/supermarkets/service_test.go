package supermarkets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
)

func setupPreferencesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS supermarkets (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  logo_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS preferred_supermarkets (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  supermarket_id TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type passthroughTxRunner struct {
	db *gorm.DB
}

func (p passthroughTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(p.db)
}

func testPreferenceService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Repo:              NewRepository(db),
		TransactionRunner: passthroughTxRunner{db: db},
	})
	require.NoError(t, err)
	return service
}

func seedSupermarket(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.Supermarket{ID: id, Name: name, IsActive: true}).Error)
	return id
}

func TestReplacePreferredCreatesAndDeactivates(t *testing.T) {
	db := setupPreferencesTestDB(t)
	service := testPreferenceService(t, db)
	userID := uuid.New()
	coto := seedSupermarket(t, db, "Coto")
	dia := seedSupermarket(t, db, "Dia")

	require.NoError(t, service.ReplacePreferred(context.Background(), userID, []uuid.UUID{coto}))

	prefs, err := service.PreferredByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, coto, prefs[0].SupermarketID)

	// switch to the other supermarket: the old row must survive, inactive
	require.NoError(t, service.ReplacePreferred(context.Background(), userID, []uuid.UUID{dia}))

	prefs, err = service.PreferredByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, dia, prefs[0].SupermarketID)

	var total int64
	require.NoError(t, db.Model(&models.PreferredSupermarket{}).Count(&total).Error)
	assert.EqualValues(t, 2, total, "preference rows are soft-deleted, never removed")
}

func TestReplacePreferredReactivatesSoftDeletedRow(t *testing.T) {
	db := setupPreferencesTestDB(t)
	service := testPreferenceService(t, db)
	userID := uuid.New()
	coto := seedSupermarket(t, db, "Coto")
	dia := seedSupermarket(t, db, "Dia")

	require.NoError(t, service.ReplacePreferred(context.Background(), userID, []uuid.UUID{coto}))
	require.NoError(t, service.ReplacePreferred(context.Background(), userID, []uuid.UUID{dia}))
	require.NoError(t, service.ReplacePreferred(context.Background(), userID, []uuid.UUID{coto}))

	var total int64
	require.NoError(t, db.Model(&models.PreferredSupermarket{}).Count(&total).Error)
	assert.EqualValues(t, 2, total, "reactivation must reuse the existing row")

	prefs, err := service.PreferredByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, coto, prefs[0].SupermarketID)
}

func TestReplacePreferredRejectsUnknownSupermarket(t *testing.T) {
	db := setupPreferencesTestDB(t)
	service := testPreferenceService(t, db)

	err := service.ReplacePreferred(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestReplacePreferredRequiresSelection(t *testing.T) {
	db := setupPreferencesTestDB(t)
	service := testPreferenceService(t, db)

	err := service.ReplacePreferred(context.Background(), uuid.New(), nil)
	require.Error(t, err)
}
