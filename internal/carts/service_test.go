package carts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
)

func setupCartsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT,
  category_id TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  ephemeral INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_lines (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  created_at DATETIME
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

func testCartService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Repo:              NewRepository(db),
		TransactionRunner: passthroughTxRunner{db: db},
	})
	require.NoError(t, err)
	return service
}

func seedProduct(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.Product{
		ID: id, Name: name, CategoryID: uuid.New(), IsActive: true,
	}).Error)
	return id
}

func TestCreateAndListCarts(t *testing.T) {
	db := setupCartsTestDB(t)
	service := testCartService(t, db)
	userID := uuid.New()
	productID := seedProduct(t, db, "Milk")

	cart, err := service.Create(context.Background(), userID, CartInput{
		Name:  "weekly",
		Lines: []LineInput{{ProductID: productID, Quantity: decimal.RequireFromString("2")}},
	})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	listed, err := service.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "weekly", listed[0].Name)
	require.Len(t, listed[0].Lines, 1)
	assert.Equal(t, "Milk", listed[0].Lines[0].Product.Name)
}

func TestListExcludesEphemeralCarts(t *testing.T) {
	db := setupCartsTestDB(t)
	service := testCartService(t, db)
	userID := uuid.New()
	productID := seedProduct(t, db, "Milk")

	_, err := service.CreateEphemeral(context.Background(), userID,
		[]LineInput{{ProductID: productID, Quantity: decimal.RequireFromString("1")}})
	require.NoError(t, err)

	listed, err := service.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUpdateReplacesAllLines(t *testing.T) {
	db := setupCartsTestDB(t)
	service := testCartService(t, db)
	userID := uuid.New()
	milk := seedProduct(t, db, "Milk")
	bread := seedProduct(t, db, "Bread")

	cart, err := service.Create(context.Background(), userID, CartInput{
		Name:  "weekly",
		Lines: []LineInput{{ProductID: milk, Quantity: decimal.RequireFromString("2")}},
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), userID, cart.ID, CartInput{
		Name:  "monthly",
		Lines: []LineInput{{ProductID: bread, Quantity: decimal.RequireFromString("3")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "monthly", updated.Name)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, bread, updated.Lines[0].ProductID)

	var count int64
	require.NoError(t, db.Model(&models.CartLine{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "old lines must be deleted, not diffed")
}

func TestDeleteRemovesCartAndLines(t *testing.T) {
	db := setupCartsTestDB(t)
	service := testCartService(t, db)
	userID := uuid.New()
	productID := seedProduct(t, db, "Milk")

	cart, err := service.Create(context.Background(), userID, CartInput{
		Name:  "weekly",
		Lines: []LineInput{{ProductID: productID, Quantity: decimal.RequireFromString("2")}},
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), userID, cart.ID))

	var carts, lines int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	require.NoError(t, db.Model(&models.CartLine{}).Count(&lines).Error)
	assert.Zero(t, carts)
	assert.Zero(t, lines)
}

func TestForeignCartReadsAsNotFound(t *testing.T) {
	db := setupCartsTestDB(t)
	service := testCartService(t, db)
	owner := uuid.New()
	intruder := uuid.New()
	productID := seedProduct(t, db, "Milk")

	cart, err := service.Create(context.Background(), owner, CartInput{
		Name:  "weekly",
		Lines: []LineInput{{ProductID: productID, Quantity: decimal.RequireFromString("2")}},
	})
	require.NoError(t, err)

	_, err = service.FindOwned(context.Background(), intruder, cart.ID)
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestQuantityValidation(t *testing.T) {
	cases := []struct {
		name     string
		quantity string
		valid    bool
	}{
		{"positive integer", "2", true},
		{"single decimal digit", "1.5", true},
		{"maximum", "99", true},
		{"zero", "0", false},
		{"negative", "-1", false},
		{"above cap", "99.5", false},
		{"two decimal digits", "1.25", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateQuantity(decimal.RequireFromString(tc.quantity))
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateRequiresNameAndLines(t *testing.T) {
	db := setupCartsTestDB(t)
	service := testCartService(t, db)
	userID := uuid.New()

	_, err := service.Create(context.Background(), userID, CartInput{Name: ""})
	require.Error(t, err)

	_, err = service.Create(context.Background(), userID, CartInput{Name: "weekly"})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}
