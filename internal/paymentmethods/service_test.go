package paymentmethods

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
	"github.com/sabu-app/sabu-backend/pkg/enums"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
)

func setupMethodsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS payment_methods (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS user_payment_methods (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  payment_method_id TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func testMethodService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return service
}

func seedMethod(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.PaymentMethod{
		ID: id, Name: name, Type: enums.PaymentMethodTypeCard, IsActive: true,
	}).Error)
	return id
}

func TestAttachAndListMethods(t *testing.T) {
	db := setupMethodsTestDB(t)
	service := testMethodService(t, db)
	userID := uuid.New()
	methodID := seedMethod(t, db, "Visa Credit")

	require.NoError(t, service.Attach(context.Background(), userID, methodID))

	memberships, err := service.ActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, "Visa Credit", memberships[0].PaymentMethod.Name)
}

func TestAttachIsIdempotent(t *testing.T) {
	db := setupMethodsTestDB(t)
	service := testMethodService(t, db)
	userID := uuid.New()
	methodID := seedMethod(t, db, "Visa Credit")

	require.NoError(t, service.Attach(context.Background(), userID, methodID))
	require.NoError(t, service.Attach(context.Background(), userID, methodID))

	var total int64
	require.NoError(t, db.Model(&models.UserPaymentMethod{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestDetachSoftDeletesMembership(t *testing.T) {
	db := setupMethodsTestDB(t)
	service := testMethodService(t, db)
	userID := uuid.New()
	methodID := seedMethod(t, db, "Visa Credit")

	require.NoError(t, service.Attach(context.Background(), userID, methodID))
	require.NoError(t, service.Detach(context.Background(), userID, methodID))

	memberships, err := service.ActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, memberships)

	var total int64
	require.NoError(t, db.Model(&models.UserPaymentMethod{}).Count(&total).Error)
	assert.EqualValues(t, 1, total, "membership rows are soft-deleted, never removed")
}

func TestAttachRevivesSoftDeletedMembership(t *testing.T) {
	db := setupMethodsTestDB(t)
	service := testMethodService(t, db)
	userID := uuid.New()
	methodID := seedMethod(t, db, "Visa Credit")

	require.NoError(t, service.Attach(context.Background(), userID, methodID))
	require.NoError(t, service.Detach(context.Background(), userID, methodID))
	require.NoError(t, service.Attach(context.Background(), userID, methodID))

	memberships, err := service.ActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)

	var total int64
	require.NoError(t, db.Model(&models.UserPaymentMethod{}).Count(&total).Error)
	assert.EqualValues(t, 1, total, "revival must reuse the existing row")
}

func TestAttachUnknownMethodFails(t *testing.T) {
	db := setupMethodsTestDB(t)
	service := testMethodService(t, db)

	err := service.Attach(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestDetachWithoutMembershipFails(t *testing.T) {
	db := setupMethodsTestDB(t)
	service := testMethodService(t, db)
	methodID := seedMethod(t, db, "Visa Credit")

	err := service.Detach(context.Background(), uuid.New(), methodID)
	require.Error(t, err)
}
