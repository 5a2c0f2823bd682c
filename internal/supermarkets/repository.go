package supermarkets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
)

// Repository persists supermarket preferences.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ActiveByUser returns the user's active preferences with supermarkets
// preloaded.
func (r *Repository) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.PreferredSupermarket, error) {
	var prefs []models.PreferredSupermarket
	err := r.db.WithContext(ctx).
		Preload("Supermarket").
		Where("user_id = ? AND active", userID).
		Order("created_at").
		Find(&prefs).Error
	return prefs, err
}

// AllByUser returns every preference row for the user, active or not.
func (r *Repository) AllByUser(ctx context.Context, userID uuid.UUID) ([]models.PreferredSupermarket, error) {
	var prefs []models.PreferredSupermarket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&prefs).Error
	return prefs, err
}

// SetActive flips the active flag on one preference row.
func (r *Repository) SetActive(ctx context.Context, prefID uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.PreferredSupermarket{}).
		Where("id = ?", prefID).
		Update("active", active).Error
}

// Create inserts a new preference row.
func (r *Repository) Create(ctx context.Context, pref *models.PreferredSupermarket) error {
	return r.db.WithContext(ctx).Create(pref).Error
}

// CountActiveSupermarkets reports how many of the given ids are active
// supermarket rows.
func (r *Repository) CountActiveSupermarkets(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Supermarket{}).
		Where("id IN ? AND is_active", ids).
		Count(&count).Error
	return count, err
}
