package paymentmethods

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
)

// Repository persists the user-to-payment-method membership rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveByUser returns the user's active memberships with methods preloaded.
func (r *Repository) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.UserPaymentMethod, error) {
	var memberships []models.UserPaymentMethod
	err := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Where("user_id = ? AND active", userID).
		Order("created_at").
		Find(&memberships).Error
	return memberships, err
}

// FindMembership loads the membership row for one (user, method) pair,
// active or not. Returns nil when no row exists.
func (r *Repository) FindMembership(ctx context.Context, userID, methodID uuid.UUID) (*models.UserPaymentMethod, error) {
	var membership models.UserPaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND payment_method_id = ?", userID, methodID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Create inserts a new membership row.
func (r *Repository) Create(ctx context.Context, membership *models.UserPaymentMethod) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// SetActive flips the active flag on one membership row.
func (r *Repository) SetActive(ctx context.Context, membershipID uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.UserPaymentMethod{}).
		Where("id = ?", membershipID).
		Update("active", active).Error
}

// MethodExists reports whether the catalog holds an active method with this id.
func (r *Repository) MethodExists(ctx context.Context, methodID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentMethod{}).
		Where("id = ? AND is_active", methodID).
		Count(&count).Error
	return count > 0, err
}
