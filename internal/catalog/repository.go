package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
)

// Repository exposes the read-only catalog browse surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCategories returns every product category.
func (r *Repository) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	var categories []models.ProductCategory
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

// ListProductsByCategory returns the active products in one category.
func (r *Repository) ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND is_active", categoryID).
		Order("name").
		Find(&products).Error
	return products, err
}

// ListSupermarkets returns the active supermarket chains.
func (r *Repository) ListSupermarkets(ctx context.Context) ([]models.Supermarket, error) {
	var supermarkets []models.Supermarket
	err := r.db.WithContext(ctx).Where("is_active").Order("name").Find(&supermarkets).Error
	return supermarkets, err
}

// ListPaymentMethods returns the active payment method catalog.
func (r *Repository) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.WithContext(ctx).Where("is_active").Order("name").Find(&methods).Error
	return methods, err
}
