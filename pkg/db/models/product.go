package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory groups products for catalog browsing.
type ProductCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Product is a catalog entry users add to carts. Immutable for pricing
// purposes within one comparison.
type Product struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string           `gorm:"column:name;not null"`
	Brand      *string          `gorm:"column:brand"`
	CategoryID uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Category   *ProductCategory `gorm:"foreignKey:CategoryID"`
	IsActive   bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
