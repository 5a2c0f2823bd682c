package models

import (
	"time"

	"github.com/google/uuid"
)

// Supermarket is a chain users can mark as preferred and compare against.
type Supermarket struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	LogoURL   *string   `gorm:"column:logo_url"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// PreferredSupermarket links a user to a supermarket they shop at. Rows are
// soft-deleted through the active flag, never removed.
type PreferredSupermarket struct {
	ID            uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID    `gorm:"column:user_id;type:uuid;not null;index"`
	SupermarketID uuid.UUID    `gorm:"column:supermarket_id;type:uuid;not null"`
	Active        bool         `gorm:"column:active;not null;default:true"`
	Supermarket   *Supermarket `gorm:"foreignKey:SupermarketID"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
