package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitPromotion is a quantity promotion on a single (product, supermarket)
// pair: every AppliesFromUnit-th unit gets DiscountPercent off. A value of 2
// with 50 percent reads "second unit half price".
type UnitPromotion struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index:idx_unit_promotions_pair"`
	SupermarketID   uuid.UUID       `gorm:"column:supermarket_id;type:uuid;not null;index:idx_unit_promotions_pair"`
	AppliesFromUnit int             `gorm:"column:applies_from_unit;not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	Description     string          `gorm:"column:description"`
	ValidFrom       time.Time       `gorm:"column:valid_from;not null"`
	ValidUntil      *time.Time      `gorm:"column:valid_until"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
