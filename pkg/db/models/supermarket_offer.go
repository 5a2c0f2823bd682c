package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabu-app/sabu-backend/pkg/enums"
)

// SupermarketOffer is one (product, supermarket) price row from the upstream
// feed. The feed is allowed to carry duplicates for the same pair; readers
// must resolve them, the table does not enforce uniqueness.
type SupermarketOffer struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index:idx_offers_product_supermarket"`
	SupermarketID uuid.UUID          `gorm:"column:supermarket_id;type:uuid;not null;index:idx_offers_product_supermarket"`
	Price         decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Availability  enums.Availability `gorm:"column:availability;not null;default:'OUT_OF_STOCK'"`
	IsActive      bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
