package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PaymentPromotion is a supermarket discount that applies when paying with a
// given method on given weekdays. The discount is a percentage of the
// post-unit-discount subtotal, limited by an optional absolute cap.
//
// Weekdays uses ISO numbering, 1=Monday .. 7=Sunday. An empty array means the
// promotion runs every day.
type PaymentPromotion struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupermarketID   uuid.UUID        `gorm:"column:supermarket_id;type:uuid;not null;index"`
	PaymentMethodID uuid.UUID        `gorm:"column:payment_method_id;type:uuid;not null"`
	Weekdays        pq.Int64Array    `gorm:"column:weekdays;type:smallint[]"`
	DiscountPercent decimal.Decimal  `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	DiscountCap     *decimal.Decimal `gorm:"column:discount_cap;type:numeric(12,2)"`
	Description     string           `gorm:"column:description"`
	ValidFrom       time.Time        `gorm:"column:valid_from;not null"`
	ValidUntil      *time.Time       `gorm:"column:valid_until"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveOn reports whether the promotion runs on the given ISO weekday.
func (p PaymentPromotion) ActiveOn(weekday int) bool {
	if len(p.Weekdays) == 0 {
		return true
	}
	for _, day := range p.Weekdays {
		if int(day) == weekday {
			return true
		}
	}
	return false
}
