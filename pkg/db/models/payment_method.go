package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sabu-app/sabu-backend/pkg/enums"
)

// PaymentMethod is a catalog entry: a payment instrument supermarkets run
// promotions against (a card brand, a wallet, a QR scheme).
type PaymentMethod struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string                  `gorm:"column:name;not null"`
	Type      enums.PaymentMethodType `gorm:"column:type;not null"`
	IsActive  bool                    `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}

// UserPaymentMethod links a user to a payment method they hold. Removal is a
// soft delete through the active flag so past comparisons keep their context.
type UserPaymentMethod struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	PaymentMethodID uuid.UUID      `gorm:"column:payment_method_id;type:uuid;not null"`
	Active          bool           `gorm:"column:active;not null;default:true"`
	PaymentMethod   *PaymentMethod `gorm:"foreignKey:PaymentMethodID"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
