package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabu-app/sabu-backend/pkg/enums"
)

// LineItem is one raw product row for a (cart, supermarket) pair as the
// gateway returns it. The upstream feed may carry several rows for the same
// product; dedupeLines resolves them.
type LineItem struct {
	ProductID    uuid.UUID
	Name         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
	Availability enums.Availability
}

// UnitDiscount is a per-product quantity-promotion amount for one
// (cart, supermarket) pair.
type UnitDiscount struct {
	ProductID     uuid.UUID
	PromotionID   uuid.UUID
	Description   string
	DiscountTotal decimal.Decimal
}

// Promotion is an active payment promotion at one supermarket.
type Promotion struct {
	ID              uuid.UUID
	SupermarketID   uuid.UUID
	PaymentMethodID uuid.UUID
	Weekdays        []enums.Weekday // empty means every day
	DiscountPercent decimal.Decimal
	DiscountCap     *decimal.Decimal
	Description     string
}

// Supermarket is the engine's view of a preferred supermarket.
type Supermarket struct {
	ID   uuid.UUID
	Name string
}

// PaymentMethod is the engine's view of one of the user's active methods.
type PaymentMethod struct {
	ID   uuid.UUID
	Name string
}

// Gateway is the read-only catalog surface the engine prices against.
// Implementations must apply the active date-range filtering themselves.
type Gateway interface {
	CartDetail(ctx context.Context, cartID, supermarketID uuid.UUID) ([]LineItem, error)
	UnitDiscounts(ctx context.Context, cartID, supermarketID uuid.UUID) ([]UnitDiscount, error)
	ActivePromotions(ctx context.Context, supermarketID uuid.UUID) ([]Promotion, error)
}

// CompareInput carries everything one comparison needs. Identity and
// preferences arrive explicitly; the engine never reads ambient session state.
type CompareInput struct {
	CartID         uuid.UUID
	LineCount      int
	Supermarkets   []Supermarket
	PaymentMethods []PaymentMethod
	Days           []enums.Weekday
}

// LineBreakdown is the per-product row of a supermarket result.
type LineBreakdown struct {
	ProductID            uuid.UUID
	Name                 string
	Quantity             decimal.Decimal
	UnitPrice            decimal.Decimal
	Subtotal             decimal.Decimal
	Discount             decimal.Decimal
	FinalSubtotal        decimal.Decimal
	PromotionDescription string
	Availability         enums.Availability
}

// SupermarketResult is one priced supermarket, best payment option applied.
// A nil PaymentMethodID means any method achieves the total.
type SupermarketResult struct {
	SupermarketID        uuid.UUID
	SupermarketName      string
	Total                decimal.Decimal
	BaseSubtotal         decimal.Decimal
	UnitDiscountTotal    decimal.Decimal
	PaymentDiscount      decimal.Decimal
	PaymentMethodID      *uuid.UUID
	PaymentMethodName    string
	RecommendedDays      []enums.Weekday
	PromotionDescription string
	Lines                []LineBreakdown
	BestPrice            bool
}

// Warning records a supermarket that could not be priced.
type Warning struct {
	SupermarketID   uuid.UUID
	SupermarketName string
	Reason          string
}

// Comparison is the ranked outcome of one engine invocation. Results are
// sorted ascending by total; the first entry is flagged best price.
type Comparison struct {
	CartID   uuid.UUID
	Results  []SupermarketResult
	Warnings []Warning
}
