package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/internal/pricing"
	"github.com/sabu-app/sabu-backend/pkg/config"
	"github.com/sabu-app/sabu-backend/pkg/db/models"
	"github.com/sabu-app/sabu-backend/pkg/enums"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
	"github.com/sabu-app/sabu-backend/pkg/logger"
	redispkg "github.com/sabu-app/sabu-backend/pkg/redis"
)

// Gateway answers the four pricing reads against the SQL views, falling back
// to plain table queries when a view errors. There is exactly one fallback
// path, inside the gateway; callers never see which route answered.
type Gateway struct {
	db    *gorm.DB
	cache redispkg.Cache
	cfg   config.PricingConfig
	logg  *logger.Logger
}

// GatewayParams groups dependencies for the catalog gateway. Cache is
// optional; without it every promotion read hits the database.
type GatewayParams struct {
	DB     *gorm.DB
	Cache  redispkg.Cache
	Config config.PricingConfig
	Logger *logger.Logger
}

// NewGateway constructs a catalog gateway.
func NewGateway(params GatewayParams) (*Gateway, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Gateway{
		db:    params.DB,
		cache: params.Cache,
		cfg:   params.Config,
		logg:  params.Logger,
	}, nil
}

func (g *Gateway) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(g.cfg.GatewayRetries), retry.NewConstant(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}

type detailRow struct {
	ProductID    uuid.UUID       `gorm:"column:product_id"`
	Name         string          `gorm:"column:name"`
	Quantity     decimal.Decimal `gorm:"column:quantity"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price"`
	LineSubtotal decimal.Decimal `gorm:"column:line_subtotal"`
	Availability string          `gorm:"column:availability"`
}

// CartDetail returns the raw priced rows for one (cart, supermarket) pair.
// Duplicate rows per product are passed through untouched; resolving them is
// the evaluator's job.
func (g *Gateway) CartDetail(ctx context.Context, cartID, supermarketID uuid.UUID) ([]pricing.LineItem, error) {
	var items []pricing.LineItem
	err := g.withRetry(ctx, func(ctx context.Context) error {
		rows, err := g.detailFromView(ctx, cartID, supermarketID)
		if err != nil {
			g.logg.Warn(ctx, "cart detail view unavailable, using table fallback")
			rows, err = g.detailFromTables(ctx, cartID, supermarketID)
		}
		items = rows
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart detail")
	}
	return items, nil
}

func (g *Gateway) detailFromView(ctx context.Context, cartID, supermarketID uuid.UUID) ([]pricing.LineItem, error) {
	var rows []detailRow
	err := g.db.WithContext(ctx).Raw(`
		SELECT d.product_id, p.name, d.quantity, d.unit_price, d.line_subtotal, d.availability
		FROM cart_supermarket_detail d
		JOIN products p ON p.id = d.product_id
		WHERE d.cart_id = ? AND d.supermarket_id = ? AND d.unit_price IS NOT NULL`,
		cartID, supermarketID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return detailRowsToItems(rows), nil
}

func (g *Gateway) detailFromTables(ctx context.Context, cartID, supermarketID uuid.UUID) ([]pricing.LineItem, error) {
	lines, err := g.cartLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	productIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}

	var offers []models.SupermarketOffer
	if err := g.db.WithContext(ctx).
		Where("product_id IN ? AND supermarket_id = ? AND is_active", productIDs, supermarketID).
		Find(&offers).Error; err != nil {
		return nil, err
	}

	offersByProduct := make(map[uuid.UUID][]models.SupermarketOffer, len(offers))
	for _, offer := range offers {
		offersByProduct[offer.ProductID] = append(offersByProduct[offer.ProductID], offer)
	}

	items := make([]pricing.LineItem, 0, len(lines))
	for _, line := range lines {
		name := ""
		if line.Product != nil {
			name = line.Product.Name
		}
		for _, offer := range offersByProduct[line.ProductID] {
			items = append(items, pricing.LineItem{
				ProductID:    line.ProductID,
				Name:         name,
				Quantity:     line.Quantity,
				UnitPrice:    offer.Price,
				Subtotal:     offer.Price.Mul(line.Quantity),
				Availability: offer.Availability,
			})
		}
	}
	return items, nil
}

func (g *Gateway) cartLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := g.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at").
		Find(&lines).Error
	return lines, err
}

func detailRowsToItems(rows []detailRow) []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(rows))
	for _, row := range rows {
		availability, err := enums.ParseAvailability(row.Availability)
		if err != nil {
			availability = enums.AvailabilityOutOfStock
		}
		items = append(items, pricing.LineItem{
			ProductID:    row.ProductID,
			Name:         row.Name,
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			Subtotal:     row.LineSubtotal,
			Availability: availability,
		})
	}
	return items
}

type discountRow struct {
	ProductID   uuid.UUID       `gorm:"column:product_id"`
	PromotionID uuid.UUID       `gorm:"column:promotion_id"`
	Description string          `gorm:"column:description"`
	Discount    decimal.Decimal `gorm:"column:discount"`
}

// UnitDiscounts returns per-product quantity-promotion amounts for one
// (cart, supermarket) pair.
func (g *Gateway) UnitDiscounts(ctx context.Context, cartID, supermarketID uuid.UUID) ([]pricing.UnitDiscount, error) {
	var discounts []pricing.UnitDiscount
	err := g.withRetry(ctx, func(ctx context.Context) error {
		rows, err := g.unitDiscountsFromFunction(ctx, cartID, supermarketID)
		if err != nil {
			g.logg.Warn(ctx, "unit discount function unavailable, using table fallback")
			rows, err = g.unitDiscountsFromTables(ctx, cartID, supermarketID)
		}
		discounts = rows
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch unit discounts")
	}
	return discounts, nil
}

func (g *Gateway) unitDiscountsFromFunction(ctx context.Context, cartID, supermarketID uuid.UUID) ([]pricing.UnitDiscount, error) {
	var rows []discountRow
	err := g.db.WithContext(ctx).Raw(
		`SELECT product_id, promotion_id, description, discount FROM cart_unit_discounts(?, ?)`,
		cartID, supermarketID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	discounts := make([]pricing.UnitDiscount, 0, len(rows))
	for _, row := range rows {
		discounts = append(discounts, pricing.UnitDiscount{
			ProductID:     row.ProductID,
			PromotionID:   row.PromotionID,
			Description:   row.Description,
			DiscountTotal: row.Discount,
		})
	}
	return discounts, nil
}

// unitDiscountsFromTables reproduces the stored function in Go: every
// applies_from_unit-th whole unit gets discount_percent off the resolved
// offer price.
func (g *Gateway) unitDiscountsFromTables(ctx context.Context, cartID, supermarketID uuid.UUID) ([]pricing.UnitDiscount, error) {
	items, err := g.detailFromTables(ctx, cartID, supermarketID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	priced := make(map[uuid.UUID]pricing.LineItem, len(items))
	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		current, seen := priced[item.ProductID]
		if !seen || betterFallbackOffer(item, current, g.cfg.PreferHighestPriceOnTie()) {
			priced[item.ProductID] = item
		}
		if !seen {
			productIDs = append(productIDs, item.ProductID)
		}
	}

	now := time.Now()
	var promos []models.UnitPromotion
	if err := g.db.WithContext(ctx).
		Where("product_id IN ? AND supermarket_id = ? AND is_active AND valid_from <= ?", productIDs, supermarketID, now).
		Where("valid_until IS NULL OR valid_until > ?", now).
		Find(&promos).Error; err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	discounts := make([]pricing.UnitDiscount, 0, len(promos))
	for _, promo := range promos {
		item, ok := priced[promo.ProductID]
		if !ok {
			continue
		}
		qualifying := item.Quantity.Div(decimal.NewFromInt(int64(promo.AppliesFromUnit))).Floor()
		if qualifying.LessThan(decimal.NewFromInt(1)) {
			continue
		}
		amount := qualifying.Mul(item.UnitPrice).Mul(promo.DiscountPercent).Div(hundred).Round(2)
		discounts = append(discounts, pricing.UnitDiscount{
			ProductID:     promo.ProductID,
			PromotionID:   promo.ID,
			Description:   promo.Description,
			DiscountTotal: amount,
		})
	}
	return discounts, nil
}

func betterFallbackOffer(candidate, current pricing.LineItem, preferHighestPrice bool) bool {
	if candidate.Availability.IsAvailable() != current.Availability.IsAvailable() {
		return candidate.Availability.IsAvailable()
	}
	if preferHighestPrice {
		return candidate.UnitPrice.GreaterThan(current.UnitPrice)
	}
	return candidate.UnitPrice.LessThan(current.UnitPrice)
}

// ActivePromotions returns the supermarket's payment promotions valid right
// now, served from the cache when possible.
func (g *Gateway) ActivePromotions(ctx context.Context, supermarketID uuid.UUID) ([]pricing.Promotion, error) {
	if g.cache != nil {
		key := g.cache.PromotionsKey(supermarketID.String())
		if raw, err := g.cache.Get(ctx, key); err == nil {
			var cached []pricing.Promotion
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			// poisoned entry: drop it and fall through to the database
			_ = g.cache.Del(ctx, key)
		}
	}

	var promos []pricing.Promotion
	err := g.withRetry(ctx, func(ctx context.Context) error {
		rows, err := g.promotionsFromView(ctx, supermarketID)
		if err != nil {
			g.logg.Warn(ctx, "promotions view unavailable, using table fallback")
			rows, err = g.promotionsFromTables(ctx, supermarketID)
		}
		promos = rows
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch active promotions")
	}

	if g.cache != nil && g.cfg.PromotionCacheTTL > 0 {
		if payload, err := json.Marshal(promos); err == nil {
			if err := g.cache.Set(ctx, g.cache.PromotionsKey(supermarketID.String()), string(payload), g.cfg.PromotionCacheTTL); err != nil {
				g.logg.Warn(ctx, "failed to cache promotions")
			}
		}
	}
	return promos, nil
}

func (g *Gateway) promotionsFromView(ctx context.Context, supermarketID uuid.UUID) ([]pricing.Promotion, error) {
	var rows []models.PaymentPromotion
	err := g.db.WithContext(ctx).
		Table("active_payment_promotions").
		Where("supermarket_id = ?", supermarketID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return promotionModelsToRows(rows), nil
}

func (g *Gateway) promotionsFromTables(ctx context.Context, supermarketID uuid.UUID) ([]pricing.Promotion, error) {
	now := time.Now()
	var rows []models.PaymentPromotion
	err := g.db.WithContext(ctx).
		Where("supermarket_id = ? AND is_active AND valid_from <= ?", supermarketID, now).
		Where("valid_until IS NULL OR valid_until > ?", now).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return promotionModelsToRows(rows), nil
}

func promotionModelsToRows(rows []models.PaymentPromotion) []pricing.Promotion {
	promos := make([]pricing.Promotion, 0, len(rows))
	for _, row := range rows {
		days := make([]enums.Weekday, 0, len(row.Weekdays))
		for _, raw := range row.Weekdays {
			if day, err := enums.ParseWeekday(int(raw)); err == nil {
				days = append(days, day)
			}
		}
		promos = append(promos, pricing.Promotion{
			ID:              row.ID,
			SupermarketID:   row.SupermarketID,
			PaymentMethodID: row.PaymentMethodID,
			Weekdays:        days,
			DiscountPercent: row.DiscountPercent,
			DiscountCap:     row.DiscountCap,
			Description:     row.Description,
		})
	}
	return promos
}

// TotalsRow is one supermarket's aggregate for the cart summary view.
type TotalsRow struct {
	SupermarketID      uuid.UUID       `gorm:"column:supermarket_id"`
	BaseSubtotal       decimal.Decimal `gorm:"column:base_subtotal"`
	MissingProducts    int             `gorm:"column:missing_products"`
	OutOfStockProducts int             `gorm:"column:out_of_stock_products"`
}

// CartTotals returns per-supermarket base totals and availability counts for
// a cart.
func (g *Gateway) CartTotals(ctx context.Context, cartID uuid.UUID) ([]TotalsRow, error) {
	var totals []TotalsRow
	err := g.withRetry(ctx, func(ctx context.Context) error {
		rows, err := g.totalsFromView(ctx, cartID)
		if err != nil {
			g.logg.Warn(ctx, "cart totals view unavailable, using table fallback")
			rows, err = g.totalsFromTables(ctx, cartID)
		}
		totals = rows
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart totals")
	}
	return totals, nil
}

func (g *Gateway) totalsFromView(ctx context.Context, cartID uuid.UUID) ([]TotalsRow, error) {
	var rows []TotalsRow
	err := g.db.WithContext(ctx).
		Table("cart_supermarket_totals").
		Where("cart_id = ?", cartID).
		Order("base_subtotal").
		Find(&rows).Error
	return rows, err
}

func (g *Gateway) totalsFromTables(ctx context.Context, cartID uuid.UUID) ([]TotalsRow, error) {
	lines, err := g.cartLines(ctx, cartID)
	if err != nil {
		return nil, err
	}

	var supermarkets []models.Supermarket
	if err := g.db.WithContext(ctx).Where("is_active").Find(&supermarkets).Error; err != nil {
		return nil, err
	}

	rows := make([]TotalsRow, 0, len(supermarkets))
	for _, supermarket := range supermarkets {
		items, err := g.detailFromTables(ctx, cartID, supermarket.ID)
		if err != nil {
			return nil, err
		}
		resolved := make(map[uuid.UUID]pricing.LineItem, len(items))
		for _, item := range items {
			current, seen := resolved[item.ProductID]
			if !seen || betterFallbackOffer(item, current, g.cfg.PreferHighestPriceOnTie()) {
				resolved[item.ProductID] = item
			}
		}

		row := TotalsRow{SupermarketID: supermarket.ID, BaseSubtotal: decimal.Zero}
		for _, line := range lines {
			item, ok := resolved[line.ProductID]
			if !ok {
				row.MissingProducts++
				continue
			}
			if !item.Availability.IsAvailable() {
				row.OutOfStockProducts++
			}
			row.BaseSubtotal = row.BaseSubtotal.Add(item.Subtotal)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
