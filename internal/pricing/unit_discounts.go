package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dedupeLines resolves duplicate rows per product: an AVAILABLE row always
// beats an unavailable one; on an availability tie the configured policy
// decides whether the higher or the lower price wins. Input order is kept for
// the surviving rows.
func dedupeLines(items []LineItem, preferHighestPrice bool) []LineItem {
	if len(items) <= 1 {
		return items
	}

	byProduct := make(map[uuid.UUID]int, len(items))
	resolved := make([]LineItem, 0, len(items))

	for _, item := range items {
		idx, seen := byProduct[item.ProductID]
		if !seen {
			byProduct[item.ProductID] = len(resolved)
			resolved = append(resolved, item)
			continue
		}
		if betterOffer(item, resolved[idx], preferHighestPrice) {
			resolved[idx] = item
		}
	}
	return resolved
}

func betterOffer(candidate, current LineItem, preferHighestPrice bool) bool {
	if candidate.Availability.IsAvailable() != current.Availability.IsAvailable() {
		return candidate.Availability.IsAvailable()
	}
	if preferHighestPrice {
		return candidate.UnitPrice.GreaterThan(current.UnitPrice)
	}
	return candidate.UnitPrice.LessThan(current.UnitPrice)
}

// applyUnitDiscounts builds the per-product breakdown for one supermarket and
// returns it with the base subtotal and the summed unit discount. When several
// discount records target the same product, the largest discount wins.
// Products without a record contribute zero discount.
func applyUnitDiscounts(lines []LineItem, discounts []UnitDiscount) ([]LineBreakdown, decimal.Decimal, decimal.Decimal) {
	best := make(map[uuid.UUID]UnitDiscount, len(discounts))
	for _, d := range discounts {
		if d.DiscountTotal.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if prev, ok := best[d.ProductID]; ok && prev.DiscountTotal.GreaterThanOrEqual(d.DiscountTotal) {
			continue
		}
		best[d.ProductID] = d
	}

	breakdown := make([]LineBreakdown, 0, len(lines))
	base := decimal.Zero
	discountTotal := decimal.Zero

	for _, line := range lines {
		row := LineBreakdown{
			ProductID:     line.ProductID,
			Name:          line.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			Subtotal:      line.Subtotal,
			Discount:      decimal.Zero,
			FinalSubtotal: line.Subtotal,
			Availability:  line.Availability,
		}
		if d, ok := best[line.ProductID]; ok {
			row.Discount = d.DiscountTotal
			row.FinalSubtotal = line.Subtotal.Sub(d.DiscountTotal)
			row.PromotionDescription = d.Description
		}
		base = base.Add(row.Subtotal)
		discountTotal = discountTotal.Add(row.Discount)
		breakdown = append(breakdown, row)
	}

	return breakdown, base, discountTotal
}
