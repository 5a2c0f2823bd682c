package pricing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabu-app/sabu-backend/pkg/enums"
)

type promoKey struct {
	method uuid.UUID
	day    enums.Weekday
}

// buildPromotionIndex collapses the supermarket's active promotions into one
// lookup keyed by (method, day), computed once per sub-calculation. When
// several promotions qualify for the same key, the first one in feed order
// wins.
func buildPromotionIndex(promotions []Promotion) map[promoKey]Promotion {
	index := make(map[promoKey]Promotion, len(promotions))
	for _, promo := range promotions {
		days := promo.Weekdays
		if len(days) == 0 {
			days = []enums.Weekday{
				enums.Monday, enums.Tuesday, enums.Wednesday, enums.Thursday,
				enums.Friday, enums.Saturday, enums.Sunday,
			}
		}
		for _, day := range days {
			key := promoKey{method: promo.PaymentMethodID, day: day}
			if _, taken := index[key]; taken {
				continue
			}
			index[key] = promo
		}
	}
	return index
}

// promotionDiscount applies the cap formula: min(base * pct / 100, cap).
func promotionDiscount(base decimal.Decimal, promo Promotion) decimal.Decimal {
	discount := base.Mul(promo.DiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	if promo.DiscountCap != nil && discount.GreaterThan(*promo.DiscountCap) {
		discount = *promo.DiscountCap
	}
	return discount
}

// paymentOutcome is the best payment choice for one supermarket. A nil
// MethodID means more than one distinct method ties for the minimum, or no
// promotion applied at all.
type paymentOutcome struct {
	Total       decimal.Decimal
	Discount    decimal.Decimal
	MethodID    *uuid.UUID
	MethodName  string
	Days        []enums.Weekday
	Description string
}

// evaluatePayment finds the minimum total over every (day, method) pair. A
// pair without a matching promotion costs the plain base; when nothing beats
// the base the outcome carries no method and no recommended days.
func evaluatePayment(base decimal.Decimal, methods []PaymentMethod, days []enums.Weekday, promotions []Promotion) paymentOutcome {
	outcome := paymentOutcome{Total: base, Discount: decimal.Zero}
	if len(methods) == 0 || len(days) == 0 {
		return outcome
	}

	index := buildPromotionIndex(promotions)

	type winner struct {
		day    enums.Weekday
		method PaymentMethod
		promo  Promotion
	}
	var winners []winner

	for _, day := range days {
		for _, method := range methods {
			promo, ok := index[promoKey{method: method.ID, day: day}]
			if !ok {
				continue
			}
			discount := promotionDiscount(base, promo)
			if discount.LessThanOrEqual(decimal.Zero) {
				continue
			}
			candidate := base.Sub(discount)
			switch {
			case candidate.LessThan(outcome.Total):
				outcome.Total = candidate
				outcome.Discount = discount
				winners = winners[:0]
				winners = append(winners, winner{day: day, method: method, promo: promo})
			case candidate.Equal(outcome.Total) && len(winners) > 0:
				winners = append(winners, winner{day: day, method: method, promo: promo})
			}
		}
	}

	if len(winners) == 0 {
		return outcome
	}

	daySet := map[enums.Weekday]struct{}{}
	methodSet := map[uuid.UUID]struct{}{}
	for _, w := range winners {
		daySet[w.day] = struct{}{}
		methodSet[w.method.ID] = struct{}{}
	}

	outcome.Days = make([]enums.Weekday, 0, len(daySet))
	for day := range daySet {
		outcome.Days = append(outcome.Days, day)
	}
	sort.Slice(outcome.Days, func(i, j int) bool { return outcome.Days[i] < outcome.Days[j] })

	outcome.Description = winners[0].promo.Description
	if len(methodSet) == 1 {
		id := winners[0].method.ID
		outcome.MethodID = &id
		outcome.MethodName = winners[0].method.Name
	}
	return outcome
}
