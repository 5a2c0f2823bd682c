package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabu-app/sabu-backend/pkg/enums"
)

func TestPromotionDiscountAppliesCap(t *testing.T) {
	cap := decimal.RequireFromString("20")
	promo := Promotion{
		DiscountPercent: decimal.RequireFromString("20"),
		DiscountCap:     &cap,
	}

	// 150 * 20% = 30 > cap 20
	got := promotionDiscount(decimal.RequireFromString("150"), promo)
	if !got.Equal(cap) {
		t.Fatalf("expected capped discount 20, got %s", got)
	}

	// 50 * 20% = 10 < cap 20
	got = promotionDiscount(decimal.RequireFromString("50"), promo)
	if !got.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected discount 10, got %s", got)
	}
}

func TestPromotionDiscountWithoutCap(t *testing.T) {
	promo := Promotion{DiscountPercent: decimal.RequireFromString("25")}
	got := promotionDiscount(decimal.RequireFromString("200"), promo)
	if !got.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected discount 50, got %s", got)
	}
}

func TestBuildPromotionIndexFirstMatchWins(t *testing.T) {
	methodID := uuid.New()
	first := Promotion{
		ID:              uuid.New(),
		PaymentMethodID: methodID,
		Weekdays:        []enums.Weekday{enums.Monday},
		DiscountPercent: decimal.RequireFromString("10"),
	}
	second := Promotion{
		ID:              uuid.New(),
		PaymentMethodID: methodID,
		Weekdays:        []enums.Weekday{enums.Monday},
		DiscountPercent: decimal.RequireFromString("50"),
	}

	index := buildPromotionIndex([]Promotion{first, second})
	got, ok := index[promoKey{method: methodID, day: enums.Monday}]
	if !ok {
		t.Fatalf("expected an index entry for (method, Monday)")
	}
	if got.ID != first.ID {
		t.Fatalf("expected the first promotion in feed order to win")
	}
}

func TestBuildPromotionIndexEmptyWeekdaysMeansEveryDay(t *testing.T) {
	methodID := uuid.New()
	index := buildPromotionIndex([]Promotion{{
		ID:              uuid.New(),
		PaymentMethodID: methodID,
		DiscountPercent: decimal.RequireFromString("10"),
	}})
	if len(index) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(index))
	}
}

func TestEvaluatePaymentNoMatchReturnsBase(t *testing.T) {
	base := decimal.RequireFromString("150")
	methods := []PaymentMethod{{ID: uuid.New(), Name: "Visa Credit"}}
	days := []enums.Weekday{enums.Monday}

	outcome := evaluatePayment(base, methods, days, nil)
	if !outcome.Total.Equal(base) {
		t.Fatalf("expected total %s, got %s", base, outcome.Total)
	}
	if outcome.MethodID != nil {
		t.Fatalf("expected no recommended method")
	}
	if len(outcome.Days) != 0 {
		t.Fatalf("expected no recommended days, got %v", outcome.Days)
	}
}

func TestEvaluatePaymentCappedMinimum(t *testing.T) {
	// base 150, 20% capped at 20 on Monday -> 130
	base := decimal.RequireFromString("150")
	method := PaymentMethod{ID: uuid.New(), Name: "Visa Credit"}
	cap := decimal.RequireFromString("20")
	promos := []Promotion{{
		ID:              uuid.New(),
		PaymentMethodID: method.ID,
		Weekdays:        []enums.Weekday{enums.Monday},
		DiscountPercent: decimal.RequireFromString("20"),
		DiscountCap:     &cap,
		Description:     "20% off with Visa, Mondays",
	}}

	outcome := evaluatePayment(base, []PaymentMethod{method}, []enums.Weekday{enums.Monday, enums.Tuesday}, promos)
	if !outcome.Total.Equal(decimal.RequireFromString("130")) {
		t.Fatalf("expected total 130, got %s", outcome.Total)
	}
	if outcome.MethodID == nil || *outcome.MethodID != method.ID {
		t.Fatalf("expected method %s recommended", method.Name)
	}
	if len(outcome.Days) != 1 || outcome.Days[0] != enums.Monday {
		t.Fatalf("expected Monday only, got %v", outcome.Days)
	}
	if outcome.Description != "20% off with Visa, Mondays" {
		t.Fatalf("unexpected description %q", outcome.Description)
	}
}

func TestEvaluatePaymentMethodTieReportsAny(t *testing.T) {
	base := decimal.RequireFromString("100")
	visa := PaymentMethod{ID: uuid.New(), Name: "Visa Credit"}
	modo := PaymentMethod{ID: uuid.New(), Name: "MODO"}
	promos := []Promotion{
		{
			ID:              uuid.New(),
			PaymentMethodID: visa.ID,
			Weekdays:        []enums.Weekday{enums.Monday},
			DiscountPercent: decimal.RequireFromString("10"),
		},
		{
			ID:              uuid.New(),
			PaymentMethodID: modo.ID,
			Weekdays:        []enums.Weekday{enums.Wednesday},
			DiscountPercent: decimal.RequireFromString("10"),
		},
	}

	outcome := evaluatePayment(base,
		[]PaymentMethod{visa, modo},
		[]enums.Weekday{enums.Monday, enums.Wednesday},
		promos)
	if !outcome.Total.Equal(decimal.RequireFromString("90")) {
		t.Fatalf("expected total 90, got %s", outcome.Total)
	}
	if outcome.MethodID != nil {
		t.Fatalf("expected nil method on a cross-method tie, got %s", outcome.MethodName)
	}
	if len(outcome.Days) != 2 {
		t.Fatalf("expected both tying days, got %v", outcome.Days)
	}
}

func TestEvaluatePaymentSameMethodMultipleDaysKeepsMethod(t *testing.T) {
	base := decimal.RequireFromString("100")
	visa := PaymentMethod{ID: uuid.New(), Name: "Visa Credit"}
	promos := []Promotion{{
		ID:              uuid.New(),
		PaymentMethodID: visa.ID,
		Weekdays:        []enums.Weekday{enums.Monday, enums.Friday},
		DiscountPercent: decimal.RequireFromString("15"),
	}}

	outcome := evaluatePayment(base, []PaymentMethod{visa},
		[]enums.Weekday{enums.Monday, enums.Tuesday, enums.Friday}, promos)
	if outcome.MethodID == nil || *outcome.MethodID != visa.ID {
		t.Fatalf("expected single method kept on same-method ties")
	}
	if len(outcome.Days) != 2 || outcome.Days[0] != enums.Monday || outcome.Days[1] != enums.Friday {
		t.Fatalf("expected Monday and Friday, got %v", outcome.Days)
	}
}
