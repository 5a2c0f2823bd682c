package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sabu-app/sabu-backend/api/responses"
	"github.com/sabu-app/sabu-backend/api/validators"
	cartsvc "github.com/sabu-app/sabu-backend/internal/carts"
	"github.com/sabu-app/sabu-backend/internal/catalog"
	"github.com/sabu-app/sabu-backend/internal/pricing"
	"github.com/sabu-app/sabu-backend/pkg/enums"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
	"github.com/sabu-app/sabu-backend/pkg/logger"
)

type compareCartRequest struct {
	Days []int `json:"days" validate:"required,min=1"`
}

type compareLinesRequest struct {
	Lines []cartLineRequest `json:"lines" validate:"required,min=1,dive"`
	Days  []int             `json:"days" validate:"required,min=1"`
}

type comparisonLineResponse struct {
	ProductID            uuid.UUID       `json:"product_id"`
	Name                 string          `json:"name"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	Discount             decimal.Decimal `json:"discount"`
	FinalSubtotal        decimal.Decimal `json:"final_subtotal"`
	PromotionDescription string          `json:"promotion_description,omitempty"`
	Availability         string          `json:"availability"`
}

type comparisonResultResponse struct {
	SupermarketID        uuid.UUID                `json:"supermarket_id"`
	SupermarketName      string                   `json:"supermarket_name"`
	Total                decimal.Decimal          `json:"total"`
	BaseSubtotal         decimal.Decimal          `json:"base_subtotal"`
	UnitDiscountTotal    decimal.Decimal          `json:"unit_discount_total"`
	PaymentDiscount      decimal.Decimal          `json:"payment_discount"`
	PaymentMethodID      *uuid.UUID               `json:"payment_method_id,omitempty"`
	PaymentMethodName    string                   `json:"payment_method_name,omitempty"`
	RecommendedDays      []int                    `json:"recommended_days"`
	PromotionDescription string                   `json:"promotion_description,omitempty"`
	Lines                []comparisonLineResponse `json:"lines"`
	BestPrice            bool                     `json:"best_price"`
}

type comparisonWarningResponse struct {
	SupermarketID   uuid.UUID `json:"supermarket_id"`
	SupermarketName string    `json:"supermarket_name"`
	Reason          string    `json:"reason"`
}

type comparisonResponse struct {
	CartID   uuid.UUID                   `json:"cart_id"`
	Results  []comparisonResultResponse  `json:"results"`
	Warnings []comparisonWarningResponse `json:"warnings"`
}

func newComparisonResponse(comparison *pricing.Comparison) comparisonResponse {
	out := comparisonResponse{
		CartID:   comparison.CartID,
		Results:  make([]comparisonResultResponse, 0, len(comparison.Results)),
		Warnings: make([]comparisonWarningResponse, 0, len(comparison.Warnings)),
	}
	for _, result := range comparison.Results {
		lines := make([]comparisonLineResponse, 0, len(result.Lines))
		for _, line := range result.Lines {
			lines = append(lines, comparisonLineResponse{
				ProductID:            line.ProductID,
				Name:                 line.Name,
				Quantity:             line.Quantity,
				UnitPrice:            line.UnitPrice,
				Subtotal:             line.Subtotal,
				Discount:             line.Discount,
				FinalSubtotal:        line.FinalSubtotal,
				PromotionDescription: line.PromotionDescription,
				Availability:         string(line.Availability),
			})
		}
		days := make([]int, 0, len(result.RecommendedDays))
		for _, day := range result.RecommendedDays {
			days = append(days, int(day))
		}
		out.Results = append(out.Results, comparisonResultResponse{
			SupermarketID:        result.SupermarketID,
			SupermarketName:      result.SupermarketName,
			Total:                result.Total,
			BaseSubtotal:         result.BaseSubtotal,
			UnitDiscountTotal:    result.UnitDiscountTotal,
			PaymentDiscount:      result.PaymentDiscount,
			PaymentMethodID:      result.PaymentMethodID,
			PaymentMethodName:    result.PaymentMethodName,
			RecommendedDays:      days,
			PromotionDescription: result.PromotionDescription,
			Lines:                lines,
			BestPrice:            result.BestPrice,
		})
	}
	for _, warning := range comparison.Warnings {
		out.Warnings = append(out.Warnings, comparisonWarningResponse{
			SupermarketID:   warning.SupermarketID,
			SupermarketName: warning.SupermarketName,
			Reason:          warning.Reason,
		})
	}
	return out
}

func parseDays(values []int) ([]enums.Weekday, error) {
	days, err := enums.ParseWeekdays(values)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid day selection")
	}
	return days, nil
}

// CompareCart prices one of the user's saved carts across their preferred
// supermarkets.
func CompareCart(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload compareCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		days, err := parseDays(payload.Days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		comparison, err := svc.CompareCart(r.Context(), userID, cartID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newComparisonResponse(comparison))
	}
}

// CompareLines prices an ad-hoc selection that was never saved as a cart.
func CompareLines(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload compareLinesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		days, err := parseDays(payload.Days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lines := make([]cartsvc.LineInput, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, cartsvc.LineInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		comparison, err := svc.CompareLines(r.Context(), userID, lines, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newComparisonResponse(comparison))
	}
}

type cartSummaryRow struct {
	SupermarketID      uuid.UUID       `json:"supermarket_id"`
	SupermarketName    string          `json:"supermarket_name"`
	BaseSubtotal       decimal.Decimal `json:"base_subtotal"`
	MissingProducts    int             `json:"missing_products"`
	OutOfStockProducts int             `json:"out_of_stock_products"`
}

// CartSummary exposes per-supermarket base totals without running the full
// comparison engine.
func CartSummary(carts *cartsvc.Service, gateway *catalog.Gateway, repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := carts.FindOwned(r.Context(), userID, cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		totals, err := gateway.CartTotals(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supermarkets, err := repo.ListSupermarkets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supermarkets"))
			return
		}
		names := make(map[uuid.UUID]string, len(supermarkets))
		for _, supermarket := range supermarkets {
			names[supermarket.ID] = supermarket.Name
		}
		out := make([]cartSummaryRow, 0, len(totals))
		for _, row := range totals {
			out = append(out, cartSummaryRow{
				SupermarketID:      row.SupermarketID,
				SupermarketName:    names[row.SupermarketID],
				BaseSubtotal:       row.BaseSubtotal,
				MissingProducts:    row.MissingProducts,
				OutOfStockProducts: row.OutOfStockProducts,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

type cartDetailItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Availability string          `json:"availability"`
}

// CartSupermarketDetail lists the cart's products as priced by a single
// supermarket.
func CartSupermarketDetail(carts *cartsvc.Service, gateway *catalog.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartID, err := cartIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supermarketID, err := uuid.Parse(chi.URLParam(r, "supermarketId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supermarket id"))
			return
		}
		if _, err := carts.FindOwned(r.Context(), userID, cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := gateway.CartDetail(r.Context(), cartID, supermarketID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]cartDetailItem, 0, len(items))
		for _, item := range items {
			out = append(out, cartDetailItem{
				ProductID:    item.ProductID,
				Name:         item.Name,
				Quantity:     item.Quantity,
				UnitPrice:    item.UnitPrice,
				Subtotal:     item.Subtotal,
				Availability: string(item.Availability),
			})
		}
		responses.WriteSuccess(w, out)
	}
}
