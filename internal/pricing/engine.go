package pricing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/sabu-app/sabu-backend/pkg/config"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
	"github.com/sabu-app/sabu-backend/pkg/logger"
	"github.com/sabu-app/sabu-backend/pkg/metrics"
)

// Engine orchestrates the per-supermarket sub-calculations and ranks the
// outcome. Sub-calculations share nothing; results are merged only after all
// of them finish.
type Engine struct {
	gateway Gateway
	cfg     config.PricingConfig
	logg    *logger.Logger
	metrics *metrics.ComparisonMetrics
}

// EngineParams groups dependencies for the pricing engine.
type EngineParams struct {
	Gateway Gateway
	Config  config.PricingConfig
	Logger  *logger.Logger
	Metrics *metrics.ComparisonMetrics
}

// NewEngine constructs a pricing engine.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	if params.Config.GatewayTimeout <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway timeout must be positive")
	}
	return &Engine{
		gateway: params.Gateway,
		cfg:     params.Config,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// Compare prices the cart at every preferred supermarket and ranks the
// results ascending by total. Preconditions fail the whole invocation before
// any gateway call; a single supermarket failing only shrinks the result set.
func (e *Engine) Compare(ctx context.Context, input CompareInput) (*Comparison, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	type slot struct {
		result *SupermarketResult
		warn   *Warning
		err    error
	}
	slots := make([]slot, len(input.Supermarkets))

	var wg sync.WaitGroup
	for i, supermarket := range input.Supermarkets {
		wg.Add(1)
		go func(i int, supermarket Supermarket) {
			defer wg.Done()
			started := time.Now()
			result, err := e.priceSupermarket(ctx, input, supermarket)
			e.metrics.ObserveDuration(supermarket.Name, time.Since(started))
			if err != nil {
				e.metrics.IncDataUnavailable(supermarket.Name)
				slots[i] = slot{
					warn: &Warning{
						SupermarketID:   supermarket.ID,
						SupermarketName: supermarket.Name,
						Reason:          err.Error(),
					},
					err: err,
				}
				return
			}
			if result == nil {
				// zero resolvable products: unscorable, not zero-priced
				e.metrics.IncFailure(supermarket.Name)
				slots[i] = slot{warn: &Warning{
					SupermarketID:   supermarket.ID,
					SupermarketName: supermarket.Name,
					Reason:          "no priced products for this cart",
				}}
				return
			}
			e.metrics.IncSuccess(supermarket.Name)
			slots[i] = slot{result: result}
		}(i, supermarket)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "comparison cancelled")
	}

	comparison := &Comparison{CartID: input.CartID}
	var failures error
	for _, s := range slots {
		if s.result != nil {
			comparison.Results = append(comparison.Results, *s.result)
		}
		if s.warn != nil {
			comparison.Warnings = append(comparison.Warnings, *s.warn)
			e.logg.Warn(e.logg.WithSupermarketID(ctx, s.warn.SupermarketID.String()),
				fmt.Sprintf("supermarket dropped from comparison: %s", s.warn.Reason))
		}
		if s.err != nil {
			failures = multierr.Append(failures, s.err)
		}
	}

	if len(comparison.Results) == 0 {
		if failures != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "no supermarket could be priced")
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "no supermarket could be priced")
	}

	sort.SliceStable(comparison.Results, func(i, j int) bool {
		return comparison.Results[i].Total.LessThan(comparison.Results[j].Total)
	})
	comparison.Results[0].BestPrice = true

	return comparison, nil
}

func validateInput(input CompareInput) error {
	if input.LineCount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart has no lines")
	}
	if len(input.Supermarkets) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one preferred supermarket is required")
	}
	if len(input.Days) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one candidate day is required")
	}
	for _, day := range input.Days {
		if !day.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid weekday %d", int(day)))
		}
	}
	return nil
}

// priceSupermarket runs one sub-calculation under its own deadline. The
// detail, unit-discount, and promotion reads are independent and run
// concurrently. Any gateway failure, timeouts included, surfaces as a
// dependency error so the caller can drop just this supermarket.
func (e *Engine) priceSupermarket(ctx context.Context, input CompareInput, supermarket Supermarket) (*SupermarketResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.GatewayTimeout)
	defer cancel()

	var (
		wg        sync.WaitGroup
		lines     []LineItem
		discounts []UnitDiscount
		promos    []Promotion
		errs      [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		lines, errs[0] = e.gateway.CartDetail(ctx, input.CartID, supermarket.ID)
	}()
	go func() {
		defer wg.Done()
		discounts, errs[1] = e.gateway.UnitDiscounts(ctx, input.CartID, supermarket.ID)
	}()
	go func() {
		defer wg.Done()
		promos, errs[2] = e.gateway.ActivePromotions(ctx, supermarket.ID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pricing data unavailable")
		}
	}

	resolved := dedupeLines(lines, e.cfg.PreferHighestPriceOnTie())
	if len(resolved) == 0 {
		return nil, nil
	}

	breakdown, base, unitDiscountTotal := applyUnitDiscounts(resolved, discounts)
	discounted := base.Sub(unitDiscountTotal)

	payment := evaluatePayment(discounted, input.PaymentMethods, input.Days, promos)

	return &SupermarketResult{
		SupermarketID:        supermarket.ID,
		SupermarketName:      supermarket.Name,
		Total:                payment.Total,
		BaseSubtotal:         base,
		UnitDiscountTotal:    unitDiscountTotal,
		PaymentDiscount:      payment.Discount,
		PaymentMethodID:      payment.MethodID,
		PaymentMethodName:    payment.MethodName,
		RecommendedDays:      payment.Days,
		PromotionDescription: payment.Description,
		Lines:                breakdown,
	}, nil
}
