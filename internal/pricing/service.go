package pricing

import (
	"context"

	"github.com/google/uuid"

	"github.com/sabu-app/sabu-backend/internal/carts"
	"github.com/sabu-app/sabu-backend/pkg/db/models"
	"github.com/sabu-app/sabu-backend/pkg/enums"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
	"github.com/sabu-app/sabu-backend/pkg/logger"
)

type cartStore interface {
	FindOwned(ctx context.Context, userID, cartID uuid.UUID) (*models.Cart, error)
	CreateEphemeral(ctx context.Context, userID uuid.UUID, lines []carts.LineInput) (*models.Cart, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}

type preferenceSource interface {
	PreferredByUser(ctx context.Context, userID uuid.UUID) ([]models.PreferredSupermarket, error)
}

type paymentMethodSource interface {
	ActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.UserPaymentMethod, error)
}

// Service resolves the user's preferences, runs the engine, and owns the
// ephemeral-cart lifecycle for comparisons over unsaved selections.
type Service struct {
	engine  *Engine
	carts   cartStore
	prefs   preferenceSource
	methods paymentMethodSource
	logg    *logger.Logger
}

// ServiceParams groups dependencies for the comparison service.
type ServiceParams struct {
	Engine         *Engine
	CartStore      cartStore
	Preferences    preferenceSource
	PaymentMethods paymentMethodSource
	Logger         *logger.Logger
}

// NewService constructs a comparison service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "engine required")
	}
	if params.CartStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	if params.Preferences == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "preference source required")
	}
	if params.PaymentMethods == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment method source required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		engine:  params.Engine,
		carts:   params.CartStore,
		prefs:   params.Preferences,
		methods: params.PaymentMethods,
		logg:    params.Logger,
	}, nil
}

// CompareCart prices one of the user's saved carts.
func (s *Service) CompareCart(ctx context.Context, userID, cartID uuid.UUID, days []enums.Weekday) (*Comparison, error) {
	cart, err := s.carts.FindOwned(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}
	return s.compare(ctx, userID, cart, days)
}

// CompareLines prices an unsaved selection. The gateway only answers
// cart-scoped queries, so a throwaway cart is created and removed again no
// matter how the comparison ends; a failed cleanup is logged and never
// surfaced.
func (s *Service) CompareLines(ctx context.Context, userID uuid.UUID, lines []carts.LineInput, days []enums.Weekday) (*Comparison, error) {
	cart, err := s.carts.CreateEphemeral(ctx, userID, lines)
	if err != nil {
		return nil, err
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		if err := s.carts.DeleteCart(cleanupCtx, cart.ID); err != nil {
			s.logg.Error(s.logg.WithCartID(cleanupCtx, cart.ID.String()),
				"failed to clean up ephemeral cart", err)
		}
	}()

	return s.compare(ctx, userID, cart, days)
}

func (s *Service) compare(ctx context.Context, userID uuid.UUID, cart *models.Cart, days []enums.Weekday) (*Comparison, error) {
	prefs, err := s.prefs.PreferredByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	memberships, err := s.methods.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	input := CompareInput{
		CartID:    cart.ID,
		LineCount: len(cart.Lines),
		Days:      days,
	}
	for _, pref := range prefs {
		name := ""
		if pref.Supermarket != nil {
			name = pref.Supermarket.Name
		}
		input.Supermarkets = append(input.Supermarkets, Supermarket{
			ID:   pref.SupermarketID,
			Name: name,
		})
	}
	for _, membership := range memberships {
		name := ""
		if membership.PaymentMethod != nil {
			name = membership.PaymentMethod.Name
		}
		input.PaymentMethods = append(input.PaymentMethods, PaymentMethod{
			ID:   membership.PaymentMethodID,
			Name: name,
		})
	}

	ctx = s.logg.WithCartID(s.logg.WithUserID(ctx, userID.String()), cart.ID.String())
	return s.engine.Compare(ctx, input)
}
