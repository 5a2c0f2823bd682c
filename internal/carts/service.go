package carts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
)

var maxQuantity = decimal.NewFromInt(99)

// LineInput is one product entry in a create or edit request.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// CartInput captures a create or edit request.
type CartInput struct {
	Name  string
	Lines []LineInput
}

type repository interface {
	Create(ctx context.Context, cart *models.Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Cart, error)
	Rename(ctx context.Context, cartID uuid.UUID, name string) error
	ReplaceLines(ctx context.Context, cartID uuid.UUID, lines []models.CartLine) error
	Delete(ctx context.Context, cartID uuid.UUID) error
	WithTx(tx *gorm.DB) *Repository
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the cart lifecycle: CRUD for persistent carts and the
// create-then-delete dance for ephemeral comparison carts.
type Service struct {
	repo     repository
	txRunner txRunner
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo              repository
	TransactionRunner txRunner
}

// NewService constructs a cart service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{repo: params.Repo, txRunner: params.TransactionRunner}, nil
}

// List returns the user's persistent carts.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	carts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list carts")
	}
	return carts, nil
}

// Create persists a named cart with its lines.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CartInput) (*models.Cart, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart name is required")
	}
	lines, err := buildLines(input.Lines)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Lines:  lines,
	}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

// Update renames the cart and replaces its full line set atomically.
func (s *Service) Update(ctx context.Context, userID, cartID uuid.UUID, input CartInput) (*models.Cart, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart name is required")
	}
	lines, err := buildLines(input.Lines)
	if err != nil {
		return nil, err
	}

	if _, err := s.FindOwned(ctx, userID, cartID); err != nil {
		return nil, err
	}

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Rename(ctx, cartID, name); err != nil {
			return err
		}
		return txRepo.ReplaceLines(ctx, cartID, lines)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
	}

	return s.FindOwned(ctx, userID, cartID)
}

// Delete removes the cart after an ownership check.
func (s *Service) Delete(ctx context.Context, userID, cartID uuid.UUID) error {
	if _, err := s.FindOwned(ctx, userID, cartID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

// FindOwned loads a cart and verifies it belongs to the user. Foreign carts
// read as not found.
func (s *Service) FindOwned(ctx context.Context, userID, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cart.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return cart, nil
}

// CreateEphemeral persists a throwaway cart so cart-scoped pricing queries
// can run over an unsaved selection. The caller must delete it afterwards.
func (s *Service) CreateEphemeral(ctx context.Context, userID uuid.UUID, inputs []LineInput) (*models.Cart, error) {
	lines, err := buildLines(inputs)
	if err != nil {
		return nil, err
	}
	cart := &models.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "comparison",
		Ephemeral: true,
		Lines:     lines,
	}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ephemeral cart")
	}
	return cart, nil
}

// DeleteCart removes a cart without an ownership check; used for ephemeral
// cleanup where the service itself created the cart.
func (s *Service) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return s.repo.Delete(ctx, cartID)
}

func buildLines(inputs []LineInput) ([]models.CartLine, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one cart line is required")
	}
	lines := make([]models.CartLine, 0, len(inputs))
	for _, input := range inputs {
		if input.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if err := validateQuantity(input.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, models.CartLine{
			ID:        uuid.New(),
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
		})
	}
	return lines, nil
}

// validateQuantity enforces the line quantity rules: positive, at most 99,
// at most one fractional decimal digit.
func validateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if quantity.GreaterThan(maxQuantity) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot exceed 99")
	}
	if !quantity.Mul(decimal.NewFromInt(10)).IsInteger() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity allows at most one decimal digit")
	}
	return nil
}
