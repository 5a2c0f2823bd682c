package paymentmethods

import (
	"context"

	"github.com/google/uuid"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
)

type repository interface {
	ActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.UserPaymentMethod, error)
	FindMembership(ctx context.Context, userID, methodID uuid.UUID) (*models.UserPaymentMethod, error)
	Create(ctx context.Context, membership *models.UserPaymentMethod) error
	SetActive(ctx context.Context, membershipID uuid.UUID, active bool) error
	MethodExists(ctx context.Context, methodID uuid.UUID) (bool, error)
}

// Service manages which payment methods a user holds. Detaching is a soft
// delete: the membership row stays, flagged inactive.
type Service struct {
	repo repository
}

// ServiceParams groups dependencies for the payment method service.
type ServiceParams struct {
	Repo repository
}

// NewService constructs a payment method service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment method repo required")
	}
	return &Service{repo: params.Repo}, nil
}

// ActiveByUser returns the user's active payment methods.
func (s *Service) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.UserPaymentMethod, error) {
	memberships, err := s.repo.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment methods")
	}
	return memberships, nil
}

// Attach links a catalog method to the user, reviving a soft-deleted row
// when one exists.
func (s *Service) Attach(ctx context.Context, userID, methodID uuid.UUID) error {
	if methodID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method id is required")
	}
	exists, err := s.repo.MethodExists(ctx, methodID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify payment method")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
	}

	membership, err := s.repo.FindMembership(ctx, userID, methodID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	if membership != nil {
		if membership.Active {
			return nil
		}
		if err := s.repo.SetActive(ctx, membership.ID, true); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reactivate membership")
		}
		return nil
	}

	if err := s.repo.Create(ctx, &models.UserPaymentMethod{
		ID:              uuid.New(),
		UserID:          userID,
		PaymentMethodID: methodID,
		Active:          true,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}
	return nil
}

// Detach deactivates the user's membership for one method. Rows are never
// hard-deleted.
func (s *Service) Detach(ctx context.Context, userID, methodID uuid.UUID) error {
	membership, err := s.repo.FindMembership(ctx, userID, methodID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	if membership == nil || !membership.Active {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not attached")
	}
	if err := s.repo.SetActive(ctx, membership.ID, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate membership")
	}
	return nil
}
