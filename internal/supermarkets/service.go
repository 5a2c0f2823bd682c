package supermarkets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
)

type repository interface {
	ActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.PreferredSupermarket, error)
	AllByUser(ctx context.Context, userID uuid.UUID) ([]models.PreferredSupermarket, error)
	SetActive(ctx context.Context, prefID uuid.UUID, active bool) error
	Create(ctx context.Context, pref *models.PreferredSupermarket) error
	CountActiveSupermarkets(ctx context.Context, ids []uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) *Repository
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the user's preferred supermarket set. Preference rows are
// soft-deleted through the active flag so older comparisons keep context.
type Service struct {
	repo     repository
	txRunner txRunner
}

// ServiceParams groups dependencies for the preference service.
type ServiceParams struct {
	Repo              repository
	TransactionRunner txRunner
}

// NewService constructs a preference service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "supermarket repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{repo: params.Repo, txRunner: params.TransactionRunner}, nil
}

// PreferredByUser returns the user's active preferences.
func (s *Service) PreferredByUser(ctx context.Context, userID uuid.UUID) ([]models.PreferredSupermarket, error) {
	prefs, err := s.repo.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferred supermarkets")
	}
	return prefs, nil
}

// ReplacePreferred makes the given supermarkets the user's full preferred
// set: rows outside the set are deactivated, prior rows inside it are
// reactivated, missing ones are created. Runs atomically.
func (s *Service) ReplacePreferred(ctx context.Context, userID uuid.UUID, supermarketIDs []uuid.UUID) error {
	if len(supermarketIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one supermarket is required")
	}
	wanted := make(map[uuid.UUID]struct{}, len(supermarketIDs))
	for _, id := range supermarketIDs {
		if id == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "supermarket id is required")
		}
		wanted[id] = struct{}{}
	}

	count, err := s.repo.CountActiveSupermarkets(ctx, supermarketIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify supermarkets")
	}
	if int(count) != len(wanted) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown supermarket in selection")
	}

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		existing, err := txRepo.AllByUser(ctx, userID)
		if err != nil {
			return err
		}

		seen := map[uuid.UUID]struct{}{}
		for _, pref := range existing {
			_, keep := wanted[pref.SupermarketID]
			seen[pref.SupermarketID] = struct{}{}
			if keep == pref.Active {
				continue
			}
			if err := txRepo.SetActive(ctx, pref.ID, keep); err != nil {
				return err
			}
		}

		for id := range wanted {
			if _, ok := seen[id]; ok {
				continue
			}
			if err := txRepo.Create(ctx, &models.PreferredSupermarket{
				ID:            uuid.New(),
				UserID:        userID,
				SupermarketID: id,
				Active:        true,
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace preferred supermarkets")
	}
	return nil
}
