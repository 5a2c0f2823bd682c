package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
)

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
	WithTx(tx *gorm.DB) *Repository
}

type preferenceReplacer interface {
	ReplacePreferred(ctx context.Context, userID uuid.UUID, supermarketIDs []uuid.UUID) error
	PreferredByUser(ctx context.Context, userID uuid.UUID) ([]models.PreferredSupermarket, error)
}

// ProfileInput is the onboarding profile payload.
type ProfileInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// OnboardingStatus is what the client checks before letting the user into
// the dashboard.
type OnboardingStatus struct {
	ProfileComplete     bool
	HasPreferredMarkets bool
	OnboardingComplete  bool
}

// Service owns profile persistence and the onboarding flow.
type Service struct {
	repo  repository
	prefs preferenceReplacer
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo        repository
	Preferences preferenceReplacer
}

// NewService constructs a user service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repo required")
	}
	if params.Preferences == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "preference service required")
	}
	return &Service{repo: params.Repo, prefs: params.Preferences}, nil
}

// Get loads the user's profile.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

// Status reports how far through onboarding the user is.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*OnboardingStatus, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	prefs, err := s.prefs.PreferredByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &OnboardingStatus{HasPreferredMarkets: len(prefs) > 0}
	if user != nil {
		status.ProfileComplete = user.OnboardingComplete()
	}
	status.OnboardingComplete = status.ProfileComplete && status.HasPreferredMarkets
	return status, nil
}

// CompleteOnboarding writes the profile and the preferred supermarket set.
func (s *Service) CompleteOnboarding(ctx context.Context, userID uuid.UUID, input ProfileInput, supermarketIDs []uuid.UUID) error {
	if err := s.UpsertProfile(ctx, userID, input); err != nil {
		return err
	}
	return s.prefs.ReplacePreferred(ctx, userID, supermarketIDs)
}

// UpsertProfile validates and writes the profile fields.
func (s *Service) UpsertProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	phone := strings.TrimSpace(input.Phone)
	if firstName == "" || lastName == "" || phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "first name, last name and phone are required")
	}

	if err := s.repo.Upsert(ctx, &models.User{
		ID:        userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return nil
}
