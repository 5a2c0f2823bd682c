package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/pkg/db/models"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
)

type stubUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users[id], nil
}

func (s *stubUserRepo) Upsert(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) *Repository {
	return nil
}

type stubPreferences struct {
	prefs    map[uuid.UUID][]models.PreferredSupermarket
	replaced [][]uuid.UUID
}

func newStubPreferences() *stubPreferences {
	return &stubPreferences{prefs: map[uuid.UUID][]models.PreferredSupermarket{}}
}

func (s *stubPreferences) ReplacePreferred(ctx context.Context, userID uuid.UUID, supermarketIDs []uuid.UUID) error {
	s.replaced = append(s.replaced, supermarketIDs)
	rows := make([]models.PreferredSupermarket, 0, len(supermarketIDs))
	for _, id := range supermarketIDs {
		rows = append(rows, models.PreferredSupermarket{
			ID:            uuid.New(),
			UserID:        userID,
			SupermarketID: id,
			Active:        true,
		})
	}
	s.prefs[userID] = rows
	return nil
}

func (s *stubPreferences) PreferredByUser(ctx context.Context, userID uuid.UUID) ([]models.PreferredSupermarket, error) {
	return s.prefs[userID], nil
}

func testUserService(t *testing.T) (*Service, *stubUserRepo, *stubPreferences) {
	t.Helper()
	repo := newStubUserRepo()
	prefs := newStubPreferences()
	service, err := NewService(ServiceParams{Repo: repo, Preferences: prefs})
	require.NoError(t, err)
	return service, repo, prefs
}

func validProfile() ProfileInput {
	return ProfileInput{
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Gomez",
		Phone:     "+54 11 5555-0000",
	}
}

func TestStatusBeforeOnboarding(t *testing.T) {
	service, _, _ := testUserService(t)

	status, err := service.Status(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, status.ProfileComplete)
	assert.False(t, status.HasPreferredMarkets)
	assert.False(t, status.OnboardingComplete)
}

func TestCompleteOnboardingWritesProfileAndPreferences(t *testing.T) {
	service, repo, prefs := testUserService(t)
	userID := uuid.New()
	supermarketID := uuid.New()

	err := service.CompleteOnboarding(context.Background(), userID, validProfile(), []uuid.UUID{supermarketID})
	require.NoError(t, err)

	require.NotNil(t, repo.users[userID])
	assert.Equal(t, "ana@example.com", repo.users[userID].Email)
	require.Len(t, prefs.replaced, 1)

	status, err := service.Status(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, status.OnboardingComplete)
}

func TestUpsertProfileTrimsInput(t *testing.T) {
	service, repo, _ := testUserService(t)
	userID := uuid.New()

	input := validProfile()
	input.Email = "  ana@example.com  "
	input.FirstName = " Ana "
	require.NoError(t, service.UpsertProfile(context.Background(), userID, input))

	assert.Equal(t, "ana@example.com", repo.users[userID].Email)
	assert.Equal(t, "Ana", repo.users[userID].FirstName)
}

func TestUpsertProfileRequiresAllFields(t *testing.T) {
	service, _, _ := testUserService(t)

	for name, mutate := range map[string]func(*ProfileInput){
		"email": func(p *ProfileInput) { p.Email = " " },
		"first": func(p *ProfileInput) { p.FirstName = "" },
		"last":  func(p *ProfileInput) { p.LastName = "" },
		"phone": func(p *ProfileInput) { p.Phone = "" },
	} {
		input := validProfile()
		mutate(&input)
		err := service.UpsertProfile(context.Background(), uuid.New(), input)
		require.Error(t, err, name)
		coded := pkgerrors.As(err)
		require.NotNil(t, coded, name)
		assert.Equal(t, pkgerrors.CodeValidation, coded.Code(), name)
	}
}

func TestGetUnknownUserIsNotFound(t *testing.T) {
	service, _, _ := testUserService(t)

	_, err := service.Get(context.Background(), uuid.New())
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}
