package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sabu-app/sabu-backend/api/responses"
	"github.com/sabu-app/sabu-backend/api/validators"
	"github.com/sabu-app/sabu-backend/internal/paymentmethods"
	"github.com/sabu-app/sabu-backend/internal/supermarkets"
	"github.com/sabu-app/sabu-backend/internal/users"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
	"github.com/sabu-app/sabu-backend/pkg/logger"
)

type profileRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=80"`
	LastName  string `json:"last_name" validate:"required,max=80"`
	Phone     string `json:"phone" validate:"required,max=32"`
}

type profileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
}

type onboardingRequest struct {
	Profile        profileRequest `json:"profile" validate:"required"`
	SupermarketIDs []uuid.UUID    `json:"supermarket_ids" validate:"required,min=1"`
}

type onboardingStatusResponse struct {
	ProfileComplete     bool `json:"profile_complete"`
	HasPreferredMarkets bool `json:"has_preferred_markets"`
	OnboardingComplete  bool `json:"onboarding_complete"`
}

type preferredSupermarketsRequest struct {
	SupermarketIDs []uuid.UUID `json:"supermarket_ids" validate:"required,min=1"`
}

func toProfileInput(payload profileRequest) users.ProfileInput {
	return users.ProfileInput{
		Email:     validators.SanitizeString(payload.Email, 254),
		FirstName: validators.SanitizeString(payload.FirstName, 80),
		LastName:  validators.SanitizeString(payload.LastName, 80),
		Phone:     validators.SanitizeString(payload.Phone, 32),
	}
}

func MeProfile(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profileResponse{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Phone:     user.Phone,
		})
	}
}

func MeProfileUpdate(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload profileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UpsertProfile(r.Context(), userID, toProfileInput(payload)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func MeOnboardingStatus(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := svc.Status(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, onboardingStatusResponse{
			ProfileComplete:     status.ProfileComplete,
			HasPreferredMarkets: status.HasPreferredMarkets,
			OnboardingComplete:  status.OnboardingComplete,
		})
	}
}

func MeCompleteOnboarding(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload onboardingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.CompleteOnboarding(r.Context(), userID, toProfileInput(payload.Profile), payload.SupermarketIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "onboarded"})
	}
}

func MePreferredSupermarkets(svc *supermarkets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prefs, err := svc.PreferredByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]supermarketResponse, 0, len(prefs))
		for _, pref := range prefs {
			entry := supermarketResponse{ID: pref.SupermarketID}
			if pref.Supermarket != nil {
				entry.Name = pref.Supermarket.Name
				entry.LogoURL = pref.Supermarket.LogoURL
			}
			out = append(out, entry)
		}
		responses.WriteSuccess(w, out)
	}
}

func MeReplacePreferredSupermarkets(svc *supermarkets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload preferredSupermarketsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ReplacePreferred(r.Context(), userID, payload.SupermarketIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

func MePaymentMethods(svc *paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		memberships, err := svc.ActiveByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]paymentMethodResponse, 0, len(memberships))
		for _, membership := range memberships {
			entry := paymentMethodResponse{ID: membership.PaymentMethodID}
			if membership.PaymentMethod != nil {
				entry.Name = membership.PaymentMethod.Name
				entry.Type = string(membership.PaymentMethod.Type)
			}
			out = append(out, entry)
		}
		responses.WriteSuccess(w, out)
	}
}

func MeAttachPaymentMethod(svc *paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		methodID, err := uuid.Parse(chi.URLParam(r, "methodId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method id"))
			return
		}
		if err := svc.Attach(r.Context(), userID, methodID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "attached"})
	}
}

func MeDetachPaymentMethod(svc *paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		methodID, err := uuid.Parse(chi.URLParam(r, "methodId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method id"))
			return
		}
		if err := svc.Detach(r.Context(), userID, methodID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "detached"})
	}
}
