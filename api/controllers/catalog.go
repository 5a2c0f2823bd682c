package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sabu-app/sabu-backend/api/responses"
	"github.com/sabu-app/sabu-backend/internal/catalog"
	pkgerrors "github.com/sabu-app/sabu-backend/pkg/errors"
	"github.com/sabu-app/sabu-backend/pkg/logger"
)

type categoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type productResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Brand      *string   `json:"brand,omitempty"`
	CategoryID uuid.UUID `json:"category_id"`
}

type supermarketResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	LogoURL *string   `json:"logo_url,omitempty"`
}

type paymentMethodResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

func CatalogCategories(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := repo.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories"))
			return
		}
		out := make([]categoryResponse, 0, len(categories))
		for _, category := range categories {
			out = append(out, categoryResponse{ID: category.ID, Name: category.Name})
		}
		responses.WriteSuccess(w, out)
	}
}

func CatalogProductsByCategory(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuid.Parse(chi.URLParam(r, "categoryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}
		products, err := repo.ListProductsByCategory(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products"))
			return
		}
		out := make([]productResponse, 0, len(products))
		for _, product := range products {
			out = append(out, productResponse{
				ID:         product.ID,
				Name:       product.Name,
				Brand:      product.Brand,
				CategoryID: product.CategoryID,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

func CatalogSupermarkets(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supermarkets, err := repo.ListSupermarkets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supermarkets"))
			return
		}
		out := make([]supermarketResponse, 0, len(supermarkets))
		for _, supermarket := range supermarkets {
			out = append(out, supermarketResponse{
				ID:      supermarket.ID,
				Name:    supermarket.Name,
				LogoURL: supermarket.LogoURL,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

func CatalogPaymentMethods(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		methods, err := repo.ListPaymentMethods(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods"))
			return
		}
		out := make([]paymentMethodResponse, 0, len(methods))
		for _, method := range methods {
			out = append(out, paymentMethodResponse{
				ID:   method.ID,
				Name: method.Name,
				Type: string(method.Type),
			})
		}
		responses.WriteSuccess(w, out)
	}
}
