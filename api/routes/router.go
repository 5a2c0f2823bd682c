package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sabu-app/sabu-backend/api/controllers"
	"github.com/sabu-app/sabu-backend/api/middleware"
	"github.com/sabu-app/sabu-backend/internal/carts"
	"github.com/sabu-app/sabu-backend/internal/catalog"
	"github.com/sabu-app/sabu-backend/internal/paymentmethods"
	"github.com/sabu-app/sabu-backend/internal/pricing"
	"github.com/sabu-app/sabu-backend/internal/supermarkets"
	"github.com/sabu-app/sabu-backend/internal/users"
	"github.com/sabu-app/sabu-backend/pkg/config"
	"github.com/sabu-app/sabu-backend/pkg/db"
	"github.com/sabu-app/sabu-backend/pkg/logger"
	"github.com/sabu-app/sabu-backend/pkg/redis"
)

// Services bundles everything the router wires into controllers.
type Services struct {
	CatalogRepo    *catalog.Repository
	CatalogGateway *catalog.Gateway
	Carts          *carts.Service
	Pricing        *pricing.Service
	Supermarkets   *supermarkets.Service
	PaymentMethods *paymentmethods.Service
	Users          *users.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisP,
		}))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.UserContext(logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", controllers.CatalogCategories(svcs.CatalogRepo, logg))
			r.Get("/categories/{categoryId}/products", controllers.CatalogProductsByCategory(svcs.CatalogRepo, logg))
			r.Get("/supermarkets", controllers.CatalogSupermarkets(svcs.CatalogRepo, logg))
			r.Get("/payment-methods", controllers.CatalogPaymentMethods(svcs.CatalogRepo, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.Get("/", controllers.CartList(svcs.Carts, logg))
			r.Post("/", controllers.CartCreate(svcs.Carts, logg))
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(svcs.Carts, logg))
				r.Put("/", controllers.CartUpdate(svcs.Carts, logg))
				r.Delete("/", controllers.CartDelete(svcs.Carts, logg))
				r.Get("/summary", controllers.CartSummary(svcs.Carts, svcs.CatalogGateway, svcs.CatalogRepo, logg))
				r.Get("/supermarkets/{supermarketId}", controllers.CartSupermarketDetail(svcs.Carts, svcs.CatalogGateway, logg))
				r.Post("/compare", controllers.CompareCart(svcs.Pricing, logg))
			})
		})

		r.Post("/comparisons", controllers.CompareLines(svcs.Pricing, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.MeProfile(svcs.Users, logg))
			r.Put("/", controllers.MeProfileUpdate(svcs.Users, logg))
			r.Get("/onboarding", controllers.MeOnboardingStatus(svcs.Users, logg))
			r.Post("/onboarding", controllers.MeCompleteOnboarding(svcs.Users, logg))
			r.Get("/supermarkets", controllers.MePreferredSupermarkets(svcs.Supermarkets, logg))
			r.Put("/supermarkets", controllers.MeReplacePreferredSupermarkets(svcs.Supermarkets, logg))
			r.Route("/payment-methods", func(r chi.Router) {
				r.Get("/", controllers.MePaymentMethods(svcs.PaymentMethods, logg))
				r.Post("/{methodId}", controllers.MeAttachPaymentMethod(svcs.PaymentMethods, logg))
				r.Delete("/{methodId}", controllers.MeDetachPaymentMethod(svcs.PaymentMethods, logg))
			})
		})
	})

	return r
}
