package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sabu-app/sabu-backend/internal/carts"
	"github.com/sabu-app/sabu-backend/internal/catalog"
	"github.com/sabu-app/sabu-backend/internal/paymentmethods"
	"github.com/sabu-app/sabu-backend/internal/pricing"
	"github.com/sabu-app/sabu-backend/internal/supermarkets"
	"github.com/sabu-app/sabu-backend/internal/users"
	"github.com/sabu-app/sabu-backend/pkg/config"
	"github.com/sabu-app/sabu-backend/pkg/logger"
	"github.com/sabu-app/sabu-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type passthroughTxRunner struct {
	db *gorm.DB
}

func (p passthroughTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(p.db)
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Pricing.GatewayTimeout = time.Second
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	gateway, err := catalog.NewGateway(catalog.GatewayParams{
		DB:     db,
		Config: cfg.Pricing,
		Logger: logg,
	})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	engine, err := pricing.NewEngine(pricing.EngineParams{
		Gateway: gateway,
		Config:  cfg.Pricing,
		Logger:  logg,
		Metrics: metrics.NewComparisonMetrics(prometheus.NewRegistry()),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	cartService, err := carts.NewService(carts.ServiceParams{
		Repo:              carts.NewRepository(db),
		TransactionRunner: passthroughTxRunner{db: db},
	})
	if err != nil {
		t.Fatalf("new cart service: %v", err)
	}

	preferenceService, err := supermarkets.NewService(supermarkets.ServiceParams{
		Repo:              supermarkets.NewRepository(db),
		TransactionRunner: passthroughTxRunner{db: db},
	})
	if err != nil {
		t.Fatalf("new preference service: %v", err)
	}

	methodService, err := paymentmethods.NewService(paymentmethods.ServiceParams{
		Repo: paymentmethods.NewRepository(db),
	})
	if err != nil {
		t.Fatalf("new method service: %v", err)
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo:        users.NewRepository(db),
		Preferences: preferenceService,
	})
	if err != nil {
		t.Fatalf("new user service: %v", err)
	}

	pricingService, err := pricing.NewService(pricing.ServiceParams{
		Engine:         engine,
		CartStore:      cartService,
		Preferences:    preferenceService,
		PaymentMethods: methodService,
		Logger:         logg,
	})
	if err != nil {
		t.Fatalf("new pricing service: %v", err)
	}

	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, Services{
		CatalogRepo:    catalog.NewRepository(db),
		CatalogGateway: gateway,
		Carts:          cartService,
		Pricing:        pricingService,
		Supermarkets:   preferenceService,
		PaymentMethods: methodService,
		Users:          userService,
	})
}

func TestHealthEndpointsNeedNoIdentity(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, w.Code)
		}
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics returned %d", w.Code)
	}
}

func TestAPIRoutesRequireIdentityHeader(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/carts/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-SABU-User, got %d", w.Code)
	}
}

func TestIdentityHeaderReachesHandlers(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/me/onboarding", nil)
	r.Header.Set("X-SABU-User", uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	// sqlite has no tables here; anything but 401 proves the identity
	// middleware admitted the request
	if w.Code == http.StatusUnauthorized {
		t.Fatalf("expected the request to pass the identity check, got %d", w.Code)
	}
}
