package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabu-app/sabu-backend/api/routes"
	"github.com/sabu-app/sabu-backend/internal/carts"
	"github.com/sabu-app/sabu-backend/internal/catalog"
	"github.com/sabu-app/sabu-backend/internal/paymentmethods"
	"github.com/sabu-app/sabu-backend/internal/pricing"
	"github.com/sabu-app/sabu-backend/internal/supermarkets"
	"github.com/sabu-app/sabu-backend/internal/users"
	"github.com/sabu-app/sabu-backend/pkg/config"
	"github.com/sabu-app/sabu-backend/pkg/db"
	"github.com/sabu-app/sabu-backend/pkg/logger"
	"github.com/sabu-app/sabu-backend/pkg/metrics"
	"github.com/sabu-app/sabu-backend/pkg/migrate"
	"github.com/sabu-app/sabu-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gateway, err := catalog.NewGateway(catalog.GatewayParams{
		DB:     dbClient.DB(),
		Cache:  redisClient,
		Config: cfg.Pricing,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog gateway", err)
		os.Exit(1)
	}

	engine, err := pricing.NewEngine(pricing.EngineParams{
		Gateway: gateway,
		Config:  cfg.Pricing,
		Logger:  logg,
		Metrics: metrics.NewComparisonMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing engine", err)
		os.Exit(1)
	}

	cartService, err := carts.NewService(carts.ServiceParams{
		Repo:              carts.NewRepository(dbClient.DB()),
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	preferenceService, err := supermarkets.NewService(supermarkets.ServiceParams{
		Repo:              supermarkets.NewRepository(dbClient.DB()),
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create preference service", err)
		os.Exit(1)
	}

	methodService, err := paymentmethods.NewService(paymentmethods.ServiceParams{
		Repo: paymentmethods.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment method service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo:        users.NewRepository(dbClient.DB()),
		Preferences: preferenceService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricing.ServiceParams{
		Engine:         engine,
		CartStore:      cartService,
		Preferences:    preferenceService,
		PaymentMethods: methodService,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create comparison service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			CatalogRepo:    catalog.NewRepository(dbClient.DB()),
			CatalogGateway: gateway,
			Carts:          cartService,
			Pricing:        pricingService,
			Supermarkets:   preferenceService,
			PaymentMethods: methodService,
			Users:          userService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
