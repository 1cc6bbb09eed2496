// Package api assembles the orders HTTP process: configuration, observability,
// persistence, catalog access, and durable workflows.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogclient "github.com/ordercore/go-orders-service/internal/clients/http/catalog"
	orderscataloghttp "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/external/catalog"
	orderscatalognats "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/external/nats"
	ordershttp "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/httpx"
	ordersmemory "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/memory"
	ordersobs "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/ordercore/go-orders-service/internal/domains/orders/application"
	ordersports "github.com/ordercore/go-orders-service/internal/domains/orders/ports"
	"github.com/ordercore/go-orders-service/internal/platform/migrations"
	platformobservability "github.com/ordercore/go-orders-service/internal/platform/observability"
	platformpostgres "github.com/ordercore/go-orders-service/internal/platform/postgres"
)

// Run boots the orders HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "orders-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	repo, idempotency, cleanupRepo := buildOrderRepository(ctx, logger, cfg)
	defer cleanupRepo()

	catalog, cleanupCatalog, err := buildProductCatalog(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupCatalog()

	coreService := ordersapp.NewService(
		repo,
		catalog,
		ordersapp.WithLogger(logger),
		ordersapp.WithIdempotencyStore(idempotency),
	)
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline order placement", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handler := ordershttp.NewHandler(orderService, orderWorkflows)
	router := ordershttp.NewRouter(handler)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("orders API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("orders API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrderRepository(ctx context.Context, logger *slog.Logger, cfg Config) (ordersports.Repository, ordersports.IdempotencyStore, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db), orderspostgres.NewIdempotencyStore(db), func() { _ = sqlDB.Close() }
}

func buildProductCatalog(cfg Config, logger *slog.Logger) (ordersports.ProductCatalog, func(), error) {
	if cfg.CatalogNATSURL != "" {
		nc, err := orderscatalognats.Connect(cfg.CatalogNATSURL, logger)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("product catalog configured with NATS", slog.String("subject", cfg.CatalogSubject))
		validator := orderscatalognats.NewValidator(nc, orderscatalognats.WithSubject(cfg.CatalogSubject))
		return validator, func() { nc.Close() }, nil
	}
	client, err := catalogclient.NewClient(cfg.CatalogBaseURL, nil)
	if err != nil {
		return nil, func() {}, err
	}
	logger.Info("product catalog configured with HTTP", slog.String("baseUrl", cfg.CatalogBaseURL))
	return orderscataloghttp.NewValidator(client), func() {}, nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
