package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/ordercore/go-orders-service/internal/app/api"
	catalogclient "github.com/ordercore/go-orders-service/internal/clients/http/catalog"
	orderscataloghttp "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/external/catalog"
	orderscatalognats "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/external/nats"
	ordersmemory "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/ordercore/go-orders-service/internal/domains/orders/application"
	ordersports "github.com/ordercore/go-orders-service/internal/domains/orders/ports"
	orderactivities "github.com/ordercore/go-orders-service/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/ordercore/go-orders-service/internal/durable/temporal/workflows/orders"
	"github.com/ordercore/go-orders-service/internal/platform/migrations"
	platformobservability "github.com/ordercore/go-orders-service/internal/platform/observability"
	platformpostgres "github.com/ordercore/go-orders-service/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "orders-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo, idempotency, cleanupRepo := buildOrderRepository(ctx, logger, cfg)
	defer cleanupRepo()
	catalog, cleanupCatalog, err := buildProductCatalog(cfg, logger)
	if err != nil {
		logger.Error("failed to configure product catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupCatalog()

	orderService := ordersapp.NewService(
		repo,
		catalog,
		ordersapp.WithLogger(logger),
		ordersapp.WithIdempotencyStore(idempotency),
	)
	orderActivities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.CreateOrder, activity.RegisterOptions{Name: orderactivities.CreateOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderRepository(ctx context.Context, logger *slog.Logger, cfg api.Config) (ordersports.Repository, ordersports.IdempotencyStore, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("worker failed to connect to postgres (falling back to memory)", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection (falling back to memory)", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations (falling back to memory)", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore(), func() {}
	}
	logger.Info("worker order repository configured with postgres")
	return orderspostgres.NewRepository(db), orderspostgres.NewIdempotencyStore(db), func() { _ = sqlDB.Close() }
}

func buildProductCatalog(cfg api.Config, logger *slog.Logger) (ordersports.ProductCatalog, func(), error) {
	if cfg.CatalogNATSURL != "" {
		nc, err := orderscatalognats.Connect(cfg.CatalogNATSURL, logger)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("worker product catalog configured with NATS", slog.String("subject", cfg.CatalogSubject))
		validator := orderscatalognats.NewValidator(nc, orderscatalognats.WithSubject(cfg.CatalogSubject))
		return validator, func() { nc.Close() }, nil
	}
	client, err := catalogclient.NewClient(cfg.CatalogBaseURL, nil)
	if err != nil {
		return nil, func() {}, err
	}
	logger.Info("worker product catalog configured with HTTP", slog.String("baseUrl", cfg.CatalogBaseURL))
	return orderscataloghttp.NewValidator(client), func() {}, nil
}
