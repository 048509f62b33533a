package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/retailworks/backoffice/internal/dal/clients/catalog"
	"github.com/retailworks/backoffice/internal/dal/clients/gateway"
	"github.com/retailworks/backoffice/internal/dal/clients/reconciler"
	"github.com/retailworks/backoffice/internal/dal/postgres"
	"github.com/retailworks/backoffice/internal/dal/rabbitmq"
	redisclient "github.com/retailworks/backoffice/internal/dal/redis"
	outboxrepo "github.com/retailworks/backoffice/internal/dal/repositories/outbox/postgres"
	"github.com/retailworks/backoffice/internal/otel"
	"github.com/retailworks/backoffice/internal/service/services/draftsvc"
	"github.com/retailworks/backoffice/internal/service/services/historysvc"
	httptransport "github.com/retailworks/backoffice/internal/transport/http"
	outboxworker "github.com/retailworks/backoffice/internal/worker/outbox"
)

// App represents the application.
type App struct {
	draftSvc       *draftsvc.DraftService
	historySvc     *historysvc.HistoryService
	transport      *httptransport.HTTPTransport
	worker         *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()
	redisClient := redisclient.MustNewClient()

	catalogClient := catalog.NewClient(
		catalog.NewRedisCache(redisClient, viper.GetDuration("clients.catalog.cache_ttl")),
	)
	reconcilerClient := reconciler.NewClient()
	gatewayClient := gateway.NewClient()

	historySvc := historysvc.MustNewHistoryService(
		historysvc.WithPostgresClient(postgresClient),
	)

	draftSvc := draftsvc.MustNewDraftService(
		draftsvc.WithCatalog(catalogClient),
		draftsvc.WithReconciler(reconcilerClient),
		draftsvc.WithGateway(gatewayClient),
		draftsvc.WithArchive(historySvc),
	)

	worker := outboxworker.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient.Pool()),
		rabbitClient,
	)

	transport := httptransport.NewHTTPTransport(draftSvc, catalogClient, historySvc)
	transport.RegisterRoutes()

	return &App{
		draftSvc:       draftSvc,
		historySvc:     historySvc,
		transport:      transport,
		worker:         worker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.worker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	cancelWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
