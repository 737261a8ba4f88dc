package shoot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	shootservice "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/application"
	shootapi "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/api"
	shoothandlers "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/handlers"
	shootqueue "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/queue"
	shootdb "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/repositories"
	shootmigrations "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/repositories/migrations"
	shootrouter "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/router"
	"github.com/Black-And-White-Club/archery-scorer/config"
	"github.com/Black-And-White-Club/archery-scorer/internal/db/bundb"
	"github.com/Black-And-White-Club/archery-scorer/internal/eventbus"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability"
)

// Migrations is the shoot module's migration collection.
var Migrations = bundb.Module{Name: "shoot", Migrations: shootmigrations.Migrations}

// Module represents the shoot module.
type Module struct {
	ShootService  shootservice.Service
	ShootRouter   *shootrouter.ShootRouter
	api           *shootapi.Handlers
	queueService  shootqueue.QueueService
	cancelFunc    context.CancelFunc
	observability *observability.Observability
}

// NewShootModule creates and initializes the shoot module. Exports run on River
// when the database is Postgres and inline otherwise.
func NewShootModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	routerCtx context.Context,
	db *bun.DB,
	rounds shootservice.RoundCatalogue,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "shoot.NewShootModule initializing")

	repo := shootdb.NewRepository(db)
	service := shootservice.NewShootService(repo, rounds, logger, obs.Metrics, tracer, db, cfg.Scoring)

	runner := shootqueue.NewExportRunner(service, eventBus, logger)
	var queueService shootqueue.QueueService
	if cfg.Database.IsSQLite() {
		service.SetExportQueue(shootqueue.NewInlineQueue(runner))
	} else {
		qs, err := shootqueue.NewService(ctx, cfg.Database.DSN, cfg.Queue.MaxWorkers, runner, logger, obs.Metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create shoot queue service: %w", err)
		}
		service.SetExportQueue(qs)
		queueService = qs
	}

	formatter := shootservice.NewFormatter(cfg.Scoring)

	handlers := shoothandlers.NewShootHandlers(service, logger, tracer, formatter)

	shootRouter := shootrouter.NewShootRouter(logger, router, eventBus, eventBus, tracer, obs.Metrics)
	if err := shootRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure shoot router: %w", err)
	}

	return &Module{
		ShootService:  service,
		ShootRouter:   shootRouter,
		api:           shootapi.NewHandlers(service, logger, formatter),
		queueService:  queueService,
		observability: obs,
	}, nil
}

// RegisterRoutes mounts the shoot HTTP API behind auth.
func (m *Module) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	m.api.Routes(r, auth)
}

// Run starts the export workers, if any, and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting shoot module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queueService != nil {
		if err := m.queueService.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to start shoot queue service", "error", err)
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Shoot module goroutine stopped")
}

// Close shuts down the shoot module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping shoot module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	var errs []error
	if m.queueService != nil {
		if err := m.queueService.Stop(context.Background()); err != nil {
			logger.Error("Error stopping shoot queue service", "error", err)
			errs = append(errs, err)
		}
	}

	if m.ShootRouter != nil {
		if err := m.ShootRouter.Close(); err != nil {
			logger.Error("Error closing ShootRouter from module", "error", err)
			errs = append(errs, fmt.Errorf("error closing ShootRouter: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Info("Shoot module stopped")
	return nil
}
