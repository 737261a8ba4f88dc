package round

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	roundservice "github.com/Black-And-White-Club/archery-scorer/app/modules/round/application"
	roundapi "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/api"
	roundhandlers "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/handlers"
	rounddb "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/repositories"
	roundmigrations "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/repositories/migrations"
	roundrouter "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/router"
	"github.com/Black-And-White-Club/archery-scorer/internal/db/bundb"
	"github.com/Black-And-White-Club/archery-scorer/internal/eventbus"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability"
)

// Migrations is the round module's migration collection.
var Migrations = bundb.Module{Name: "round", Migrations: roundmigrations.Migrations}

// Module represents the round catalogue module.
type Module struct {
	RoundService  roundservice.Service
	RoundRouter   *roundrouter.RoundRouter
	api           *roundapi.Handlers
	cancelFunc    context.CancelFunc
	observability *observability.Observability
}

// NewRoundModule creates and initializes the round module and seeds the default
// catalogue when the database has no rounds.
func NewRoundModule(
	ctx context.Context,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	routerCtx context.Context,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "round.NewRoundModule initializing")

	repo := rounddb.NewRepository(db)
	service := roundservice.NewRoundService(repo, logger, obs.Metrics, tracer, db)

	if n, err := service.EnsureDefaultCatalogue(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed round catalogue: %w", err)
	} else if n > 0 {
		logger.InfoContext(ctx, "Seeded default round catalogue", "rounds", n)
	}

	handlers := roundhandlers.NewRoundHandlers(service, logger, tracer)

	roundRouter := roundrouter.NewRoundRouter(logger, router, eventBus, eventBus, tracer, obs.Metrics)
	if err := roundRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure round router: %w", err)
	}

	return &Module{
		RoundService:  service,
		RoundRouter:   roundRouter,
		api:           roundapi.NewHandlers(service, logger),
		observability: obs,
	}, nil
}

// RegisterRoutes mounts the round HTTP API behind auth.
func (m *Module) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	m.api.Routes(r, auth)
}

// Run starts the round module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting round module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Round module goroutine stopped")
}

// Close shuts down the round module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping round module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.RoundRouter != nil {
		if err := m.RoundRouter.Close(); err != nil {
			logger.Error("Error closing RoundRouter from module", "error", err)
			return fmt.Errorf("error closing RoundRouter: %w", err)
		}
	}

	logger.Info("Round module stopped")
	return nil
}
