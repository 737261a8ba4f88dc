// Package app wires configuration, storage, the event bus and the modules into
// one runnable service.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/archery-scorer/app/modules/auth"
	"github.com/Black-And-White-Club/archery-scorer/app/modules/round"
	"github.com/Black-And-White-Club/archery-scorer/app/modules/shoot"
	"github.com/Black-And-White-Club/archery-scorer/config"
	"github.com/Black-And-White-Club/archery-scorer/internal/db/bundb"
	"github.com/Black-And-White-Club/archery-scorer/internal/eventbus"
	"github.com/Black-And-White-Club/archery-scorer/internal/httpserver"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability"
)

// Modules lists every module migration collection, in dependency order.
var Modules = []bundb.Module{round.Migrations, shoot.Migrations}

// App holds the running service.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      *eventbus.Bus
	Router        *message.Router
	HTTP          *httpserver.Server

	AuthModule  *auth.Module
	RoundModule *round.Module
	ShootModule *shoot.Module

	routerCtx    context.Context
	routerCancel context.CancelFunc
}

// NewApp connects to the database and the event bus, applies migrations and
// builds every module. Nothing runs until Run is called.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs, err := observability.New(cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger

	app := &App{Config: cfg, Observability: obs}
	if err := app.initialize(ctx); err != nil {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("Cleanup after failed startup", "error", closeErr)
		}
		return nil, err
	}
	return app, nil
}

func (app *App) initialize(ctx context.Context) error {
	cfg := app.Config
	obs := app.Observability
	logger := obs.Logger

	db, err := bundb.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = db

	if err := bundb.Migrate(ctx, db, logger, Modules...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	bus, err := newEventBus(cfg.NATS, logger)
	if err != nil {
		return err
	}
	app.EventBus = bus

	router, err := newMessageRouter(logger, obs)
	if err != nil {
		return err
	}
	app.Router = router
	app.routerCtx, app.routerCancel = context.WithCancel(context.Background())

	app.AuthModule = auth.NewModule(cfg, logger)

	app.RoundModule, err = round.NewRoundModule(ctx, obs, bus, router, app.routerCtx, db)
	if err != nil {
		return fmt.Errorf("failed to initialize round module: %w", err)
	}

	app.ShootModule, err = shoot.NewShootModule(ctx, cfg, obs, bus, router, app.routerCtx, db, app.RoundModule.RoundService)
	if err != nil {
		return fmt.Errorf("failed to initialize shoot module: %w", err)
	}

	app.HTTP = httpserver.New(cfg.HTTP.Addr, logger, obs.MetricsHandler(), app.AuthModule.Edge()...)
	app.AuthModule.RegisterRoutes(app.HTTP.Router)
	guard := app.AuthModule.RequireArcher()
	app.RoundModule.RegisterRoutes(app.HTTP.Router, guard)
	app.ShootModule.RegisterRoutes(app.HTTP.Router, guard)

	logger.InfoContext(ctx, "Application initialized",
		slog.String("database", db.Dialect().Name().String()),
		slog.Bool("nats", cfg.NATS.URL != ""),
	)
	return nil
}

func newEventBus(cfg config.NATSConfig, logger *slog.Logger) (*eventbus.Bus, error) {
	if cfg.URL == "" {
		logger.Info("No NATS URL configured; using the in-process event bus")
		return eventbus.NewInProcess(logger), nil
	}
	bus, err := eventbus.NewNATS(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event bus: %w", err)
	}
	return bus, nil
}
