package shootrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	shoothandlers "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/handlers"
	"github.com/Black-And-White-Club/archery-scorer/internal/eventbus"
	"github.com/Black-And-White-Club/archery-scorer/internal/handlerwrapper"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/metrics"
	shootevents "github.com/Black-And-White-Club/archery-scorer/pkg/events/shoot"
)

// ShootRouter handles Watermill handler registration for shoot events.
type ShootRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
	metrics    metrics.HandlerMetrics
}

// NewShootRouter creates a new ShootRouter.
func NewShootRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	handlerMetrics metrics.HandlerMetrics,
) *ShootRouter {
	return &ShootRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
		metrics:    handlerMetrics,
	}
}

// Configure sets up the router with handlers.
func (r *ShootRouter) Configure(_ context.Context, handlers shoothandlers.Handlers) error {
	r.registerHandlers(handlers)
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    metrics.HandlerMetrics
}

func (r *ShootRouter) registerHandlers(handlers shoothandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	r.logger.Info("Registering shoot module handlers",
		slog.String("arrows_subject", shootevents.ShootArrowsSubmittedV1),
		slog.String("scorepad_subject", shootevents.ShootScorePadRequestV1),
		slog.String("export_subject", shootevents.ShootExportRequestedV1),
	)

	registerHandler(deps, shootevents.ShootArrowsSubmittedV1, handlers.HandleArrowsSubmitted)
	registerHandler(deps, shootevents.ShootScorePadRequestV1, handlers.HandleScorePadRequest)
	registerHandler(deps, shootevents.ShootExportRequestedV1, handlers.HandleExportRequested)

	r.logger.Info("Shoot module handlers registered successfully")
}

// registerHandler registers a transformation-pattern handler with a typed payload.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "shoot." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.metrics,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *ShootRouter) Close() error {
	return r.router.Close()
}
