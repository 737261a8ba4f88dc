package roundrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	roundhandlers "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/handlers"
	"github.com/Black-And-White-Club/archery-scorer/internal/eventbus"
	"github.com/Black-And-White-Club/archery-scorer/internal/handlerwrapper"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/metrics"
	roundevents "github.com/Black-And-White-Club/archery-scorer/pkg/events/round"
)

// RoundRouter handles Watermill handler registration for round events.
type RoundRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
	metrics    metrics.HandlerMetrics
}

// NewRoundRouter creates a new RoundRouter.
func NewRoundRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	handlerMetrics metrics.HandlerMetrics,
) *RoundRouter {
	return &RoundRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
		metrics:    handlerMetrics,
	}
}

// Configure sets up the router with handlers.
func (r *RoundRouter) Configure(_ context.Context, handlers roundhandlers.Handlers) error {
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

func (r *RoundRouter) registerHandlers(handlers roundhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	r.logger.Info("Registering round module handlers",
		slog.String("structure_subject", roundevents.RoundStructureRequestV1),
		slog.String("import_subject", roundevents.RoundCatalogueImportRequestedV1),
	)

	registerHandler(deps, roundevents.RoundStructureRequestV1, handlers.HandleRoundStructureRequest)
	registerHandler(deps, roundevents.RoundCatalogueImportRequestedV1, handlers.HandleCatalogueImportRequested)

	r.logger.Info("Round module handlers registered successfully")
}

// registerHandler registers a transformation-pattern handler with a typed payload.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "round." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"", // the bus routes results on their topic metadata
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
func (r *RoundRouter) Close() error {
	return r.router.Close()
}
