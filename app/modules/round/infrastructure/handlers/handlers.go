package roundhandlers

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	roundservice "github.com/Black-And-White-Club/archery-scorer/app/modules/round/application"
	"github.com/Black-And-White-Club/archery-scorer/app/modules/round/application/parsers"
	"github.com/Black-And-White-Club/archery-scorer/internal/handlerwrapper"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
	roundevents "github.com/Black-And-White-Club/archery-scorer/pkg/events/round"
)

// RoundHandlers implements the Handlers interface.
type RoundHandlers struct {
	service roundservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRoundHandlers creates a new RoundHandlers instance.
func NewRoundHandlers(
	service roundservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &RoundHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleRoundStructureRequest replies with the structure of the requested round.
// Unknown rounds and sub-types are answered with an error payload so requesters
// do not time out.
func (h *RoundHandlers) HandleRoundStructureRequest(ctx context.Context, payload *roundevents.RoundStructureRequestPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RoundHandlers.HandleRoundStructureRequest")
	defer span.End()

	replyTopic := handlerwrapper.ReplyTopic(ctx, roundevents.RoundStructureResponseV1)

	round, structure, err := h.service.GetRoundStructure(ctx, payload.RoundID, payload.SubTypeID)
	if err != nil {
		if errors.Is(err, roundservice.ErrRoundNotFound) || errors.Is(err, roundservice.ErrSubTypeNotFound) {
			h.logger.WarnContext(ctx, "Round structure not found",
				attr.RoundID(payload.RoundID),
				attr.Int("sub_type_id", payload.SubTypeID),
			)
			return []handlerwrapper.Result{{
				Topic: replyTopic,
				Payload: &roundevents.RoundStructureResponsePayloadV1{
					SubTypeID: payload.SubTypeID,
					Error:     err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	legs := make([]roundevents.LegV1, 0, len(structure.Legs))
	for _, leg := range structure.Legs {
		legs = append(legs, roundevents.LegV1{
			DistanceIndex: leg.DistanceIndex,
			ArrowCount:    leg.ArrowCount,
			Distance:      leg.Distance,
			Unit:          string(leg.Unit),
		})
	}

	return []handlerwrapper.Result{{
		Topic: replyTopic,
		Payload: &roundevents.RoundStructureResponsePayloadV1{
			Round: &roundevents.RoundInfoV1{
				ID:          round.ID,
				Name:        round.Name,
				DisplayName: round.DisplayName,
				IsOutdoor:   round.IsOutdoor,
				IsMetric:    round.IsMetric,
			},
			SubTypeID:   structure.SubTypeID,
			Legs:        legs,
			TotalArrows: structure.TotalArrows(),
		},
	}}, nil
}

// HandleCatalogueImportRequested parses and imports a catalogue document.
func (h *RoundHandlers) HandleCatalogueImportRequested(ctx context.Context, payload *roundevents.RoundCatalogueImportRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RoundHandlers.HandleCatalogueImportRequested")
	defer span.End()

	failed := func(err error) []handlerwrapper.Result {
		return []handlerwrapper.Result{{
			Topic: roundevents.RoundCatalogueImportFailedV1,
			Payload: &roundevents.RoundCatalogueImportFailedPayloadV1{
				Format: payload.Format,
				Reason: err.Error(),
			},
		}}
	}

	format, err := parsers.ParseFormat(payload.Format)
	if err != nil {
		h.logger.WarnContext(ctx, "Rejected catalogue import", attr.String("format", payload.Format), attr.Error(err))
		return failed(err), nil
	}

	count, err := h.service.ImportDocument(ctx, format, []byte(payload.Document))
	if err != nil {
		if errors.Is(err, roundservice.ErrInvalidCatalogue) {
			h.logger.WarnContext(ctx, "Rejected catalogue import", attr.String("format", payload.Format), attr.Error(err))
			return failed(err), nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: roundevents.RoundCatalogueImportedV1,
		Payload: &roundevents.RoundCatalogueImportedPayloadV1{
			Format: string(format),
			Count:  count,
		},
	}}, nil
}
