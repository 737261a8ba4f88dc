package shoothandlers

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	shootservice "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/application"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
	"github.com/Black-And-White-Club/archery-scorer/internal/handlerwrapper"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
	shootevents "github.com/Black-And-White-Club/archery-scorer/pkg/events/shoot"
)

// ShootHandlers implements the Handlers interface.
type ShootHandlers struct {
	service   shootservice.Service
	logger    *slog.Logger
	tracer    trace.Tracer
	formatter shootdomain.Formatter
}

// NewShootHandlers creates a new ShootHandlers instance. Remaining-arrows text
// in events is rendered with formatter.
func NewShootHandlers(
	service shootservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	formatter shootdomain.Formatter,
) Handlers {
	return &ShootHandlers{
		service:   service,
		logger:    logger,
		tracer:    tracer,
		formatter: formatter,
	}
}

// HandleArrowsSubmitted parses and appends the submitted arrows. Bad input and
// foreign shoots are answered with a rejection; the append that fills the
// round also announces the completed round.
func (h *ShootHandlers) HandleArrowsSubmitted(ctx context.Context, payload *shootevents.ShootArrowsSubmittedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ShootHandlers.HandleArrowsSubmitted")
	defer span.End()

	rejected := func(err error) []handlerwrapper.Result {
		h.logger.WarnContext(ctx, "Rejected submitted arrows",
			attr.ShootID(payload.ShootID),
			attr.String("archer_id", payload.ArcherID),
			attr.Error(err),
		)
		return []handlerwrapper.Result{{
			Topic: shootevents.ShootArrowsRejectedV1,
			Payload: &shootevents.ShootArrowsRejectedPayloadV1{
				ShootID:  payload.ShootID,
				ArcherID: payload.ArcherID,
				Reason:   err.Error(),
			},
		}}
	}

	arrows := make([]shootdomain.Arrow, 0, len(payload.Arrows))
	for i, raw := range payload.Arrows {
		arrow, err := shootdomain.ParseArrow(raw)
		if err != nil {
			return rejected(fmt.Errorf("%w: arrow %d: %v", shootservice.ErrInvalidArrows, i+1, err)), nil
		}
		arrows = append(arrows, arrow)
	}

	shoot, err := h.service.GetShoot(ctx, payload.ShootID)
	if err != nil {
		if shootservice.IsDomainFailure(err) {
			return rejected(err), nil
		}
		return nil, err
	}
	if payload.ArcherID != "" && shoot.ArcherID != payload.ArcherID {
		return rejected(fmt.Errorf("%w: %s", shootservice.ErrShootNotFound, payload.ShootID)), nil
	}

	result, err := h.service.RecordArrows(ctx, payload.ShootID, arrows)
	if err != nil {
		if shootservice.IsDomainFailure(err) {
			return rejected(err), nil
		}
		return nil, err
	}

	out := []handlerwrapper.Result{{
		Topic: shootevents.ShootArrowsRecordedV1,
		Payload: &shootevents.ShootArrowsRecordedPayloadV1{
			ShootID:       result.ShootID,
			ArcherID:      result.ArcherID,
			Recorded:      result.Recorded,
			ArrowCount:    result.ArrowCount,
			Score:         result.Totals.Score,
			Remaining:     h.remaining(result.Remaining),
			RoundComplete: result.RoundComplete,
		},
	}}

	if result.JustCompleted && result.Round != nil {
		h.logger.InfoContext(ctx, "Round completed",
			attr.ShootID(result.ShootID),
			attr.String("round", result.Round.Name),
			attr.Int("score", result.Totals.Score),
		)
		out = append(out, handlerwrapper.Result{
			Topic: shootevents.ShootRoundCompletedV1,
			Payload: &shootevents.ShootRoundCompletedPayloadV1{
				ShootID:   result.ShootID,
				ArcherID:  result.ArcherID,
				RoundID:   result.Round.ID,
				RoundName: result.Round.Name,
				Hits:      result.Totals.Hits,
				Score:     result.Totals.Score,
				Golds:     result.Totals.Golds,
			},
		})
	}
	return out, nil
}

func (h *ShootHandlers) remaining(r *shootdomain.RemainingArrows) *shootevents.RemainingV1 {
	if r == nil {
		return nil
	}
	current, later := h.formatter.Remaining(r)
	return &shootevents.RemainingV1{Current: current, Later: later, Total: r.Total()}
}

// HandleScorePadRequest replies with the rendered score pad. Unknown shoots are
// answered with an error payload so requesters do not time out.
func (h *ShootHandlers) HandleScorePadRequest(ctx context.Context, payload *shootevents.ShootScorePadRequestPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ShootHandlers.HandleScorePadRequest")
	defer span.End()

	replyTopic := handlerwrapper.ReplyTopic(ctx, shootevents.ShootScorePadResponseV1)

	view, err := h.service.GetScorePad(ctx, payload.ShootID, payload.Locale)
	if err != nil {
		if shootservice.IsDomainFailure(err) {
			h.logger.WarnContext(ctx, "Score pad unavailable", attr.ShootID(payload.ShootID), attr.Error(err))
			return []handlerwrapper.Result{{
				Topic: replyTopic,
				Payload: &shootevents.ShootScorePadResponsePayloadV1{
					ShootID: payload.ShootID,
					Locale:  payload.Locale,
					Error:   err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	rows := make([]shootevents.ScorePadRowV1, 0, len(view.Rows))
	for _, row := range view.Rows {
		rows = append(rows, shootevents.ScorePadRowV1{
			Kind:         row.Kind.String(),
			Label:        row.Label,
			Cells:        row.Cells,
			Hits:         row.Totals.Hits,
			Score:        row.Totals.Score,
			Golds:        row.Totals.Golds,
			RunningTotal: row.RunningTotal,
		})
	}

	return []handlerwrapper.Result{{
		Topic: replyTopic,
		Payload: &shootevents.ShootScorePadResponsePayloadV1{
			ShootID: payload.ShootID,
			Locale:  view.Locale,
			Rows:    rows,
			Average: view.Average,
		},
	}}, nil
}

// HandleExportRequested records and queues an export.
func (h *ShootHandlers) HandleExportRequested(ctx context.Context, payload *shootevents.ShootExportRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "ShootHandlers.HandleExportRequested")
	defer span.End()

	export, err := h.service.RequestExport(ctx, payload.ShootID)
	if err != nil {
		if shootservice.IsDomainFailure(err) {
			h.logger.WarnContext(ctx, "Export request rejected", attr.ShootID(payload.ShootID), attr.Error(err))
			return []handlerwrapper.Result{{
				Topic: shootevents.ShootExportFailedV1,
				Payload: &shootevents.ShootExportFailedPayloadV1{
					ShootID: payload.ShootID,
					Reason:  err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: shootevents.ShootExportQueuedV1,
		Payload: &shootevents.ShootExportQueuedPayloadV1{
			ShootID:  export.ShootID,
			ExportID: export.ID,
		},
	}}, nil
}
