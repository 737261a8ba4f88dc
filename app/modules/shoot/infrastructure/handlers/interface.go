package shoothandlers

import (
	"context"

	"github.com/Black-And-White-Club/archery-scorer/internal/handlerwrapper"
	shootevents "github.com/Black-And-White-Club/archery-scorer/pkg/events/shoot"
)

// Handlers defines the interface for shoot event handlers.
type Handlers interface {
	// HandleArrowsSubmitted records submitted arrows.
	HandleArrowsSubmitted(ctx context.Context, payload *shootevents.ShootArrowsSubmittedPayloadV1) ([]handlerwrapper.Result, error)

	// HandleScorePadRequest answers score pad lookups.
	HandleScorePadRequest(ctx context.Context, payload *shootevents.ShootScorePadRequestPayloadV1) ([]handlerwrapper.Result, error)

	// HandleExportRequested queues a score sheet export.
	HandleExportRequested(ctx context.Context, payload *shootevents.ShootExportRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
