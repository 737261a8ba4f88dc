package roundhandlers

import (
	"context"

	"github.com/Black-And-White-Club/archery-scorer/internal/handlerwrapper"
	roundevents "github.com/Black-And-White-Club/archery-scorer/pkg/events/round"
)

// Handlers defines the interface for round event handlers.
type Handlers interface {
	// HandleRoundStructureRequest answers structure lookups.
	HandleRoundStructureRequest(ctx context.Context, payload *roundevents.RoundStructureRequestPayloadV1) ([]handlerwrapper.Result, error)

	// HandleCatalogueImportRequested imports a catalogue document.
	HandleCatalogueImportRequested(ctx context.Context, payload *roundevents.RoundCatalogueImportRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
