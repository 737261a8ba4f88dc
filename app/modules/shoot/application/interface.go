package shootservice

import (
	"context"

	"github.com/google/uuid"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
)

// Service manages shoots and everything derived from their arrows.
type Service interface {
	CreateShoot(ctx context.Context, req CreateShootRequest) (shootdomain.Shoot, error)
	GetShoot(ctx context.Context, shootID uuid.UUID) (shootdomain.Shoot, error)
	ListShoots(ctx context.Context, archerID string) ([]shootdomain.Shoot, error)
	DeleteShoot(ctx context.Context, shootID uuid.UUID) error

	// RecordArrows appends arrows in shot order.
	RecordArrows(ctx context.Context, shootID uuid.UUID, arrows []shootdomain.Arrow) (RecordResult, error)

	// EditArrow replaces the arrowNumber-th arrow (1-based).
	EditArrow(ctx context.Context, shootID uuid.UUID, arrowNumber int, arrow shootdomain.Arrow) error

	// DeleteLastArrow removes the most recent arrow and returns the new arrow count.
	DeleteLastArrow(ctx context.Context, shootID uuid.UUID) (int, error)

	// GetScorePad renders the score pad with labels for locale; unsupported
	// locales fall back to en-GB.
	GetScorePad(ctx context.Context, shootID uuid.UUID, locale string) (ScorePadView, error)

	// GetRemainingArrows returns nil when the shoot has no round or the round is complete.
	GetRemainingArrows(ctx context.Context, shootID uuid.UUID) (*shootdomain.RemainingArrows, error)

	ExportWorkbook(ctx context.Context, shootID uuid.UUID) ([]byte, error)

	// ImportWorkbook appends the arrows of a score sheet workbook and returns how many were read.
	ImportWorkbook(ctx context.Context, shootID uuid.UUID, data []byte) (int, error)

	// RenderRunningTotalChart draws the running total per end as a PNG.
	RenderRunningTotalChart(ctx context.Context, shootID uuid.UUID) ([]byte, error)

	// RequestExport records a pending export and hands it to the export queue.
	RequestExport(ctx context.Context, shootID uuid.UUID) (shootdomain.Export, error)

	// GenerateExport builds and stores the workbook of a pending export.
	GenerateExport(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error)

	GetExport(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error)
}

// RoundCatalogue resolves the structure of a round sub-type.
type RoundCatalogue interface {
	GetRoundStructure(ctx context.Context, roundID int64, subTypeID int) (rounddomain.Round, rounddomain.Structure, error)
}

// ExportQueue runs export jobs.
type ExportQueue interface {
	EnqueueExport(ctx context.Context, shootID, exportID uuid.UUID) error
}
