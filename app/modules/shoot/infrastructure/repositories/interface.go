package shootdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
)

// Repository defines the contract for shoot persistence.
// Every method takes an optional bun.IDB; nil falls back to the repository's connection.
type Repository interface {
	CreateShoot(ctx context.Context, db bun.IDB, shoot *Shoot) error
	GetShoot(ctx context.Context, db bun.IDB, shootID uuid.UUID) (*Shoot, error)

	// ListShoots returns an archer's shoots, most recent first.
	ListShoots(ctx context.Context, db bun.IDB, archerID string) ([]*Shoot, error)

	// DeleteShoot removes the shoot with its arrows and exports.
	DeleteShoot(ctx context.Context, db bun.IDB, shootID uuid.UUID) error

	// GetArrows returns the shoot's arrows in shot order.
	GetArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID) ([]*Arrow, error)
	CountArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID) (int, error)

	// AppendArrows stores arrows numbered from firstNumber upwards.
	AppendArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID, firstNumber int, arrows []shootdomain.Arrow) error

	// UpdateArrow replaces one arrow. ErrArrowNotFound when the number is unused.
	UpdateArrow(ctx context.Context, db bun.IDB, shootID uuid.UUID, arrowNumber int, arrow shootdomain.Arrow) error

	// DeleteArrow removes one arrow. ErrArrowNotFound when the number is unused.
	DeleteArrow(ctx context.Context, db bun.IDB, shootID uuid.UUID, arrowNumber int) error

	CreateExport(ctx context.Context, db bun.IDB, export *ScoreSheetExport) error
	GetExport(ctx context.Context, db bun.IDB, exportID uuid.UUID) (*ScoreSheetExport, error)
	CompleteExport(ctx context.Context, db bun.IDB, exportID uuid.UUID, content []byte) error
	FailExport(ctx context.Context, db bun.IDB, exportID uuid.UUID, reason string) error
}
