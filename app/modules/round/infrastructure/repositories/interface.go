package rounddb

import (
	"context"

	"github.com/uptrace/bun"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// Repository defines the contract for round catalogue persistence.
// Every method takes an optional bun.IDB; nil falls back to the repository's connection.
//
// Error semantics:
//   - ErrNotFound: no round matches the ID or name.
//   - ErrSubTypeNotFound: the round has no sub-type with the given ID.
//   - Other errors are wrapped database failures.
type Repository interface {
	// ListRounds returns every round ordered by name.
	ListRounds(ctx context.Context, db bun.IDB) ([]*Round, error)

	GetRound(ctx context.Context, db bun.IDB, roundID int64) (*Round, error)
	GetRoundByName(ctx context.Context, db bun.IDB, name string) (*Round, error)

	// GetSubTypes returns the sub-types of a round ordered by ID.
	GetSubTypes(ctx context.Context, db bun.IDB, roundID int64) ([]*SubType, error)

	// GetArrowCounts returns the arrow counts of a round ordered by distance index.
	GetArrowCounts(ctx context.Context, db bun.IDB, roundID int64) ([]*ArrowCount, error)

	// GetDistances returns one sub-type's distances ordered by distance index.
	GetDistances(ctx context.Context, db bun.IDB, roundID int64, subTypeID int) ([]*Distance, error)

	// UpsertRoundDefinition creates or replaces a round and all of its child rows.
	// Callers run it inside a transaction.
	UpsertRoundDefinition(ctx context.Context, db bun.IDB, def rounddomain.RoundDefinition) (*Round, error)
}
