package roundservice

import (
	"context"

	"github.com/Black-And-White-Club/archery-scorer/app/modules/round/application/parsers"
	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// Service is the round catalogue.
type Service interface {
	ListRounds(ctx context.Context) ([]rounddomain.Round, error)

	// GetRound returns ErrRoundNotFound for an unknown ID.
	GetRound(ctx context.Context, roundID int64) (rounddomain.Round, error)

	// GetRoundStructure loads a round and the validated structure of one of its
	// sub-types. A subTypeID of 0 selects the first sub-type.
	GetRoundStructure(ctx context.Context, roundID int64, subTypeID int) (rounddomain.Round, rounddomain.Structure, error)

	// ImportCatalogue validates every definition, then upserts them all in one
	// transaction. Nothing is written if any definition is invalid.
	ImportCatalogue(ctx context.Context, defs []rounddomain.RoundDefinition) (int, error)

	// ImportDocument parses a catalogue document and imports it.
	ImportDocument(ctx context.Context, format parsers.Format, data []byte) (int, error)

	// EnsureDefaultCatalogue imports the built-in rounds when the catalogue is empty.
	EnsureDefaultCatalogue(ctx context.Context) (int, error)
}
