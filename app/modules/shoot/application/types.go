package shootservice

import (
	"github.com/google/uuid"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
)

// CreateShootRequest describes a new shoot. Zero values pick defaults: the
// configured end size, the round's golds policy and the current time.
type CreateShootRequest struct {
	ArcherID  string
	RoundID   *int64
	SubTypeID int
	EndSize   int
	// Golds is a golds type name such as "nines_up"; empty derives it from the round.
	Golds string
	Notes string
	// ShotAt is RFC3339 or natural language such as "yesterday 3pm".
	ShotAt string
}

// RecordResult reports the state of a shoot after an append.
type RecordResult struct {
	ShootID    uuid.UUID
	ArcherID   string
	Recorded   int
	ArrowCount int
	Totals     shootdomain.Totals
	Remaining  *shootdomain.RemainingArrows
	Round      *rounddomain.Round
	// RoundComplete is true once the round's capacity is reached.
	RoundComplete bool
	// JustCompleted is true only for the append that reached it.
	JustCompleted bool
}

// ScorePadView is a score pad rendered for display.
type ScorePadView struct {
	Shoot   shootdomain.Shoot
	Round   *rounddomain.Round
	Locale  string
	Rows    []RowView
	Totals  shootdomain.Totals
	Average string
}

// RowView is one rendered score pad row. EndNumber, Cells and RunningTotal are
// set on end rows only.
type RowView struct {
	Kind         shootdomain.RowKind
	Label        string
	EndNumber    int
	Cells        []string
	Text         string
	Totals       shootdomain.Totals
	RunningTotal int
}

// shootState is a shoot with its round resolved.
type shootState struct {
	shoot     shootdomain.Shoot
	round     *rounddomain.Round
	structure *rounddomain.Structure
}

func (s shootState) totalArrows() int {
	if s.structure == nil {
		return 0
	}
	return s.structure.TotalArrows()
}
