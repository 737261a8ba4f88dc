package shootdomain

import (
	"time"

	"github.com/google/uuid"
)

// Shoot is one scoring session of one archer. A shoot without a round is free
// practice: ends are cut purely by EndSize.
type Shoot struct {
	ID        uuid.UUID
	ArcherID  string
	RoundID   *int64
	SubTypeID int
	EndSize   int
	Golds     GoldsType
	Notes     string
	ShotAt    time.Time
	CreatedAt time.Time
}

// HasRound reports whether the shoot is bound to a catalogue round.
func (s Shoot) HasRound() bool {
	return s.RoundID != nil
}
