// Package shootevents defines the shoot topics and payloads.
package shootevents

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ShootArrowsSubmittedV1 carries arrows to append to a shoot.
	ShootArrowsSubmittedV1 = "shoot.arrows.submitted.v1"
	ShootArrowsRecordedV1  = "shoot.arrows.recorded.v1"
	ShootArrowsRejectedV1  = "shoot.arrows.rejected.v1"

	// ShootRoundCompletedV1 is published once, when an append fills the round.
	ShootRoundCompletedV1 = "shoot.round.completed.v1"

	ShootScorePadRequestV1 = "shoot.scorepad.request.v1"
	// ShootScorePadResponseV1 answers ShootScorePadRequestV1, on the reply subject when one is set.
	ShootScorePadResponseV1 = "shoot.scorepad.response.v1"

	ShootExportRequestedV1 = "shoot.export.requested.v1"
	ShootExportQueuedV1    = "shoot.export.queued.v1"
	ShootExportCompletedV1 = "shoot.export.completed.v1"
	ShootExportFailedV1    = "shoot.export.failed.v1"
)

// ShootArrowsSubmittedPayloadV1 lists arrows in shot order using score pad
// notation: "X", "M" or "0".."10".
type ShootArrowsSubmittedPayloadV1 struct {
	ShootID  uuid.UUID `json:"shoot_id"`
	ArcherID string    `json:"archer_id"`
	Arrows   []string  `json:"arrows"`
}

// RemainingV1 is the remaining-arrows indicator; nil when the round is complete.
type RemainingV1 struct {
	Current string `json:"current"`
	Later   string `json:"later,omitempty"`
	Total   int    `json:"total"`
}

type ShootArrowsRecordedPayloadV1 struct {
	ShootID       uuid.UUID    `json:"shoot_id"`
	ArcherID      string       `json:"archer_id"`
	Recorded      int          `json:"recorded"`
	ArrowCount    int          `json:"arrow_count"`
	Score         int          `json:"score"`
	Remaining     *RemainingV1 `json:"remaining,omitempty"`
	RoundComplete bool         `json:"round_complete"`
}

type ShootArrowsRejectedPayloadV1 struct {
	ShootID  uuid.UUID `json:"shoot_id"`
	ArcherID string    `json:"archer_id"`
	Reason   string    `json:"reason"`
}

type ShootRoundCompletedPayloadV1 struct {
	ShootID   uuid.UUID `json:"shoot_id"`
	ArcherID  string    `json:"archer_id"`
	RoundID   int64     `json:"round_id"`
	RoundName string    `json:"round_name"`
	Hits      int       `json:"hits"`
	Score     int       `json:"score"`
	Golds     int       `json:"golds"`
}

type ShootScorePadRequestPayloadV1 struct {
	ShootID uuid.UUID `json:"shoot_id"`
	Locale  string    `json:"locale,omitempty"`
}

// ScorePadRowV1 is one rendered score pad row.
type ScorePadRowV1 struct {
	Kind         string   `json:"kind"`
	Label        string   `json:"label"`
	Cells        []string `json:"cells,omitempty"`
	Hits         int      `json:"hits"`
	Score        int      `json:"score"`
	Golds        int      `json:"golds"`
	RunningTotal int      `json:"running_total,omitempty"`
}

// ShootScorePadResponsePayloadV1 carries either the rows or an error message.
type ShootScorePadResponsePayloadV1 struct {
	ShootID uuid.UUID       `json:"shoot_id"`
	Locale  string          `json:"locale,omitempty"`
	Rows    []ScorePadRowV1 `json:"rows,omitempty"`
	Average string          `json:"average,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type ShootExportRequestedPayloadV1 struct {
	ShootID uuid.UUID `json:"shoot_id"`
}

type ShootExportQueuedPayloadV1 struct {
	ShootID  uuid.UUID `json:"shoot_id"`
	ExportID uuid.UUID `json:"export_id"`
}

type ShootExportCompletedPayloadV1 struct {
	ShootID     uuid.UUID `json:"shoot_id"`
	ExportID    uuid.UUID `json:"export_id"`
	Format      string    `json:"format"`
	Size        int       `json:"size"`
	CompletedAt time.Time `json:"completed_at"`
}

type ShootExportFailedPayloadV1 struct {
	ShootID  uuid.UUID `json:"shoot_id"`
	ExportID uuid.UUID `json:"export_id,omitempty"`
	Reason   string    `json:"reason"`
}
