package shootdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
)

// Shoot is one scoring session.
type Shoot struct {
	bun.BaseModel `bun:"table:shoots,alias:s"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ArcherID  string    `bun:"archer_id,notnull"`
	RoundID   *int64    `bun:"round_id"`
	SubTypeID int       `bun:"sub_type_id,notnull,default:0"`
	EndSize   int       `bun:"end_size,notnull"`
	GoldsType string    `bun:"golds_type,notnull"`
	Notes     string    `bun:"notes,notnull,default:''"`
	ShotAt    time.Time `bun:"shot_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ToDomain converts the row; an unknown golds type falls back to nines-up.
func (s *Shoot) ToDomain() shootdomain.Shoot {
	golds, err := shootdomain.ParseGoldsType(s.GoldsType)
	if err != nil {
		golds = shootdomain.NinesUp
	}
	return shootdomain.Shoot{
		ID:        s.ID,
		ArcherID:  s.ArcherID,
		RoundID:   s.RoundID,
		SubTypeID: s.SubTypeID,
		EndSize:   s.EndSize,
		Golds:     golds,
		Notes:     s.Notes,
		ShotAt:    s.ShotAt,
		CreatedAt: s.CreatedAt,
	}
}

// ShootFromDomain converts a domain shoot to a row.
func ShootFromDomain(s shootdomain.Shoot) *Shoot {
	return &Shoot{
		ID:        s.ID,
		ArcherID:  s.ArcherID,
		RoundID:   s.RoundID,
		SubTypeID: s.SubTypeID,
		EndSize:   s.EndSize,
		GoldsType: s.Golds.String(),
		Notes:     s.Notes,
		ShotAt:    s.ShotAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.CreatedAt,
	}
}

// Arrow is one recorded shot. ArrowNumber is 1-based shot order within the shoot.
type Arrow struct {
	bun.BaseModel `bun:"table:arrows,alias:a"`

	ShootID     uuid.UUID `bun:"shoot_id,pk,type:uuid"`
	ArrowNumber int       `bun:"arrow_number,pk"`
	Score       int       `bun:"score,notnull"`
	IsX         bool      `bun:"is_x,notnull,default:false"`
	RecordedAt  time.Time `bun:"recorded_at,notnull,default:current_timestamp"`
}

func (a *Arrow) ToDomain() shootdomain.Arrow {
	return shootdomain.Arrow{Score: a.Score, IsX: a.IsX}
}

// ExportStatus aliases the domain status so rows and domain values compare directly.
type ExportStatus = shootdomain.ExportStatus

const (
	ExportPending   = shootdomain.ExportPending
	ExportCompleted = shootdomain.ExportCompleted
	ExportFailed    = shootdomain.ExportFailed
)

// ScoreSheetExport stores a generated workbook.
type ScoreSheetExport struct {
	bun.BaseModel `bun:"table:score_sheet_exports,alias:sse"`

	ID          uuid.UUID    `bun:"id,pk,type:uuid"`
	ShootID     uuid.UUID    `bun:"shoot_id,notnull,type:uuid"`
	Status      ExportStatus `bun:"status,notnull"`
	Format      string       `bun:"format,notnull"`
	Content     []byte       `bun:"content"`
	Error       string       `bun:"error,notnull,default:''"`
	RequestedAt time.Time    `bun:"requested_at,notnull"`
	CompletedAt *time.Time   `bun:"completed_at"`
}

func (e *ScoreSheetExport) ToDomain() shootdomain.Export {
	return shootdomain.Export{
		ID:          e.ID,
		ShootID:     e.ShootID,
		Status:      e.Status,
		Format:      e.Format,
		Content:     e.Content,
		Error:       e.Error,
		RequestedAt: e.RequestedAt,
		CompletedAt: e.CompletedAt,
	}
}
