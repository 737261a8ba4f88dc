package rounddb

import (
	"time"

	"github.com/uptrace/bun"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// Round is the catalogue row of a round.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull,unique"`
	DisplayName string    `bun:"display_name"`
	IsOutdoor   bool      `bun:"is_outdoor,notnull,default:false"`
	IsMetric    bool      `bun:"is_metric,notnull,default:false"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ToDomain converts the row to catalogue metadata.
func (r *Round) ToDomain() rounddomain.Round {
	return rounddomain.Round{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		IsOutdoor:   r.IsOutdoor,
		IsMetric:    r.IsMetric,
	}
}

// SubType is one named variant of a round.
type SubType struct {
	bun.BaseModel `bun:"table:round_sub_types,alias:rst"`

	RoundID   int64  `bun:"round_id,pk"`
	SubTypeID int    `bun:"sub_type_id,pk"`
	Name      string `bun:"name,notnull"`
}

func (s *SubType) ToDomain() rounddomain.SubType {
	return rounddomain.SubType{RoundID: s.RoundID, SubTypeID: s.SubTypeID, Name: s.Name}
}

// ArrowCount is the arrows shot at one distance index, shared by every sub-type.
type ArrowCount struct {
	bun.BaseModel `bun:"table:round_arrow_counts,alias:rac"`

	RoundID       int64 `bun:"round_id,pk"`
	DistanceIndex int   `bun:"distance_index,pk"`
	ArrowCount    int   `bun:"arrow_count,notnull"`
	FaceSizeCm    int   `bun:"face_size_cm,notnull,default:0"`
}

func (a *ArrowCount) ToDomain() rounddomain.RoundArrowCount {
	return rounddomain.RoundArrowCount{
		RoundID:       a.RoundID,
		DistanceIndex: a.DistanceIndex,
		ArrowCount:    a.ArrowCount,
		FaceSizeCm:    a.FaceSizeCm,
	}
}

// Distance is the distance of one sub-type at one distance index.
type Distance struct {
	bun.BaseModel `bun:"table:round_distances,alias:rd"`

	RoundID       int64 `bun:"round_id,pk"`
	SubTypeID     int   `bun:"sub_type_id,pk"`
	DistanceIndex int   `bun:"distance_index,pk"`
	Distance      int   `bun:"distance,notnull"`
	IsMetric      bool  `bun:"is_metric,notnull,default:false"`
}

func (d *Distance) ToDomain() rounddomain.RoundDistance {
	return rounddomain.RoundDistance{
		RoundID:       d.RoundID,
		DistanceIndex: d.DistanceIndex,
		SubTypeID:     d.SubTypeID,
		Distance:      d.Distance,
		IsMetric:      d.IsMetric,
	}
}
