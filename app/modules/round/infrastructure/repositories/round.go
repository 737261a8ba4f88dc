package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) ListRounds(ctx context.Context, db bun.IDB) ([]*Round, error) {
	db = r.resolveDB(db)
	var rounds []*Round
	if err := db.NewSelect().Model(&rounds).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

func (r *Impl) GetRound(ctx context.Context, db bun.IDB, roundID int64) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().Model(round).Where("id = ?", roundID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round %d: %w", roundID, err)
	}
	return round, nil
}

func (r *Impl) GetRoundByName(ctx context.Context, db bun.IDB, name string) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().Model(round).Where("name = ?", name).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round %q: %w", name, err)
	}
	return round, nil
}

func (r *Impl) GetSubTypes(ctx context.Context, db bun.IDB, roundID int64) ([]*SubType, error) {
	db = r.resolveDB(db)
	var subTypes []*SubType
	err := db.NewSelect().
		Model(&subTypes).
		Where("round_id = ?", roundID).
		Order("sub_type_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sub-types of round %d: %w", roundID, err)
	}
	return subTypes, nil
}

func (r *Impl) GetArrowCounts(ctx context.Context, db bun.IDB, roundID int64) ([]*ArrowCount, error) {
	db = r.resolveDB(db)
	var counts []*ArrowCount
	err := db.NewSelect().
		Model(&counts).
		Where("round_id = ?", roundID).
		Order("distance_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get arrow counts of round %d: %w", roundID, err)
	}
	return counts, nil
}

func (r *Impl) GetDistances(ctx context.Context, db bun.IDB, roundID int64, subTypeID int) ([]*Distance, error) {
	db = r.resolveDB(db)

	exists, err := db.NewSelect().
		Model((*SubType)(nil)).
		Where("round_id = ?", roundID).
		Where("sub_type_id = ?", subTypeID).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check sub-type %d of round %d: %w", subTypeID, roundID, err)
	}
	if !exists {
		return nil, ErrSubTypeNotFound
	}

	var distances []*Distance
	err = db.NewSelect().
		Model(&distances).
		Where("round_id = ?", roundID).
		Where("sub_type_id = ?", subTypeID).
		Order("distance_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get distances of round %d: %w", roundID, err)
	}
	return distances, nil
}

// UpsertRoundDefinition upserts the round row by name, then replaces its sub-types,
// arrow counts and distances.
func (r *Impl) UpsertRoundDefinition(ctx context.Context, db bun.IDB, def rounddomain.RoundDefinition) (*Round, error) {
	db = r.resolveDB(db)
	now := time.Now().UTC()

	row := &Round{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		IsOutdoor:   def.IsOutdoor,
		IsMetric:    def.IsMetric,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (name) DO UPDATE").
		Set("display_name = EXCLUDED.display_name").
		Set("is_outdoor = EXCLUDED.is_outdoor").
		Set("is_metric = EXCLUDED.is_metric").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert round %q: %w", def.Name, err)
	}

	// Re-read so the ID is right whether the row was inserted or updated.
	round, err := r.GetRoundByName(ctx, db, def.Name)
	if err != nil {
		return nil, err
	}

	for _, model := range []any{(*Distance)(nil), (*ArrowCount)(nil), (*SubType)(nil)} {
		if _, err := db.NewDelete().Model(model).Where("round_id = ?", round.ID).Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear children of round %q: %w", def.Name, err)
		}
	}

	counts, subTypes, distances := def.Records(round.ID)

	countRows := make([]*ArrowCount, 0, len(counts))
	for _, c := range counts {
		countRows = append(countRows, &ArrowCount{
			RoundID:       c.RoundID,
			DistanceIndex: c.DistanceIndex,
			ArrowCount:    c.ArrowCount,
			FaceSizeCm:    c.FaceSizeCm,
		})
	}
	subTypeRows := make([]*SubType, 0, len(subTypes))
	for _, st := range subTypes {
		subTypeRows = append(subTypeRows, &SubType{RoundID: st.RoundID, SubTypeID: st.SubTypeID, Name: st.Name})
	}
	distanceRows := make([]*Distance, 0, len(distances))
	for _, d := range distances {
		distanceRows = append(distanceRows, &Distance{
			RoundID:       d.RoundID,
			SubTypeID:     d.SubTypeID,
			DistanceIndex: d.DistanceIndex,
			Distance:      d.Distance,
			IsMetric:      d.IsMetric,
		})
	}

	if len(subTypeRows) > 0 {
		if _, err := db.NewInsert().Model(&subTypeRows).Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to insert sub-types of round %q: %w", def.Name, err)
		}
	}
	if len(countRows) > 0 {
		if _, err := db.NewInsert().Model(&countRows).Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to insert arrow counts of round %q: %w", def.Name, err)
		}
	}
	if len(distanceRows) > 0 {
		if _, err := db.NewInsert().Model(&distanceRows).Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to insert distances of round %q: %w", def.Name, err)
		}
	}

	return round, nil
}
