package shootdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new shoot repository.
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

// CreateShoot inserts a new shoot.
func (r *Impl) CreateShoot(ctx context.Context, db bun.IDB, shoot *Shoot) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(shoot).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create shoot: %w", err)
	}
	return nil
}

// GetShoot retrieves a shoot by ID.
func (r *Impl) GetShoot(ctx context.Context, db bun.IDB, shootID uuid.UUID) (*Shoot, error) {
	db = r.resolveDB(db)
	shoot := new(Shoot)
	err := db.NewSelect().Model(shoot).Where("id = ?", shootID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shoot: %w", err)
	}
	return shoot, nil
}

// ListShoots returns an archer's shoots, most recent first.
func (r *Impl) ListShoots(ctx context.Context, db bun.IDB, archerID string) ([]*Shoot, error) {
	db = r.resolveDB(db)
	var shoots []*Shoot
	err := db.NewSelect().
		Model(&shoots).
		Where("archer_id = ?", archerID).
		Order("shot_at DESC", "created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shoots: %w", err)
	}
	return shoots, nil
}

// DeleteShoot removes a shoot and everything recorded against it.
func (r *Impl) DeleteShoot(ctx context.Context, db bun.IDB, shootID uuid.UUID) error {
	db = r.resolveDB(db)

	if _, err := db.NewDelete().Model((*Arrow)(nil)).Where("shoot_id = ?", shootID).Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete arrows: %w", err)
	}
	if _, err := db.NewDelete().Model((*ScoreSheetExport)(nil)).Where("shoot_id = ?", shootID).Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete exports: %w", err)
	}

	result, err := db.NewDelete().Model((*Shoot)(nil)).Where("id = ?", shootID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete shoot: %w", err)
	}
	return notFoundIfUnaffected(result, ErrNotFound)
}

// GetArrows returns arrows in shot order.
func (r *Impl) GetArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID) ([]*Arrow, error) {
	db = r.resolveDB(db)
	var arrows []*Arrow
	err := db.NewSelect().
		Model(&arrows).
		Where("shoot_id = ?", shootID).
		Order("arrow_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get arrows: %w", err)
	}
	return arrows, nil
}

func (r *Impl) CountArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().Model((*Arrow)(nil)).Where("shoot_id = ?", shootID).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count arrows: %w", err)
	}
	return n, nil
}

// AppendArrows stores arrows numbered from firstNumber. The (shoot_id, arrow_number)
// key rejects a concurrent append that raced for the same numbers.
func (r *Impl) AppendArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID, firstNumber int, arrows []shootdomain.Arrow) error {
	if len(arrows) == 0 {
		return nil
	}
	db = r.resolveDB(db)

	now := time.Now().UTC()
	rows := make([]*Arrow, 0, len(arrows))
	for i, a := range arrows {
		rows = append(rows, &Arrow{
			ShootID:     shootID,
			ArrowNumber: firstNumber + i,
			Score:       a.Score,
			IsX:         a.IsX,
			RecordedAt:  now,
		})
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to append arrows: %w", err)
	}
	return nil
}

func (r *Impl) UpdateArrow(ctx context.Context, db bun.IDB, shootID uuid.UUID, arrowNumber int, arrow shootdomain.Arrow) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Arrow)(nil)).
		Set("score = ?", arrow.Score).
		Set("is_x = ?", arrow.IsX).
		Where("shoot_id = ?", shootID).
		Where("arrow_number = ?", arrowNumber).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update arrow %d: %w", arrowNumber, err)
	}
	return notFoundIfUnaffected(result, ErrArrowNotFound)
}

func (r *Impl) DeleteArrow(ctx context.Context, db bun.IDB, shootID uuid.UUID, arrowNumber int) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Arrow)(nil)).
		Where("shoot_id = ?", shootID).
		Where("arrow_number = ?", arrowNumber).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete arrow %d: %w", arrowNumber, err)
	}
	return notFoundIfUnaffected(result, ErrArrowNotFound)
}

func (r *Impl) CreateExport(ctx context.Context, db bun.IDB, export *ScoreSheetExport) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(export).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create export: %w", err)
	}
	return nil
}

func (r *Impl) GetExport(ctx context.Context, db bun.IDB, exportID uuid.UUID) (*ScoreSheetExport, error) {
	db = r.resolveDB(db)
	export := new(ScoreSheetExport)
	err := db.NewSelect().Model(export).Where("id = ?", exportID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExportNotFound
		}
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	return export, nil
}

func (r *Impl) CompleteExport(ctx context.Context, db bun.IDB, exportID uuid.UUID, content []byte) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	result, err := db.NewUpdate().
		Model((*ScoreSheetExport)(nil)).
		Set("status = ?", ExportCompleted).
		Set("content = ?", content).
		Set("completed_at = ?", now).
		Where("id = ?", exportID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to complete export: %w", err)
	}
	return notFoundIfUnaffected(result, ErrExportNotFound)
}

func (r *Impl) FailExport(ctx context.Context, db bun.IDB, exportID uuid.UUID, reason string) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	result, err := db.NewUpdate().
		Model((*ScoreSheetExport)(nil)).
		Set("status = ?", ExportFailed).
		Set("error = ?", reason).
		Set("completed_at = ?", now).
		Where("id = ?", exportID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark export failed: %w", err)
	}
	return notFoundIfUnaffected(result, ErrExportNotFound)
}

func notFoundIfUnaffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
