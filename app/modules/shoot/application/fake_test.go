package shootservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
	shootdb "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/repositories"
)

// ------------------------
// Fake Shoot Repo
// ------------------------

type FakeShootRepo struct {
	trace []string

	CreateShootFunc    func(ctx context.Context, db bun.IDB, shoot *shootdb.Shoot) error
	GetShootFunc       func(ctx context.Context, db bun.IDB, shootID uuid.UUID) (*shootdb.Shoot, error)
	ListShootsFunc     func(ctx context.Context, db bun.IDB, archerID string) ([]*shootdb.Shoot, error)
	DeleteShootFunc    func(ctx context.Context, db bun.IDB, shootID uuid.UUID) error
	GetArrowsFunc      func(ctx context.Context, db bun.IDB, shootID uuid.UUID) ([]*shootdb.Arrow, error)
	CountArrowsFunc    func(ctx context.Context, db bun.IDB, shootID uuid.UUID) (int, error)
	AppendArrowsFunc   func(ctx context.Context, db bun.IDB, shootID uuid.UUID, firstNumber int, arrows []shootdomain.Arrow) error
	UpdateArrowFunc    func(ctx context.Context, db bun.IDB, shootID uuid.UUID, arrowNumber int, arrow shootdomain.Arrow) error
	DeleteArrowFunc    func(ctx context.Context, db bun.IDB, shootID uuid.UUID, arrowNumber int) error
	CreateExportFunc   func(ctx context.Context, db bun.IDB, export *shootdb.ScoreSheetExport) error
	GetExportFunc      func(ctx context.Context, db bun.IDB, exportID uuid.UUID) (*shootdb.ScoreSheetExport, error)
	CompleteExportFunc func(ctx context.Context, db bun.IDB, exportID uuid.UUID, content []byte) error
	FailExportFunc     func(ctx context.Context, db bun.IDB, exportID uuid.UUID, reason string) error
}

func NewFakeShootRepo() *FakeShootRepo {
	return &FakeShootRepo{
		trace: []string{},
	}
}

func (f *FakeShootRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeShootRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeShootRepo) CreateShoot(ctx context.Context, db bun.IDB, shoot *shootdb.Shoot) error {
	f.record("CreateShoot")
	if f.CreateShootFunc != nil {
		return f.CreateShootFunc(ctx, db, shoot)
	}
	return nil
}

func (f *FakeShootRepo) GetShoot(ctx context.Context, db bun.IDB, shootID uuid.UUID) (*shootdb.Shoot, error) {
	f.record("GetShoot")
	if f.GetShootFunc != nil {
		return f.GetShootFunc(ctx, db, shootID)
	}
	return nil, shootdb.ErrNotFound
}

func (f *FakeShootRepo) ListShoots(ctx context.Context, db bun.IDB, archerID string) ([]*shootdb.Shoot, error) {
	f.record("ListShoots")
	if f.ListShootsFunc != nil {
		return f.ListShootsFunc(ctx, db, archerID)
	}
	return nil, nil
}

func (f *FakeShootRepo) DeleteShoot(ctx context.Context, db bun.IDB, shootID uuid.UUID) error {
	f.record("DeleteShoot")
	if f.DeleteShootFunc != nil {
		return f.DeleteShootFunc(ctx, db, shootID)
	}
	return nil
}

func (f *FakeShootRepo) GetArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID) ([]*shootdb.Arrow, error) {
	f.record("GetArrows")
	if f.GetArrowsFunc != nil {
		return f.GetArrowsFunc(ctx, db, shootID)
	}
	return nil, nil
}

func (f *FakeShootRepo) CountArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID) (int, error) {
	f.record("CountArrows")
	if f.CountArrowsFunc != nil {
		return f.CountArrowsFunc(ctx, db, shootID)
	}
	return 0, nil
}

func (f *FakeShootRepo) AppendArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID, firstNumber int, arrows []shootdomain.Arrow) error {
	f.record("AppendArrows")
	if f.AppendArrowsFunc != nil {
		return f.AppendArrowsFunc(ctx, db, shootID, firstNumber, arrows)
	}
	return nil
}

func (f *FakeShootRepo) UpdateArrow(ctx context.Context, db bun.IDB, shootID uuid.UUID, arrowNumber int, arrow shootdomain.Arrow) error {
	f.record("UpdateArrow")
	if f.UpdateArrowFunc != nil {
		return f.UpdateArrowFunc(ctx, db, shootID, arrowNumber, arrow)
	}
	return nil
}

func (f *FakeShootRepo) DeleteArrow(ctx context.Context, db bun.IDB, shootID uuid.UUID, arrowNumber int) error {
	f.record("DeleteArrow")
	if f.DeleteArrowFunc != nil {
		return f.DeleteArrowFunc(ctx, db, shootID, arrowNumber)
	}
	return nil
}

func (f *FakeShootRepo) CreateExport(ctx context.Context, db bun.IDB, export *shootdb.ScoreSheetExport) error {
	f.record("CreateExport")
	if f.CreateExportFunc != nil {
		return f.CreateExportFunc(ctx, db, export)
	}
	return nil
}

func (f *FakeShootRepo) GetExport(ctx context.Context, db bun.IDB, exportID uuid.UUID) (*shootdb.ScoreSheetExport, error) {
	f.record("GetExport")
	if f.GetExportFunc != nil {
		return f.GetExportFunc(ctx, db, exportID)
	}
	return nil, shootdb.ErrExportNotFound
}

func (f *FakeShootRepo) CompleteExport(ctx context.Context, db bun.IDB, exportID uuid.UUID, content []byte) error {
	f.record("CompleteExport")
	if f.CompleteExportFunc != nil {
		return f.CompleteExportFunc(ctx, db, exportID, content)
	}
	return nil
}

func (f *FakeShootRepo) FailExport(ctx context.Context, db bun.IDB, exportID uuid.UUID, reason string) error {
	f.record("FailExport")
	if f.FailExportFunc != nil {
		return f.FailExportFunc(ctx, db, exportID, reason)
	}
	return nil
}

var _ shootdb.Repository = (*FakeShootRepo)(nil)

// ------------------------
// Fake Round Catalogue
// ------------------------

type FakeRoundCatalogue struct {
	trace []string

	GetRoundStructureFunc func(ctx context.Context, roundID int64, subTypeID int) (rounddomain.Round, rounddomain.Structure, error)
}

func (f *FakeRoundCatalogue) GetRoundStructure(ctx context.Context, roundID int64, subTypeID int) (rounddomain.Round, rounddomain.Structure, error) {
	f.trace = append(f.trace, "GetRoundStructure")
	if f.GetRoundStructureFunc != nil {
		return f.GetRoundStructureFunc(ctx, roundID, subTypeID)
	}
	return rounddomain.Round{}, rounddomain.Structure{}, nil
}

func (f *FakeRoundCatalogue) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Export Queue
// ------------------------

type FakeExportQueue struct {
	Enqueued [][2]uuid.UUID

	EnqueueExportFunc func(ctx context.Context, shootID, exportID uuid.UUID) error
}

func (f *FakeExportQueue) EnqueueExport(ctx context.Context, shootID, exportID uuid.UUID) error {
	f.Enqueued = append(f.Enqueued, [2]uuid.UUID{shootID, exportID})
	if f.EnqueueExportFunc != nil {
		return f.EnqueueExportFunc(ctx, shootID, exportID)
	}
	return nil
}

// ------------------------
// Fixed Clock
// ------------------------

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
