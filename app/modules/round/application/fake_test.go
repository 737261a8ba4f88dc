package roundservice

import (
	"context"

	"github.com/uptrace/bun"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/repositories"
)

// ------------------------
// Fake Round Repo
// ------------------------

type FakeRoundRepo struct {
	trace []string

	ListRoundsFunc            func(ctx context.Context, db bun.IDB) ([]*rounddb.Round, error)
	GetRoundFunc              func(ctx context.Context, db bun.IDB, roundID int64) (*rounddb.Round, error)
	GetRoundByNameFunc        func(ctx context.Context, db bun.IDB, name string) (*rounddb.Round, error)
	GetSubTypesFunc           func(ctx context.Context, db bun.IDB, roundID int64) ([]*rounddb.SubType, error)
	GetArrowCountsFunc        func(ctx context.Context, db bun.IDB, roundID int64) ([]*rounddb.ArrowCount, error)
	GetDistancesFunc          func(ctx context.Context, db bun.IDB, roundID int64, subTypeID int) ([]*rounddb.Distance, error)
	UpsertRoundDefinitionFunc func(ctx context.Context, db bun.IDB, def rounddomain.RoundDefinition) (*rounddb.Round, error)
}

func NewFakeRoundRepo() *FakeRoundRepo {
	return &FakeRoundRepo{
		trace: []string{},
	}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeRoundRepo) ListRounds(ctx context.Context, db bun.IDB) ([]*rounddb.Round, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeRoundRepo) GetRound(ctx context.Context, db bun.IDB, roundID int64) (*rounddb.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) GetRoundByName(ctx context.Context, db bun.IDB, name string) (*rounddb.Round, error) {
	f.record("GetRoundByName")
	if f.GetRoundByNameFunc != nil {
		return f.GetRoundByNameFunc(ctx, db, name)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) GetSubTypes(ctx context.Context, db bun.IDB, roundID int64) ([]*rounddb.SubType, error) {
	f.record("GetSubTypes")
	if f.GetSubTypesFunc != nil {
		return f.GetSubTypesFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepo) GetArrowCounts(ctx context.Context, db bun.IDB, roundID int64) ([]*rounddb.ArrowCount, error) {
	f.record("GetArrowCounts")
	if f.GetArrowCountsFunc != nil {
		return f.GetArrowCountsFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepo) GetDistances(ctx context.Context, db bun.IDB, roundID int64, subTypeID int) ([]*rounddb.Distance, error) {
	f.record("GetDistances")
	if f.GetDistancesFunc != nil {
		return f.GetDistancesFunc(ctx, db, roundID, subTypeID)
	}
	return nil, rounddb.ErrSubTypeNotFound
}

func (f *FakeRoundRepo) UpsertRoundDefinition(ctx context.Context, db bun.IDB, def rounddomain.RoundDefinition) (*rounddb.Round, error) {
	f.record("UpsertRoundDefinition")
	if f.UpsertRoundDefinitionFunc != nil {
		return f.UpsertRoundDefinitionFunc(ctx, db, def)
	}
	return &rounddb.Round{ID: 1, Name: def.Name, DisplayName: def.DisplayName}, nil
}

var _ rounddb.Repository = (*FakeRoundRepo)(nil)
