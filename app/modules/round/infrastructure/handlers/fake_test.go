package roundhandlers

import (
	"context"

	roundservice "github.com/Black-And-White-Club/archery-scorer/app/modules/round/application"
	"github.com/Black-And-White-Club/archery-scorer/app/modules/round/application/parsers"
	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// FakeService is a programmable roundservice.Service.
type FakeService struct {
	trace []string

	ListRoundsFunc             func(ctx context.Context) ([]rounddomain.Round, error)
	GetRoundFunc               func(ctx context.Context, roundID int64) (rounddomain.Round, error)
	GetRoundStructureFunc      func(ctx context.Context, roundID int64, subTypeID int) (rounddomain.Round, rounddomain.Structure, error)
	ImportCatalogueFunc        func(ctx context.Context, defs []rounddomain.RoundDefinition) (int, error)
	ImportDocumentFunc         func(ctx context.Context, format parsers.Format, data []byte) (int, error)
	EnsureDefaultCatalogueFunc func(ctx context.Context) (int, error)
}

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) ListRounds(ctx context.Context) ([]rounddomain.Round, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) GetRound(ctx context.Context, roundID int64) (rounddomain.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, roundID)
	}
	return rounddomain.Round{}, roundservice.ErrRoundNotFound
}

func (f *FakeService) GetRoundStructure(ctx context.Context, roundID int64, subTypeID int) (rounddomain.Round, rounddomain.Structure, error) {
	f.record("GetRoundStructure")
	if f.GetRoundStructureFunc != nil {
		return f.GetRoundStructureFunc(ctx, roundID, subTypeID)
	}
	return rounddomain.Round{}, rounddomain.Structure{}, roundservice.ErrRoundNotFound
}

func (f *FakeService) ImportCatalogue(ctx context.Context, defs []rounddomain.RoundDefinition) (int, error) {
	f.record("ImportCatalogue")
	if f.ImportCatalogueFunc != nil {
		return f.ImportCatalogueFunc(ctx, defs)
	}
	return len(defs), nil
}

func (f *FakeService) ImportDocument(ctx context.Context, format parsers.Format, data []byte) (int, error) {
	f.record("ImportDocument")
	if f.ImportDocumentFunc != nil {
		return f.ImportDocumentFunc(ctx, format, data)
	}
	return 0, nil
}

func (f *FakeService) EnsureDefaultCatalogue(ctx context.Context) (int, error) {
	f.record("EnsureDefaultCatalogue")
	if f.EnsureDefaultCatalogueFunc != nil {
		return f.EnsureDefaultCatalogueFunc(ctx)
	}
	return 0, nil
}

var _ roundservice.Service = (*FakeService)(nil)
