package shoothandlers

import (
	"context"

	"github.com/google/uuid"

	shootservice "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/application"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
)

// FakeService is a programmable shootservice.Service.
type FakeService struct {
	trace []string

	CreateShootFunc             func(ctx context.Context, req shootservice.CreateShootRequest) (shootdomain.Shoot, error)
	GetShootFunc                func(ctx context.Context, shootID uuid.UUID) (shootdomain.Shoot, error)
	ListShootsFunc              func(ctx context.Context, archerID string) ([]shootdomain.Shoot, error)
	DeleteShootFunc             func(ctx context.Context, shootID uuid.UUID) error
	RecordArrowsFunc            func(ctx context.Context, shootID uuid.UUID, arrows []shootdomain.Arrow) (shootservice.RecordResult, error)
	EditArrowFunc               func(ctx context.Context, shootID uuid.UUID, arrowNumber int, arrow shootdomain.Arrow) error
	DeleteLastArrowFunc         func(ctx context.Context, shootID uuid.UUID) (int, error)
	GetScorePadFunc             func(ctx context.Context, shootID uuid.UUID, locale string) (shootservice.ScorePadView, error)
	GetRemainingArrowsFunc      func(ctx context.Context, shootID uuid.UUID) (*shootdomain.RemainingArrows, error)
	ExportWorkbookFunc          func(ctx context.Context, shootID uuid.UUID) ([]byte, error)
	ImportWorkbookFunc          func(ctx context.Context, shootID uuid.UUID, data []byte) (int, error)
	RenderRunningTotalChartFunc func(ctx context.Context, shootID uuid.UUID) ([]byte, error)
	RequestExportFunc           func(ctx context.Context, shootID uuid.UUID) (shootdomain.Export, error)
	GenerateExportFunc          func(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error)
	GetExportFunc               func(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error)
}

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the order of method calls.
func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) CreateShoot(ctx context.Context, req shootservice.CreateShootRequest) (shootdomain.Shoot, error) {
	f.record("CreateShoot")
	if f.CreateShootFunc != nil {
		return f.CreateShootFunc(ctx, req)
	}
	return shootdomain.Shoot{ID: uuid.New(), ArcherID: req.ArcherID}, nil
}

func (f *FakeService) GetShoot(ctx context.Context, shootID uuid.UUID) (shootdomain.Shoot, error) {
	f.record("GetShoot")
	if f.GetShootFunc != nil {
		return f.GetShootFunc(ctx, shootID)
	}
	return shootdomain.Shoot{}, shootservice.ErrShootNotFound
}

func (f *FakeService) ListShoots(ctx context.Context, archerID string) ([]shootdomain.Shoot, error) {
	f.record("ListShoots")
	if f.ListShootsFunc != nil {
		return f.ListShootsFunc(ctx, archerID)
	}
	return nil, nil
}

func (f *FakeService) DeleteShoot(ctx context.Context, shootID uuid.UUID) error {
	f.record("DeleteShoot")
	if f.DeleteShootFunc != nil {
		return f.DeleteShootFunc(ctx, shootID)
	}
	return nil
}

func (f *FakeService) RecordArrows(ctx context.Context, shootID uuid.UUID, arrows []shootdomain.Arrow) (shootservice.RecordResult, error) {
	f.record("RecordArrows")
	if f.RecordArrowsFunc != nil {
		return f.RecordArrowsFunc(ctx, shootID, arrows)
	}
	return shootservice.RecordResult{ShootID: shootID, Recorded: len(arrows), ArrowCount: len(arrows)}, nil
}

func (f *FakeService) EditArrow(ctx context.Context, shootID uuid.UUID, arrowNumber int, arrow shootdomain.Arrow) error {
	f.record("EditArrow")
	if f.EditArrowFunc != nil {
		return f.EditArrowFunc(ctx, shootID, arrowNumber, arrow)
	}
	return nil
}

func (f *FakeService) DeleteLastArrow(ctx context.Context, shootID uuid.UUID) (int, error) {
	f.record("DeleteLastArrow")
	if f.DeleteLastArrowFunc != nil {
		return f.DeleteLastArrowFunc(ctx, shootID)
	}
	return 0, nil
}

func (f *FakeService) GetScorePad(ctx context.Context, shootID uuid.UUID, locale string) (shootservice.ScorePadView, error) {
	f.record("GetScorePad")
	if f.GetScorePadFunc != nil {
		return f.GetScorePadFunc(ctx, shootID, locale)
	}
	return shootservice.ScorePadView{}, shootservice.ErrShootNotFound
}

func (f *FakeService) GetRemainingArrows(ctx context.Context, shootID uuid.UUID) (*shootdomain.RemainingArrows, error) {
	f.record("GetRemainingArrows")
	if f.GetRemainingArrowsFunc != nil {
		return f.GetRemainingArrowsFunc(ctx, shootID)
	}
	return nil, nil
}

func (f *FakeService) ExportWorkbook(ctx context.Context, shootID uuid.UUID) ([]byte, error) {
	f.record("ExportWorkbook")
	if f.ExportWorkbookFunc != nil {
		return f.ExportWorkbookFunc(ctx, shootID)
	}
	return nil, nil
}

func (f *FakeService) ImportWorkbook(ctx context.Context, shootID uuid.UUID, data []byte) (int, error) {
	f.record("ImportWorkbook")
	if f.ImportWorkbookFunc != nil {
		return f.ImportWorkbookFunc(ctx, shootID, data)
	}
	return 0, nil
}

func (f *FakeService) RenderRunningTotalChart(ctx context.Context, shootID uuid.UUID) ([]byte, error) {
	f.record("RenderRunningTotalChart")
	if f.RenderRunningTotalChartFunc != nil {
		return f.RenderRunningTotalChartFunc(ctx, shootID)
	}
	return nil, nil
}

func (f *FakeService) RequestExport(ctx context.Context, shootID uuid.UUID) (shootdomain.Export, error) {
	f.record("RequestExport")
	if f.RequestExportFunc != nil {
		return f.RequestExportFunc(ctx, shootID)
	}
	return shootdomain.Export{ID: uuid.New(), ShootID: shootID, Status: shootdomain.ExportPending}, nil
}

func (f *FakeService) GenerateExport(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error) {
	f.record("GenerateExport")
	if f.GenerateExportFunc != nil {
		return f.GenerateExportFunc(ctx, exportID)
	}
	return shootdomain.Export{}, shootservice.ErrExportNotFound
}

func (f *FakeService) GetExport(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error) {
	f.record("GetExport")
	if f.GetExportFunc != nil {
		return f.GetExportFunc(ctx, exportID)
	}
	return shootdomain.Export{}, shootservice.ErrExportNotFound
}

var _ shootservice.Service = (*FakeService)(nil)
