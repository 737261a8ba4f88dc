package shootservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	roundservice "github.com/Black-And-White-Club/archery-scorer/app/modules/round/application"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
	shootdb "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/infrastructure/repositories"
	"github.com/Black-And-White-Club/archery-scorer/config"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/metrics"
	"github.com/Black-And-White-Club/archery-scorer/pkg/results"
)

const serviceName = "ShootService"

const defaultEndSize = 6

// ShootService implements the Service interface.
type ShootService struct {
	repo    shootdb.Repository
	rounds  RoundCatalogue
	logger  *slog.Logger
	metrics metrics.ShootMetrics
	tracer  trace.Tracer
	db      *bun.DB
	scoring config.ScoringConfig
	queue   ExportQueue
	clock   Clock
	palette ChartPalette
}

var _ Service = (*ShootService)(nil)

// Option customises a ShootService.
type Option func(*ShootService)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *ShootService) { s.clock = c }
}

// WithChartPalette replaces the chart colours.
func WithChartPalette(p ChartPalette) Option {
	return func(s *ShootService) { s.palette = p }
}

// NewShootService creates a new ShootService.
func NewShootService(
	repo shootdb.Repository,
	rounds RoundCatalogue,
	logger *slog.Logger,
	shootMetrics metrics.ShootMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	scoring config.ScoringConfig,
	opts ...Option,
) *ShootService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ShootService{
		repo:    repo,
		rounds:  rounds,
		logger:  logger,
		metrics: shootMetrics,
		tracer:  tracer,
		db:      db,
		scoring: scoring,
		clock:   realClock{},
		palette: DefaultChartPalette,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetExportQueue binds the queue that runs export jobs. The queue's workers call
// back into the service, so it is bound after construction.
func (s *ShootService) SetExportQueue(q ExportQueue) {
	s.queue = q
}

// -----------------------------------------------------------------------------
// Shoots
// -----------------------------------------------------------------------------

// CreateShoot validates the request, resolves the round and stores the shoot.
func (s *ShootService) CreateShoot(ctx context.Context, req CreateShootRequest) (shootdomain.Shoot, error) {
	result, err := withTelemetry(s, ctx, "CreateShoot", req.ArcherID, func(ctx context.Context) (results.OperationResult[shootdomain.Shoot, error], error) {
		shoot, failure, err := s.prepareShoot(ctx, req)
		if err != nil || failure != nil {
			return results.OperationResult[shootdomain.Shoot, error]{Failure: failure}, err
		}
		if err := s.repo.CreateShoot(ctx, nil, shootdb.ShootFromDomain(shoot)); err != nil {
			return results.OperationResult[shootdomain.Shoot, error]{}, err
		}
		return results.SuccessResult[shootdomain.Shoot, error](shoot), nil
	})
	if err != nil {
		return shootdomain.Shoot{}, err
	}
	if result.IsFailure() {
		return shootdomain.Shoot{}, *result.Failure
	}
	return *result.Success, nil
}

// prepareShoot returns either a shoot ready to store, a domain failure or an error.
func (s *ShootService) prepareShoot(ctx context.Context, req CreateShootRequest) (shootdomain.Shoot, *error, error) {
	fail := func(format string, args ...any) (shootdomain.Shoot, *error, error) {
		err := fmt.Errorf("%w: "+format, append([]any{ErrInvalidShoot}, args...)...)
		return shootdomain.Shoot{}, &err, nil
	}

	if req.ArcherID == "" {
		return fail("archer is required")
	}
	if req.EndSize < 0 {
		return fail("end size must be positive, got %d", req.EndSize)
	}
	endSize := req.EndSize
	if endSize == 0 {
		endSize = s.scoring.EndSize
	}
	if endSize <= 0 {
		endSize = defaultEndSize
	}

	now := s.clock.Now()
	shotAt, err := parseShotAt(req.ShotAt, now)
	if err != nil {
		return fail("%v", err)
	}

	shoot := shootdomain.Shoot{
		ID:        uuid.New(),
		ArcherID:  req.ArcherID,
		EndSize:   endSize,
		Notes:     req.Notes,
		ShotAt:    shotAt,
		CreatedAt: now.UTC(),
		Golds:     shootdomain.NinesUp,
	}

	if req.RoundID != nil {
		round, structure, err := s.rounds.GetRoundStructure(ctx, *req.RoundID, req.SubTypeID)
		if err != nil {
			if errors.Is(err, roundservice.ErrRoundNotFound) || errors.Is(err, roundservice.ErrSubTypeNotFound) {
				failure := fmt.Errorf("%w: %w", ErrUnknownRound, err)
				return shootdomain.Shoot{}, &failure, nil
			}
			return shootdomain.Shoot{}, nil, fmt.Errorf("failed to resolve round: %w", err)
		}
		roundID := round.ID
		shoot.RoundID = &roundID
		shoot.SubTypeID = structure.SubTypeID
		if shoot.SubTypeID == 0 {
			shoot.SubTypeID = 1
		}
		shoot.Golds = shootdomain.GoldsTypeForRound(&round)
	}

	if req.Golds != "" {
		golds, err := shootdomain.ParseGoldsType(req.Golds)
		if err != nil {
			return fail("%v", err)
		}
		shoot.Golds = golds
	}

	return shoot, nil, nil
}

// GetShoot retrieves a shoot by ID.
func (s *ShootService) GetShoot(ctx context.Context, shootID uuid.UUID) (shootdomain.Shoot, error) {
	result, err := withTelemetry(s, ctx, "GetShoot", shootID.String(), func(ctx context.Context) (results.OperationResult[shootdomain.Shoot, error], error) {
		return s.getShootLogic(ctx, nil, shootID)
	})
	if err != nil {
		return shootdomain.Shoot{}, err
	}
	if result.IsFailure() {
		return shootdomain.Shoot{}, *result.Failure
	}
	return *result.Success, nil
}

func (s *ShootService) getShootLogic(ctx context.Context, db bun.IDB, shootID uuid.UUID) (results.OperationResult[shootdomain.Shoot, error], error) {
	row, err := s.repo.GetShoot(ctx, db, shootID)
	if err != nil {
		if errors.Is(err, shootdb.ErrNotFound) {
			return results.FailureResult[shootdomain.Shoot, error](fmt.Errorf("%w: %s", ErrShootNotFound, shootID)), nil
		}
		return results.OperationResult[shootdomain.Shoot, error]{}, fmt.Errorf("failed to get shoot: %w", err)
	}
	return results.SuccessResult[shootdomain.Shoot, error](row.ToDomain()), nil
}

// ListShoots returns an archer's shoots, most recent first.
func (s *ShootService) ListShoots(ctx context.Context, archerID string) ([]shootdomain.Shoot, error) {
	result, err := withTelemetry(s, ctx, "ListShoots", archerID, func(ctx context.Context) (results.OperationResult[[]shootdomain.Shoot, error], error) {
		rows, err := s.repo.ListShoots(ctx, nil, archerID)
		if err != nil {
			return results.OperationResult[[]shootdomain.Shoot, error]{}, err
		}
		shoots := make([]shootdomain.Shoot, 0, len(rows))
		for _, row := range rows {
			shoots = append(shoots, row.ToDomain())
		}
		return results.SuccessResult[[]shootdomain.Shoot, error](shoots), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// DeleteShoot removes a shoot with its arrows and exports.
func (s *ShootService) DeleteShoot(ctx context.Context, shootID uuid.UUID) error {
	deleteTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		if err := s.repo.DeleteShoot(ctx, db, shootID); err != nil {
			if errors.Is(err, shootdb.ErrNotFound) {
				return results.FailureResult[bool, error](fmt.Errorf("%w: %s", ErrShootNotFound, shootID)), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	}

	result, err := withTelemetry(s, ctx, "DeleteShoot", shootID.String(), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return runInTx(s, ctx, deleteTx)
	})
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return *result.Failure
	}
	return nil
}

// loadState reads a shoot and resolves its round. It must run outside a write
// transaction: the round catalogue opens its own.
func (s *ShootService) loadState(ctx context.Context, shootID uuid.UUID) (results.OperationResult[shootState, error], error) {
	shootResult, err := s.getShootLogic(ctx, nil, shootID)
	if err != nil || shootResult.IsFailure() {
		return results.OperationResult[shootState, error]{Failure: shootResult.Failure}, err
	}
	state := shootState{shoot: *shootResult.Success}

	if state.shoot.RoundID == nil {
		return results.SuccessResult[shootState, error](state), nil
	}

	round, structure, err := s.rounds.GetRoundStructure(ctx, *state.shoot.RoundID, state.shoot.SubTypeID)
	if err != nil {
		if errors.Is(err, roundservice.ErrRoundNotFound) || errors.Is(err, roundservice.ErrSubTypeNotFound) {
			return results.FailureResult[shootState, error](fmt.Errorf("%w: %w", ErrUnknownRound, err)), nil
		}
		return results.OperationResult[shootState, error]{}, fmt.Errorf("failed to resolve round: %w", err)
	}
	state.round = &round
	state.structure = &structure
	return results.SuccessResult[shootState, error](state), nil
}

func (s *ShootService) loadArrows(ctx context.Context, db bun.IDB, shootID uuid.UUID) ([]shootdomain.Arrow, error) {
	rows, err := s.repo.GetArrows(ctx, db, shootID)
	if err != nil {
		return nil, err
	}
	arrows := make([]shootdomain.Arrow, 0, len(rows))
	for _, row := range rows {
		arrows = append(arrows, row.ToDomain())
	}
	return arrows, nil
}

// -----------------------------------------------------------------------------
// Arrows
// -----------------------------------------------------------------------------

// RecordArrows appends arrows after the last recorded one.
func (s *ShootService) RecordArrows(ctx context.Context, shootID uuid.UUID, arrows []shootdomain.Arrow) (RecordResult, error) {
	result, err := withTelemetry(s, ctx, "RecordArrows", shootID.String(), func(ctx context.Context) (results.OperationResult[RecordResult, error], error) {
		return s.recordArrowsLogic(ctx, shootID, arrows)
	})
	if err != nil {
		return RecordResult{}, err
	}
	if result.IsFailure() {
		return RecordResult{}, *result.Failure
	}

	record := *result.Success
	if s.metrics != nil {
		s.metrics.RecordArrowsRecorded(ctx, record.Recorded)
		if record.JustCompleted && record.Round != nil {
			s.metrics.RecordRoundCompleted(ctx, record.Round.Name)
		}
	}
	return record, nil
}

func (s *ShootService) recordArrowsLogic(ctx context.Context, shootID uuid.UUID, arrows []shootdomain.Arrow) (results.OperationResult[RecordResult, error], error) {
	if len(arrows) == 0 {
		return results.FailureResult[RecordResult, error](fmt.Errorf("%w: no arrows", ErrInvalidArrows)), nil
	}
	if err := shootdomain.ValidateArrows(arrows); err != nil {
		return results.FailureResult[RecordResult, error](fmt.Errorf("%w: %w", ErrInvalidArrows, err)), nil
	}

	stateResult, err := s.loadState(ctx, shootID)
	if err != nil || stateResult.IsFailure() {
		return results.OperationResult[RecordResult, error]{Failure: stateResult.Failure}, err
	}
	state := *stateResult.Success

	appendTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[RecordResult, error], error) {
		before, err := s.repo.CountArrows(ctx, db, shootID)
		if err != nil {
			return results.OperationResult[RecordResult, error]{}, err
		}
		if err := s.repo.AppendArrows(ctx, db, shootID, before+1, arrows); err != nil {
			return results.OperationResult[RecordResult, error]{}, err
		}
		all, err := s.loadArrows(ctx, db, shootID)
		if err != nil {
			return results.OperationResult[RecordResult, error]{}, err
		}

		record := RecordResult{
			ShootID:    shootID,
			ArcherID:   state.shoot.ArcherID,
			Recorded:   len(arrows),
			ArrowCount: len(all),
			Totals:     shootdomain.TotalsOf(all, state.shoot.Golds),
			Round:      state.round,
		}
		if state.structure != nil {
			remaining, err := shootdomain.RemainingArrowsFor(len(all), *state.structure)
			if err != nil {
				return results.OperationResult[RecordResult, error]{}, err
			}
			record.Remaining = remaining
			if capacity := state.totalArrows(); capacity > 0 {
				record.RoundComplete = len(all) >= capacity
				record.JustCompleted = record.RoundComplete && before < capacity
			}
		}
		return results.SuccessResult[RecordResult, error](record), nil
	}

	return runInTx(s, ctx, appendTx)
}

// EditArrow replaces one recorded arrow.
func (s *ShootService) EditArrow(ctx context.Context, shootID uuid.UUID, arrowNumber int, arrow shootdomain.Arrow) error {
	identifier := fmt.Sprintf("%s/%d", shootID, arrowNumber)
	result, err := withTelemetry(s, ctx, "EditArrow", identifier, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if err := arrow.Validate(); err != nil {
			return results.FailureResult[bool, error](fmt.Errorf("%w: %w", ErrInvalidArrows, err)), nil
		}
		if arrowNumber < 1 {
			return results.FailureResult[bool, error](fmt.Errorf("%w: arrow number must be positive, got %d", ErrInvalidArrows, arrowNumber)), nil
		}
		shootResult, err := s.getShootLogic(ctx, nil, shootID)
		if err != nil || shootResult.IsFailure() {
			return results.OperationResult[bool, error]{Failure: shootResult.Failure}, err
		}
		if err := s.repo.UpdateArrow(ctx, nil, shootID, arrowNumber, arrow); err != nil {
			if errors.Is(err, shootdb.ErrArrowNotFound) {
				return results.FailureResult[bool, error](fmt.Errorf("%w: %d", ErrArrowNotFound, arrowNumber)), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return *result.Failure
	}
	return nil
}

// DeleteLastArrow removes the most recent arrow.
func (s *ShootService) DeleteLastArrow(ctx context.Context, shootID uuid.UUID) (int, error) {
	deleteTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
		shootResult, err := s.getShootLogic(ctx, db, shootID)
		if err != nil || shootResult.IsFailure() {
			return results.OperationResult[int, error]{Failure: shootResult.Failure}, err
		}
		count, err := s.repo.CountArrows(ctx, db, shootID)
		if err != nil {
			return results.OperationResult[int, error]{}, err
		}
		if count == 0 {
			return results.FailureResult[int, error](ErrNoArrows), nil
		}
		if err := s.repo.DeleteArrow(ctx, db, shootID, count); err != nil {
			return results.OperationResult[int, error]{}, err
		}
		return results.SuccessResult[int, error](count - 1), nil
	}

	result, err := withTelemetry(s, ctx, "DeleteLastArrow", shootID.String(), func(ctx context.Context) (results.OperationResult[int, error], error) {
		return runInTx(s, ctx, deleteTx)
	})
	if err != nil {
		return 0, err
	}
	if result.IsFailure() {
		return 0, *result.Failure
	}
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Score pad
// -----------------------------------------------------------------------------

type scorePadResult struct {
	state  shootState
	arrows []shootdomain.Arrow
	rows   []shootdomain.Row
}

// computeScorePad runs the engine over the stored arrows.
func (s *ShootService) computeScorePad(ctx context.Context, shootID uuid.UUID) (results.OperationResult[scorePadResult, error], error) {
	stateResult, err := s.loadState(ctx, shootID)
	if err != nil || stateResult.IsFailure() {
		return results.OperationResult[scorePadResult, error]{Failure: stateResult.Failure}, err
	}
	state := *stateResult.Success

	arrows, err := s.loadArrows(ctx, nil, shootID)
	if err != nil {
		return results.OperationResult[scorePadResult, error]{}, err
	}
	rows, err := shootdomain.ScorePad(arrows, state.shoot.EndSize, state.structure, state.shoot.Golds)
	if err != nil {
		return results.OperationResult[scorePadResult, error]{}, fmt.Errorf("failed to build score pad: %w", err)
	}
	return results.SuccessResult[scorePadResult, error](scorePadResult{state: state, arrows: arrows, rows: rows}), nil
}

func (s *ShootService) scorePadView(pad scorePadResult, locale string) ScorePadView {
	view := RenderScorePad(pad.rows, s.scoring, locale)
	view.Shoot = pad.state.shoot
	view.Round = pad.state.round
	return view
}

// GetScorePad renders the score pad of a shoot.
func (s *ShootService) GetScorePad(ctx context.Context, shootID uuid.UUID, locale string) (ScorePadView, error) {
	if locale == "" {
		locale = s.scoring.Locale
	}
	result, err := withTelemetry(s, ctx, "GetScorePad", shootID.String(), func(ctx context.Context) (results.OperationResult[ScorePadView, error], error) {
		padResult, err := s.computeScorePad(ctx, shootID)
		if err != nil || padResult.IsFailure() {
			return results.OperationResult[ScorePadView, error]{Failure: padResult.Failure}, err
		}
		return results.SuccessResult[ScorePadView, error](s.scorePadView(*padResult.Success, locale)), nil
	})
	if err != nil {
		return ScorePadView{}, err
	}
	if result.IsFailure() {
		return ScorePadView{}, *result.Failure
	}
	return *result.Success, nil
}

// GetRemainingArrows reports the arrows left in the shoot's round.
func (s *ShootService) GetRemainingArrows(ctx context.Context, shootID uuid.UUID) (*shootdomain.RemainingArrows, error) {
	result, err := withTelemetry(s, ctx, "GetRemainingArrows", shootID.String(), func(ctx context.Context) (results.OperationResult[*shootdomain.RemainingArrows, error], error) {
		stateResult, err := s.loadState(ctx, shootID)
		if err != nil || stateResult.IsFailure() {
			return results.OperationResult[*shootdomain.RemainingArrows, error]{Failure: stateResult.Failure}, err
		}
		state := *stateResult.Success
		if state.structure == nil {
			return results.SuccessResult[*shootdomain.RemainingArrows, error](nil), nil
		}
		count, err := s.repo.CountArrows(ctx, nil, shootID)
		if err != nil {
			return results.OperationResult[*shootdomain.RemainingArrows, error]{}, err
		}
		remaining, err := shootdomain.RemainingArrowsFor(count, *state.structure)
		if err != nil {
			return results.OperationResult[*shootdomain.RemainingArrows, error]{}, err
		}
		return results.SuccessResult[*shootdomain.RemainingArrows, error](remaining), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Workbooks and charts
// -----------------------------------------------------------------------------

func shootTitle(state shootState) string {
	if state.round != nil {
		return state.round.Label()
	}
	return "Practice"
}

func (s *ShootService) workbookFor(pad scorePadResult) ([]byte, error) {
	view := s.scorePadView(pad, s.scoring.Locale)
	return buildWorkbook(shootTitle(pad.state), pad.state.shoot.ShotAt, view.Rows, pad.state.shoot.EndSize)
}

// ExportWorkbook renders the score pad as an XLSX score sheet.
func (s *ShootService) ExportWorkbook(ctx context.Context, shootID uuid.UUID) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "ExportWorkbook", shootID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		padResult, err := s.computeScorePad(ctx, shootID)
		if err != nil || padResult.IsFailure() {
			return results.OperationResult[[]byte, error]{Failure: padResult.Failure}, err
		}
		data, err := s.workbookFor(*padResult.Success)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	if s.metrics != nil {
		s.metrics.RecordExportGenerated(ctx, shootdomain.ExportFormatXLSX)
	}
	return *result.Success, nil
}

// ImportWorkbook parses a score sheet and appends its arrows.
func (s *ShootService) ImportWorkbook(ctx context.Context, shootID uuid.UUID, data []byte) (int, error) {
	arrows, err := parseWorkbook(data, formatterFor(s.scoring, nil))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	if len(arrows) == 0 {
		return 0, fmt.Errorf("%w: no arrows found", ErrInvalidWorkbook)
	}
	record, err := s.RecordArrows(ctx, shootID, arrows)
	if err != nil {
		return 0, err
	}
	return record.Recorded, nil
}

// RenderRunningTotalChart draws the running total per end.
func (s *ShootService) RenderRunningTotalChart(ctx context.Context, shootID uuid.UUID) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "RenderRunningTotalChart", shootID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		padResult, err := s.computeScorePad(ctx, shootID)
		if err != nil || padResult.IsFailure() {
			return results.OperationResult[[]byte, error]{Failure: padResult.Failure}, err
		}
		pad := *padResult.Success
		png, err := renderRunningTotalChart(shootTitle(pad.state), pad.rows, s.palette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Asynchronous exports
// -----------------------------------------------------------------------------

// RequestExport stores a pending export and queues it.
func (s *ShootService) RequestExport(ctx context.Context, shootID uuid.UUID) (shootdomain.Export, error) {
	result, err := withTelemetry(s, ctx, "RequestExport", shootID.String(), func(ctx context.Context) (results.OperationResult[shootdomain.Export, error], error) {
		if s.queue == nil {
			return results.OperationResult[shootdomain.Export, error]{}, errors.New("no export queue configured")
		}
		shootResult, err := s.getShootLogic(ctx, nil, shootID)
		if err != nil || shootResult.IsFailure() {
			return results.OperationResult[shootdomain.Export, error]{Failure: shootResult.Failure}, err
		}

		row := &shootdb.ScoreSheetExport{
			ID:          uuid.New(),
			ShootID:     shootID,
			Status:      shootdomain.ExportPending,
			Format:      shootdomain.ExportFormatXLSX,
			RequestedAt: s.clock.Now().UTC(),
		}
		if err := s.repo.CreateExport(ctx, nil, row); err != nil {
			return results.OperationResult[shootdomain.Export, error]{}, err
		}
		if err := s.queue.EnqueueExport(ctx, shootID, row.ID); err != nil {
			return results.OperationResult[shootdomain.Export, error]{}, fmt.Errorf("failed to queue export: %w", err)
		}
		return results.SuccessResult[shootdomain.Export, error](row.ToDomain()), nil
	})
	if err != nil {
		return shootdomain.Export{}, err
	}
	if result.IsFailure() {
		return shootdomain.Export{}, *result.Failure
	}
	return *result.Success, nil
}

// GenerateExport builds the workbook of an export and stores it. A shoot that
// can no longer be rendered marks the export failed and is reported as a failure.
func (s *ShootService) GenerateExport(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error) {
	result, err := withTelemetry(s, ctx, "GenerateExport", exportID.String(), func(ctx context.Context) (results.OperationResult[shootdomain.Export, error], error) {
		exportResult, err := s.getExportLogic(ctx, exportID)
		if err != nil || exportResult.IsFailure() {
			return results.OperationResult[shootdomain.Export, error]{Failure: exportResult.Failure}, err
		}
		export := *exportResult.Success
		if export.Status == shootdomain.ExportCompleted {
			return results.SuccessResult[shootdomain.Export, error](export), nil
		}

		padResult, err := s.computeScorePad(ctx, export.ShootID)
		if err != nil {
			return results.OperationResult[shootdomain.Export, error]{}, err
		}
		if padResult.IsFailure() {
			reason := (*padResult.Failure).Error()
			if err := s.repo.FailExport(ctx, nil, exportID, reason); err != nil {
				return results.OperationResult[shootdomain.Export, error]{}, err
			}
			return results.FailureResult[shootdomain.Export, error](*padResult.Failure), nil
		}

		data, err := s.workbookFor(*padResult.Success)
		if err != nil {
			return results.OperationResult[shootdomain.Export, error]{}, err
		}
		if err := s.repo.CompleteExport(ctx, nil, exportID, data); err != nil {
			return results.OperationResult[shootdomain.Export, error]{}, err
		}

		completedAt := s.clock.Now().UTC()
		export.Status = shootdomain.ExportCompleted
		export.Content = data
		export.CompletedAt = &completedAt
		return results.SuccessResult[shootdomain.Export, error](export), nil
	})
	if err != nil {
		return shootdomain.Export{}, err
	}
	if result.IsFailure() {
		return shootdomain.Export{}, *result.Failure
	}
	if s.metrics != nil {
		s.metrics.RecordExportGenerated(ctx, result.Success.Format)
	}
	return *result.Success, nil
}

// GetExport retrieves an export by ID.
func (s *ShootService) GetExport(ctx context.Context, exportID uuid.UUID) (shootdomain.Export, error) {
	result, err := withTelemetry(s, ctx, "GetExport", exportID.String(), func(ctx context.Context) (results.OperationResult[shootdomain.Export, error], error) {
		return s.getExportLogic(ctx, exportID)
	})
	if err != nil {
		return shootdomain.Export{}, err
	}
	if result.IsFailure() {
		return shootdomain.Export{}, *result.Failure
	}
	return *result.Success, nil
}

func (s *ShootService) getExportLogic(ctx context.Context, exportID uuid.UUID) (results.OperationResult[shootdomain.Export, error], error) {
	row, err := s.repo.GetExport(ctx, nil, exportID)
	if err != nil {
		if errors.Is(err, shootdb.ErrExportNotFound) {
			return results.FailureResult[shootdomain.Export, error](fmt.Errorf("%w: %s", ErrExportNotFound, exportID)), nil
		}
		return results.OperationResult[shootdomain.Export, error]{}, fmt.Errorf("failed to get export: %w", err)
	}
	return results.SuccessResult[shootdomain.Export, error](row.ToDomain()), nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ShootService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *ShootService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
