package roundservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/archery-scorer/app/modules/round/application/parsers"
	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/metrics"
	"github.com/Black-And-White-Club/archery-scorer/pkg/results"
)

const serviceName = "RoundService"

// RoundService implements the Service interface.
type RoundService struct {
	repo    rounddb.Repository
	logger  *slog.Logger
	metrics metrics.RoundMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

var _ Service = (*RoundService)(nil)

// NewRoundService creates a new RoundService.
func NewRoundService(
	repo rounddb.Repository,
	logger *slog.Logger,
	roundMetrics metrics.RoundMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RoundService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoundService{
		repo:    repo,
		logger:  logger,
		metrics: roundMetrics,
		tracer:  tracer,
		db:      db,
	}
}

type structureResult struct {
	round     rounddomain.Round
	structure rounddomain.Structure
}

// ListRounds returns the whole catalogue ordered by name.
func (s *RoundService) ListRounds(ctx context.Context) ([]rounddomain.Round, error) {
	result, err := withTelemetry(s, ctx, "ListRounds", "all", func(ctx context.Context) (results.OperationResult[[]rounddomain.Round, error], error) {
		rows, err := s.repo.ListRounds(ctx, nil)
		if err != nil {
			return results.OperationResult[[]rounddomain.Round, error]{}, err
		}
		rounds := make([]rounddomain.Round, 0, len(rows))
		for _, row := range rows {
			rounds = append(rounds, row.ToDomain())
		}
		return results.SuccessResult[[]rounddomain.Round, error](rounds), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// GetRound retrieves round metadata by ID.
func (s *RoundService) GetRound(ctx context.Context, roundID int64) (rounddomain.Round, error) {
	result, err := withTelemetry(s, ctx, "GetRound", strconv.FormatInt(roundID, 10), func(ctx context.Context) (results.OperationResult[rounddomain.Round, error], error) {
		return s.getRoundLogic(ctx, nil, roundID)
	})
	if err != nil {
		return rounddomain.Round{}, err
	}
	if result.IsFailure() {
		return rounddomain.Round{}, *result.Failure
	}
	return *result.Success, nil
}

func (s *RoundService) getRoundLogic(ctx context.Context, db bun.IDB, roundID int64) (results.OperationResult[rounddomain.Round, error], error) {
	row, err := s.repo.GetRound(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return results.FailureResult[rounddomain.Round, error](fmt.Errorf("%w: %d", ErrRoundNotFound, roundID)), nil
		}
		return results.OperationResult[rounddomain.Round, error]{}, fmt.Errorf("failed to get round: %w", err)
	}
	return results.SuccessResult[rounddomain.Round, error](row.ToDomain()), nil
}

// GetRoundStructure loads a round and builds the structure of one sub-type.
func (s *RoundService) GetRoundStructure(ctx context.Context, roundID int64, subTypeID int) (rounddomain.Round, rounddomain.Structure, error) {
	identifier := fmt.Sprintf("%d/%d", roundID, subTypeID)
	structureTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[structureResult, error], error) {
		return s.getRoundStructureLogic(ctx, db, roundID, subTypeID)
	}

	result, err := withTelemetry(s, ctx, "GetRoundStructure", identifier, func(ctx context.Context) (results.OperationResult[structureResult, error], error) {
		return runInTx(s, ctx, structureTx)
	})
	if err != nil {
		return rounddomain.Round{}, rounddomain.Structure{}, err
	}
	if result.IsFailure() {
		return rounddomain.Round{}, rounddomain.Structure{}, *result.Failure
	}
	return result.Success.round, result.Success.structure, nil
}

func (s *RoundService) getRoundStructureLogic(ctx context.Context, db bun.IDB, roundID int64, subTypeID int) (results.OperationResult[structureResult, error], error) {
	if subTypeID == 0 {
		subTypeID = 1
	}

	roundResult, err := s.getRoundLogic(ctx, db, roundID)
	if err != nil || roundResult.IsFailure() {
		return results.OperationResult[structureResult, error]{Failure: roundResult.Failure}, err
	}
	round := *roundResult.Success

	distanceRows, err := s.repo.GetDistances(ctx, db, roundID, subTypeID)
	if err != nil {
		if errors.Is(err, rounddb.ErrSubTypeNotFound) {
			return results.FailureResult[structureResult, error](fmt.Errorf("%w: round %d sub-type %d", ErrSubTypeNotFound, roundID, subTypeID)), nil
		}
		return results.OperationResult[structureResult, error]{}, fmt.Errorf("failed to get distances: %w", err)
	}
	countRows, err := s.repo.GetArrowCounts(ctx, db, roundID)
	if err != nil {
		return results.OperationResult[structureResult, error]{}, fmt.Errorf("failed to get arrow counts: %w", err)
	}

	counts := make([]rounddomain.RoundArrowCount, 0, len(countRows))
	for _, c := range countRows {
		counts = append(counts, c.ToDomain())
	}
	distances := make([]rounddomain.RoundDistance, 0, len(distanceRows))
	for _, d := range distanceRows {
		distances = append(distances, d.ToDomain())
	}

	// Stored rows that fail validation are reported as errors, not failures.
	structure, err := rounddomain.StructureFromRows(counts, distances)
	if err != nil {
		return results.OperationResult[structureResult, error]{}, fmt.Errorf("round %d sub-type %d: %w", roundID, subTypeID, err)
	}

	return results.SuccessResult[structureResult, error](structureResult{round: round, structure: structure}), nil
}

// ImportCatalogue validates and upserts round definitions.
func (s *RoundService) ImportCatalogue(ctx context.Context, defs []rounddomain.RoundDefinition) (int, error) {
	return s.importCatalogue(ctx, "definitions", defs)
}

// ImportDocument parses a YAML or HTML catalogue and imports it.
func (s *RoundService) ImportDocument(ctx context.Context, format parsers.Format, data []byte) (int, error) {
	defs, err := parsers.Parse(format, data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidCatalogue, err)
	}
	return s.importCatalogue(ctx, string(format), defs)
}

// EnsureDefaultCatalogue seeds the built-in rounds into an empty catalogue.
func (s *RoundService) EnsureDefaultCatalogue(ctx context.Context) (int, error) {
	existing, err := s.repo.ListRounds(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect catalogue: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	defs, err := parsers.DefaultCatalogue()
	if err != nil {
		return 0, fmt.Errorf("failed to load default catalogue: %w", err)
	}
	return s.importCatalogue(ctx, "default", defs)
}

func (s *RoundService) importCatalogue(ctx context.Context, source string, defs []rounddomain.RoundDefinition) (int, error) {
	importTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
		return s.importCatalogueLogic(ctx, db, defs)
	}

	result, err := withTelemetry(s, ctx, "ImportCatalogue", source, func(ctx context.Context) (results.OperationResult[int, error], error) {
		if len(defs) == 0 {
			return results.FailureResult[int, error](fmt.Errorf("%w: no rounds", ErrInvalidCatalogue)), nil
		}
		seen := make(map[string]struct{}, len(defs))
		for _, def := range defs {
			if err := def.Validate(); err != nil {
				return results.FailureResult[int, error](fmt.Errorf("%w: %w", ErrInvalidCatalogue, err)), nil
			}
			if _, dup := seen[def.Name]; dup {
				return results.FailureResult[int, error](fmt.Errorf("%w: duplicate round %q", ErrInvalidCatalogue, def.Name)), nil
			}
			seen[def.Name] = struct{}{}
		}
		return runInTx(s, ctx, importTx)
	})
	if err != nil {
		return 0, err
	}
	if result.IsFailure() {
		return 0, *result.Failure
	}

	if s.metrics != nil {
		s.metrics.RecordRoundsImported(ctx, source, *result.Success)
	}
	return *result.Success, nil
}

func (s *RoundService) importCatalogueLogic(ctx context.Context, db bun.IDB, defs []rounddomain.RoundDefinition) (results.OperationResult[int, error], error) {
	for _, def := range defs {
		round, err := s.repo.UpsertRoundDefinition(ctx, db, def)
		if err != nil {
			return results.OperationResult[int, error]{}, fmt.Errorf("failed to import round %q: %w", def.Name, err)
		}
		s.logger.DebugContext(ctx, "Imported round",
			attr.RoundID(round.ID),
			attr.String("round_name", round.Name),
			attr.Int("sub_types", len(def.SubTypes)),
		)
	}
	return results.SuccessResult[int, error](len(defs)), nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RoundService,
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
	s *RoundService,
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
