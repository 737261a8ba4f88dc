package shootqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/metrics"
)

const (
	queueName   = "shoot"
	metricsName = "river"
)

// QueueService runs shoot jobs.
type QueueService interface {
	EnqueueExport(ctx context.Context, shootID, exportID uuid.UUID) error
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service handles shoot jobs using River on Postgres.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.OperationMetrics
}

// NewService creates a River-based queue service whose workers call runner.
func NewService(ctx context.Context, dsn string, maxWorkers int, runner *ExportRunner, logger *slog.Logger, opMetrics metrics.OperationMetrics) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opMetrics == nil {
		opMetrics = metrics.NoOp{}
	}
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	ctxLogger := logger.With(
		attr.String("operation", "new_shoot_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	opMetrics.RecordOperationAttempt(ctx, "initialize_service", metricsName)

	ctxLogger.Info("Initializing shoot queue service")

	// River requires pgx rather than database/sql.
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", attr.Error(err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricsName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", attr.Error(err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricsName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricsName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	applied, err := MigrateUp(ctx, pool)
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to migrate River schema", attr.Error(err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricsName)
		return nil, err
	}
	if len(applied) > 0 {
		ctxLogger.Info("Applied River migrations", attr.Int("count", len(applied)))
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewExportWorker(runner))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
			queueName:          {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		opMetrics.RecordOperationFailure(ctx, "initialize_service", metricsName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	opMetrics.RecordOperationSuccess(ctx, "initialize_service", metricsName)
	opMetrics.RecordOperationDuration(ctx, "initialize_service", metricsName, time.Since(start))

	ctxLogger.Info("Shoot queue service initialized successfully")
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		metrics: opMetrics,
	}, nil
}

// Start starts the River workers.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", metricsName)

	s.logger.Info("Starting shoot queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", metricsName)
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", metricsName)
	s.metrics.RecordOperationDuration(ctx, "start_service", metricsName, time.Since(start))

	s.logger.Info("Shoot queue service started successfully")
	return nil
}

// Stop waits for running jobs, then closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", metricsName)

	s.logger.Info("Stopping shoot queue service")

	err := s.client.Stop(ctx)
	s.pool.Close()
	if err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", metricsName)
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", metricsName)
	s.metrics.RecordOperationDuration(ctx, "stop_service", metricsName, time.Since(start))

	s.logger.Info("Shoot queue service stopped successfully")
	return nil
}

// EnqueueExport inserts an export job. Jobs are unique by arguments, so a
// repeated request for the same export is not run twice.
func (s *Service) EnqueueExport(ctx context.Context, shootID, exportID uuid.UUID) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_export", metricsName)

	ctxLogger := s.logger.With(
		attr.ShootID(shootID),
		attr.String("export_id", exportID.String()),
		attr.String("operation", "enqueue_export"),
	)

	jobResult, err := s.client.Insert(ctx, ExportJob{ShootID: shootID, ExportID: exportID}, &river.InsertOpts{
		Queue: queueName,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to enqueue export job", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_export", metricsName)
		return fmt.Errorf("failed to enqueue export job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_export", metricsName)
	s.metrics.RecordOperationDuration(ctx, "enqueue_export", metricsName, time.Since(start))

	ctxLogger.Info("Export job enqueued", attr.Int64("job_id", jobResult.Job.ID))
	return nil
}

// HealthCheck verifies the queue database is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("river database ping failed: %w", err)
	}
	return nil
}
