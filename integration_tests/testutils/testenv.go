//go:build integration

package testutils

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/archery-scorer/config"
	"github.com/Black-And-White-Club/archery-scorer/integration_tests/containers"
)

// appTables are truncated between tests. River tables are left to the queue.
var appTables = []string{"arrows", "score_sheet_exports", "shoots"}

// TestEnvironment holds the containers shared by a test package.
type TestEnvironment struct {
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	PostgresDSN   string
	NatsURL       string
}

// NewTestEnvironment starts Postgres and NATS.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to setup nats container: %w", err)
	}

	return &TestEnvironment{
		PgContainer:   pgContainer,
		NatsContainer: natsContainer,
		PostgresDSN:   dsn,
		NatsURL:       natsURL,
	}, nil
}

// Config returns a service configuration pointing at the containers.
func (env *TestEnvironment) Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.DSN = env.PostgresDSN
	cfg.NATS.URL = env.NatsURL
	cfg.NATS.JetStream = false
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.JWT.Secret = "integration-secret"
	cfg.Queue.MaxWorkers = 2
	cfg.Observability.Environment = "test"
	cfg.Observability.LogLevel = "error"
	return cfg
}

// ResetDatabase removes every shoot. The round catalogue is kept.
func (env *TestEnvironment) ResetDatabase(ctx context.Context, db *bun.DB) error {
	for _, table := range appTables {
		if _, err := db.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to clean river jobs: %w", err)
	}
	return nil
}

// Terminate stops both containers.
func (env *TestEnvironment) Terminate(ctx context.Context) error {
	var firstErr error
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			firstErr = err
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
