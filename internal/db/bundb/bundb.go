// Package bundb opens the bun database and runs module migrations.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	_ "modernc.org/sqlite"

	"github.com/Black-And-White-Club/archery-scorer/config"
)

// Open connects to Postgres, or to sqlite when the DSN is a "file:" DSN, and pings it.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*bun.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		db  *bun.DB
		err error
	)
	if cfg.IsSQLite() {
		db, err = OpenSQLite(cfg.DSN)
	} else {
		db = OpenPostgres(cfg.DSN, cfg.MaxOpenConns)
	}
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connection established",
		slog.String("dialect", db.Dialect().Name().String()),
	)
	return db, nil
}

// OpenPostgres returns a bun.DB over pgdriver.
func OpenPostgres(dsn string, maxOpenConns int) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if maxOpenConns > 0 {
		sqldb.SetMaxOpenConns(maxOpenConns)
	}
	return bun.NewDB(sqldb, pgdialect.New())
}

// OpenSQLite returns a bun.DB over the pure Go sqlite driver. sqlite allows one
// writer, so the pool is limited to a single connection.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Module names one migration collection.
type Module struct {
	Name       string
	Migrations *migrate.Migrations
}

// NewMigrator returns a migrator whose bookkeeping tables are scoped to the module.
func NewMigrator(db *bun.DB, m Module) *migrate.Migrator {
	return migrate.NewMigrator(db, m.Migrations,
		migrate.WithTableName("bun_migrations_"+m.Name),
		migrate.WithLocksTableName("bun_migration_locks_"+m.Name),
	)
}

// Migrate initialises and applies every module's migrations in order.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger, modules ...Module) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range modules {
		migrator := NewMigrator(db, m)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migrations for %s: %w", m.Name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", m.Name, err)
		}
		if group.IsZero() {
			logger.Info("No new migrations", slog.String("module", m.Name))
		} else {
			logger.Info("Migrated module", slog.String("module", m.Name), slog.String("group", group.String()))
		}
	}
	return nil
}
