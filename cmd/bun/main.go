package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/archery-scorer/app"
	"github.com/Black-And-White-Club/archery-scorer/config"
	"github.com/Black-And-White-Club/archery-scorer/internal/db/bundb"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "archery-scorer database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
			newRiverCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withMigrators opens the configured database and builds one migrator per module.
func withMigrators(c *cli.Context, fn func(db *bun.DB, migrators map[string]*migrate.Migrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := bundb.Open(c.Context, cfg.Database, observability.NewLogger(cfg.Observability))
	if err != nil {
		return err
	}
	defer db.Close()

	migrators := make(map[string]*migrate.Migrator, len(app.Modules))
	for _, m := range app.Modules {
		migrators[m.Name] = bundb.NewMigrator(db, m)
	}
	return fn(db, migrators)
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators map[string]*migrate.Migrator) error {
						for moduleName, migrator := range migrators {
							fmt.Printf("Initializing migrations for module: %s\n", moduleName)
							if err := migrator.Init(c.Context); err != nil {
								return fmt.Errorf("module %s: %w", moduleName, err)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators map[string]*migrate.Migrator) error {
						for _, m := range app.Modules {
							migrator := migrators[m.Name]
							if err := migrator.Init(c.Context); err != nil {
								return fmt.Errorf("module %s: %w", m.Name, err)
							}
							group, err := migrator.Migrate(c.Context)
							if err != nil {
								return fmt.Errorf("module %s: %w", m.Name, err)
							}
							if group.IsZero() {
								fmt.Printf("No new migrations to run for module: %s\n", m.Name)
							} else {
								fmt.Printf("Migrated module: %s to %s\n", m.Name, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators map[string]*migrate.Migrator) error {
						// Reverse dependency order.
						for i := len(app.Modules) - 1; i >= 0; i-- {
							name := app.Modules[i].Name
							group, err := migrators[name].Rollback(c.Context)
							if err != nil {
								return fmt.Errorf("module %s: %w", name, err)
							}
							if group.IsZero() {
								fmt.Printf("No groups to roll back for module: %s\n", name)
							} else {
								fmt.Printf("Rolled back module: %s to %s\n", name, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name words...>",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators map[string]*migrate.Migrator) error {
						moduleName := c.Args().First()
						migrator, ok := migrators[moduleName]
						if !ok {
							return fmt.Errorf("invalid module name: %s", moduleName)
						}

						name := strings.Join(c.Args().Tail(), "_")
						mf, err := migrator.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(_ *bun.DB, migrators map[string]*migrate.Migrator) error {
						for _, m := range app.Modules {
							ms, err := migrators[m.Name].MigrationsWithStatus(c.Context)
							if err != nil {
								return err
							}
							fmt.Printf("Migrations for module: %s\n", m.Name)
							fmt.Printf("  %s\n", ms)
							fmt.Printf("  Applied: %s\n", ms.Applied())
							fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						}
						return nil
					})
				},
			},
		},
	}
}

// newRiverCommand manages the job queue tables. River only runs on Postgres.
func newRiverCommand() *cli.Command {
	run := func(direction rivermigrate.Direction) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Database.IsSQLite() {
				return fmt.Errorf("river migrations need Postgres; sqlite runs exports inline")
			}
			return migrateRiver(c.Context, cfg.Database.DSN, direction)
		}
	}

	return &cli.Command{
		Name:  "river",
		Usage: "job queue migrations",
		Subcommands: []*cli.Command{
			{Name: "up", Usage: "apply river migrations", Action: run(rivermigrate.DirectionUp)},
			{Name: "down", Usage: "roll back river migrations", Action: run(rivermigrate.DirectionDown)},
		},
	}
}

func migrateRiver(ctx context.Context, dsn string, direction rivermigrate.Direction) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}

	var opts *rivermigrate.MigrateOpts
	if direction == rivermigrate.DirectionDown {
		opts = &rivermigrate.MigrateOpts{MaxSteps: 1}
	}
	res, err := migrator.Migrate(ctx, direction, opts)
	if err != nil {
		return fmt.Errorf("river migrate %s: %w", direction, err)
	}
	if len(res.Versions) == 0 {
		fmt.Println("River schema is up to date")
	}
	for _, v := range res.Versions {
		fmt.Printf("River migration %s: version %d\n", direction, v.Version)
	}
	return nil
}
