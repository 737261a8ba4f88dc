package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/archery-scorer/app"
	authdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/infrastructure/jwt"
	roundservice "github.com/Black-And-White-Club/archery-scorer/app/modules/round/application"
	"github.com/Black-And-White-Club/archery-scorer/app/modules/round/application/parsers"
	rounddb "github.com/Black-And-White-Club/archery-scorer/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/archery-scorer/config"
	"github.com/Black-And-White-Club/archery-scorer/internal/db/bundb"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "archery-scorer",
		Usage: "record arrows and render score pads",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			scorePadCommand(),
			remainingCommand(),
			roundsCommand(),
			tokenCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and event handlers",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, stop := app.ShutdownContext(c.Context)
			defer stop()

			a, err := app.NewApp(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer a.Close()

			return a.Run(ctx)
		},
	}
}

func roundsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rounds",
		Usage: "manage the round catalogue",
		Subcommands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "import a catalogue document into the database",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: string(parsers.FormatYAML), Usage: "yaml or html"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one catalogue file", 2)
					}
					format, err := parsers.ParseFormat(c.String("format"))
					if err != nil {
						return err
					}
					data, err := os.ReadFile(c.Args().First())
					if err != nil {
						return fmt.Errorf("failed to read catalogue: %w", err)
					}

					cfg, err := config.LoadConfig(c.String("config"))
					if err != nil {
						return fmt.Errorf("failed to load config: %w", err)
					}
					obs, err := observability.New(cfg.Observability)
					if err != nil {
						return err
					}
					db, err := bundb.Open(c.Context, cfg.Database, obs.Logger)
					if err != nil {
						return err
					}
					defer db.Close()
					if err := bundb.Migrate(c.Context, db, obs.Logger, app.Modules...); err != nil {
						return err
					}

					service := roundservice.NewRoundService(rounddb.NewRepository(db), obs.Logger, obs.Metrics, obs.Tracer, db)
					n, err := service.ImportDocument(c.Context, format, data)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "imported %d rounds\n", n)
					return nil
				},
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a bearer token for the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "archer", Required: true, Usage: "archer ID the token belongs to"},
			&cli.StringFlag{Name: "name", Usage: "display name"},
			&cli.StringFlag{Name: "role", Value: string(authdomain.RoleArcher), Usage: "archer, coach or admin"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime; defaults to the configured TTL"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return cli.Exit("JWT secret is not configured (JWT_SECRET)", 2)
			}
			role := authdomain.Role(c.String("role"))
			if !role.IsValid() {
				return cli.Exit(fmt.Sprintf("unknown role %q", role), 2)
			}
			ttl := c.Duration("ttl")
			if ttl <= 0 {
				ttl = cfg.JWT.DefaultTTL
			}

			provider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)
			token, err := provider.GenerateToken(&authdomain.Claims{
				ArcherID: c.String("archer"),
				Name:     c.String("name"),
				Role:     role,
				IssuedAt: time.Now(),
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
