package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Queue         QueueConfig         `yaml:"queue"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// DatabaseConfig holds the bun connection settings. A DSN starting with "file:"
// selects the embedded sqlite driver, anything else is treated as Postgres.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn" env:"DATABASE_URL"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
}

// IsSQLite reports whether the DSN targets the embedded sqlite driver.
func (c DatabaseConfig) IsSQLite() bool {
	return strings.HasPrefix(c.DSN, "file:") || c.DSN == ":memory:"
}

// NATSConfig holds NATS configuration. An empty URL runs the event bus in process.
type NATSConfig struct {
	URL       string `yaml:"url" env:"NATS_URL"`
	NKeySeed  string `yaml:"nkey_seed" env:"NATS_NKEY_SEED"`
	JetStream bool   `yaml:"jetstream" env:"NATS_JETSTREAM"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr           string   `yaml:"addr" env:"HTTP_ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	RateLimit      float64  `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst      int      `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer     string        `yaml:"issuer" env:"JWT_ISSUER"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"JWT_DEFAULT_TTL"`
}

// QueueConfig holds river worker settings; only used with Postgres.
type QueueConfig struct {
	MaxWorkers int `yaml:"max_workers" env:"QUEUE_MAX_WORKERS"`
}

// ScoringConfig holds score pad defaults.
type ScoringConfig struct {
	EndSize     int    `yaml:"end_size" env:"SCORING_END_SIZE"`
	Locale      string `yaml:"locale" env:"SCORING_LOCALE"`
	MissText    string `yaml:"miss_text" env:"SCORING_MISS_TEXT"`
	XText       string `yaml:"x_text" env:"SCORING_X_TEXT"`
	Placeholder string `yaml:"placeholder" env:"SCORING_PLACEHOLDER"`
	Delimiter   string `yaml:"delimiter" env:"SCORING_DELIMITER"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name" env:"SERVICE_NAME"`
	Environment    string `yaml:"environment" env:"ENV"`
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
	MetricsAddress string `yaml:"metrics_address" env:"METRICS_ADDRESS"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{DSN: "file:archery-scorer.db?_pragma=foreign_keys(1)", MaxOpenConns: 10},
		HTTP:     HTTPConfig{Addr: ":8080", RateLimit: 10, RateBurst: 20},
		JWT:      JWTConfig{Issuer: "archery-scorer", DefaultTTL: 24 * time.Hour},
		Queue:    QueueConfig{MaxWorkers: 10},
		Scoring: ScoringConfig{
			EndSize:     6,
			Locale:      "en-GB",
			MissText:    "M",
			XText:       "X",
			Placeholder: ".",
			Delimiter:   " ",
		},
		Observability: ObservabilityConfig{
			ServiceName: "archery-scorer",
			Environment: "development",
			LogLevel:    "info",
		},
	}
}

// LoadConfig loads the configuration from a YAML file, then applies environment
// overrides. A missing file leaves the defaults plus environment in place.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// env only
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database dsn is required (DATABASE_URL)")
	}
	if c.Scoring.EndSize <= 0 {
		return fmt.Errorf("scoring end size must be positive, got %d", c.Scoring.EndSize)
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return errors.New("http rate limit and burst must not be negative")
	}
	return nil
}

// IsTest reports whether the service runs under the test environment.
func (c *Config) IsTest() bool {
	return c.Observability.Environment == "test" || os.Getenv("APP_ENV") == "test"
}
