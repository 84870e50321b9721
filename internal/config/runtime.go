package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// RuntimeConfig holds host-side settings read from the environment.
type RuntimeConfig struct {
	// DataDir is the root under which per-slot save files live.
	DataDir string `env:"STAMINAXP_DATA_DIR" envDefault:"data/saves"`

	// ProgressionPath points at the progression YAML file.
	ProgressionPath string `env:"STAMINAXP_CONFIG" envDefault:"data/progression.yaml"`

	// LoggingPath points at the logging YAML file.
	LoggingPath string `env:"STAMINAXP_LOGGING" envDefault:"data/logging.yaml"`

	// Store selects the persistence backend: "file", "sqlite" or "postgres".
	Store string `env:"STAMINAXP_STORE" envDefault:"file"`

	SQLitePath string `env:"STAMINAXP_SQLITE_PATH" envDefault:"data/staminaxp.db"`

	Postgres PostgresEnv
}

// PostgresEnv holds PostgreSQL connection settings.
type PostgresEnv struct {
	Host            string        `env:"STAMINAXP_POSTGRES_HOST" envDefault:"localhost"`
	Port            int           `env:"STAMINAXP_POSTGRES_PORT" envDefault:"5432"`
	User            string        `env:"STAMINAXP_POSTGRES_USER"`
	Password        string        `env:"STAMINAXP_POSTGRES_PASSWORD"`
	Database        string        `env:"STAMINAXP_POSTGRES_DB" envDefault:"staminaxp"`
	SSLMode         string        `env:"STAMINAXP_POSTGRES_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"STAMINAXP_POSTGRES_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"STAMINAXP_POSTGRES_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// LoadRuntime reads runtime settings from environment variables.
func LoadRuntime() (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store {
	case "file", "sqlite", "postgres":
	default:
		return cfg, fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, cfg.Store)
	}

	cfg.DataDir = filepath.Clean(cfg.DataDir)
	return cfg, nil
}
