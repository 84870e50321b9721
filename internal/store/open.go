package store

import (
	"fmt"

	"github.com/lawnchairsociety/staminaxp/internal/config"
)

// Open returns the Store selected by the runtime settings.
func Open(rt config.RuntimeConfig) (Store, error) {
	switch rt.Store {
	case "file":
		return NewFileStore(rt.DataDir), nil
	case "sqlite":
		return OpenSQL(DefaultConfig(rt.SQLitePath))
	case "postgres":
		return OpenSQL(Config{
			Driver:   DialectPostgres,
			Postgres: PostgresFromEnv(rt.Postgres),
		})
	default:
		return nil, fmt.Errorf("unknown store %q", rt.Store)
	}
}

// PostgresFromEnv converts environment settings to connection settings.
func PostgresFromEnv(env config.PostgresEnv) PostgresConfig {
	return PostgresConfig{
		Host:            env.Host,
		Port:            env.Port,
		User:            env.User,
		Password:        env.Password,
		Database:        env.Database,
		SSLMode:         env.SSLMode,
		MaxOpenConns:    env.MaxOpenConns,
		ConnMaxLifetime: env.ConnMaxLifetime,
	}
}
