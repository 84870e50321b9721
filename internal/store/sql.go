package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/staminaxp/internal/progression"
)

const stateTable = "progression_states"

// stateColumns lists the persisted fields in insert order, after slot_id.
var stateColumns = []string{
	"current_exp",
	"exp_to_next_level",
	"current_level",
	"base_stamina_bonus",
	"current_level_stamina_bonus",
	"original_max_stamina",
	"nightly_stamina",
	"clear_mod_effects",
}

// SQLStore keeps one row per save slot in SQLite or PostgreSQL.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
	qb      *QueryBuilder
}

// OpenSQL opens the configured database and creates the schema if needed.
func OpenSQL(cfg Config) (*SQLStore, error) {
	dialect := NewDialect(cfg.Driver)

	var dsn string
	switch cfg.Driver {
	case DialectPostgres:
		dsn = cfg.Postgres.DSN()
	default:
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sqlx.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == DialectPostgres {
		if cfg.Postgres.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		}
		if cfg.Postgres.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		}
	} else {
		// One writer at a time; WAL pragmas apply per connection
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w\nSQL: %s", err, stmt)
		}
	}

	s := &SQLStore{
		db:      db,
		dialect: dialect,
		qb:      NewQueryBuilder(dialect),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// migrate creates the progression table if it doesn't exist.
func (s *SQLStore) migrate() error {
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		slot_id TEXT PRIMARY KEY,
		current_exp BIGINT NOT NULL DEFAULT 0,
		exp_to_next_level BIGINT NOT NULL DEFAULT 0,
		current_level INTEGER NOT NULL DEFAULT 0,
		base_stamina_bonus INTEGER NOT NULL DEFAULT 0,
		current_level_stamina_bonus INTEGER NOT NULL DEFAULT 0,
		original_max_stamina INTEGER NOT NULL DEFAULT 0,
		nightly_stamina INTEGER NOT NULL DEFAULT 0,
		clear_mod_effects %s NOT NULL DEFAULT %s
	)`, stateTable, s.dialect.BoolType(), s.falseLiteral())

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migration failed: %w\nSQL: %s", err, schema)
	}
	return nil
}

func (s *SQLStore) falseLiteral() string {
	if s.dialect.BoolType() == "BOOLEAN" {
		return "FALSE"
	}
	return "0"
}

// Load reads a slot's state
func (s *SQLStore) Load(ctx context.Context, slotID string) (*progression.State, error) {
	if err := ValidateSlot(slotID); err != nil {
		return nil, err
	}

	query := "SELECT current_exp, exp_to_next_level, current_level, base_stamina_bonus, " +
		"current_level_stamina_bonus, original_max_stamina, nightly_stamina, clear_mod_effects " +
		"FROM " + stateTable + " WHERE slot_id = ?"

	var state progression.State
	if err := s.db.GetContext(ctx, &state, s.qb.Build(query), slotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load progression state: %w", err)
	}

	return &state, nil
}

// Save inserts or replaces a slot's state
func (s *SQLStore) Save(ctx context.Context, slotID string, state *progression.State) error {
	if err := ValidateSlot(slotID); err != nil {
		return err
	}

	query := s.qb.BuildUpsert(stateTable, "slot_id", stateColumns)
	_, err := s.db.ExecContext(ctx, query,
		slotID,
		state.CurrentExp,
		state.ExpToNextLevel,
		state.CurrentLevel,
		state.BaseStaminaBonus,
		state.CurrentLevelStaminaBonus,
		state.OriginalMaxStamina,
		state.NightlyStamina,
		state.ClearModEffects,
	)
	if err != nil {
		return fmt.Errorf("failed to save progression state: %w", err)
	}

	return nil
}

// Slots lists every saved slot id
func (s *SQLStore) Slots(ctx context.Context) ([]string, error) {
	var slots []string
	query := "SELECT slot_id FROM " + stateTable + " ORDER BY slot_id"
	if err := s.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	return slots, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying sqlx.DB for advanced operations.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}
