// migrate-slots copies progression saved as per-slot JSON files into a
// SQLite or PostgreSQL database.
//
// Usage:
//
//	go run ./cmd/migrate-slots \
//	    -from data/saves \
//	    -to-driver postgres \
//	    -pg-host localhost \
//	    -pg-user staminaxp \
//	    -pg-password staminaxp
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/lawnchairsociety/staminaxp/internal/store"
)

func main() {
	// Parse command-line flags
	fromDir := flag.String("from", "data/saves", "Directory holding per-slot save folders")
	driver := flag.String("to-driver", "sqlite", "Destination database: sqlite or postgres")
	sqlitePath := flag.String("sqlite", "data/staminaxp.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "staminaxp", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "staminaxp", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "staminaxp", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("Save Slot Migration Tool")
	log.Println("========================")

	var cfg store.Config
	switch store.DialectType(*driver) {
	case store.DialectSQLite:
		cfg = store.DefaultConfig(*sqlitePath)
		log.Printf("Destination: SQLite database %s", *sqlitePath)
	case store.DialectPostgres:
		cfg = store.Config{
			Driver: store.DialectPostgres,
			Postgres: store.PostgresConfig{
				Host:            *pgHost,
				Port:            *pgPort,
				User:            *pgUser,
				Password:        *pgPassword,
				Database:        *pgDatabase,
				SSLMode:         *pgSSLMode,
				MaxOpenConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		}
		log.Printf("Destination: PostgreSQL database %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	default:
		log.Fatalf("Unknown driver %q (want sqlite or postgres)", *driver)
	}

	ctx := context.Background()
	src := store.NewFileStore(*fromDir)

	slots, err := src.Slots(ctx)
	if err != nil {
		log.Fatalf("Failed to list slots in %s: %v", *fromDir, err)
	}
	log.Printf("Found %d slots in %s", len(slots), *fromDir)

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
		for _, slot := range slots {
			log.Printf("  would migrate %s", slot)
		}
		return
	}

	dst, err := store.OpenSQL(cfg)
	if err != nil {
		log.Fatalf("Failed to open destination database: %v", err)
	}
	defer dst.Close()

	migrated, skipped := 0, 0
	for _, slot := range slots {
		state, err := src.Load(ctx, slot)
		if err != nil {
			log.Printf("  skipping %s: %v", slot, err)
			skipped++
			continue
		}
		if err := dst.Save(ctx, slot, state); err != nil {
			log.Fatalf("Failed to write slot %s: %v", slot, err)
		}
		migrated++
	}

	log.Println("")
	log.Println("Migration complete!")
	log.Printf("  migrated: %d", migrated)
	log.Printf("  skipped:  %d", skipped)
}
