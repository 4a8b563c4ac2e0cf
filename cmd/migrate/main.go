package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/boutique/backend/internal/infrastructure/config"
	"github.com/boutique/backend/internal/infrastructure/event"
	"github.com/boutique/backend/internal/infrastructure/logger"
	"github.com/boutique/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(config.LogConfig{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Resolve the migrations directory: flag, working directory, then
	// relative to the executable
	if migrationsPath == "" {
		if _, err := os.Stat(defaultMigrationsPath); err == nil {
			migrationsPath = defaultMigrationsPath
		} else {
			execPath, err := os.Executable()
			if err == nil {
				execDir := filepath.Dir(execPath)
				candidatePath := filepath.Join(execDir, "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidatePath); err == nil {
					migrationsPath = candidatePath
				}
			}
		}
		if migrationsPath == "" {
			migrationsPath = defaultMigrationsPath
		}
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to get absolute path", zap.Error(err))
	}
	migrationsPath = absPath

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// create and list work without a database connection
	if command == "create" {
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		name := args[1]
		description := ""
		if len(args) > 2 {
			description = args[2]
		}

		mf, err := migration.CreateMigration(migrationsPath, name, description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}

		log.Info("Migration created successfully",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	}

	if command == "list" {
		migrations, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}

		if len(migrations) == 0 {
			log.Info("No migrations found")
			return
		}

		log.Info("Available migrations", zap.Int("count", len(migrations)))
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	if command == "events" {
		if err := runEventsCommand(db, log, args[1:]); err != nil {
			log.Fatal("Event payload command failed", zap.Error(err))
		}
		return
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		log.Warn("Forcing migration version - use with caution!")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	case "drop":
		log.Warn("This will DROP all database objects. Are you sure? (use -confirm flag)")
		confirm := false
		for _, arg := range args[1:] {
			if arg == "-confirm" || arg == "--confirm" {
				confirm = true
				break
			}
		}
		if !confirm {
			log.Fatal("Drop cancelled. Use 'migrate drop -confirm' to confirm.")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// runEventsCommand analyzes or upgrades stored outbox payloads after an
// event schema bump. "analyze" is read-only; "upgrade" rewrites each stale
// payload through the registered upgrader chain.
func runEventsCommand(db *sql.DB, log *zap.Logger, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: migrate events <analyze|upgrade> <event_type>")
	}
	action, eventType := args[0], args[1]
	ctx := context.Background()

	serializer := event.NewVersionedSerializer(log)
	if err := event.RegisterAllVersionedEvents(serializer); err != nil {
		return fmt.Errorf("failed to register event types: %w", err)
	}
	migrator := event.NewEventMigrator(serializer, log)

	if err := migrator.ValidateUpgradeChain(eventType); err != nil {
		return fmt.Errorf("upgrade chain is incomplete: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, payload FROM outbox_events WHERE event_type = $1", eventType)
	if err != nil {
		return fmt.Errorf("failed to load outbox payloads: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	payloads := make([][]byte, 0)
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return fmt.Errorf("failed to scan outbox row: %w", err)
		}
		ids = append(ids, id)
		payloads = append(payloads, payload)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	switch action {
	case "analyze":
		analysis, err := migrator.AnalyzePayloads(eventType, payloads)
		if err != nil {
			return err
		}
		log.Info("Outbox payload analysis",
			zap.String("event_type", analysis.EventType),
			zap.Int("current_version", analysis.CurrentVersion),
			zap.Int("total", analysis.TotalEvents),
			zap.Int("up_to_date", analysis.UpToDate),
			zap.Int("needs_migration", analysis.NeedsMigration),
		)
		for version, count := range analysis.VersionCounts {
			fmt.Printf("  v%d: %d\n", version, count)
		}
		return nil

	case "upgrade":
		currentVersion, _ := serializer.GetCurrentVersion(eventType)
		upgraded, skipped, failed := 0, 0, 0
		for i, payload := range payloads {
			if event.ExtractVersion(payload) >= currentVersion {
				skipped++
				continue
			}
			migrated, _, err := migrator.MigratePayload(eventType, payload)
			if err != nil {
				failed++
				log.Warn("Payload upgrade failed",
					zap.String("outbox_id", ids[i]),
					zap.Error(err),
				)
				continue
			}
			if _, err := db.ExecContext(ctx,
				"UPDATE outbox_events SET payload = $1, updated_at = now() WHERE id = $2",
				migrated, ids[i]); err != nil {
				return fmt.Errorf("failed to persist upgraded payload %s: %w", ids[i], err)
			}
			upgraded++
		}
		log.Info("Outbox payload upgrade complete",
			zap.String("event_type", eventType),
			zap.Int("upgraded", upgraded),
			zap.Int("already_current", skipped),
			zap.Int("failed", failed),
		)
		if failed > 0 {
			return fmt.Errorf("%d payloads failed to upgrade", failed)
		}
		return nil

	default:
		return fmt.Errorf("unknown events action %q (want analyze or upgrade)", action)
	}
}

func printUsage() {
	fmt.Println(`Boutique Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations
  events analyze <type> Report stored outbox payload versions for an event type
  events upgrade <type> Rewrite stale outbox payloads to the current schema

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  BOUTIQUE_DATABASE_HOST, BOUTIQUE_DATABASE_PORT, BOUTIQUE_DATABASE_USER,
  BOUTIQUE_DATABASE_PASSWORD, BOUTIQUE_DATABASE_DBNAME, BOUTIQUE_DATABASE_SSLMODE

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Create a new migration
  migrate create add_wishlists_table "Create wishlists table"

  # Check current version
  migrate version`)
}
