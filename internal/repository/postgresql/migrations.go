package postgresql

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/shift-attendance/internal/pkg/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	content string
}

// RunMigrations applies pending embedded migrations in version order.
// Applied versions are tracked in the schema_migrations table.
func RunMigrations(ctx context.Context, db *database.DB) error {
	slog.Info("Running database migrations")

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", mapPostgresError(err))
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}

	slog.Info("All migrations completed", "count", len(migrations))
	return nil
}

func loadMigrations() ([]migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		// "1_attendance_schema.sql" -> 1
		prefix, _, found := strings.Cut(entry.Name(), "_")
		if !found {
			slog.Warn("Skipping migration file with invalid name format", "file", entry.Name())
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			slog.Warn("Skipping migration file with invalid version number", "file", entry.Name(), "error", err)
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, migration{
			version: version,
			name:    entry.Name(),
			content: string(content),
		})
	}

	slices.SortFunc(migrations, func(a, b migration) int { return a.version - b.version })
	return migrations, nil
}

func applyMigration(ctx context.Context, db *database.DB, m migration) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)

		var applied bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration status: %w", mapPostgresError(err))
		}
		if applied {
			slog.Debug("Migration already applied, skipping", "version", m.version, "name", m.name)
			return nil
		}

		slog.Info("Applying migration", "version", m.version, "name", m.name)
		if _, err := q.Exec(ctx, m.content); err != nil {
			return fmt.Errorf("failed to execute migration SQL: %w", mapPostgresError(err))
		}
		if _, err := q.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name); err != nil {
			return fmt.Errorf("failed to record migration: %w", mapPostgresError(err))
		}
		return nil
	})
}
