package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rathee95/bookhub/internal/logs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    varchar(255) PRIMARY KEY,
    applied_at timestamptz  NOT NULL
)`

// MigrationStatus décrit une migration embarquée et son état.
type MigrationStatus struct {
	Version   string
	Applied   bool
	AppliedAt *time.Time
}

type schemaMigration struct {
	Version   string
	AppliedAt time.Time
}

// Migrate applique, dans l'ordre lexicographique, chaque fichier de
// migrations/ pas encore enregistré dans schema_migrations. Chaque fichier
// tourne dans sa propre transaction avec son enregistrement ; un échec
// annule le fichier et interrompt la suite.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return migrate(ctx, db, migrationsFS)
}

func migrate(ctx context.Context, db *gorm.DB, fsys fs.FS) error {
	versions, err := migrationFiles(fsys)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Exec(createMigrationsTable).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	for _, version := range versions {
		if _, ok := applied[version]; ok {
			continue
		}

		sqlb, err := fs.ReadFile(fsys, "migrations/"+version+".sql")
		if err != nil {
			return fmt.Errorf("read migration %s: %w", version, err)
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(sqlb)).Error; err != nil {
				return err
			}
			return tx.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				version, time.Now().UTC()).Error
		})
		if err != nil {
			logs.LogJSON("ERROR", "Migration failed", map[string]interface{}{
				"error":   err.Error(),
				"version": version,
			})
			return fmt.Errorf("migration %s failed: %w", version, err)
		}

		logs.LogJSON("INFO", "Migration applied", map[string]interface{}{
			"version": version,
		})
	}
	return nil
}

// Status liste les migrations embarquées et indique celles déjà appliquées.
func Status(ctx context.Context, db *gorm.DB) ([]MigrationStatus, error) {
	versions, err := migrationFiles(migrationsFS)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Exec(createMigrationsTable).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}

	out := make([]MigrationStatus, 0, len(versions))
	for _, version := range versions {
		st := MigrationStatus{Version: version}
		if at, ok := applied[version]; ok {
			at := at
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

func appliedMigrations(ctx context.Context, db *gorm.DB) (map[string]time.Time, error) {
	var rows []schemaMigration
	if err := db.WithContext(ctx).
		Raw("SELECT version, applied_at FROM schema_migrations ORDER BY version").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}

	applied := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		applied[r.Version] = r.AppliedAt
	}
	return applied, nil
}

func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		versions = append(versions, strings.TrimSuffix(e.Name(), ".sql"))
	}
	sort.Strings(versions)
	return versions, nil
}
