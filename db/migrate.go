package db

import (
	"database/sql"
	"embed"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/christianvuerings/nakamura/errors"
)

//go:embed sqlite/migrations/*.sql
var migrationFS embed.FS

const migrationDir = "sqlite/migrations"

// Migrate applies every embedded migration not yet recorded in
// schema_migrations. Each migration runs in one transaction together with
// its version row, so a failed migration leaves no partial state.
// Safe to run repeatedly.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	ran := 0
	for _, name := range names {
		version := strings.SplitN(name, "_", 2)[0]
		if applied[version] {
			continue
		}

		if logger != nil {
			logger.Infow("Applying migration",
				"migration", name,
				"version", version,
			)
		}
		if err := applyMigration(db, name, version); err != nil {
			return err
		}
		ran++
	}

	if logger != nil {
		logger.Infow("Migrations complete",
			"applied", ran,
			"total_migrations", len(names),
		)
	}
	return nil
}

// migrationNames returns the embedded migration filenames in apply order.
// Names sort lexically; 000_create_schema_migrations.sql runs first.
func migrationNames() ([]string, error) {
	entries, err := migrationFS.ReadDir(migrationDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// appliedVersions reads the versions recorded so far. A missing
// schema_migrations table means a fresh database with nothing applied.
func appliedVersions(db *sql.DB) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return applied, nil
	}
	defer rows.Close()

	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, errors.Wrap(err, "scan migration version")
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read applied migrations")
	}
	return applied, nil
}

func applyMigration(db *sql.DB, name, version string) error {
	stmt, err := migrationFS.ReadFile(migrationDir + "/" + name)
	if err != nil {
		return errors.Wrapf(err, "read %s", name)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", name)
	}

	if _, err := tx.Exec(string(stmt)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "execute %s", name)
	}

	// Migration 000 creates schema_migrations, then records itself
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", name)
	}

	return errors.Wrapf(tx.Commit(), "commit %s", name)
}
