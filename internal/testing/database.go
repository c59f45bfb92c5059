package testing

import (
	"database/sql"
	"net/url"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/christianvuerings/nakamura/db"
)

// CreateTestDB creates an in-memory SQLite test database with the full
// schema applied. Automatically registers cleanup via t.Cleanup().
//
// The database uses a shared-cache in-memory DSN keyed by the test name so
// every connection in the pool sees the same schema; a plain ":memory:"
// DSN gives each pool connection its own empty database, which breaks any
// code that holds one connection open while querying on another.
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared"
	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.Migrate(database, nil); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}
