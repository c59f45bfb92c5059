package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate(t *testing.T) {
	db := openMemoryDB(t)

	err := Migrate(db, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	// All domain tables exist afterwards
	for _, table := range []string{"schema_migrations", "authorizables", "contacts", "group_members"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openMemoryDB(t)

	require.NoError(t, Migrate(db, nil))
	require.NoError(t, Migrate(db, nil))

	// Each migration recorded exactly once
	rows, err := db.Query("SELECT version, COUNT(*) FROM schema_migrations GROUP BY version")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var version string
		var count int
		require.NoError(t, rows.Scan(&version, &count))
		assert.Equal(t, 1, count, "version %s applied more than once", version)
	}
	require.NoError(t, rows.Err())
}

func TestMigrate_EnforcesContactStates(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, Migrate(db, nil))

	_, err := db.Exec("INSERT INTO authorizables (id, type) VALUES ('alice', 'user'), ('bob', 'user')")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO contacts (user_id, contact_id, state) VALUES ('alice', 'bob', 'ACCEPTED')")
	assert.NoError(t, err)

	_, err = db.Exec("INSERT INTO contacts (user_id, contact_id, state) VALUES ('bob', 'alice', 'FRIENDZONED')")
	assert.Error(t, err, "unknown connection states must be rejected")
}
