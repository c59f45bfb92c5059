package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/christianvuerings/nakamura/errors"
)

func TestOpen(t *testing.T) {
	t.Run("opens database successfully", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := Open(dbPath, nil)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify WAL mode enabled
		var journalMode string
		err = db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		assert.Equal(t, "wal", journalMode)

		// Verify foreign keys enabled
		var foreignKeys int
		err = db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys)
		require.NoError(t, err)
		assert.Equal(t, 1, foreignKeys)

		// Verify busy timeout set
		var busyTimeout int
		err = db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout)
		require.NoError(t, err)
		assert.Equal(t, SQLiteBusyTimeoutMS, busyTimeout)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		invalidPath := "/invalid/nonexistent/path/db.sqlite"

		db, err := Open(invalidPath, nil)

		// If Open() succeeds (lazy connection on some platforms), Ping() will fail
		if err == nil && db != nil {
			err = db.Ping()
			db.Close()
		}

		assert.Error(t, err)
	})

	t.Run("creates database file if it doesn't exist", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "new.db")

		_, err := os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		db, err := Open(dbPath, nil)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("errors carry stack traces from errors package", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := Open(dbPath, nil)
		require.NoError(t, err)
		db.Close()

		_, err = db.Exec("PRAGMA journal_mode")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed")

		wrapped := errors.Wrap(err, "post-close query")
		assert.NotNil(t, errors.GetStack(wrapped))
	})
}

func TestOpen_WithLogger(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	logger := zaptest.NewLogger(t).Sugar()
	db, err := Open(dbPath, logger)
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()
}
