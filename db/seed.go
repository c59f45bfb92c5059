package db

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/christianvuerings/nakamura/errors"
)

// demo fixture: a small directory with enough overlap to exercise the feed
var seedStatements = []string{
	`INSERT OR IGNORE INTO authorizables (id, type, first_name, last_name, email) VALUES
		('alice', 'user', 'Alice', 'Lidell', 'alice@example.org'),
		('bob', 'user', 'Bob', 'Marsh', 'bob@example.org'),
		('carol', 'user', 'Carol', 'Danvers', 'carol@example.org'),
		('dave', 'user', 'Dave', 'Grohl', 'dave@example.org'),
		('erin', 'user', 'Erin', 'Song', 'erin@example.org'),
		('frank', 'user', 'Frank', 'Ocean', 'frank@example.org')`,
	`INSERT OR IGNORE INTO authorizables (id, type) VALUES
		('book-club', 'group'),
		('climbers', 'group')`,
	`INSERT OR IGNORE INTO contacts (user_id, contact_id, state) VALUES
		('alice', 'bob', 'ACCEPTED'), ('bob', 'alice', 'ACCEPTED'),
		('bob', 'carol', 'ACCEPTED'), ('carol', 'bob', 'ACCEPTED'),
		('bob', 'dave', 'ACCEPTED'), ('dave', 'bob', 'ACCEPTED')`,
	`INSERT OR IGNORE INTO group_members (group_id, member_id) VALUES
		('book-club', 'alice'), ('book-club', 'erin'),
		('climbers', 'alice'), ('climbers', 'frank'), ('climbers', 'dave')`,
}

// Seed loads the demo dataset. Safe to run repeatedly.
func Seed(db *sql.DB, logger *zap.SugaredLogger) error {
	for _, stmt := range seedStatements {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "seed demo data")
		}
	}
	if logger != nil {
		logger.Infow("Seeded demo data", "statements", len(seedStatements))
	}
	return nil
}
