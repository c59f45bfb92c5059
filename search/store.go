package search

import (
	"context"
	"database/sql"
	"strconv"

	"go.uber.org/zap"

	"github.com/christianvuerings/nakamura/errors"
)

// relatedCandidatesQuery ranks candidates by how strongly they overlap with
// the requester: contacts-of-contacts surface as contact records, members of
// shared groups as authorizable records. Scoring here is deliberately
// simple; feed assembly downstream is agnostic to how ranking was computed.
const relatedCandidatesQuery = `
	WITH accepted AS (
		SELECT contact_id FROM contacts
		WHERE user_id = ?1 AND state = 'ACCEPTED'
	),
	contact_candidates AS (
		SELECT c.contact_id AS candidate,
		       MIN('/~' || c.user_id || '/contacts/' || c.contact_id) AS path,
		       COUNT(*) AS score
		FROM contacts c
		JOIN accepted a ON a.contact_id = c.user_id
		WHERE c.state = 'ACCEPTED' AND c.contact_id != ?1
		GROUP BY c.contact_id
	),
	group_candidates AS (
		SELECT gm2.member_id AS candidate,
		       gm2.member_id AS path,
		       COUNT(*) AS score
		FROM group_members gm1
		JOIN group_members gm2 ON gm1.group_id = gm2.group_id
		WHERE gm1.member_id = ?1 AND gm2.member_id != ?1
		GROUP BY gm2.member_id
	)
	SELECT 'contact' AS kind, path, score FROM contact_candidates
	UNION ALL
	SELECT 'authorizable' AS kind, path, score FROM group_candidates
	ORDER BY score DESC, path
	LIMIT ?2`

// Store produces ranked candidate cursors from the SQLite backend.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a new SQL-backed search store
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Related returns a lazy cursor of ranked candidates for the requester,
// bounded by limit. The cursor holds a live statement and with it a pool
// connection; callers must Close it within the request, whether or not
// they drained it.
func (s *Store) Related(ctx context.Context, requesterID string, limit int) (Results, error) {
	if requesterID == "" {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "requester id is empty")
	}

	rows, err := s.db.QueryContext(ctx, relatedCandidatesQuery, requesterID, limit)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "related candidates for %s: %v", requesterID, err)
	}

	if s.logger != nil {
		s.logger.Debugw("Opened candidate cursor",
			"user_id", requesterID,
			"limit", limit,
		)
	}

	return &rowsCursor{rows: rows}, nil
}

// rowsCursor adapts sql.Rows to the Results contract.
type rowsCursor struct {
	rows    *sql.Rows
	current *Result
	err     error
}

func (c *rowsCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = errors.Wrapf(errors.ErrStorageUnavailable, "candidate cursor: %v", err)
		}
		c.rows.Close()
		return false
	}

	var kind, path string
	var score int
	if err := c.rows.Scan(&kind, &path, &score); err != nil {
		c.err = errors.Wrapf(errors.ErrStorageUnavailable, "scan candidate: %v", err)
		c.rows.Close()
		return false
	}

	c.current = &Result{
		Kind: ResourceKind(kind),
		Path: path,
		Properties: map[string]string{
			"score": strconv.Itoa(score),
		},
	}
	return true
}

func (c *rowsCursor) Result() *Result {
	return c.current
}

func (c *rowsCursor) Err() error {
	return c.err
}

// Close releases the underlying rows and their pool connection. Safe to
// call after exhaustion, when the rows are already closed.
func (c *rowsCursor) Close() error {
	return c.rows.Close()
}
