package directory

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/christianvuerings/nakamura/errors"
)

// Query constants
const (
	authorizableSelectQuery = `
		SELECT id, type, first_name, last_name, email, picture, about, private
		FROM authorizables
		WHERE id = ?`

	authorizableInsertQuery = `
		INSERT INTO authorizables (id, type, first_name, last_name, email, picture, about, private)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	principalsSelectQuery = `
		SELECT group_id FROM group_members
		WHERE member_id = ?
		ORDER BY group_id`

	membersSelectQuery = `
		SELECT member_id FROM group_members
		WHERE group_id = ?
		ORDER BY member_id`

	memberInsertQuery = `
		INSERT OR IGNORE INTO group_members (group_id, member_id)
		VALUES (?, ?)`
)

// Store implements directory lookups against the SQLite backend.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a new SQL-backed directory store
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// FindAuthorizable resolves an authorizable by id on behalf of viewerID.
// Returns ErrNotFound when no such record exists and ErrAccessDenied when
// the record is private and the viewer is not the record itself.
func (s *Store) FindAuthorizable(ctx context.Context, viewerID, id string) (*Authorizable, error) {
	if id == "" {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "authorizable id is empty")
	}

	var a Authorizable
	var private int
	err := s.db.QueryRowContext(ctx, authorizableSelectQuery, id).Scan(
		&a.ID, &a.Type, &a.FirstName, &a.LastName, &a.Email, &a.Picture, &a.About, &private,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "authorizable %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "find authorizable %s: %v", id, err)
	}
	a.Private = private != 0

	if a.Private && viewerID != a.ID {
		return nil, errors.Wrapf(errors.ErrAccessDenied, "authorizable %s is private", id)
	}

	return &a, nil
}

// Principals returns the identifiers of every group the user belongs to.
// A user with no memberships yields an empty slice, not an error.
func (s *Store) Principals(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, principalsSelectQuery, userID)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "principals of %s: %v", userID, err)
	}
	defer rows.Close()

	var principals []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrapf(errors.ErrStorageUnavailable, "scan principal: %v", err)
		}
		principals = append(principals, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "principals of %s: %v", userID, err)
	}

	return principals, nil
}

// Members returns the member identifiers of a group.
func (s *Store) Members(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, membersSelectQuery, groupID)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "members of %s: %v", groupID, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrapf(errors.ErrStorageUnavailable, "scan member: %v", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "members of %s: %v", groupID, err)
	}

	return members, nil
}

// CreateAuthorizable inserts a new user or group record.
func (s *Store) CreateAuthorizable(ctx context.Context, a *Authorizable) error {
	if a == nil || a.ID == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "authorizable must have an id")
	}

	private := 0
	if a.Private {
		private = 1
	}
	_, err := s.db.ExecContext(ctx, authorizableInsertQuery,
		a.ID, a.Type, a.FirstName, a.LastName, a.Email, a.Picture, a.About, private,
	)
	if err != nil {
		return errors.Wrapf(errors.ErrStorageUnavailable, "create authorizable %s: %v", a.ID, err)
	}

	if s.logger != nil {
		s.logger.Debugw("Created authorizable",
			"id", a.ID,
			"type", a.Type,
		)
	}
	return nil
}

// AddMember adds a user to a group. Adding an existing member is a no-op.
func (s *Store) AddMember(ctx context.Context, groupID, memberID string) error {
	if groupID == "" || memberID == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "group and member ids are required")
	}

	_, err := s.db.ExecContext(ctx, memberInsertQuery, groupID, memberID)
	if err != nil {
		return errors.Wrapf(errors.ErrStorageUnavailable, "add member %s to %s: %v", memberID, groupID, err)
	}
	return nil
}
