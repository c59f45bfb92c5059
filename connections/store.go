package connections

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/christianvuerings/nakamura/errors"
)

// Query constants
const (
	connectedUsersQuery = `
		SELECT contact_id FROM contacts
		WHERE user_id = ? AND state = ?
		ORDER BY created_at, contact_id`

	contactUpsertQuery = `
		INSERT INTO contacts (user_id, contact_id, state)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, contact_id) DO UPDATE SET state = excluded.state`

	contactStateQuery = `
		SELECT state FROM contacts
		WHERE user_id = ? AND contact_id = ?`
)

// Store implements the contact graph against the SQLite backend.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a new SQL-backed connection store
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// ConnectedUsers returns the contacts of userID in the given state, in
// stable (oldest first) order. A user with no contacts yields an empty
// slice, not an error.
func (s *Store) ConnectedUsers(ctx context.Context, userID string, state State) ([]string, error) {
	if !state.Valid() {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "unknown connection state %q", state)
	}

	rows, err := s.db.QueryContext(ctx, connectedUsersQuery, userID, string(state))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "connected users of %s: %v", userID, err)
	}
	defer rows.Close()

	var contacts []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrapf(errors.ErrStorageUnavailable, "scan contact: %v", err)
		}
		contacts = append(contacts, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "connected users of %s: %v", userID, err)
	}

	return contacts, nil
}

// Invite records a pending invitation from userID to contactID: the inviter
// side is INVITED, the invitee side PENDING.
func (s *Store) Invite(ctx context.Context, userID, contactID string) error {
	if userID == "" || contactID == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "user and contact ids are required")
	}
	if userID == contactID {
		return errors.Wrap(errors.ErrInvalidArgument, "cannot invite yourself")
	}

	if err := s.setState(ctx, userID, contactID, StateInvited); err != nil {
		return err
	}
	if err := s.setState(ctx, contactID, userID, StatePending); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Debugw("Recorded invitation",
			"user_id", userID,
			"contact_id", contactID,
		)
	}
	return nil
}

// Accept moves a pending invitation to ACCEPTED on both sides.
func (s *Store) Accept(ctx context.Context, userID, contactID string) error {
	var state string
	err := s.db.QueryRowContext(ctx, contactStateQuery, userID, contactID).Scan(&state)
	if err == sql.ErrNoRows {
		return errors.Wrapf(errors.ErrNotFound, "no invitation from %s to %s", contactID, userID)
	}
	if err != nil {
		return errors.Wrapf(errors.ErrStorageUnavailable, "contact state: %v", err)
	}
	if State(state) != StatePending {
		return errors.Wrapf(errors.ErrInvalidArgument, "invitation from %s to %s is %s, not PENDING", contactID, userID, state)
	}

	if err := s.setState(ctx, userID, contactID, StateAccepted); err != nil {
		return err
	}
	return s.setState(ctx, contactID, userID, StateAccepted)
}

func (s *Store) setState(ctx context.Context, userID, contactID string, state State) error {
	_, err := s.db.ExecContext(ctx, contactUpsertQuery, userID, contactID, string(state))
	if err != nil {
		return errors.Wrapf(errors.ErrStorageUnavailable, "set contact state %s -> %s: %v", userID, contactID, err)
	}
	return nil
}
