// Package connections manages the contact graph between users: invitations,
// their lifecycle states, and lookups of a user's accepted contacts.
package connections

// State is the lifecycle state of a contact edge.
type State string

const (
	StatePending  State = "PENDING"
	StateInvited  State = "INVITED"
	StateAccepted State = "ACCEPTED"
	StateIgnored  State = "IGNORED"
	StateBlocked  State = "BLOCKED"
)

// Valid reports whether the state is one of the known lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StatePending, StateInvited, StateAccepted, StateIgnored, StateBlocked:
		return true
	}
	return false
}
