// Package directory provides lookup of users and groups and their
// membership relations, backed by SQLite.
package directory

// Type discriminates the two kinds of authorizable.
type Type string

const (
	TypeUser  Type = "user"
	TypeGroup Type = "group"
)

// Authorizable is a user or group record. Users and groups share one
// identifier namespace; Type tells them apart after a polymorphic lookup.
type Authorizable struct {
	ID        string
	Type      Type
	FirstName string
	LastName  string
	Email     string
	Picture   string
	About     string
	Private   bool
}

// IsGroup reports whether the authorizable is a group.
func (a *Authorizable) IsGroup() bool {
	return a.Type == TypeGroup
}

// IsUser reports whether the authorizable is a user.
func (a *Authorizable) IsUser() bool {
	return a.Type == TypeUser
}
