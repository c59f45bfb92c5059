// Package profile projects authorizables into their public profile view.
package profile

import (
	"github.com/christianvuerings/nakamura/directory"
)

// Public field names emitted for every rendered profile.
const (
	FieldUserID    = "userid"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPicture   = "picture"
)

// Formatter produces the bounded public-field projection of a profile.
// The set of emitted fields is fixed; private or internal attributes of an
// authorizable never appear in the projection.
type Formatter struct{}

// NewFormatter creates a Formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PublicFields returns the public profile fields of an authorizable as a
// field-name to value mapping. Returns nil for a nil authorizable.
func (f *Formatter) PublicFields(a *directory.Authorizable) map[string]interface{} {
	if a == nil {
		return nil
	}
	return map[string]interface{}{
		FieldUserID:    a.ID,
		FieldFirstName: a.FirstName,
		FieldLastName:  a.LastName,
		FieldEmail:     a.Email,
		FieldPicture:   a.Picture,
	}
}
