// Package search defines the candidate search contract: ranked results,
// their resource kinds, and the lazy pull cursor feed assembly consumes.
package search

// ResourceKind tags what a search result's path points at.
//
// The set of kinds handled downstream is closed: KindContact and
// KindAuthorizable are rendered, anything else is logged and skipped.
type ResourceKind string

const (
	// KindContact marks a contact record; the candidate's id is the last
	// segment of the result path (e.g. "/~alice/contacts/bob" -> "bob").
	KindContact ResourceKind = "contact"

	// KindAuthorizable marks a raw authorizable record; the path is the
	// candidate's id itself.
	KindAuthorizable ResourceKind = "authorizable"
)

// Result is one item from a ranked candidate stream. It is immutable and
// owned by the producing source; consumers only read it.
type Result struct {
	Kind       ResourceKind
	Path       string
	Properties map[string]string
}

// Results is a lazy, forward-only cursor over a ranked candidate stream,
// mirroring the sql.Rows pull contract: Next advances, Result returns the
// current item, Err reports a mid-stream failure after Next returns false.
// The stream may be finite or unbounded and is not restartable. Callers
// must Close the cursor when done with it, drained or not; consumers that
// stop early would otherwise pin the underlying source.
type Results interface {
	Next() bool
	Result() *Result
	Err() error
	Close() error
}

// sliceResults is a Results over an in-memory slice.
type sliceResults struct {
	items     []Result
	pos       int
	exhausted bool
	closed    bool
	err       error
}

// NewSliceResults returns a Results cursor over the given items. If failWith
// is non-nil the cursor reports it through Err once the items are consumed,
// simulating a source that dies mid-stream.
func NewSliceResults(items []Result, failWith error) Results {
	return &sliceResults{items: items, pos: -1, err: failWith}
}

func (s *sliceResults) Next() bool {
	if s.closed {
		return false
	}
	if s.pos+1 >= len(s.items) {
		s.exhausted = true
		return false
	}
	s.pos++
	return true
}

func (s *sliceResults) Result() *Result {
	if s.pos < 0 || s.pos >= len(s.items) {
		return nil
	}
	return &s.items[s.pos]
}

func (s *sliceResults) Err() error {
	if s.exhausted {
		return s.err
	}
	return nil
}

// Close stops the cursor; a closed cursor yields no further items and does
// not report the injected mid-stream error.
func (s *sliceResults) Close() error {
	s.closed = true
	return nil
}
