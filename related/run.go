package related

// run holds the state of a single feed assembly: the requester, the
// exclusion sets, and the records emitted so far. All sets are run-local;
// nothing here outlives the request.
type run struct {
	requester string
	connected map[string]struct{}
	processed map[string]struct{}
	records   []Record
	quota     int
}

func newRun(requester string, connected []string, quota int) *run {
	connectedSet := make(map[string]struct{}, len(connected))
	for _, id := range connected {
		connectedSet[id] = struct{}{}
	}
	return &run{
		requester: requester,
		connected: connectedSet,
		processed: make(map[string]struct{}),
		quota:     quota,
	}
}

// eligible reports whether id may still be emitted: not the requester, not
// an existing contact, not already emitted this run. Absence from the
// exclusion sets is the eligible case, never an error.
func (r *run) eligible(id string) bool {
	if id == r.requester {
		return false
	}
	if _, ok := r.connected[id]; ok {
		return false
	}
	if _, ok := r.processed[id]; ok {
		return false
	}
	return true
}

// markProcessed records id as emitted. The processed set only grows.
func (r *run) markProcessed(id string) {
	r.processed[id] = struct{}{}
}

// size is the number of records emitted so far.
func (r *run) size() int {
	return len(r.processed)
}
