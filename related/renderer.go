package related

import (
	"context"

	"github.com/christianvuerings/nakamura/errors"
)

// render resolves one candidate and, if eligible, appends its record and
// marks it processed. Ineligible candidates and vanished accounts are
// skipped silently; exactly one processed-set mutation happens per emitted
// record.
func (a *Assembler) render(ctx context.Context, r *run, id string) error {
	if id == "" {
		return nil
	}
	if !r.eligible(id) {
		return nil
	}

	auth, err := a.directory.FindAuthorizable(ctx, r.requester, id)
	if err != nil {
		// Deleted or unknown accounts are expected in stale candidate
		// pools; skip without noise
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	r.records = append(r.records, Record{
		Target:  id,
		Profile: a.formatter.PublicFields(auth),
	})
	r.markProcessed(id)
	return nil
}
