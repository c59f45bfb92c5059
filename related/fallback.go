package related

import (
	"context"
	"sort"

	"github.com/christianvuerings/nakamura/errors"
)

// collectFallback fills remaining quota with members of the groups the
// requester belongs to. Groups are visited in random order because the
// quota can be met at any point, and the collected member pool is shuffled
// independently so repeated runs surface different people.
func (a *Assembler) collectFallback(ctx context.Context, r *run) error {
	// The requester must exist; a feed for a missing user is a fatal
	// inconsistency, not a shortfall.
	if _, err := a.directory.FindAuthorizable(ctx, r.requester, r.requester); err != nil {
		if errors.IsNotFound(err) {
			return errors.Wrapf(err, "requester %s does not exist", r.requester)
		}
		return err
	}

	principals, err := a.directory.Principals(ctx, r.requester)
	if err != nil {
		return err
	}
	if len(principals) == 0 {
		return nil
	}

	rng := newRunRand()

	shuffled := make([]string, len(principals))
	copy(shuffled, principals)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	relatedUsers := make(map[string]struct{})
	for _, principal := range shuffled {
		// Stop resolving groups once the quota is already met
		if r.size() >= r.quota {
			break
		}

		group, err := a.directory.FindAuthorizable(ctx, r.requester, principal)
		if err != nil {
			// Not every principal resolves to a group; skip the ones that
			// no longer exist
			if errors.IsNotFound(err) {
				continue
			}
			return err
		}
		if !group.IsGroup() {
			continue
		}

		members, err := a.directory.Members(ctx, group.ID)
		if err != nil {
			return err
		}
		for _, member := range members {
			relatedUsers[member] = struct{}{}
		}
	}

	// Sorted first so the shuffle is the only source of ordering
	candidates := make([]string, 0, len(relatedUsers))
	for id := range relatedUsers {
		candidates = append(candidates, id)
	}
	sort.Strings(candidates)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, id := range candidates {
		// Quota guard: the member pool can be far larger than the
		// remaining quota
		if r.size() >= r.quota {
			break
		}
		if err := a.render(ctx, r, id); err != nil {
			return err
		}
	}

	return nil
}
