package related

import (
	"context"
	"strings"

	"github.com/christianvuerings/nakamura/errors"
	"github.com/christianvuerings/nakamura/search"
)

// consumePrimary pulls the ranked candidate stream until it is exhausted or
// the quota is met, whichever comes first. Each item's candidate id is
// derived from its resource kind; unrecognized kinds are logged and skipped.
func (a *Assembler) consumePrimary(ctx context.Context, r *run, results search.Results) error {
	for r.size() < r.quota && results.Next() {
		item := results.Result()

		switch item.Kind {
		case search.KindContact:
			// Contact records locate the candidate in the last path segment
			id := lastPathSegment(item.Path)
			if id == "" {
				// A malformed locator means the upstream contract is broken;
				// abort rather than silently drop ranked results
				return errors.Wrapf(errors.ErrInvalidArgument, "contact result %q has no user segment", item.Path)
			}
			if err := a.render(ctx, r, id); err != nil {
				return err
			}

		case search.KindAuthorizable:
			// Raw authorizable records: the path is the candidate id itself
			if item.Path == "" {
				return errors.Wrap(errors.ErrInvalidArgument, "authorizable result has empty path")
			}
			if err := a.render(ctx, r, item.Path); err != nil {
				return err
			}

		default:
			a.logger.Warnw("Skipping search result with unhandled resource kind",
				"kind", item.Kind,
				"path", item.Path,
				"properties", item.Properties,
			)
		}
	}

	// A cursor that died mid-stream surfaces here; access denial is
	// resolved by the caller, anything else is fatal.
	return results.Err()
}

// lastPathSegment returns the portion of path after the final separator.
func lastPathSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}
