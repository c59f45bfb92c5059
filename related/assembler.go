// Package related assembles the related-people feed: a quota-bounded,
// deduplicated list of candidate users drawn from a ranked search stream
// first, then from the requester's group memberships when the stream comes
// up short.
package related

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/christianvuerings/nakamura/directory"
	"github.com/christianvuerings/nakamura/errors"
	"github.com/christianvuerings/nakamura/search"
)

// Directory is the subset of directory lookups feed assembly needs.
type Directory interface {
	FindAuthorizable(ctx context.Context, viewerID, id string) (*directory.Authorizable, error)
	Principals(ctx context.Context, userID string) ([]string, error)
	Members(ctx context.Context, groupID string) ([]string, error)
}

// Formatter projects an authorizable into its public profile fields.
type Formatter interface {
	PublicFields(a *directory.Authorizable) map[string]interface{}
}

// Record is one emitted feed entry: the candidate's id and the public
// projection of their profile. Records appear in emission order, not in any
// global ranking.
type Record struct {
	Target  string                 `json:"target"`
	Profile map[string]interface{} `json:"profile"`
}

// Assembler runs feed assembly. One Assembler serves many requests; all
// mutable state lives in the per-run struct, so concurrent Assemble calls
// are independent.
type Assembler struct {
	directory Directory
	formatter Formatter
	minimum   int
	logger    *zap.SugaredLogger
}

// New creates an Assembler. minimum is the policy threshold below which a
// completed run logs a shortfall notice; it is independent of the per-run
// quota.
func New(dir Directory, formatter Formatter, minimum int, logger *zap.SugaredLogger) *Assembler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Assembler{
		directory: dir,
		formatter: formatter,
		minimum:   minimum,
		logger:    logger.Named("related-feed"),
	}
}

// Assemble consumes the ranked primary stream and, if the quota is still
// unmet, the group-membership fallback, returning at most quota records.
//
// Access denials anywhere during the run end it with whatever was collected
// so far; storage failures and caller contract violations are fatal and
// return no records.
func (a *Assembler) Assemble(ctx context.Context, requesterID string, connected []string, results search.Results, quota int) ([]Record, error) {
	if requesterID == "" {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "requester id is empty")
	}
	if quota <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "quota must be positive, got %d", quota)
	}

	r := newRun(requesterID, connected, quota)

	err := a.consumePrimary(ctx, r, results)
	if err == nil && r.size() < r.quota {
		err = a.collectFallback(ctx, r)
	}

	if err != nil {
		// Access denial is the one recoverable failure: end the run with
		// the partial result. Everything else aborts.
		if !errors.IsAccessDenied(err) {
			return nil, err
		}
		a.logger.Debugw("Access denied during feed assembly, returning partial results",
			"user_id", requesterID,
			"count", r.size(),
			"error", err,
		)
	}

	if r.size() < a.minimum {
		a.logger.Infow("Feed shortfall: fewer results than the policy minimum",
			"user_id", requesterID,
			"minimum", a.minimum,
			"count", r.size(),
		)
	}

	return r.records, nil
}

// newRunRand returns the run-scoped randomness source for fallback
// shuffling. Run-scoped so concurrent assemblies never share a rand.Rand.
func newRunRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
