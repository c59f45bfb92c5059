package related

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/christianvuerings/nakamura/profile"
	"github.com/christianvuerings/nakamura/search"
)

// Over many runs with a fixed 20-member pool and 8 fallback slots, every
// member should be drawn with roughly equal frequency: no systematic bias
// toward any group or any position in the member list.
func TestFallbackShuffleFairness(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test, skipped in -short mode")
	}

	const (
		runs  = 1000
		quota = 11
		pool  = 20
	)

	dir := newFakeDirectory()
	dir.addUser("me")

	primary := []string{"p1", "p2", "p3"}
	for _, id := range primary {
		dir.addUser(id)
	}

	var members []string
	for i := 0; i < pool; i++ {
		id := fmt.Sprintf("member%02d", i)
		dir.addUser(id)
		members = append(members, id)
	}
	dir.addGroup("group-a", append([]string{"me"}, members[:10]...)...)
	dir.addGroup("group-b", append([]string{"me"}, members[10:]...)...)

	a := New(dir, profile.NewFormatter(), quota, zap.NewNop().Sugar())

	counts := make(map[string]int, pool)
	for i := 0; i < runs; i++ {
		items := []search.Result{
			contactResult("hub", "p1"),
			contactResult("hub", "p2"),
			contactResult("hub", "p3"),
		}
		records, err := a.Assemble(context.Background(), "me", nil,
			search.NewSliceResults(items, nil), quota)
		require.NoError(t, err)
		require.Len(t, records, quota)

		got := targets(records)
		require.Equal(t, primary, got[:3], "primary records always lead, in stream order")

		seen := make(map[string]bool)
		for _, id := range got {
			require.False(t, seen[id], "duplicate %s in run %d", id, i)
			seen[id] = true
		}
		for _, id := range got[3:] {
			counts[id]++
		}
	}

	// Each member fills one of 8 slots out of a 20-member pool: expected
	// 400 appearances over 1000 runs. A uniform shuffle stays well inside
	// these bounds; positional bias would push members far outside them.
	const expected = runs * (quota - 3) / pool
	for _, id := range members {
		c := counts[id]
		assert.Greater(t, c, expected/2, "member %s underrepresented: %d of ~%d", id, c, expected)
		assert.Less(t, c, expected*3/2, "member %s overrepresented: %d of ~%d", id, c, expected)
	}
}

// Group visiting order is shuffled too: with a quota of one fallback slot
// and two single-member groups, both members must show up over many runs.
func TestFallbackGroupOrderRandomized(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test, skipped in -short mode")
	}

	dir := newFakeDirectory()
	dir.addUser("me")
	dir.addUser("left")
	dir.addUser("right")
	dir.addGroup("group-l", "me", "left")
	dir.addGroup("group-r", "me", "right")

	a := New(dir, profile.NewFormatter(), 1, zap.NewNop().Sugar())

	counts := make(map[string]int)
	for i := 0; i < 200; i++ {
		records, err := a.Assemble(context.Background(), "me", nil,
			search.NewSliceResults(nil, nil), 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		counts[records[0].Target]++
	}

	assert.Greater(t, counts["left"], 0, "left never drawn in 200 runs")
	assert.Greater(t, counts["right"], 0, "right never drawn in 200 runs")
}
