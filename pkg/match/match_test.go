package match_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/match"
)

// fakeItem is a minimal diff.Comparable stand-in for exercising the
// matcher in isolation from pkg/sch's real semantic classes.
type fakeItem struct {
	id  string
	val int
}

func (f *fakeItem) Identity() string { return f.id }
func (f *fakeItem) Equals(other diff.Comparable) bool {
	o, ok := other.(*fakeItem)
	return ok && o.val == f.val
}
func (f *fakeItem) DiffAgainst(other diff.Comparable) ([]*diff.Diff, bool) {
	o, ok := other.(*fakeItem)
	if !ok {
		return nil, false
	}
	if o.val == f.val {
		return nil, true
	}
	return []*diff.Diff{diff.New(f, "val", diff.ModifyPayload(f.val, o.val), false)}, true
}
func (f *fakeItem) Distance(other diff.Comparable, fast bool) (int, bool) {
	o, ok := other.(*fakeItem)
	if !ok {
		return 0, false
	}
	if o.val == f.val {
		return 0, true
	}
	return 1, true
}
func (f *fakeItem) Apply(key string, payload diff.Payload) diff.ApplyResult { return diff.Applied }
func (f *fakeItem) ChildIsDeleted(diff.Comparable) bool                    { return false }

func TestMatchExactThenAdded(t *testing.T) {
	base := []diff.Comparable{&fakeItem{"a", 1}, &fakeItem{"b", 2}}
	other := []diff.Comparable{&fakeItem{"x", 2}, &fakeItem{"y", 1}, &fakeItem{"z", 3}}

	results, added := match.Match(base, other)
	require.Len(t, results, 2)
	require.True(t, results[0].Matched)
	require.Equal(t, 1, results[0].OtherIndex) // "a"(1) matches "y"(1)
	require.True(t, results[1].Matched)
	require.Equal(t, 0, results[1].OtherIndex) // "b"(2) matches "x"(2)
	require.Equal(t, []int{2}, added)          // "z"(3) unmatched
}

func TestMatchRemoved(t *testing.T) {
	base := []diff.Comparable{&fakeItem{"a", 1}, &fakeItem{"b", 99}}
	other := []diff.Comparable{&fakeItem{"x", 1}}

	results, added := match.Match(base, other)
	require.True(t, results[0].Matched)
	require.False(t, results[1].Matched)
	require.Empty(t, added)
}
