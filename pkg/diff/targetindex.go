package diff

import "fmt"

// slot is the (identity, key) addressing scheme of spec §4.5: "a
// parallel target-index structure indexed by (node-identity, key)".
type slot struct {
	identity string
	key      string
}

// TargetIndex is the lookup from (node-identity, key) to the diffs that
// touch that slot. It must be rebuilt (not deep-copied — spec §5
// "Deep-copying the target-index itself is disallowed") whenever the
// tree it indexes is cloned, since a Diff's Target pointer still refers
// to the pre-clone tree.
type TargetIndex struct {
	bySlot map[slot][]*Diff
}

// ErrCopyTargetIndex is returned if code attempts to deep-copy a
// TargetIndex directly, which is an InternalInvariantViolation per spec
// §7 — target indexes must be rebuilt from a diff list, never cloned.
var ErrCopyTargetIndex = fmt.Errorf("diff: TargetIndex must be rebuilt, not deep-copied")

// Clone always fails with ErrCopyTargetIndex; a copy of an index is made
// by calling Build on the (rebound) diff list instead.
func (idx *TargetIndex) Clone() (*TargetIndex, error) { return nil, ErrCopyTargetIndex }

// Build indexes every leaf diff in diffs by (target identity, key).
func Build(diffs []*Diff) *TargetIndex {
	idx := &TargetIndex{bySlot: map[slot][]*Diff{}}
	for _, d := range Leaves(diffs) {
		s := slot{identity: d.Target.Identity(), key: d.Key}
		idx.bySlot[s] = append(idx.bySlot[s], d)
	}
	return idx
}

// Get returns the diffs touching (target, key), in the order they were
// indexed.
func (idx *TargetIndex) Get(target Target, key string) []*Diff {
	return idx.bySlot[slot{identity: target.Identity(), key: key}]
}

// ForTarget returns every diff touching any key of target.
func (idx *TargetIndex) ForTarget(target Target) []*Diff {
	var out []*Diff
	id := target.Identity()
	for s, ds := range idx.bySlot {
		if s.identity == id {
			out = append(out, ds...)
		}
	}
	return out
}

// Rebind retargets every diff in diffs whose current Target identity
// exists in byIdentity to the corresponding object in byIdentity,
// returning the retargeted copies as a new diff list (the input diffs
// are not modified; call Build on the result for an index). This is
// how a trial merge clone is made usable: the clone produces a fresh set
// of Comparable objects sharing identities with the original, and
// Rebind walks the (unchanged) diff list once to point at the clone
// instead (spec §9 "rebuild the diff's target index by walking the
// cloned tree once").
func Rebind(diffs []*Diff, byIdentity map[string]Target) []*Diff {
	out := make([]*Diff, len(diffs))
	for i, d := range diffs {
		nd := *d
		if repl, ok := byIdentity[d.Target.Identity()]; ok {
			nd.Target = repl
		}
		if d.Payload.Kind == Children {
			nd.Payload = ChildrenPayload(Rebind(d.Payload.Kids, byIdentity))
		}
		out[i] = &nd
	}
	return out
}
