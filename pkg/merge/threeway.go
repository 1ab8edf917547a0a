// Package merge implements the three-way merger of spec §4.7: given
// base/ours/theirs trees of the same root type, classify every diff
// into safe (applies without dispute) or a true-conflict pair, mutating
// base in place when the caller wants the simple apply-safe-diffs mode.
//
// Grounded structurally on
// _examples/other_examples/849ffa47_rgehrsitz-archon__internal-merge-three_way.go.go
// (a Resolution{Conflicts, ...} struct built from two independently
// diffed change sets, with Apply as a separate method) for Go shape;
// the eleven numbered steps themselves come directly from spec §4.7,
// which has no example-pack analogue to port line-by-line.
package merge

import (
	"fmt"

	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/sch"
)

// Pair groups the ours-side and theirs-side diffs that conflict with
// each other (spec §4.7 steps 7-9).
type Pair struct {
	Ours   []*diff.Diff
	Theirs []*diff.Diff
}

// Result is the merge's output in request-safe-diffs mode (spec §4.7
// step 10).
type Result struct {
	SafeOurs          []*diff.Diff
	SafeTheirs        []*diff.Diff
	SafePairs         []Pair
	TrueConflictPairs []Pair
}

// WantSafeDiffs selects between spec §4.7 step 10 (return the full
// breakdown for a UI to present) and step 11 (apply safe diffs to base
// in place, return only true conflicts).
type Request struct {
	WantSafeDiffs bool
}

// ThreeWay runs the full merge procedure of spec §4.7. On
// WantSafeDiffs=false, base is mutated in place with every safe diff
// applied; the returned Result's SafeOurs/SafeTheirs/SafePairs are left
// empty in that mode since the caller asked only for the leftover
// conflicts.
func ThreeWay(base, ours, theirs *node.Node, req Request) (*Result, error) {
	// Every diff target must be identity-addressable across the clone
	// taken in step 2, so mint identities for any node that doesn't
	// already carry one (a real source-ecosystem "uuid" child) before
	// diffing, rather than letting Identity() mint them lazily and
	// inconsistently between base and its clone.
	assignIdentities(base)

	dOurs, ok := DiffTree(base, ours)
	if !ok {
		return nil, fmt.Errorf("merge: base and ours are disparate trees")
	}
	dTheirs, ok := DiffTree(base, theirs)
	if !ok {
		return nil, fmt.Errorf("merge: base and theirs are disparate trees")
	}
	dOurs = diff.Leaves(dOurs)
	dTheirs = diff.Leaves(dTheirs)

	// Step 2: clone state so trial application never touches base.
	clone := base.Clone()
	targets := comparableTargets(clone)
	cOurs := diff.Rebind(dOurs, targets)
	cTheirs := diff.Rebind(dTheirs, targets)

	// Step 3: apply every important ours diff; any conflict is fatal.
	for _, d := range important(cOurs) {
		if res := applyDiff(d); res == diff.Conflict {
			return nil, fmt.Errorf("merge: MergeInvariantViolation: ours diff on %q conflicted against base", d.Key)
		}
	}

	// Step 4: apply important theirs diffs, collecting conflicts.
	var theirsConflicts []*diff.Diff
	for _, d := range important(cTheirs) {
		if res := applyDiff(d); res != diff.Applied && res != diff.Redundant {
			theirsConflicts = append(theirsConflicts, d)
		}
	}

	// Step 5: unimportant ours diffs must never conflict.
	for _, d := range unimportant(cOurs) {
		if res := applyDiff(d); res == diff.Conflict {
			return nil, fmt.Errorf("merge: MergeInvariantViolation: unimportant ours diff on %q conflicted", d.Key)
		}
	}

	// Step 6: unimportant theirs diffs, treated as important.
	for _, d := range unimportant(cTheirs) {
		if res := applyDiff(d); res != diff.Applied && res != diff.Redundant {
			theirsConflicts = append(theirsConflicts, d)
		}
	}

	// Steps 7-8: for each theirs conflict, find its associated ours
	// diffs via a fresh trial, then merge pairs sharing an ours diff.
	var pairs []Pair
	for _, tc := range theirsConflicts {
		assoc := associatedOurs(base, cOurs, tc)
		pairs = addToPairs(pairs, assoc, tc)
	}

	// Step 9: split safe pairs from true conflict pairs.
	var safePairs, trueConflicts []Pair
	for _, p := range pairs {
		if allUnimportant(p.Ours) || allUnimportant(p.Theirs) {
			safePairs = append(safePairs, p)
		} else {
			trueConflicts = append(trueConflicts, p)
		}
	}

	if !req.WantSafeDiffs {
		applySafeDiffs(base, cOurs, cTheirs, pairs)
		return &Result{TrueConflictPairs: trueConflicts}, nil
	}

	safeOurs, safeTheirs := diffsNotInPairs(cOurs, cTheirs, pairs)
	return &Result{
		SafeOurs:          safeOurs,
		SafeTheirs:        safeTheirs,
		SafePairs:         safePairs,
		TrueConflictPairs: trueConflicts,
	}, nil
}

func important(ds []*diff.Diff) []*diff.Diff {
	var out []*diff.Diff
	for _, d := range ds {
		if !d.Unimportant {
			out = append(out, d)
		}
	}
	return out
}

func unimportant(ds []*diff.Diff) []*diff.Diff {
	var out []*diff.Diff
	for _, d := range ds {
		if d.Unimportant {
			out = append(out, d)
		}
	}
	return out
}

func allUnimportant(ds []*diff.Diff) bool {
	for _, d := range ds {
		if !d.Unimportant {
			return false
		}
	}
	return true
}

// associatedOurs implements spec §4.7 step 7's second trial: reset to a
// fresh clone of base, apply only tc, then apply every ours diff with
// unimportant treated as important; every ours diff that now conflicts
// or turns redundant belongs to tc's pair.
func associatedOurs(base *node.Node, cOurs []*diff.Diff, tc *diff.Diff) []*diff.Diff {
	trial := base.Clone()
	targets := comparableTargets(trial)
	retargetedTC := diff.Rebind([]*diff.Diff{tc}, targets)[0]
	applyDiff(retargetedTC)

	retargetedOurs := diff.Rebind(cOurs, targets)
	var assoc []*diff.Diff
	for i, d := range retargetedOurs {
		res := applyDiff(d)
		if res == diff.Conflict || res == diff.Redundant {
			assoc = append(assoc, cOurs[i])
		}
	}
	return assoc
}

func addToPairs(pairs []Pair, ours []*diff.Diff, theirs *diff.Diff) []Pair {
	if len(ours) == 0 {
		return append(pairs, Pair{Theirs: []*diff.Diff{theirs}})
	}
	// Merge with every existing pair sharing at least one ours diff;
	// spec §4.7 step 8.
	merged := Pair{Theirs: []*diff.Diff{theirs}}
	merged.Ours = append(merged.Ours, ours...)
	var kept []Pair
	for _, p := range pairs {
		if sharesOurs(p.Ours, ours) {
			merged.Ours = append(merged.Ours, p.Ours...)
			merged.Theirs = append(merged.Theirs, p.Theirs...)
			continue
		}
		kept = append(kept, p)
	}
	return append(kept, merged)
}

func sharesOurs(a, b []*diff.Diff) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func diffsNotInPairs(cOurs, cTheirs []*diff.Diff, pairs []Pair) (safeOurs, safeTheirs []*diff.Diff) {
	inOurs := map[*diff.Diff]bool{}
	inTheirs := map[*diff.Diff]bool{}
	for _, p := range pairs {
		for _, d := range p.Ours {
			inOurs[d] = true
		}
		for _, d := range p.Theirs {
			inTheirs[d] = true
		}
	}
	for _, d := range cOurs {
		if !inOurs[d] {
			safeOurs = append(safeOurs, d)
		}
	}
	for _, d := range cTheirs {
		if !inTheirs[d] {
			safeTheirs = append(safeTheirs, d)
		}
	}
	return safeOurs, safeTheirs
}

func applySafeDiffs(base *node.Node, cOurs, cTheirs []*diff.Diff, pairs []Pair) {
	targets := comparableTargets(base)
	safeOurs, safeTheirs := diffsNotInPairs(cOurs, cTheirs, pairs)
	for _, d := range diff.Rebind(safeOurs, targets) {
		applyDiff(d)
	}
	for _, d := range diff.Rebind(safeTheirs, targets) {
		applyDiff(d)
	}
	for _, p := range pairs {
		if allUnimportant(p.Ours) {
			for _, d := range diff.Rebind(p.Theirs, targets) {
				applyDiff(d)
			}
		} else if allUnimportant(p.Theirs) {
			for _, d := range diff.Rebind(p.Ours, targets) {
				applyDiff(d)
			}
		}
	}
}

func assignIdentities(root *node.Node) {
	root.Walk(func(n *node.Node) { n.Identity() })
}

func comparableTargets(root *node.Node) map[string]diff.Target {
	out := map[string]diff.Target{}
	root.Walk(func(n *node.Node) {
		if n.HasIdentity() {
			out[n.Identity()] = sch.Wrap(n)
		}
	})
	return out
}
