package merge

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
)

// underlyingNode is satisfied by every pkg/sch semantic class via its
// embedded Base.
type underlyingNode interface {
	Underlying() *node.Node
}

// isListKey reports whether key names one of the repeated child types
// treediff.go diffs via list matching rather than via pkg/diff.Fields.
func isListKey(key string) bool {
	for _, k := range listKeys {
		if k == key {
			return true
		}
	}
	return false
}

// applyDiff applies a single leaf diff to its (already rebound) target,
// dispatching to list-aware apply for list-keyed diffs and to the
// target's own Fields-driven Apply otherwise (spec §4.5/§4.6 composed).
func applyDiff(d *diff.Diff) diff.ApplyResult {
	if d.Payload.Kind == diff.Children {
		return applyChildrenDiff(d)
	}
	if isListKey(d.Key) {
		return applyListDiff(d)
	}
	c, ok := d.Target.(diff.Comparable)
	if !ok {
		return diff.Conflict
	}
	return c.Apply(d.Key, d.Payload)
}

// applyChildrenDiff recurses: a Children payload means the paired child
// (found by identity, since Rebind already retargeted every leaf) needs
// its own nested diffs applied, not the parent.
func applyChildrenDiff(d *diff.Diff) diff.ApplyResult {
	worst := diff.Applied
	for _, kid := range d.Payload.Kids {
		res := applyDiff(kid)
		if res == diff.Conflict {
			return diff.Conflict
		}
		if res == diff.Redundant && worst == diff.Applied {
			worst = diff.Redundant
		}
	}
	return worst
}

func applyListDiff(d *diff.Diff) diff.ApplyResult {
	un, ok := d.Target.(underlyingNode)
	if !ok {
		return diff.Conflict
	}
	parent := un.Underlying()
	switch d.Payload.Kind {
	case diff.Add:
		newNode, ok := d.Payload.New.(*node.Node)
		if !ok {
			return diff.Conflict
		}
		for _, c := range parent.ChildrenOf(d.Key) {
			if c.Equal(newNode) {
				return diff.Redundant
			}
		}
		parent.Append(node.NodeItem(newNode))
		return diff.Applied
	case diff.Remove:
		oldNode, ok := d.Payload.Old.(*node.Node)
		if !ok {
			return diff.Conflict
		}
		found := false
		for _, c := range parent.ChildrenOf(d.Key) {
			if c.Equal(oldNode) {
				found = true
				break
			}
		}
		if !found {
			return diff.Redundant
		}
		removedOne := false
		parent.Remove(func(it node.Item) bool {
			if removedOne || !it.IsNode() || it.Node.Type() != d.Key {
				return false
			}
			if !it.Node.Equal(oldNode) {
				return false
			}
			removedOne = true
			return true
		})
		return diff.Applied
	default:
		return diff.Conflict
	}
}
