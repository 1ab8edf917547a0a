package diff

import "github.com/openschematic/schemdiff/pkg/node"

// Fields is an embeddable helper that gives a semantic class default
// Equals/DiffAgainst/Apply implementations driven by a declared list of
// child keys, porting the PROPS-driven defaults of
// original_source/kischvidimer/diff.py:Comparable — but, since this
// rewrite keeps the s-expression tree itself as the single source of
// truth (spec §3 "Lifecycle"), Fields operates directly on the
// underlying Node's children rather than on parallel Go struct fields.
//
// Props names child-node keys compared/diffed/applied as whole
// sub-nodes (e.g. "at", "uuid", "lib_id"). Flags names bare-atom
// children treated as boolean presence markers (e.g. "hide", "dnp"). A
// class with list-valued children (multiple "pin" sub-nodes) does not
// use Fields for that key; it implements its own DiffAgainst using
// pkg/match to pair up entries first.
type Fields struct {
	N     *node.Node
	Props []string
	Flags []string
}

// Identity satisfies diff.Target.
func (f *Fields) Identity() string { return f.N.Identity() }

func (f *Fields) childValue(key string) *node.Node { return f.N.Get(key) }

func nodeEqual(a, b *node.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}

// EqualsFields implements Fields-driven structural equality.
func EqualsFields(a, b *Fields) bool {
	if a.N.Type() != b.N.Type() {
		return false
	}
	for _, p := range a.Props {
		if !nodeEqual(a.childValue(p), b.childValue(p)) {
			return false
		}
	}
	for _, fl := range a.Flags {
		if a.N.Contains(fl) != b.N.Contains(fl) {
			return false
		}
	}
	return true
}

// DiffFields implements Fields-driven diffing: for each declared prop or
// flag whose value differs, emit an Add/Remove/Modify diff keyed by
// that name.
func DiffFields(target Target, a, b *Fields) ([]*Diff, bool) {
	if a.N.Type() != b.N.Type() {
		return nil, false
	}
	var out []*Diff
	for _, p := range a.Props {
		av, bv := a.childValue(p), b.childValue(p)
		if nodeEqual(av, bv) {
			continue
		}
		switch {
		case av == nil:
			out = append(out, New(target, p, AddPayload(bv), false))
		case bv == nil:
			out = append(out, New(target, p, RemovePayload(av), false))
		default:
			out = append(out, New(target, p, ModifyPayload(av, bv), false))
		}
	}
	for _, fl := range a.Flags {
		ac, bc := a.N.Contains(fl), b.N.Contains(fl)
		if ac == bc {
			continue
		}
		if bc {
			out = append(out, New(target, fl, AddPayload(fl), false))
		} else {
			out = append(out, New(target, fl, RemovePayload(fl), false))
		}
	}
	return out, true
}

// ApplyFields implements Fields-driven apply against the underlying
// Node's children.
func ApplyFields(f *Fields, key string, payload Payload) ApplyResult {
	for _, fl := range f.Flags {
		if fl == key {
			return applyFlag(f, fl, payload)
		}
	}
	isProp := false
	for _, p := range f.Props {
		if p == key {
			isProp = true
			break
		}
	}
	if !isProp {
		return Conflict
	}
	cur := f.childValue(key)
	switch payload.Kind {
	case Add:
		newNode, _ := payload.New.(*node.Node)
		if cur != nil {
			if nodeEqual(cur, newNode) {
				return Redundant
			}
			return Conflict
		}
		f.N.Append(node.NodeItem(newNode))
		return Applied
	case Remove:
		oldNode, _ := payload.Old.(*node.Node)
		if cur == nil {
			return Redundant
		}
		if !nodeEqual(cur, oldNode) {
			return Conflict
		}
		removeChildNode(f.N, key, cur)
		return Applied
	case Modify:
		oldNode, _ := payload.Old.(*node.Node)
		newNode, _ := payload.New.(*node.Node)
		if cur == nil {
			return Conflict
		}
		if !nodeEqual(cur, oldNode) {
			if nodeEqual(cur, newNode) {
				return Redundant
			}
			return Conflict
		}
		removeChildNode(f.N, key, cur)
		f.N.Append(node.NodeItem(newNode))
		return Applied
	}
	return Conflict
}

func applyFlag(f *Fields, flag string, payload Payload) ApplyResult {
	has := f.N.Contains(flag)
	switch payload.Kind {
	case Add:
		if has {
			return Redundant
		}
		f.N.Append(node.ValueItem(node.Atom(flag)))
		return Applied
	case Remove:
		if !has {
			return Redundant
		}
		f.N.Remove(func(it node.Item) bool {
			return !it.IsNode() && it.Value.IsAtom(flag)
		})
		return Applied
	}
	return Conflict
}

func removeChildNode(n *node.Node, key string, want *node.Node) {
	removedOne := false
	n.Remove(func(it node.Item) bool {
		if removedOne || !it.IsNode() {
			return false
		}
		if it.Node.Type() != key {
			return false
		}
		if !it.Node.Equal(want) {
			return false
		}
		removedOne = true
		return true
	})
}
