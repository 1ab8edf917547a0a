// Package diff implements the difference model of spec §4.5: diff
// records, the Comparable contract every semantic class must satisfy,
// and the target index used to look up which diffs touch a given node.
package diff

import "fmt"

// PayloadKind identifies which of the diff payload variants is carried.
type PayloadKind int

const (
	// Add is (None, new_value|new_node).
	Add PayloadKind = iota
	// Remove is (old_value|old_node, None).
	Remove
	// Modify is (old_value, new_value).
	Modify
	// Children is a recursive list of diffs to a sub-tree.
	Children
)

func (k PayloadKind) String() string {
	switch k {
	case Add:
		return "Add"
	case Remove:
		return "Remove"
	case Modify:
		return "Modify"
	case Children:
		return "Children"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// Payload is one of {Add, Remove, Modify, Children} per spec §4.5.
type Payload struct {
	Kind PayloadKind
	Old  interface{}
	New  interface{}
	Kids []*Diff
}

// AddPayload builds an Add payload.
func AddPayload(newVal interface{}) Payload { return Payload{Kind: Add, New: newVal} }

// RemovePayload builds a Remove payload.
func RemovePayload(oldVal interface{}) Payload { return Payload{Kind: Remove, Old: oldVal} }

// ModifyPayload builds a Modify payload.
func ModifyPayload(oldVal, newVal interface{}) Payload {
	return Payload{Kind: Modify, Old: oldVal, New: newVal}
}

// ChildrenPayload builds a Children payload wrapping nested diffs.
func ChildrenPayload(kids []*Diff) Payload { return Payload{Kind: Children, Kids: kids} }

// Target is implemented by anything a Diff can be applied to: the
// Comparable contract of spec §4.5.
type Target interface {
	// Identity returns a stable key for this target, used to index
	// diffs by (identity, key) so a diff's target can be relocated
	// after a deep copy (spec §4.5, §9).
	Identity() string
}

// Diff is a minimal record of a single change, or a recursive group
// thereof (spec §4.5).
type Diff struct {
	Target  Target
	Key     string
	Payload Payload

	// Unimportant marks a cosmetic/non-semantic diff: it may be merged
	// silently or dropped without surfacing to the user (spec
	// glossary).
	Unimportant bool

	// Parent is the enclosing diff when this diff was produced as part
	// of a Children payload, or nil for a top-level diff.
	Parent *Diff

	// ClassTag is a stable identifier derivable from this diff's
	// address in the tree, used by the rendering collaborator to map
	// DOM/SVG elements back to diffs (spec §4.5).
	ClassTag string
}

// New constructs a leaf diff.
func New(target Target, key string, payload Payload, unimportant bool) *Diff {
	return &Diff{Target: target, Key: key, Payload: payload, Unimportant: unimportant}
}

// Leaves flattens a diff tree (recursing through Children payloads) into
// the list of leaf (non-Children) diffs, setting each leaf's Parent
// pointer to the enclosing Children diff.
func Leaves(diffs []*Diff) []*Diff {
	var out []*Diff
	var walk func([]*Diff, *Diff)
	walk = func(ds []*Diff, parent *Diff) {
		for _, d := range ds {
			d.Parent = parent
			if d.Payload.Kind == Children {
				walk(d.Payload.Kids, d)
				continue
			}
			out = append(out, d)
		}
	}
	walk(diffs, nil)
	return out
}

// ApplyResult is the outcome of applying a single diff (spec §4.5
// "apply" and §7 error taxonomy).
type ApplyResult int

const (
	// Applied means the diff was applied cleanly.
	Applied ApplyResult = iota
	// Redundant means the target already equals the intended value.
	Redundant
	// Conflict means the target was already changed incompatibly.
	Conflict
)

func (r ApplyResult) String() string {
	switch r {
	case Applied:
		return "Applied"
	case Redundant:
		return "Redundant"
	case Conflict:
		return "Conflict"
	default:
		return fmt.Sprintf("ApplyResult(%d)", int(r))
	}
}

// Comparable is the per-semantic-class contract of spec §4.5.
type Comparable interface {
	Target
	// Equals reports structural equality.
	Equals(other Comparable) bool
	// DiffAgainst returns the list of child diffs needed to turn the
	// receiver into other, or (nil, false) if the two are disparate
	// (different kinds, not worth comparing structurally).
	DiffAgainst(other Comparable) (kids []*Diff, comparable bool)
	// Distance is a non-negative similarity metric (0 == exact match),
	// or (0, false) if disparate. When fast is set the implementation
	// may return 1 for any inequality and skip expensive analysis.
	Distance(other Comparable, fast bool) (int, bool)
	// Apply mutates the receiver per payload addressed at key.
	Apply(key string, payload Payload) ApplyResult
	// ChildIsDeleted reports whether a deletion diff already consumed
	// child, used to promote nested changes to redundant-or-conflict.
	ChildIsDeleted(child Comparable) bool
}
