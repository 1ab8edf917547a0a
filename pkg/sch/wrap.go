package sch

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
)

// Wrap builds the typed semantic-class view for a promoted node,
// implementing the "sum type with a variant per semantic class plus a
// generic-node fallback" design note (spec §9): registry.Promote tags
// the raw node at parse time; Wrap is called lazily wherever code needs
// the typed Renderable view (diffing, variable expansion, netlisting),
// so untouched subtrees never pay wrapping cost.
func Wrap(n *node.Node) Renderable {
	switch n.Class() {
	case "polyline":
		return NewPolyline(n)
	case "arc":
		return NewArc(n)
	case "circle":
		return NewCircle(n)
	case "rectangle":
		return NewRectangle(n)
	case "image":
		return NewImage(n)
	case "stroke":
		return NewStroke(n)
	case "fill":
		return NewFill(n)
	case "effects":
		return NewEffects(n)
	case "field":
		return NewField(n)
	case "title-block":
		return NewTitleBlock(n)
	case ClassLocalLabel, ClassGlobalLabel, ClassHierLabel, ClassSheetPin:
		return NewLabel(n)
	case "wire", "bus":
		return NewWire(n)
	case "junction":
		return NewJunction(n)
	case "no-connect":
		return NewNoConnect(n)
	case "bus-entry":
		return NewBusEntry(n)
	case ClassPinDef:
		return NewPinDef(n)
	case ClassPinInst:
		return NewPinInst(n)
	case ClassSymbolDef:
		return NewSymbolDef(n)
	case ClassSymbolInst:
		return NewSymbolInst(n)
	case ClassSymbolBody:
		return NewSymbolBody(n)
	case "sheet":
		return NewSheet(n)
	case "instance-path":
		return NewInstancePath(n)
	case "instance-project":
		return NewProjectScope(n)
	case "instance-path-entry":
		return NewPathEntry(n)
	case "schematic-page":
		return NewPage(n)
	case "worksheet":
		return NewWorksheet(n)
	case "symbol-library":
		return NewSymbolLibrary(n)
	case "project-descriptor":
		return NewProject(n)
	case "project-text-variable":
		return NewTextVariable(n)
	default:
		return NewGeneric(n)
	}
}

// Generic is the fallback variant for any node the registry never
// classified (unrecognized or deliberately untyped keywords): it still
// satisfies Renderable via Fields with no declared Props, so structural
// equality/diff/apply degrade to "equal iff textually identical" rather
// than panicking.
type Generic struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewGeneric(n *node.Node) *Generic {
	return &Generic{Base: newBase(n, nil, nil)}
}

// Equals overrides Base's Fields-driven default (which, with no
// declared Props, would treat any two same-keyword nodes as equal) with
// full recursive structural equality — the correct fallback when a
// keyword carries no registered semantic class to say which children
// matter.
func (g *Generic) Equals(other diff.Comparable) bool {
	o, ok := other.(*Generic)
	if !ok {
		return false
	}
	return g.N.Equal(o.N)
}

// DiffAgainst overrides Base's Fields-driven default (empty Props,
// always comparable) with a structural diff over every singular
// child-node type present on either side. Genuinely list-valued
// children (more than one occurrence on either side) are left alone:
// an unregistered keyword's list semantics aren't knowable generically,
// so callers that need that get it from pkg/merge's list-aware tree
// differ layered on top.
func (g *Generic) DiffAgainst(other diff.Comparable) ([]*diff.Diff, bool) {
	o, ok := other.(*Generic)
	if !ok {
		return nil, false
	}
	if g.N.Type() != o.N.Type() {
		return nil, false
	}
	var out []*diff.Diff
	seen := map[string]bool{}
	for _, typ := range childTypes(g.N, o.N) {
		if seen[typ] {
			continue
		}
		seen[typ] = true
		aList, bList := g.N.ChildrenOf(typ), o.N.ChildrenOf(typ)
		switch {
		case len(aList) == 1 && len(bList) == 1:
			if !aList[0].Equal(bList[0]) {
				out = append(out, diff.New(g, typ, diff.ModifyPayload(aList[0], bList[0]), false))
			}
		case len(aList) == 0 && len(bList) == 1:
			out = append(out, diff.New(g, typ, diff.AddPayload(bList[0]), false))
		case len(aList) == 1 && len(bList) == 0:
			out = append(out, diff.New(g, typ, diff.RemovePayload(aList[0]), false))
		}
	}
	return out, true
}

// Distance overrides Base's default for the same reason Field does:
// embedding doesn't give virtual dispatch, so Base.Distance would
// otherwise compare via the non-overridden Fields-based Equals instead
// of Generic's structural one.
func (g *Generic) Distance(other diff.Comparable, fast bool) (int, bool) {
	o, ok := other.(*Generic)
	if !ok {
		return 0, false
	}
	if g.Equals(o) {
		return 0, true
	}
	return 1, true
}

func childTypes(a, b *node.Node) []string {
	var out []string
	seen := map[string]bool{}
	for _, it := range a.Items() {
		if it.IsNode() && !seen[it.Node.Type()] {
			seen[it.Node.Type()] = true
			out = append(out, it.Node.Type())
		}
	}
	for _, it := range b.Items() {
		if it.IsNode() && !seen[it.Node.Type()] {
			seen[it.Node.Type()] = true
			out = append(out, it.Node.Type())
		}
	}
	return out
}

// Apply overrides Base's Fields-driven default (which has no Props to
// key against) with direct mutation of the singular child named by key.
func (g *Generic) Apply(key string, payload diff.Payload) diff.ApplyResult {
	cur := g.N.ChildrenOf(key)
	switch payload.Kind {
	case diff.Add:
		newNode, ok := payload.New.(*node.Node)
		if !ok {
			return diff.Conflict
		}
		if len(cur) > 0 {
			if cur[0].Equal(newNode) {
				return diff.Redundant
			}
			return diff.Conflict
		}
		g.N.Append(node.NodeItem(newNode))
		return diff.Applied
	case diff.Remove:
		oldNode, ok := payload.Old.(*node.Node)
		if !ok || len(cur) == 0 {
			return diff.Redundant
		}
		if !cur[0].Equal(oldNode) {
			return diff.Conflict
		}
		removeFirstChildOfType(g.N, key)
		return diff.Applied
	case diff.Modify:
		oldNode, _ := payload.Old.(*node.Node)
		newNode, _ := payload.New.(*node.Node)
		if len(cur) == 0 {
			return diff.Conflict
		}
		if !cur[0].Equal(oldNode) {
			if cur[0].Equal(newNode) {
				return diff.Redundant
			}
			return diff.Conflict
		}
		removeFirstChildOfType(g.N, key)
		g.N.Append(node.NodeItem(newNode))
		return diff.Applied
	}
	return diff.Conflict
}

func removeFirstChildOfType(n *node.Node, typ string) {
	removed := false
	n.Remove(func(it node.Item) bool {
		if removed || !it.IsNode() || it.Node.Type() != typ {
			return false
		}
		removed = true
		return true
	})
}
