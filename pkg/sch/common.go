// Package sch implements the semantic classes of spec §3: typed
// overlays on raw s-expression nodes, each carrying the default
// Comparable implementation from pkg/diff and the three rendering-
// collaborator hooks of spec §6 (Render, DeclareVars, DeclareNet).
//
// Grounded on original_source/kischvidimer/kicad_sch.py,
// kicad_sym.py, and kicad_wks.py: every class below corresponds to a
// @sexp.handler-decorated Python class there. Render exists only as an
// interface point — concrete SVG drawing is a non-goal — so its
// default implementation below is a no-op; DeclareVars and DeclareNet
// carry the real per-class logic those two files implement.
package sch

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
)

// DrawStage is the bitmask of rendering passes a Render call is being
// asked to contribute to (spec §6). No concrete renderer consumes it in
// this rewrite; it is retained so the interface point has the shape the
// source ecosystem's collaborators expect.
type DrawStage uint32

const (
	DrawWorksheet DrawStage = 1 << iota
	DrawWorksheetPage
	DrawImage
	DrawBackground
	DrawSymbolBackground
	DrawPins
	DrawSymbolForeground
	DrawTextPage
	DrawPropsPage
	DrawFGPage
	DrawText
	DrawProps
	DrawForeground
)

// RenderSink is the drawing-primitive collaborator of spec §6
// (`fillsvg`'s first argument). No concrete implementation ships with
// this rewrite; SVG rendering is a non-goal.
type RenderSink interface {
	// Primitive is deliberately unspecified beyond a single escape
	// hatch: real renderers are expected to type-assert to their own
	// richer interface. This keeps RenderSink from forcing every
	// semantic class to know about svg-specific primitives it has no
	// business depending on.
	Primitive(kind string, args map[string]interface{})
}

// VarSink is the variable-declaration collaborator of spec §6
// (`fillvars`'s first argument); pkg/vars.Engine implements it.
type VarSink interface {
	Define(ctx node.Context, name, value string)
}

// NetSink is the connectivity-registration collaborator of spec §6
// (`fillnetlist`'s first argument); pkg/netlist.Builder implements it.
type NetSink interface {
	RegisterPin(ctx node.Context, n *node.Node, coordKey, labelKey string, category int)
	RegisterSegment(ctx node.Context, a, b [2]string, isBus bool)
	// RegisterBusMembers reports a bus-typed label or sheet-pin's
	// individual conductor names, so the net-bus registered at coordKey
	// can carry a member map the way netlister.py's Bus subclass does
	// (spec §4.9 "Data structures").
	RegisterBusMembers(ctx node.Context, n *node.Node, coordKey string, members []string)
}

// Renderable is the common contract every semantic class satisfies so
// a generic tree-walk can fan out rendering, variable declaration, and
// netlist registration without a type switch per class (spec §6).
type Renderable interface {
	diff.Comparable
	Render(out RenderSink, diffs []*diff.Diff, stage DrawStage, ctx node.Context)
	DeclareVars(vars VarSink, diffs []*diff.Diff, ctx node.Context)
	DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context)
}

// NullRender is embedded by every semantic class below to satisfy
// Render with a no-op, since no concrete renderer exists in this
// rewrite (spec Non-goals: "SVG/raster rendering").
type NullRender struct{}

// Render is a no-op: the interface point exists, but this rewrite
// carries no concrete drawing backend.
func (NullRender) Render(RenderSink, []*diff.Diff, DrawStage, node.Context) {}

// NullVars is embedded by classes that declare no variables of their
// own, falling through to whatever ancestor scope already applies.
type NullVars struct{}

func (NullVars) DeclareVars(VarSink, []*diff.Diff, node.Context) {}

// NullNet is embedded by classes with no connectivity of their own
// (most graphics primitives).
type NullNet struct{}

func (NullNet) DeclareNet(NetSink, []*diff.Diff, node.Context) {}

// Base embeds a *node.Node and exposes the shared diff.Comparable
// primitives every semantic class needs: identity, equality,
// Fields-driven diff/apply, and ChildIsDeleted. Each concrete class
// embeds Base plus diff.Fields configured with its own Props/Flags, and
// adds typed accessors plus DeclareVars/DeclareNet where its behavior
// differs from the defaults.
type Base struct {
	N *node.Node
	diff.Fields
}

func newBase(n *node.Node, props, flags []string) Base {
	return Base{N: n, Fields: diff.Fields{N: n, Props: props, Flags: flags}}
}

// Underlying exposes the node a semantic-class wrapper overlays, for
// callers (list-child apply in pkg/merge) that need to mutate children
// pkg/diff.Fields doesn't cover because they're list-valued rather than
// singular (spec §4.6).
func (b *Base) Underlying() *node.Node { return b.N }

// Identity satisfies diff.Target via the embedded Fields.

// Equals implements diff.Comparable's default: same underlying node
// type, same Fields values. Classes with list-valued children (pin
// sets, property sets) override this to pair entries up first.
func (b *Base) Equals(other diff.Comparable) bool {
	o, ok := other.(interface{ fields() *diff.Fields })
	if !ok {
		return false
	}
	return diff.EqualsFields(&b.Fields, o.fields())
}

func (b *Base) fields() *diff.Fields { return &b.Fields }

// DiffAgainst implements Fields-driven diffing against another value of
// the same concrete Go type.
func (b *Base) DiffAgainst(other diff.Comparable) ([]*diff.Diff, bool) {
	o, ok := other.(interface{ fields() *diff.Fields })
	if !ok {
		return nil, false
	}
	return diff.DiffFields(b, &b.Fields, o.fields())
}

// Distance gives the default coarse similarity: 0 if equal, 1 otherwise.
// Classes whose list matcher needs finer granularity (pkg/match pairing
// candidates by partial similarity) override this.
func (b *Base) Distance(other diff.Comparable, fast bool) (int, bool) {
	if !b.sameKind(other) {
		return 0, false
	}
	if b.Equals(other) {
		return 0, true
	}
	return 1, true
}

func (b *Base) sameKind(other diff.Comparable) bool {
	o, ok := other.(interface{ fields() *diff.Fields })
	if !ok {
		return false
	}
	return b.N.Type() == o.fields().N.Type()
}

// Apply implements Fields-driven apply.
func (b *Base) Apply(key string, payload diff.Payload) diff.ApplyResult {
	return diff.ApplyFields(&b.Fields, key, payload)
}

// ChildIsDeleted reports whether child's underlying node is still
// present among b.N's children; if not, a deletion diff already
// consumed it.
func (b *Base) ChildIsDeleted(child diff.Comparable) bool {
	id := child.Identity()
	found := false
	b.N.Walk(func(n *node.Node) {
		if n.HasIdentity() && n.Identity() == id {
			found = true
		}
	})
	return !found
}
