package sch

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

func init() {
	registry.Register("property", "field")
}

// Field is a name/value property attached to a symbol instance, sheet,
// or the schematic page itself (kicad's "property", spec glossary
// "field/property"). Its two leading data atoms (name, value) aren't
// ordinary Props children — they're positional values on the node
// itself — so Field overrides Equals/DiffAgainst for those two slots
// and delegates the rest (at/effects/id and the hide flag) to Fields.
type Field struct {
	Base
	NullRender
	NullNet
}

func NewField(n *node.Node) *Field {
	return &Field{Base: newBase(n, []string{"at", "effects", "id"}, []string{"hide"})}
}

func stringData(n *node.Node, index int) string {
	data := n.Data()
	if index < 0 || index >= len(data) || data[index].IsNode() {
		return ""
	}
	return data[index].Value.Str
}

// Name is the field's name (the first data atom).
func (f *Field) Name() string { return stringData(f.N, 0) }

// Value is the field's value (the second data atom).
func (f *Field) Value() string { return stringData(f.N, 1) }

// Equals overrides Base.Equals to also compare Name/Value, which live
// as positional data rather than keyed children.
func (f *Field) Equals(other diff.Comparable) bool {
	o, ok := other.(*Field)
	if !ok {
		return false
	}
	return f.Name() == o.Name() && f.Value() == o.Value() && diff.EqualsFields(&f.Fields, &o.Fields)
}

// DiffAgainst overrides Base.DiffAgainst to surface a "value" diff when
// only the value text changed, since the source ecosystem treats a
// field's renamed identity as effectively a different field (list-
// matched as remove+add) rather than a modify.
func (f *Field) DiffAgainst(other diff.Comparable) ([]*diff.Diff, bool) {
	o, ok := other.(*Field)
	if !ok {
		return nil, false
	}
	if f.Name() != o.Name() {
		return nil, false
	}
	kids, ok := diff.DiffFields(f, &f.Fields, &o.Fields)
	if !ok {
		return nil, false
	}
	if f.Value() != o.Value() {
		kids = append(kids, diff.New(f, "value", diff.ModifyPayload(f.Value(), o.Value()), false))
	}
	return kids, true
}

// Distance overrides Base's default (which would silently fall back to
// the non-overridden Fields-only Equals via embedding, since Go method
// promotion isn't virtual): it must go through Field's own Equals so a
// renamed value is seen as a real difference during list matching.
func (f *Field) Distance(other diff.Comparable, fast bool) (int, bool) {
	o, ok := other.(*Field)
	if !ok {
		return 0, false
	}
	if f.Equals(o) {
		return 0, true
	}
	return 1, true
}

// DeclareVars defines a variable named after the field (name as written),
// per kicad_sch.py:title_block.fillvars's general pattern of exposing
// every property as a same-named variable in the enclosing context.
func (f *Field) DeclareVars(v VarSink, diffs []*diff.Diff, ctx node.Context) {
	name := f.Name()
	if name == "" {
		return
	}
	v.Define(ctx.Push(f.N), name, f.Value())
}

// TitleBlock is the schematic/worksheet page's title-block metadata
// (title, company, comment N, rev, date), grounded on
// kicad_sch.py:title_block.
type TitleBlock struct {
	Base
	NullRender
	NullNet
}

func NewTitleBlock(n *node.Node) *TitleBlock {
	return &TitleBlock{Base: newBase(n, []string{"title", "company", "date", "rev", "paper"}, nil)}
}

func init() {
	registry.Register("title_block", "title-block")
}

// DeclareVars exposes every title-block child as an uppercased
// variable in the page's context, matching kicad_sch.py:title_block's
// fillvars (minus the worksheet-variable-default-filling portion, which
// belongs to the worksheet page class, not the title block itself).
func (t *TitleBlock) DeclareVars(v VarSink, diffs []*diff.Diff, ctx node.Context) {
	sub := ctx.Push(t.N)
	for _, it := range t.N.Data() {
		if !it.IsNode() {
			continue
		}
		name := it.Node.Type()
		if name == "date" {
			name = "ISSUE_DATE"
		}
		data := it.Node.Data()
		if len(data) == 0 || data[len(data)-1].IsNode() {
			continue
		}
		v.Define(sub, upperVar(name), data[len(data)-1].Value.Str)
	}
}

func upperVar(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
