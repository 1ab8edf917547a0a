package sch

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

func init() {
	registry.Register("sheet", "sheet")
	registry.Register("instances", "instance-path")
	registry.Register("project", "instance-project")
	registry.Register("path", "instance-path-entry")
}

// Sheet is a hierarchical-sheet instance on a page: its position/size
// box and a reference to the child page file, grounded on
// kicad_sch.py:sheet.
type Sheet struct {
	Base
	NullRender
}

func NewSheet(n *node.Node) *Sheet {
	return &Sheet{Base: newBase(n, []string{"at", "size", "stroke", "fill", "uuid", "instances"}, nil)}
}

// Name is the sheet's display name (its "Sheetname" property value).
func (s *Sheet) Name() string { return s.propertyValue("Sheetname") }

// File is the child schematic page's relative path (its "Sheetfile"
// property value).
func (s *Sheet) File() string { return s.propertyValue("Sheetfile") }

func (s *Sheet) propertyValue(name string) string {
	for _, p := range s.N.ChildrenOf("property") {
		if stringData(p, 0) == name {
			return stringData(p, 1)
		}
	}
	return ""
}

// DeclareVars defines FILENAME/FILEPATH/SHEETNAME in the sheet's own
// context, after kicad_sch.py:sheet.fillvars. SHEETPATH is not defined
// here.
func (s *Sheet) DeclareVars(v VarSink, diffs []*diff.Diff, ctx node.Context) {
	sub := ctx.Push(s.N)
	v.Define(sub, "FILENAME", baseName(s.File()))
	v.Define(sub, "FILEPATH", s.File())
	v.Define(sub, "SHEETNAME", s.Name())
}

func baseName(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

// DeclareNet registers this sheet's pins (parsed as ClassSheetPin
// labels, spec §4.4) through the normal child-fan-out; Sheet itself has
// no connectivity beyond what its pin children contribute.
func (s *Sheet) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {}

// Instances returns this sheet's per-project instance-tracking blocks,
// used by the project loader to recover the page number recorded for a
// given sheet path (kicad_sch.py:sheet.paths).
func (s *Sheet) Instances() []*InstancePath {
	var out []*InstancePath
	for _, n := range s.N.ChildrenOf("instances") {
		out = append(out, NewInstancePath(n))
	}
	return out
}

// InstancePath is the per-project, per-sheet-path tracking block
// attached to a symbol instance or sheet (kicad's "instances" /
// "project" / "path" nesting), grounded on kicad_sch.py:instances/path.
// It carries no connectivity or variables of its own: it exists purely
// so the project loader can resolve which reference designator and
// unit number a shared symbol-definition takes at a given sheet path.
type InstancePath struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewInstancePath(n *node.Node) *InstancePath {
	return &InstancePath{Base: newBase(n, []string{"project"}, nil)}
}

// Projects returns this instance-path block's per-project scopes
// (kicad tracks path overrides per project name, since a symbol or
// sheet library can be shared across more than one top-level project).
func (p *InstancePath) Projects() []*ProjectScope {
	var out []*ProjectScope
	for _, n := range p.N.ChildrenOf("project") {
		out = append(out, NewProjectScope(n))
	}
	return out
}

// ProjectScope is one ("project" name (path ...) ...) entry: the
// per-sheet-path overrides (page number, reference, unit) recorded for
// one project, grounded on kicad_sch.py:instances.paths.
type ProjectScope struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewProjectScope(n *node.Node) *ProjectScope {
	return &ProjectScope{Base: newBase(n, nil, nil)}
}

// Name is the project this scope's path entries belong to.
func (p *ProjectScope) Name() string { return stringData(p.N, 0) }

// Paths returns this scope's per-sheet-path entries.
func (p *ProjectScope) Paths() []*PathEntry {
	var out []*PathEntry
	for _, n := range p.N.ChildrenOf("path") {
		out = append(out, NewPathEntry(n))
	}
	return out
}

// PathEntry is one ("path" ...) leaf: the UUID path plus the
// reference/unit/page override at that path.
type PathEntry struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewPathEntry(n *node.Node) *PathEntry {
	return &PathEntry{Base: newBase(n, []string{"reference", "unit", "page"}, nil)}
}

// UUIDPath is the entry's leading atom: a "/"-joined chain of sheet
// instance UUIDs identifying where in the hierarchy this applies.
func (p *PathEntry) UUIDPath() string { return stringData(p.N, 0) }

// Reference is the reference-designator override recorded at this
// sheet path (symbol instances only).
func (p *PathEntry) Reference() string {
	if n := p.N.Get("reference"); n != nil {
		return stringData(n, 0)
	}
	return ""
}

// Unit is the unit-number override recorded at this sheet path (symbol
// instances only), 0 if absent.
func (p *PathEntry) Unit() int {
	if n := p.N.Get("unit"); n != nil {
		return intData(n, 0)
	}
	return 0
}

// Page is the page number recorded at this sheet path (sheet instances
// only), 0 if absent.
func (p *PathEntry) Page() int {
	if n := p.N.Get("page"); n != nil {
		return intData(n, 0)
	}
	return 0
}

func intData(n *node.Node, index int) int {
	data := n.Data()
	if index < 0 || index >= len(data) || data[index].IsNode() {
		return 0
	}
	v := data[index].Value
	if v.Kind == node.KindInt {
		return int(v.Int)
	}
	return 0
}
