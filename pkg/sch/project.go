package sch

import (
	"time"

	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

func init() {
	registry.Register("schematic_project", "project-descriptor")
	registry.Register("text_variable", "project-text-variable")
}

// Project is the project descriptor's own root node: its name, an
// optional explicit root-sheet override, and global text-variable
// bindings every page in the sheet graph inherits. Grounded on
// kicad_pro.py:kicad_pro, whose source format is JSON; this rewrite's
// configuration note (SPEC_FULL §10) makes the descriptor an
// s-expression file instead, parsed by this module's own parser like
// everything else.
type Project struct {
	Base
	NullRender
	NullNet
}

func NewProject(n *node.Node) *Project {
	return &Project{Base: newBase(n, []string{"name", "root_sheet"}, nil)}
}

// Name is the project's declared name.
func (p *Project) Name() string {
	if n := p.N.Get("name"); n != nil {
		return stringData(n, 0)
	}
	return ""
}

// RootSheet is the explicit root-schematic filename, defaulting to
// "<name>.kicad_sch" per kicad's own convention when absent.
func (p *Project) RootSheet() string {
	if n := p.N.Get("root_sheet"); n != nil {
		return stringData(n, 0)
	}
	return p.Name() + ".kicad_sch"
}

// TextVariables returns the descriptor's global `${KEY}` bindings
// (kicad_pro.py's `self.variables`, the project file's "text_variables"
// map).
func (p *Project) TextVariables() map[string]string {
	out := map[string]string{}
	for _, n := range p.N.ChildrenOf("text_variable") {
		out[stringData(n, 0)] = stringData(n, 1)
	}
	return out
}

// DeclareVars seeds the project-global variables every page inherits
// before its own context-scoped variables take over (spec §4.8),
// grounded on kicad_pro.py:fillvars's global defines (CURRENT_DATE,
// PROJECTNAME, each text variable). PAGECOUNT and per-instance PAGENO
// depend on the resolved sheet graph, so the project loader defines
// those itself once traversal is complete, not here.
func (p *Project) DeclareVars(v VarSink, diffs []*diff.Diff, ctx node.Context) {
	v.Define(ctx, "CURRENT_DATE", time.Now().Format("2006-01-02"))
	v.Define(ctx, "PROJECTNAME", p.Name())
	for key, value := range p.TextVariables() {
		v.Define(ctx, key, value)
	}
}

// TextVariable is one ("text_variable" key value) leaf inside a project
// descriptor. It carries no connectivity or variables of its own beyond
// what Project.DeclareVars already exposes from the raw node, so its
// own hooks are no-ops; it exists as a semantic class purely so Wrap
// never falls through to the generic structural-equality fallback for
// it.
type TextVariable struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewTextVariable(n *node.Node) *TextVariable {
	return &TextVariable{Base: newBase(n, nil, nil)}
}

// Key is the variable's name.
func (t *TextVariable) Key() string { return stringData(t.N, 0) }

// Value is the variable's bound text.
func (t *TextVariable) Value() string { return stringData(t.N, 1) }
