package sch

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

func init() {
	registry.Register("kicad_sch", "schematic-page")
	registry.Register("kicad_wks", "worksheet")
	registry.Register("kicad_sym", "symbol-library")
}

// Page is a single schematic sheet's top-level document: version/
// generator metadata, title block, every drawing element, and nested
// sheets. Grounded on kicad_sch.py:sch (the "kicad_sch" handler).
type Page struct {
	Base
	NullRender
}

func NewPage(n *node.Node) *Page {
	return &Page{Base: newBase(n, []string{"version", "generator", "generator_version", "uuid", "paper", "title_block", "lib_symbols"}, nil)}
}

// DeclareVars declares the page's title-block variables in the page's
// own context (ctx pushed onto the page node). It defines no generator
// metadata and no FILENAME or SHEETPATH variables of its own.
func (p *Page) DeclareVars(v VarSink, diffs []*diff.Diff, ctx node.Context) {
	sub := ctx.Push(p.N)
	if tb := p.N.Get("title_block"); tb != nil {
		NewTitleBlock(tb).DeclareVars(v, diffs, sub)
	}
}

// DeclareNet has nothing of its own to register; connectivity comes
// entirely from the page's wire/bus/label/symbol-instance children,
// fanned out by the caller walking Data().
func (p *Page) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {}

// Worksheet is the page-layout/title-block template document (kicad's
// ".kicad_wks" files), grounded on kicad_wks.py:KicadWks. It carries no
// connectivity; its variables are the page-size/margin geometry
// consumed by the (non-goal) renderer, so only the Comparable surface
// matters here.
type Worksheet struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewWorksheet(n *node.Node) *Worksheet {
	return &Worksheet{Base: newBase(n, []string{"version", "generator", "setup"}, nil)}
}

// SymbolLibrary is the container document for a ".kicad_sym" library
// file: an ordered set of symbol-definitions, grounded on
// kicad_sym.py:SymLib.
type SymbolLibrary struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewSymbolLibrary(n *node.Node) *SymbolLibrary {
	return &SymbolLibrary{Base: newBase(n, []string{"version", "generator"}, nil)}
}

// Definitions returns the library's symbol-definition children.
func (l *SymbolLibrary) Definitions() []*node.Node {
	return l.N.ChildrenOf("symbol")
}
