package sch

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

// Semantic class names for the symbol family, resolved by
// disambiguatePin/disambiguateSymbol (spec §4.4).
const (
	ClassPinDef     = "pin-definition"
	ClassPinInst    = "pin-instance"
	ClassSymbolDef  = "symbol-definition"
	ClassSymbolInst = "symbol-instance"
	ClassSymbolBody = "symbol-body"
)

func init() {
	registry.RegisterAmbiguous("symbol", disambiguateSymbol)
}

// disambiguateSymbol implements spec §4.4: symbol-instance (has a
// lib_id child), symbol-definition (has a property child), else
// symbol-body — grounded on kicad_sym.py's SymbolDef/SymbolInst/
// SymbolBody split.
func disambiguateSymbol(n *node.Node) string {
	if n.Contains("lib_id") {
		return ClassSymbolInst
	}
	if n.Contains("property") {
		return ClassSymbolDef
	}
	return ClassSymbolBody
}

// PinDef is a pin declared inside a symbol-definition: electrical type,
// name, number, graphical shape. Grounded on kicad_sym.py:PinDef.
type PinDef struct {
	Base
	NullRender
	NullVars
}

func NewPinDef(n *node.Node) *PinDef {
	return &PinDef{Base: newBase(n, []string{"at", "length", "name", "number", "alternate"}, nil)}
}

// ElectricalType is the pin's leading atom (the first data atom:
// "input", "output", "power_in", "passive", ...).
func (p *PinDef) ElectricalType() string {
	if data := p.N.Data(); len(data) > 0 && !data[0].IsNode() {
		return data[0].Value.Text
	}
	return ""
}

// Name is the pin's display name ("name" child's first atom), "~" for
// an unnamed pin.
func (p *PinDef) Name() string {
	if nameNode := p.N.Get("name"); nameNode != nil {
		return stringData(nameNode, 0)
	}
	return "~"
}

// Number is the pin's designator ("number" child's first atom).
func (p *PinDef) Number() string {
	if numNode := p.N.Get("number"); numNode != nil {
		return stringData(numNode, 0)
	}
	return ""
}

// DeclareNet registers this pin-definition as connectivity at the
// symbol-definition level: actual per-instance net registration happens
// through the owning symbol instance's context-scoped coordinate, not
// here, since a definition is shared across every instance (spec §3
// "Context stack").
func (p *PinDef) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {}

// PinInst is a per-instance override of a symbol-definition pin
// (alternate selection, net-tie membership); most instances carry no
// data beyond a uuid and defer entirely to the definition.
type PinInst struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewPinInst(n *node.Node) *PinInst {
	return &PinInst{Base: newBase(n, []string{"alternate", "uuid"}, nil)}
}

// SheetPin is registered directly in label.go via ClassSheetPin (a
// sheet-side pin parses identically to a label, disambiguated from a
// symbol-definition pin by disambiguatePin).

// SymbolDef is a reusable symbol (footprint-agnostic schematic symbol)
// definition: pins, graphics, default properties. Grounded on
// kicad_sym.py:SymbolDef.
type SymbolDef struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewSymbolDef(n *node.Node) *SymbolDef {
	return &SymbolDef{Base: newBase(n, []string{"extends", "pin_numbers", "pin_names", "in_bom", "on_board"}, []string{"power"})}
}

// LibID is the definition's library identifier (its leading data atom,
// e.g. "Device:R").
func (s *SymbolDef) LibID() string { return stringData(s.N, 0) }

// SymbolBody is one graphical alternate ("unit") of a symbol definition
// (kicad_sym.py:SymbolBody): a named collection of graphics + pins.
type SymbolBody struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewSymbolBody(n *node.Node) *SymbolBody {
	return &SymbolBody{Base: newBase(n, nil, nil)}
}

// SymbolInst is a placed instance of a symbol-definition on a schematic
// page: position, unit selection, per-sheet-path reference/value
// overrides. Grounded on kicad_sch.py:symbol_inst.
type SymbolInst struct {
	Base
	NullRender
}

func NewSymbolInst(n *node.Node) *SymbolInst {
	return &SymbolInst{Base: newBase(n, []string{"lib_id", "at", "unit", "uuid", "lib_name"}, []string{"mirror", "in_bom", "on_board", "dnp"})}
}

// LibID is the instance's reference into the symbol-definition library.
func (s *SymbolInst) LibID() string {
	if n := s.N.Get("lib_id"); n != nil {
		return stringData(n, 0)
	}
	return ""
}

// Reference returns the instance's "Reference" property value (e.g.
// "R1"), used as the symbol-pin-net naming fallback (spec §4.9 S7).
func (s *SymbolInst) Reference() string {
	for _, p := range s.N.ChildrenOf("property") {
		if stringData(p, 0) == "Reference" {
			return stringData(p, 1)
		}
	}
	return ""
}

// DeclareVars exposes REFERENCE and every property as context
// variables, matching the broad pattern in kicad_sch.py of properties
// doubling as variables once resolved in a symbol instance's context.
func (s *SymbolInst) DeclareVars(v VarSink, diffs []*diff.Diff, ctx node.Context) {
	sub := ctx.Push(s.N)
	v.Define(sub, "REFERENCE", s.Reference())
	for _, p := range s.N.ChildrenOf("property") {
		name, value := stringData(p, 0), stringData(p, 1)
		if name != "" {
			v.Define(sub, upperVar(name), value)
		}
	}
}

// DeclareNet registers every pin this instance exposes, keyed by
// (reference, pin-number) so CAT_SYMPIN naming (spec §4.9) can fall
// back to "Net-(REF-PadN)" when no label wins the category race.
func (s *SymbolInst) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {
	ref := s.Reference()
	isPower := ref != "" && ref[0] == '#'
	category := netCategorySymPin
	if isPower {
		category = netCategorySymPinPwr
	}
	for _, p := range s.N.ChildrenOf("pin") {
		num := stringData(p, 0)
		label := ref + "." + num
		net.RegisterPin(ctx, p, label, label, category)
	}
}
