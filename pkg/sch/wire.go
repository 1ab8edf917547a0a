package sch

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

func init() {
	registry.Register("wire", "wire")
	registry.Register("bus", "bus")
	registry.Register("junction", "junction")
	registry.Register("no_connect", "no-connect")
	registry.Register("bus_entry", "bus-entry")
}

// Wire is a schematic wire segment; Bus is its multi-conductor sibling.
// Both share the Polyline shape plus a uuid, grounded on
// kicad_sch.py:wire ("wire" or "bus", both `class wire(polyline,
// has_uuid)`).
type Wire struct {
	Polyline
}

func NewWire(n *node.Node) *Wire {
	w := &Wire{Polyline: *NewPolyline(n)}
	w.Fields.Props = append(w.Fields.Props, "uuid")
	return w
}

// IsBus reports whether this segment was parsed from a "bus" node
// rather than a "wire" node.
func (w *Wire) IsBus() bool { return w.N.Type() == "bus" }

// DeclareNet registers both endpoints of the segment, letting the
// netlister's union-find merge whatever else shares either coordinate
// (spec §4.9).
func (w *Wire) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {
	pts := w.Points()
	if len(pts) < 2 {
		return
	}
	a := [2]string{coordKey(pts[0]), ""}
	b := [2]string{coordKey(pts[len(pts)-1]), ""}
	net.RegisterSegment(ctx, a, b, w.IsBus())
}

// Junction marks a connection point among overlapping wires/buses.
type Junction struct {
	Base
	NullRender
	NullVars
}

func NewJunction(n *node.Node) *Junction {
	return &Junction{Base: newBase(n, []string{"at", "diameter", "color", "uuid"}, nil)}
}

// DeclareNet registers the junction's position as a pass-through point;
// junctions carry no name of their own, only connectivity (spec §4.9:
// junctions never win the category race).
func (j *Junction) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {
	at := j.N.Get("at")
	if at == nil {
		return
	}
	net.RegisterPin(ctx, j.N, coordKey(at), "", netCategoryNC-1)
}

// NoConnect marks a pin deliberately left unconnected.
type NoConnect struct {
	Base
	NullRender
	NullVars
}

func NewNoConnect(n *node.Node) *NoConnect {
	return &NoConnect{Base: newBase(n, []string{"at", "uuid"}, nil)}
}

// DeclareNet registers the no-connect marker at its position with the
// lowest-priority category (spec §4.9 CAT_NC). It adds no name; it
// marks whichever net occupies that coordinate as explicitly
// no-connected, which the netlist formats use to suppress a single-pin
// net.
func (nc *NoConnect) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {
	at := nc.N.Get("at")
	if at == nil {
		return
	}
	net.RegisterPin(ctx, nc.N, coordKey(at), "", netCategoryNC)
}

// BusEntry is the diagonal stub connecting a bus run to one of its
// member wires.
type BusEntry struct {
	Base
	NullRender
	NullVars
}

func NewBusEntry(n *node.Node) *BusEntry {
	return &BusEntry{Base: newBase(n, []string{"at", "size", "stroke", "uuid"}, nil)}
}

// DeclareNet registers the entry stub's "at" position only, with no
// name; the far end at the "at"+"size" offset is not registered.
func (be *BusEntry) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {
	at := be.N.Get("at")
	if at == nil {
		return
	}
	net.RegisterPin(ctx, be.N, coordKey(at), "", netCategorySymPin)
}
