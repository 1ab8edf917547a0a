package sch

import (
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

// Graphics primitives (spec §3): polyline, arc, circle, rectangle, image,
// plus the stroke/fill/effects style sub-nodes attached to them and to
// labels/symbols. None carry connectivity or declare variables; grounded
// on kicad_sch.py's Drawable subclasses, none of which override fillvars
// or fillnetlist beyond the Drawable default (a no-op for pure graphics).

func init() {
	registry.Register("polyline", "polyline")
	registry.Register("arc", "arc")
	registry.Register("circle", "circle")
	registry.Register("rectangle", "rectangle")
	registry.Register("image", "image")
	registry.Register("stroke", "stroke")
	registry.Register("fill", "fill")
	registry.Register("effects", "effects")
}

// Polyline is a multi-point line (also the base shape wire/bus reuse).
type Polyline struct {
	Base
	NullRender
	NullVars
	NullNet
}

// NewPolyline wraps n as a Polyline.
func NewPolyline(n *node.Node) *Polyline {
	return &Polyline{Base: newBase(n, []string{"pts", "stroke", "fill"}, nil)}
}

// Points returns the ordered list of "xy" children under this
// polyline's "pts" sub-node.
func (p *Polyline) Points() []*node.Node {
	pts := p.N.Get("pts")
	if pts == nil {
		return nil
	}
	return pts.ChildrenOf("xy")
}

// Arc is a circular arc defined by start/mid/end points.
type Arc struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewArc(n *node.Node) *Arc {
	return &Arc{Base: newBase(n, []string{"start", "mid", "end", "stroke", "fill"}, nil)}
}

// Circle is a center+radius circle.
type Circle struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewCircle(n *node.Node) *Circle {
	return &Circle{Base: newBase(n, []string{"center", "radius", "stroke", "fill"}, nil)}
}

// Rectangle is a two-corner axis-aligned box.
type Rectangle struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewRectangle(n *node.Node) *Rectangle {
	return &Rectangle{Base: newBase(n, []string{"start", "end", "stroke", "fill"}, nil)}
}

// Image is an embedded raster reference (decoding the raster itself is a
// non-goal; only the s-expression wrapper — position, scale, data blob
// atom — is modeled).
type Image struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewImage(n *node.Node) *Image {
	return &Image{Base: newBase(n, []string{"at", "scale", "uuid", "data"}, nil)}
}

// Stroke describes a line's width/type/color.
type Stroke struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewStroke(n *node.Node) *Stroke {
	return &Stroke{Base: newBase(n, []string{"width", "type", "color"}, nil)}
}

// Fill describes a shape's fill type/color.
type Fill struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewFill(n *node.Node) *Fill {
	return &Fill{Base: newBase(n, []string{"type", "color"}, nil)}
}

// Effects describes text styling: font, justification, hide flag.
type Effects struct {
	Base
	NullRender
	NullVars
	NullNet
}

func NewEffects(n *node.Node) *Effects {
	return &Effects{Base: newBase(n, []string{"font", "justify"}, []string{"hide"})}
}
