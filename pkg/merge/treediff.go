package merge

import (
	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/match"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/sch"
)

// listKeys names every child type that appears zero-or-more times under
// a schematic/symbol/worksheet node and therefore needs list matching
// (spec §4.6) rather than the singular-child handling pkg/diff.Fields
// already gives Props/Flags. Grounded on kicad_sch.py/kicad_sym.py,
// where each of these is accessed as self["<key>"] returning a list.
var listKeys = []string{
	"pin", "wire", "bus", "junction", "no_connect", "bus_entry",
	"label", "global_label", "hierarchical_label",
	"symbol", "property", "sheet",
	"polyline", "arc", "circle", "rectangle", "text", "image",
	"instances", "path",
}

// DiffTree computes the full structural diff turning a into b, combining
// the per-class Fields-driven diff (pkg/diff via pkg/sch's Comparable
// wrappers) with list matching over every repeated child type (spec
// §4.5 + §4.6 composed, as spec §9's design notes describe doing for
// any real tree-shaped document).
func DiffTree(a, b *node.Node) ([]*diff.Diff, bool) {
	ca, cb := sch.Wrap(a), sch.Wrap(b)
	kids, ok := ca.DiffAgainst(cb)
	if !ok {
		return nil, false
	}
	kids = append(kids, diffListChildren(a, b, ca)...)
	return kids, true
}

func diffListChildren(a, b *node.Node, target diff.Target) []*diff.Diff {
	var out []*diff.Diff
	for _, typ := range listKeys {
		aList := a.ChildrenOf(typ)
		bList := b.ChildrenOf(typ)
		if len(aList) == 0 && len(bList) == 0 {
			continue
		}
		aComp := wrapAll(aList)
		bComp := wrapAll(bList)
		results, added := match.Match(aComp, bComp)
		for i, r := range results {
			if !r.Matched {
				out = append(out, diff.New(target, typ, diff.RemovePayload(aList[i]), false))
				continue
			}
			sub, ok := DiffTree(aList[i], bList[r.OtherIndex])
			if ok && len(sub) > 0 {
				out = append(out, diff.New(target, typ, diff.ChildrenPayload(sub), false))
			}
		}
		for _, j := range added {
			out = append(out, diff.New(target, typ, diff.AddPayload(bList[j]), false))
		}
	}
	return out
}

func wrapAll(ns []*node.Node) []diff.Comparable {
	out := make([]diff.Comparable, len(ns))
	for i, n := range ns {
		out[i] = sch.Wrap(n)
	}
	return out
}
