package netlist

import (
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/sch"
)

// Builder accumulates connectivity as a tree walk calls DeclareNet on
// every Renderable, then resolves it into named nets (spec §4.9).
// Grounded on netlister.py's Netlister class: _by_instcoord and
// _by_instlabel are ReplaceableDict-style maps from a spatial or
// textual key to a net-bus representative, kept here as plain Go maps
// since Go's union-find path compression (netbus.go's find) already
// gives the "always look up the representative" behavior
// ReplaceableDict provides by hand in Python.
type Builder struct {
	byCoord map[string]*netBus
	byLabel map[string]*netBus
	order   []*netBus
}

// NewBuilder returns an empty Builder ready to receive DeclareNet
// registrations from a tree walk.
func NewBuilder() *Builder {
	return &Builder{byCoord: map[string]*netBus{}, byLabel: map[string]*netBus{}}
}

var _ sch.NetSink = (*Builder)(nil)

func instKey(ctx node.Context, key string) string {
	if key == "" {
		return ""
	}
	return ctx.Path() + "\x00" + key
}

// isGlobalScope reports whether n's registration should be keyed
// process-wide rather than per-instance-path: global labels and power
// symbol pins both name a net visible across the whole project
// (netlister.py's InstLabel(..., is_global=True) callers).
func isGlobalScope(n *node.Node, category int) bool {
	if n != nil && n.Class() == sch.ClassGlobalLabel {
		return true
	}
	return category == CatSymPinPwr
}

func (b *Builder) bucket(isBus bool) *netBus {
	nb := newNetBus(isBus)
	b.order = append(b.order, nb)
	return nb
}

// getOrCreateCoord returns the net-bus registered at a spatial key,
// scoped to ctx, creating one if absent.
func (b *Builder) getOrCreateCoord(ctx node.Context, coordKey string, isBus bool) *netBus {
	key := instKey(ctx, coordKey)
	if key == "" {
		return b.bucket(isBus)
	}
	if nb, ok := b.byCoord[key]; ok {
		return find(nb)
	}
	nb := b.bucket(isBus)
	b.byCoord[key] = nb
	return nb
}

// mergeAtLabel unions nb with whatever net-bus already occupies
// labelKey's scope (same text, same scope, so same net), registering
// nb there if the slot was empty, per netlister.py's
// ReplaceableDict.setrep.
func (b *Builder) mergeAtLabel(scope, labelKey string, nb *netBus) *netBus {
	key := scope + "\x00" + labelKey
	if existing, ok := b.byLabel[key]; ok {
		nb = union(find(existing), find(nb))
	}
	b.byLabel[key] = nb
	return nb
}

// RegisterPin implements sch.NetSink: every connectivity-bearing leaf
// (label, pin, junction, no-connect, sheet pin, bus entry) reports its
// spatial key, its textual naming key (if any), and the category that
// key should compete at.
func (b *Builder) RegisterPin(ctx node.Context, n *node.Node, coordKey, labelKey string, category int) {
	// RegisterPin carries no is_bus flag (unlike RegisterSegment): a
	// single point registration can't be line-vs-bus ambiguous the way
	// a wire run can, so every point-key net-bus starts non-bus and
	// only becomes one if a bus-typed segment later unions into it.
	nb := b.getOrCreateCoord(ctx, coordKey, false)

	switch category {
	case CatNC:
		nb.addNC(ctx.Path())
		return
	case CatSymPin, CatSymPinPwr:
		// No pin-name data reaches this layer (pkg/sch's symbol-instance
		// pins only carry a number, the name lives on the shared
		// definition), so power pins can't be deduplicated by name the
		// way netlister.py's global InstLabel lookup does: each power
		// pin keeps its own single-pin net rather than risk merging
		// unrelated nets under one empty key.
		ref, name, number := splitPinLabel(labelKey)
		nb.addPin(ref, name, number)
		nb.addPinName(ref, name, number, category)
		b.byCoord[instKey(ctx, coordKey)] = nb
		return
	case CatLabel, CatSheetPin:
		if labelKey == "" {
			return
		}
		scope := ctx.Path()
		if isGlobalScope(n, category) {
			scope = ""
		}
		nb = b.mergeAtLabel(scope, labelKey, nb)
		nb.addName(labelKey, category)
		b.byCoord[instKey(ctx, coordKey)] = nb
	default:
		if labelKey != "" {
			nb.addName(labelKey, category)
		}
	}
}

// splitPinLabel recovers (ref, name, number) from the "REF.NUM" label
// pkg/sch's SymbolInst.DeclareNet composes (name is not carried through
// that composed string, so it is left blank; naming still works since
// the fallback template only needs ref and number).
func splitPinLabel(label string) (ref, name, number string) {
	for i := len(label) - 1; i >= 0; i-- {
		if label[i] == '.' {
			return label[:i], "", label[i+1:]
		}
	}
	return label, "", ""
}

// RegisterSegment implements sch.NetSink: a wire or bus run connects
// its two endpoint coordinate keys into the same net-bus.
func (b *Builder) RegisterSegment(ctx node.Context, a, b2 [2]string, isBus bool) {
	na := b.getOrCreateCoord(ctx, a[0], isBus)
	nb := b.getOrCreateCoord(ctx, b2[0], isBus)
	merged := union(na, nb)
	key := instKey(ctx, a[0])
	if key != "" {
		b.byCoord[key] = merged
	}
	key = instKey(ctx, b2[0])
	if key != "" {
		b.byCoord[key] = merged
	}
}

// sheetBridgeID returns the identity of the sheet instance a bus
// registration sits at the boundary of, and whether one was found. A
// sheet-pin registers with ctx already pushed onto the sheet node
// itself (sch.Walk pushes a node's own ctx before fanning into its
// children), so ctx.Leaf() is the sheet. A child page's own root-level
// label registers one level deeper (ctx pushed onto the page root in
// turn), so the sheet instead sits at ctx.Parent().Leaf(). Either way,
// the sheet's own identity is a stable key both sides of the same
// boundary compute independently.
func sheetBridgeID(ctx node.Context) (string, bool) {
	if leaf := ctx.Leaf(); leaf != nil && leaf.Class() == "sheet" {
		return leaf.Identity(), true
	}
	if parent := ctx.Parent(); len(parent) > 0 {
		if leaf := parent.Leaf(); leaf != nil && leaf.Class() == "sheet" {
			return leaf.Identity(), true
		}
	}
	return "", false
}

// RegisterBusMembers implements sch.NetSink: it gives each conductor a
// net-bus of its own, scoped (and, at a global label, process-wide)
// like RegisterPin's CatLabel/CatSheetPin handling, and records a
// pending cross-sheet binding when the registration sits at a sheet
// boundary, so Resolve can later merge the two sides per spec §4.9
// workflow step 2.
func (b *Builder) RegisterBusMembers(ctx node.Context, n *node.Node, coordKey string, members []string) {
	nb := b.getOrCreateCoord(ctx, coordKey, true)
	nb.isBus = true
	scope := ctx.Path()
	if isGlobalScope(n, CatLabel) {
		scope = ""
	}
	for _, member := range members {
		memberNet := b.mergeAtLabel(scope, member, b.bucket(false))
		memberNet.addName(member, CatLabel)
		nb.addMember(member, memberNet)
	}
	if bridgeID, ok := sheetBridgeID(ctx); ok {
		nb.addPendingSheetPin(bridgeID, members)
	}
}

// Resolve runs spec §4.9 workflow step 2: for every bus that registered
// a sheet-pin binding, merge it with the bus on the opposite side of
// that same sheet boundary — the whole component if the two sides'
// member sets coincide exactly, otherwise just the individually
// matching members — mirroring netlister.py's Bus.resolve_sheetpins.
func (b *Builder) Resolve() {
	groups := map[string][]*netBus{}
	seenInGroup := map[string]map[*netBus]bool{}
	for _, nb := range b.order {
		root := find(nb)
		if !root.isBus || len(root.pendingSheetPins) == 0 {
			continue
		}
		for _, p := range root.pendingSheetPins {
			if seenInGroup[p.bridgeID] == nil {
				seenInGroup[p.bridgeID] = map[*netBus]bool{}
			}
			if seenInGroup[p.bridgeID][root] {
				continue
			}
			seenInGroup[p.bridgeID][root] = true
			groups[p.bridgeID] = append(groups[p.bridgeID], root)
		}
	}
	for _, buses := range groups {
		if len(buses) < 2 {
			continue
		}
		base := find(buses[0])
		for _, other := range buses[1:] {
			other = find(other)
			if other == base {
				continue
			}
			if sameMemberSet(base.members, other.members) {
				base = union(base, other)
				continue
			}
			for member, otherNet := range other.members {
				if baseNet, ok := base.members[member]; ok {
					union(baseNet, otherNet)
				}
			}
		}
	}
	for _, nb := range b.order {
		root := find(nb)
		root.pendingSheetPins = nil
	}
}

// sameMemberSet reports whether two buses declared exactly the same
// member-name set, the condition under which Resolve merges the whole
// bus rather than just the matching members.
func sameMemberSet(a, b map[string]*netBus) bool {
	if len(a) != len(b) {
		return false
	}
	for member := range a {
		if _, ok := b[member]; !ok {
			return false
		}
	}
	return true
}

// Nets returns every distinct connected component discovered so far,
// collapsed to representatives in first-seen order (spec §4.9 step 3).
func (b *Builder) Nets() []*Net {
	seen := map[*netBus]bool{}
	var out []*Net
	for _, nb := range b.order {
		root := find(nb)
		if seen[root] {
			continue
		}
		seen[root] = true
		out = append(out, &Net{bus: root})
	}
	return out
}
