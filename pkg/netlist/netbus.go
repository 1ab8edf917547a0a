// Package netlist implements the netlister of spec §4.9: every drawing
// element that carries connectivity registers itself through the
// sch.NetSink collaborator, and Builder assigns each connected
// component a canonical name via union-find.
//
// Grounded on original_source/kischvidimer/netlister.py's NetBus/Net/
// Bus/ReplaceableDict: the union-find shape (merge_into with a
// path-compressing getrep/setrep) is ported directly; the precise
// pin-coordinate geometry that file computes from symbol placement
// transforms is out of scope here (spec's explicit non-goal on layout
// geometry), so Builder consumes the opaque coordKey/labelKey strings
// pkg/sch's DeclareNet implementations already compute instead of raw
// points.
package netlist

import "sort"

// Category priorities, spec §4.9 (lowest wins): net-tie, power, label,
// symbol-pin, power symbol-pin, sheet-pin, no-connect.
const (
	CatNetTie = iota
	CatPower
	CatLabel
	CatSymPin
	CatSymPinPwr
	CatSheetPin
	CatNC
)

// nameEntry mirrors netlister.py's NetBus._names tuple
// (category, depth, sortname, name): the set of candidate names a
// component has accumulated, ordered so min() picks the
// category-then-depth-then-lexicographic winner.
type nameEntry struct {
	category int
	depth    int
	sortKey  string
	original string
	// pinParts holds (ref, name, number) for a symbol-pin candidate,
	// used by name() to render the "unconnected-(...)"/"Net-(...)"
	// template instead of the raw "REF.NUM" join key.
	pinParts []string
}

func less(a, b nameEntry) bool {
	if a.category != b.category {
		return a.category < b.category
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	if a.sortKey != b.sortKey {
		return a.sortKey < b.sortKey
	}
	return a.original < b.original
}

// pinRef records a symbol-pin's contribution toward the
// "unconnected-(...)"/"Net-(...)" naming fallback (spec §4.9 step 3).
type pinRef struct {
	ref    string
	name   string
	number string
}

// pendingSheetPin records one bus-carrying label or sheet-pin
// registration that sits at a sheet boundary: bridgeID identifies the
// sheet instance it crosses (so the opposite side of the same sheet
// boundary can be found again later), and members is the conductor-name
// set it declared. Builder.Resolve consumes these, mirroring
// netlister.py's Bus._sheetpins/_subsheet_buses deferred-binding lists.
type pendingSheetPin struct {
	bridgeID string
	members  []string
}

// netBus is a union-find node: a connected component of the
// schematic's connectivity graph, ported from netlister.py's NetBus.
//
// members and pendingSheetPins extend this the way netlister.py's Bus
// subclass extends NetBus: a map of member name to its own per-conductor
// net-bus, and the bindings Builder.Resolve needs to merge a bus with
// its child-sheet counterpart (spec §4.9 "Data structures", workflow
// step 2). Both are nil/empty on a non-bus component.
type netBus struct {
	parent           *netBus
	names            []nameEntry
	ncs              map[string]bool
	pins             []pinRef
	isBus            bool
	members          map[string]*netBus
	pendingSheetPins []pendingSheetPin
}

func newNetBus(isBus bool) *netBus {
	return &netBus{ncs: map[string]bool{}, isBus: isBus}
}

// find returns the representative of nb's component, compressing the
// path as it walks (netlister.py's "while x._mergedinto" loops,
// generalized into real union-find path compression).
func find(nb *netBus) *netBus {
	root := nb
	for root.parent != nil {
		root = root.parent
	}
	for nb.parent != nil {
		next := nb.parent
		nb.parent = root
		nb = next
	}
	return root
}

// union merges b's component into a's, matching netlister.py's
// merge_into direction (self merges into item, item survives).
func union(a, b *netBus) *netBus {
	a, b = find(a), find(b)
	if a == b {
		return a
	}
	a.names = append(a.names, b.names...)
	for k := range b.ncs {
		a.ncs[k] = true
	}
	a.pins = append(a.pins, b.pins...)
	a.isBus = a.isBus || b.isBus
	for member, bnb := range b.members {
		if anb, ok := a.members[member]; ok {
			union(anb, bnb)
			continue
		}
		if a.members == nil {
			a.members = map[string]*netBus{}
		}
		a.members[member] = bnb
	}
	a.pendingSheetPins = append(a.pendingSheetPins, b.pendingSheetPins...)
	b.parent = a
	return a
}

// addMember records (or merges into) a bus's per-conductor net-bus,
// keyed by the conductor's expanded member name, per netlister.py's
// Bus.add_member.
func (nb *netBus) addMember(member string, memberNet *netBus) {
	root := find(nb)
	if root.members == nil {
		root.members = map[string]*netBus{}
	}
	if existing, ok := root.members[member]; ok {
		root.members[member] = union(find(existing), find(memberNet))
		return
	}
	root.members[member] = find(memberNet)
}

// addPendingSheetPin records a deferred cross-sheet binding for a bus
// that sits at a sheet boundary (netlister.py's Bus.add_sheetpin /
// Netlister.add_sheetpin deferring resolution until every instance has
// been walked).
func (nb *netBus) addPendingSheetPin(bridgeID string, members []string) {
	root := find(nb)
	root.pendingSheetPins = append(root.pendingSheetPins, pendingSheetPin{bridgeID: bridgeID, members: members})
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// addName records a candidate name, reclassifying a symbol-pin name
// starting with "#" (power-symbol refdes convention) into the power-
// symbol-pin category, per netlister.py:add_name.
func (nb *netBus) addName(name string, category int) {
	if category == CatSymPin && len(name) > 0 && name[0] == '#' {
		category = CatSymPinPwr
	}
	depth := 0
	for _, r := range name {
		if r == '/' {
			depth++
		}
	}
	nb.names = append(nb.names, nameEntry{category: category, depth: depth, sortKey: upper(name), original: name})
}

// addPinName records a symbol-pin candidate by its (ref, name, number)
// components rather than a single joined string, so name() can render
// the "unconnected-(REF-PadN)"/"Net-(REF-PadN)" template the way
// netlister.py's tuple-valued add_name/name() pair does.
func (nb *netBus) addPinName(ref, pinName, number string, category int) {
	if category == CatSymPin && len(ref) > 0 && ref[0] == '#' {
		category = CatSymPinPwr
	}
	parts := []string{ref, pinName, number}
	sortParts := make([]string, len(parts))
	for i, p := range parts {
		sortParts[i] = upper(p)
	}
	nb.names = append(nb.names, nameEntry{
		category: category,
		depth:    0,
		sortKey:  sortParts[0] + "\x1f" + sortParts[1] + "\x1f" + sortParts[2],
		pinParts: parts,
	})
}

// name implements netlister.py:NetBus.name: the minimum candidate by
// (category, depth, sortKey), with the symbol-pin fallback templates.
func (nb *netBus) name() (string, bool) {
	root := find(nb)
	if len(root.names) == 0 {
		return "", false
	}
	best := root.names[0]
	for _, n := range root.names[1:] {
		if less(n, best) {
			best = n
		}
	}
	if best.category != CatSymPin {
		return best.original, true
	}
	count := 0
	for _, n := range root.names {
		if n.category == CatSymPin {
			count++
		}
	}
	prefix := "unconnected"
	if count > 1 {
		prefix = "Net"
	}
	return prefix + "-(" + pinTemplate(best.pinParts) + ")", true
}

// pinTemplate renders (ref, name, number) as "REF-PadN" (or
// "REF-NAME-PadN" when the pin carries a real name), dropping empty or
// "~" components, per netlister.py:NetBus.name's pinname join.
func pinTemplate(parts []string) string {
	if len(parts) != 3 {
		return ""
	}
	rendered := []string{parts[0], parts[1], "Pad" + parts[2]}
	var kept []string
	for _, p := range rendered {
		if p != "" && p != "~" && p != "Pad" {
			kept = append(kept, p)
		}
	}
	out := ""
	for i, p := range kept {
		if i > 0 {
			out += "-"
		}
		out += p
	}
	return out
}

// addPin records a symbol-pin's (ref, name, number) for fallback
// naming and pin-listing output.
func (nb *netBus) addPin(ref, name, number string) {
	root := find(nb)
	root.pins = append(root.pins, pinRef{ref: ref, name: name, number: number})
}

// addNC marks an instance as carrying an explicit no-connect marker
// (netlister.py:add_nc): used to suppress single-pin nets that were
// deliberately left open.
func (nb *netBus) addNC(instance string) {
	root := find(nb)
	root.ncs[instance] = true
}

func sortedPins(pins []pinRef) []pinRef {
	out := append([]pinRef(nil), pins...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ref != out[j].ref {
			return out[i].ref < out[j].ref
		}
		if out[i].number != out[j].number {
			return out[i].number < out[j].number
		}
		return out[i].name < out[j].name
	})
	return out
}
