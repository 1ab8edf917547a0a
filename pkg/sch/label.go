package sch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/openschematic/schemdiff/pkg/diff"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

// Label covers every labeling construct that carries connectivity text:
// local, global, and hierarchical labels, plus the schematic-side
// pin-sheet variant (grounded on kicad_sch.py:label, whose handler
// covers "global_label", "hierarchical_label", and "label", with "pin"
// on a sheet disambiguated separately into the same shape).
type Label struct {
	Base
	NullRender
}

const (
	// ClassLocalLabel is a same-page net-name label ("label").
	ClassLocalLabel = "label-local"
	// ClassGlobalLabel is a whole-project net-name label
	// ("global_label").
	ClassGlobalLabel = "label-global"
	// ClassHierLabel is a hierarchical label exposed to a parent sheet's
	// sheet-pin of the same name ("hierarchical_label").
	ClassHierLabel = "label-hier"
	// ClassSheetPin is a sheet's own pin, connecting a hierarchical
	// label on the child page to a net on the parent page ("pin" inside
	// a "sheet").
	ClassSheetPin = "sheet-pin"
)

func init() {
	registry.Register("label", ClassLocalLabel)
	registry.Register("global_label", ClassGlobalLabel)
	registry.Register("hierarchical_label", ClassHierLabel)
	registry.RegisterAmbiguous("pin", disambiguatePin)
}

// disambiguatePin implements spec §4.4's pin disambiguation rule:
//   - second child is an atom -> pin-definition (electrical type)
//   - else third child is an atom -> sheet-pin (direction)
//   - else -> pin-instance
func disambiguatePin(n *node.Node) string {
	data := n.Data()
	if len(data) >= 1 && !data[0].IsNode() && data[0].Value.IsAtom() {
		return ClassPinDef
	}
	if len(data) >= 2 && !data[1].IsNode() && data[1].Value.IsAtom() {
		return ClassSheetPin
	}
	return ClassPinInst
}

// NewLabel wraps n as a Label of whatever class the registry assigned.
func NewLabel(n *node.Node) *Label {
	return &Label{Base: newBase(n, []string{"at", "effects", "uuid", "shape"}, nil)}
}

var busLabelRE = regexp.MustCompile(`(?:^|[^_~^$]){(.+)}|\[(\d+)\.\.(\d+)\]`)

// Net is the label's own connection-name text (its leading atom),
// e.g. "RESET" or "DATA[0..7]".
func (l *Label) Net() string { return stringData(l.N, 0) }

// IsBus reports whether Net names a bus (kicad's {...} or [n..m]
// bus-vector syntax), per kicad_sch.py:label.bus.
func (l *Label) IsBus() bool { return busLabelRE.MatchString(l.Net()) }

// ExpandBusMembers returns the individual conductor names a bus label
// names, or nil for a non-bus label. netlister.py drives this from
// label.expand_bus, whose own body wasn't among the retrieved source
// (only BUS_RE/bus() are); the two branches below are built directly
// from what busLabelRE already captures: an explicit "{a,b,c}" member
// list, or a "prefix[lo..hi]" numeric run expanded to prefix+index for
// every index from lo to hi (either direction).
func (l *Label) ExpandBusMembers() []string {
	net := l.Net()
	m := busLabelRE.FindStringSubmatchIndex(net)
	if m == nil {
		return nil
	}
	if m[2] >= 0 {
		inner := net[m[2]:m[3]]
		var out []string
		for _, p := range strings.Split(inner, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	if m[4] < 0 || m[6] < 0 {
		return nil
	}
	lo, err1 := strconv.Atoi(net[m[4]:m[5]])
	hi, err2 := strconv.Atoi(net[m[6]:m[7]])
	if err1 != nil || err2 != nil {
		return nil
	}
	prefix := net[:m[0]]
	step := 1
	if hi < lo {
		step = -1
	}
	var out []string
	for i := lo; ; i += step {
		out = append(out, prefix+strconv.Itoa(i))
		if i == hi {
			break
		}
	}
	return out
}

// Shape is the electrical direction atom ("input", "output",
// "bidirectional", "tri_state", "passive"), present on hierarchical and
// global labels and on sheet pins, absent on local labels.
func (l *Label) Shape() string {
	if s := l.N.Get("shape"); s != nil {
		if data := s.Data(); len(data) > 0 && !data[0].IsNode() {
			return data[0].Value.Text
		}
	}
	return ""
}

// DeclareVars defines CONNECTION_TYPE and OP per kicad_sch.py:label's
// fillvars.
func (l *Label) DeclareVars(v VarSink, diffs []*diff.Diff, ctx node.Context) {
	sub := ctx.Push(l.N)
	if shape := l.Shape(); shape != "" {
		v.Define(sub, "CONNECTION_TYPE", capitalizeDashed(shape))
	}
	v.Define(sub, "OP", "--")
}

func capitalizeDashed(shape string) string {
	parts := strings.Split(shape, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}

// DeclareNet registers this label's position as a connectivity node of
// the appropriate category (spec §4.9's CAT_LABEL / CAT_SHEETPIN),
// since a label's text is what the netlister prefers as a net's name.
func (l *Label) DeclareNet(net NetSink, diffs []*diff.Diff, ctx node.Context) {
	at := l.N.Get("at")
	if at == nil {
		return
	}
	coord := coordKey(at)
	category := netCategoryLabel
	if l.N.Class() == ClassSheetPin {
		category = netCategorySheetPin
	}
	net.RegisterPin(ctx, l.N, coord, l.Net(), category)
	if members := l.ExpandBusMembers(); len(members) > 0 {
		net.RegisterBusMembers(ctx, l.N, coord, members)
	}
}

// coordKey renders an "at" node's x/y fields into a stable string key
// for the netlister's spatial index (spec §4.9 "InstCoord").
func coordKey(at *node.Node) string {
	data := at.Data()
	if len(data) < 2 || data[0].IsNode() || data[1].IsNode() {
		return ""
	}
	return data[0].Value.String() + "," + data[1].Value.String()
}

// Netlister category priorities, spec §4.9: CAT_NETTIE < CAT_POWER <
// CAT_LABEL < CAT_SYMPIN < CAT_SYMPIN_PWR < CAT_SHEETPIN < CAT_NC.
const (
	netCategoryNetTie = iota
	netCategoryPower
	netCategoryLabel
	netCategorySymPin
	netCategorySymPinPwr
	netCategorySheetPin
	netCategoryNC
)
