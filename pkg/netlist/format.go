package netlist

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Net is the caller-facing view of one resolved connected component
// (spec §4.9 step 4): a name plus the symbol pins that belong to it.
type Net struct {
	bus *netBus
}

// Name returns the net's canonical name, or "" if it has no pins and
// no declared label (nothing to name).
func (n *Net) Name() string {
	name, ok := find(n.bus).name()
	if !ok {
		return ""
	}
	return name
}

// removeUnitSuffixRE strips a trailing unit-alpha suffix ("U1B" ->
// "U1") before grouping pins for display, per netlister.py's
// Net.REMOVE_UNIT_RE.
var removeUnitSuffixRE = regexp.MustCompile(`[A-Z]+$`)

func (n *Net) pins() []pinRef {
	root := find(n.bus)
	out := make([]pinRef, 0, len(root.pins))
	for _, p := range root.pins {
		ref := removeUnitSuffixRE.ReplaceAllString(p.ref, "")
		out = append(out, pinRef{ref: ref, name: p.name, number: p.number})
	}
	return sortedPins(out)
}

// FmtShort renders the compact form: "NAME: REF.NUM REF.NUM ..."
// (spec §4.9 step 4 "compact"; netlister.py's FMT_SHORT).
func (n *Net) FmtShort() string {
	name := n.Name()
	if name == "" {
		return ""
	}
	pins := n.pins()
	if len(pins) == 0 {
		return ""
	}
	if len(pins) == 1 && len(find(n.bus).ncs) > 0 {
		return ""
	}
	var nodes []string
	for _, p := range pins {
		if strings.HasPrefix(p.ref, "#") {
			continue
		}
		nodes = append(nodes, fmt.Sprintf("%s.%s", p.ref, p.number))
	}
	return fmt.Sprintf("%s: %s", name, strings.Join(nodes, " "))
}

// FmtNames renders the verbose-with-pin-names form: "NAME: REF.NUM(pin)
// REF.NUM ..." where a pin's own name is appended in parens when it
// is set (not empty or "~") and differs from the pin number
// (netlister.py's FMT_NAMES).
func (n *Net) FmtNames() string {
	name := n.Name()
	if name == "" {
		return ""
	}
	pins := n.pins()
	if len(pins) == 0 {
		return ""
	}
	if len(pins) == 1 && len(find(n.bus).ncs) > 0 {
		return ""
	}
	var nodes []string
	for _, p := range pins {
		if strings.HasPrefix(p.ref, "#") {
			continue
		}
		node := fmt.Sprintf("%s.%s", p.ref, p.number)
		pinName := p.name
		if pinName == "" {
			pinName = "~"
		}
		if pinName != p.number && pinName != "~" {
			node += fmt.Sprintf("(%s)", pinName)
		}
		nodes = append(nodes, node)
	}
	return fmt.Sprintf("%s: %s", name, strings.Join(nodes, " "))
}

var telesisQuoteRE = regexp.MustCompile(`[^a-zA-Z0-9_/]`)

// FmtTelesis renders the named-block text format used by Telesis-style
// netlist consumers: an uppercased, quoted-if-needed header followed by
// a comma-newline-tab-separated node list (netlister.py's FMT_TELESIS).
func (n *Net) FmtTelesis() string {
	name := n.Name()
	if name == "" {
		return ""
	}
	pins := n.pins()
	if len(pins) == 0 {
		return ""
	}
	if len(pins) == 1 && len(find(n.bus).ncs) > 0 {
		return ""
	}
	if telesisQuoteRE.MatchString(name) {
		name = "'" + name + "'"
	}
	var nodes []string
	for _, p := range pins {
		if strings.HasPrefix(p.ref, "#") {
			continue
		}
		nodes = append(nodes, fmt.Sprintf("%s.%s", p.ref, p.number))
	}
	return fmt.Sprintf("%s;,\n\t%s", strings.ToUpper(name), strings.Join(nodes, ",\n\t"))
}

// Format selects one of the three output forms of spec §4.9 step 4.
type Format int

const (
	FormatCompact Format = iota
	FormatVerbose
	FormatTelesis
)

// Render produces every net's text line in Format, skipping nets that
// render empty (no pins, or a single explicitly no-connected pin),
// sorted by name for stable output.
func Render(nets []*Net, format Format) string {
	var lines []string
	for _, n := range nets {
		var line string
		switch format {
		case FormatVerbose:
			line = n.FmtNames()
		case FormatTelesis:
			line = n.FmtTelesis()
		default:
			line = n.FmtShort()
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
