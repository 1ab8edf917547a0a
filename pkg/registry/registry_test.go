package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
)

// Every *sch package registers its keywords via init(), which has
// already run by the time this test package's init()s run (Go
// initializes imported packages before the importing package), so
// these exercise the registry through keywords pkg/sch actually owns
// rather than registering throwaway ones of this test's own — avoiding
// Register's duplicate-registration panic across test runs.
func TestPromoteFixedKeyword(t *testing.T) {
	n := node.NewTyped("junction", node.NodeItem(node.NewTyped("at",
		node.ValueItem(node.Int(1)), node.ValueItem(node.Int(2)))))
	out := registry.Registry{}.Promote(n)
	require.Equal(t, "junction", out.Class())
}

func TestPromoteUnregisteredKeywordLeavesClassEmpty(t *testing.T) {
	n := node.NewTyped("totally_unknown_keyword")
	out := registry.Registry{}.Promote(n)
	require.Equal(t, "", out.Class())
}

func TestPromoteCachesUUIDAsIdentity(t *testing.T) {
	// A uuid may be written as a bare atom (e.g. `(uuid 5d01d5c0-...)`)
	// or as a quoted string; this case covers the bare atom, which
	// defaultPromoter reads from Value.Text (a quoted string is read
	// from Value.Str).
	uuid := node.NewTyped("uuid", node.ValueItem(node.Atom("abc-123")))
	n := node.NewTyped("junction", node.NodeItem(uuid))
	out := registry.Registry{}.Promote(n)
	require.True(t, out.HasIdentity())
	require.Equal(t, "abc-123", out.Identity())
}

func TestClassOfDoesNotMutate(t *testing.T) {
	n := node.NewTyped("no_connect")
	class := registry.ClassOf(n)
	require.Equal(t, "no-connect", class)
	require.Equal(t, "", n.Class(), "ClassOf must not tag the node itself")
}

func TestAmbiguousPinDisambiguatesByShape(t *testing.T) {
	// pin-definition: the first data item is a bare atom (electrical
	// type), which wins regardless of what follows — ported verbatim
	// from kicad_sym.py's pin_disambiguator, whose first check is on
	// s[1] alone.
	def := node.NewTyped("pin", node.ValueItem(node.Atom("input")), node.ValueItem(node.Atom("line")))
	require.Equal(t, "pin-definition", registry.ClassOf(def))

	// sheet-pin: the first data item is a quoted name (not an atom, so
	// the pin-definition check falls through) and the second is a bare
	// atom (the direction).
	sheetPin := node.NewTyped("pin",
		node.ValueItem(node.String("DATA")),
		node.ValueItem(node.Atom("input")))
	require.Equal(t, "sheet-pin", registry.ClassOf(sheetPin))

	// pin-instance: no bare atoms among the leading two data items.
	inst := node.NewTyped("pin", node.ValueItem(node.String("1")), node.NodeItem(node.NewTyped("uuid", node.ValueItem(node.Atom("u")))))
	require.Equal(t, "pin-instance", registry.ClassOf(inst))
}
