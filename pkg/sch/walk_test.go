package sch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/netlist"
	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
	"github.com/openschematic/schemdiff/pkg/sch"
	"github.com/openschematic/schemdiff/pkg/vars"
)

func promote(n *node.Node) *node.Node {
	return registry.Registry{}.Promote(n)
}

func xy(x, y int64) *node.Node {
	return node.NewTyped("xy", node.ValueItem(node.Int(x)), node.ValueItem(node.Int(y)))
}

func at(x, y int64) *node.Node {
	return promote(node.NewTyped("at", node.ValueItem(node.Int(x)), node.ValueItem(node.Int(y))))
}

func TestWrapDispatchesOnClass(t *testing.T) {
	n := promote(node.NewTyped("junction", node.NodeItem(at(0, 0))))
	_, ok := sch.Wrap(n).(*sch.Junction)
	require.True(t, ok)

	unknown := node.NewTyped("totally_unrecognized")
	_, ok = sch.Wrap(unknown).(*sch.Generic)
	require.True(t, ok)
}

// TestWalkDeclaresVarsAndNets builds a minimal page (title block, one
// wire, one label landing on the wire's first endpoint) and confirms
// sch.Walk drives both collaborators: the title becomes a TITLE
// variable in the page's context, and the wire+label merge into one
// named net.
func TestWalkDeclaresVarsAndNets(t *testing.T) {
	titleBlock := promote(node.NewTyped("title_block",
		node.NodeItem(node.NewTyped("title", node.ValueItem(node.String("Test Title")))),
	))

	wire := promote(node.NewTyped("wire",
		node.NodeItem(node.NewTyped("pts", node.NodeItem(xy(0, 0)), node.NodeItem(xy(10, 0)))),
	))

	label := promote(node.NewTyped("label",
		node.ValueItem(node.String("NET1")),
		node.NodeItem(at(0, 0)),
	))

	page := promote(node.NewTyped("kicad_sch",
		node.NodeItem(titleBlock),
		node.NodeItem(wire),
		node.NodeItem(label),
	))

	engine := vars.New()
	builder := netlist.NewBuilder()
	sch.Walk(page, node.Global, engine, builder)

	ctx := node.Global.Push(page).Push(titleBlock)
	title, ok := engine.Resolve(ctx, "TITLE")
	require.True(t, ok)
	require.Equal(t, "Test Title", title)

	var named *netlist.Net
	for _, n := range builder.Nets() {
		if n.Name() == "NET1" {
			named = n
		}
	}
	require.NotNil(t, named, "expected a net named NET1")
}
