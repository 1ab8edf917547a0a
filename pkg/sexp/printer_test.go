package sexp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/sexp"
)

func dumpRoot(n *node.Node) string {
	root := node.New([]node.Item{node.NodeItem(n)})
	return string(sexp.Print(root))
}

// TestPrintWrapsAtSeventyTwoColumns exercises spec §8 scenario S1: once
// a line reaches the 72-column threshold, the next token starts a fresh
// line indented one tab per nesting level rather than overrunning it.
func TestPrintWrapsAtSeventyTwoColumns(t *testing.T) {
	items := make([]node.Item, 0, 14)
	for i := 0; i < 14; i++ {
		items = append(items, node.ValueItem(node.Atom("ITEM")))
	}
	n := node.NewTyped("longlist", items...)

	var want strings.Builder
	want.WriteString("(longlist")
	for i := 0; i < 13; i++ {
		want.WriteString(" ITEM")
	}
	require.Equal(t, 74, want.Len(), "fixture must push the first line to >=72 columns before the 14th item")
	want.WriteString("\n\tITEM\n)\n")

	require.Equal(t, want.String(), dumpRoot(n))
}

// TestPrintDoesNotWrapBelowThreshold is the negative case: a short form
// stays on a single line.
func TestPrintDoesNotWrapBelowThreshold(t *testing.T) {
	n := node.NewTyped("at", node.ValueItem(node.Int(10)), node.ValueItem(node.Int(20)))
	require.Equal(t, "(at 10 20)\n", dumpRoot(n))
}

// TestPrintCoalescesConsecutiveXYRuns exercises spec §8 scenario S2: two
// back-to-back "(xy ...)" children are printed on one line rather than
// one per line, as long as the combined line stays under the 99-column
// xy threshold.
func TestPrintCoalescesConsecutiveXYRuns(t *testing.T) {
	pts := node.NewTyped("pts",
		node.NodeItem(node.NewTyped("xy", node.ValueItem(node.Int(1)), node.ValueItem(node.Int(2)))),
		node.NodeItem(node.NewTyped("xy", node.ValueItem(node.Int(3)), node.ValueItem(node.Int(4)))),
	)
	require.Equal(t, "(pts\n\t(xy 1 2) (xy 3 4)\n)\n", dumpRoot(pts))
}

// TestPrintDoesNotCoalesceNonXYPredecessor confirms the coalescing only
// triggers between two consecutive xy nodes: an intervening non-xy
// sibling keeps the following xy node on its own line.
func TestPrintDoesNotCoalesceNonXYPredecessor(t *testing.T) {
	pts := node.NewTyped("pts",
		node.NodeItem(node.NewTyped("foo", node.ValueItem(node.Int(1)))),
		node.NodeItem(node.NewTyped("xy", node.ValueItem(node.Int(1)), node.ValueItem(node.Int(2)))),
	)
	require.Equal(t, "(pts\n\t(foo 1)\n\t(xy 1 2)\n)\n", dumpRoot(pts))
}
