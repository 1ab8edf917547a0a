package merge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/merge"
	"github.com/openschematic/schemdiff/pkg/node"
)

// xv builds `(x (v <n>))`, the minimal tree shape spec §8 scenarios S4
// and S5 use to exercise the merger without needing a real schematic.
func xv(n int64) *node.Node {
	v := node.NewTyped("v", node.ValueItem(node.Int(n)))
	return node.NewTyped("x", node.NodeItem(v))
}

func vValue(root *node.Node) int64 {
	return root.Get("v").Data()[0].Value.Int
}

func TestThreeWayPure(t *testing.T) {
	base := xv(0)
	ours := xv(1)
	theirs := xv(0)

	result, err := merge.ThreeWay(base, ours, theirs, merge.Request{})
	require.NoError(t, err)
	require.Empty(t, result.TrueConflictPairs)
	require.Equal(t, int64(1), vValue(base))
}

func TestThreeWayConflict(t *testing.T) {
	base := xv(0)
	ours := xv(1)
	theirs := xv(2)

	result, err := merge.ThreeWay(base, ours, theirs, merge.Request{})
	require.NoError(t, err)
	require.Len(t, result.TrueConflictPairs, 1)
	pair := result.TrueConflictPairs[0]
	require.Len(t, pair.Ours, 1)
	require.Len(t, pair.Theirs, 1)
}
