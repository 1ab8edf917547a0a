package netlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/node"
)

// TestNetlistUnnamedTwoPinNet exercises spec §8 S7: two symbol pins
// wired together with no label produce a "Net-(REF-PadN)" name and the
// compact format lists both nodes.
func TestNetlistUnnamedTwoPinNet(t *testing.T) {
	b := NewBuilder()
	ctx := node.Global

	b.RegisterPin(ctx, nil, "R1.1", "R1.1", CatSymPin)
	b.RegisterPin(ctx, nil, "U2.3", "U2.3", CatSymPin)
	b.RegisterSegment(ctx, [2]string{"R1.1", ""}, [2]string{"U2.3", ""}, false)

	nets := b.Nets()
	require.Len(t, nets, 1)
	name := nets[0].Name()
	require.True(t, name == "Net-(R1-Pad1)" || name == "Net-(U2-Pad3)", "got %q", name)

	line := nets[0].FmtShort()
	require.True(t, strings.Contains(line, "R1.1") && strings.Contains(line, "U2.3"), "got %q", line)
}

// TestNetlistLabelWinsOverSymbolPin confirms category priority: a
// label present on the same net always wins over a bare symbol pin,
// regardless of lexicographic order (spec §4.9's priority list).
func TestNetlistLabelWinsOverSymbolPin(t *testing.T) {
	b := NewBuilder()
	ctx := node.Global

	b.RegisterPin(ctx, nil, "A1.1", "A1.1", CatSymPin)
	b.RegisterPin(ctx, nil, "L1", "ZNET", CatLabel)
	b.RegisterSegment(ctx, [2]string{"A1.1", ""}, [2]string{"L1", ""}, false)

	nets := b.Nets()
	require.Len(t, nets, 1)
	require.Equal(t, "ZNET", nets[0].Name())
}

// TestNetlistSingleNoConnectPinSuppressed confirms an explicitly
// no-connected single-pin net renders empty in every format
// (netlister.py's "drop explicitly NC'd nets" rule).
func TestNetlistSingleNoConnectPinSuppressed(t *testing.T) {
	b := NewBuilder()
	ctx := node.Global

	b.RegisterPin(ctx, nil, "R2.1", "R2.1", CatSymPin)
	b.RegisterPin(ctx, nil, "R2.1", "", CatNC)

	nets := b.Nets()
	require.Len(t, nets, 1)
	require.Empty(t, nets[0].FmtShort())
}

// TestNetlistUnrelatedPinsStayDistinct confirms pins that never share
// a coordinate or label stay in separate components.
func TestNetlistUnrelatedPinsStayDistinct(t *testing.T) {
	b := NewBuilder()
	ctx := node.Global

	b.RegisterPin(ctx, nil, "R1.1", "R1.1", CatSymPin)
	b.RegisterPin(ctx, nil, "R2.1", "R2.1", CatSymPin)

	nets := b.Nets()
	require.Len(t, nets, 2)
}
