package sexp_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/sexp"
)

// TestParseThreeConsecutiveClosingParens exercises the case that used to
// deadlock the lexer: three closing parens in a row force lexGround to
// emit three tokens in one call, overrunning the two-slot items channel
// unless each emit returns before the next starts.
func TestParseThreeConsecutiveClosingParens(t *testing.T) {
	root, err := sexp.Parse([]byte(`(kicad_sch (title_block (title "Top")))`), "t.kicad_sch", nil)
	require.NoError(t, err)
	require.Len(t, root.Data(), 1)

	top := root.Data()[0].Node
	require.Equal(t, "kicad_sch", top.Type())
	titleBlock := top.Data()[0].Node
	require.Equal(t, "title_block", titleBlock.Type())
	title := titleBlock.Data()[0].Node
	require.Equal(t, "Top", title.Data()[0].Value.Str)
}

// TestParseManyConsecutiveParens pushes well past the channel's capacity
// of two with a long run of closing parens, guarding against any
// off-by-one in the fix.
func TestParseManyConsecutiveParens(t *testing.T) {
	const depth = 8
	var head, tail strings.Builder
	for i := 0; i < depth; i++ {
		head.WriteString("(n")
		head.WriteString(strconv.Itoa(i))
		head.WriteByte(' ')
		tail.WriteByte(')')
	}
	src := head.String() + `"leaf"` + tail.String()

	root, err := sexp.Parse([]byte(src), "deep.kicad_sch", nil)
	require.NoError(t, err)
	require.Len(t, root.Data(), 1)

	n := root.Data()[0].Node
	for i := 0; i < depth; i++ {
		require.Equal(t, "n"+strconv.Itoa(i), n.Type())
		if i < depth-1 {
			n = n.Data()[0].Node
		}
	}
	require.Equal(t, "leaf", n.Data()[0].Value.Str)
}

func TestParseAtomsIntsDecimalsAndStrings(t *testing.T) {
	root, err := sexp.Parse([]byte(`(at 1 -2.5 "a \"quoted\" name" bare_atom)`), "", nil)
	require.NoError(t, err)
	n := root.Data()[0].Node
	data := n.Data()

	require.Equal(t, node.KindInt, data[0].Value.Kind)
	require.Equal(t, int64(1), data[0].Value.Int)

	require.Equal(t, node.KindDecimal, data[1].Value.Kind)
	require.Equal(t, "-2.5", data[1].Value.Text)

	require.Equal(t, node.KindString, data[2].Value.Kind)
	require.Equal(t, `a "quoted" name`, data[2].Value.Str)

	require.Equal(t, node.KindAtom, data[3].Value.Kind)
	require.Equal(t, "bare_atom", data[3].Value.Text)
}

func TestParseUnbalancedParensAtEOF(t *testing.T) {
	_, err := sexp.Parse([]byte(`(kicad_sch (uuid abc)`), "broken.kicad_sch", nil)
	require.Error(t, err)
	perr, ok := err.(*sexp.ParseError)
	require.True(t, ok)
	require.Equal(t, sexp.UnbalancedParens, perr.Kind)
}

func TestParseUnexpectedClosingParen(t *testing.T) {
	_, err := sexp.Parse([]byte(`(kicad_sch))`), "broken.kicad_sch", nil)
	require.Error(t, err)
	perr, ok := err.(*sexp.ParseError)
	require.True(t, ok)
	require.Equal(t, sexp.UnbalancedParens, perr.Kind)
}

func TestParseUnterminatedString(t *testing.T) {
	_, err := sexp.Parse([]byte(`(title "never closed)`), "", nil)
	require.Error(t, err)
	perr, ok := err.(*sexp.ParseError)
	require.True(t, ok)
	require.Equal(t, sexp.UnterminatedString, perr.Kind)
}

func TestParseUnescapedNewlineInString(t *testing.T) {
	_, err := sexp.Parse([]byte("(title \"broken\nstring\")"), "", nil)
	require.Error(t, err)
	perr, ok := err.(*sexp.ParseError)
	require.True(t, ok)
	require.Equal(t, sexp.UnescapedNewlineInString, perr.Kind)
}

// TestPromoterRunsOnceInnermostFirst exercises spec §9's "promotion
// exactly once, innermost node closed first" contract.
func TestPromoterRunsOnceInnermostFirst(t *testing.T) {
	var order []string
	counts := map[*node.Node]int{}
	promoter := promoterFunc(func(n *node.Node) *node.Node {
		counts[n]++
		order = append(order, n.Type())
		return n
	})

	_, err := sexp.Parse([]byte(`(a (b (c 1)) (d 2))`), "", promoter)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "d", "a"}, order)
	for _, n := range counts {
		require.Equal(t, 1, n)
	}
}

type promoterFunc func(n *node.Node) *node.Node

func (f promoterFunc) Promote(n *node.Node) *node.Node { return f(n) }

// TestRoundTripLiteralFile exercises testable property #1 directly on a
// hand-written, already-canonical fixture (single short lines, no
// wrapping): print(parse(f)) == f.
func TestRoundTripLiteralFile(t *testing.T) {
	const src = "(kicad_sch\n\t(version 20231120)\n\t(uuid abc-123)\n\t(title_block\n\t\t(title \"Top\")\n\t)\n)\n"
	root, err := sexp.Parse([]byte(src), "", nil)
	require.NoError(t, err)
	require.Equal(t, src, string(sexp.Print(root)))
}

// TestRoundTripBootstrappedFromPrint builds a tree programmatically,
// prints it to get a canonical file (what Print, by definition, always
// produces), then reparses and reprints it: print(parse(f)) == f for
// f := print(tree).
func TestRoundTripBootstrappedFromPrint(t *testing.T) {
	n := node.NewTyped("symbol",
		node.ValueItem(node.String("R1")),
		node.NodeItem(node.NewTyped("property",
			node.ValueItem(node.String("Reference")),
			node.ValueItem(node.String("R1")))),
		node.NodeItem(node.NewTyped("pin",
			node.ValueItem(node.Int(1)))),
	)
	root := node.New([]node.Item{node.NodeItem(n)})

	f := sexp.Print(root)
	reparsed, err := sexp.Parse(f, "", nil)
	require.NoError(t, err)
	require.Equal(t, string(f), string(sexp.Print(reparsed)))
}
