package vars

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/node"
)

func TestExpandCycleLeavesReferenceUnchanged(t *testing.T) {
	e := New()
	e.Define(node.Global, "A", "${B}")
	e.Define(node.Global, "B", "${A}")

	got := e.Expand(node.Global, "${A}")
	require.Equal(t, "${A}", got)
}

func TestDefineAndExpandSimple(t *testing.T) {
	e := New()
	e.Define(node.Global, "TITLE", "My Board")

	got := e.Expand(node.Global, "Project: ${TITLE}")
	require.Equal(t, "Project: My Board", got)
}

func TestScopedReferenceFallsBackToParentContext(t *testing.T) {
	e := New()
	root := node.New(nil)
	root.SetIdentity("root")
	child := node.New(nil)
	child.SetIdentity("child")

	rootCtx := node.Global.Push(root)
	childCtx := rootCtx.Push(child)

	e.Define(rootCtx, "COMPANY", "Acme Corp")

	got := e.Expand(childCtx, "${COMPANY}")
	require.Equal(t, "Acme Corp", got)
}

func TestCaseInsensitiveFallback(t *testing.T) {
	e := New()
	e.Define(node.Global, "Revision", "A3")

	got, ok := e.Resolve(node.Global, "REVISION")
	require.True(t, ok)
	require.Equal(t, "A3", got)
}

func TestIntersheetRefsDedupedAndSorted(t *testing.T) {
	e := New()
	e.Define(node.Global, "INTERSHEET_REFS", "3,1,2,1")

	got, ok := e.Resolve(node.Global, "INTERSHEET_REFS")
	require.True(t, ok)
	require.Equal(t, "1,2,3", got)
}
