package sexp

import (
	"strconv"
	"strings"

	"github.com/openschematic/schemdiff/pkg/node"
)

// Printer layout policy constants (spec §4.2), reproducing byte-exact
// source-ecosystem output as ported from
// original_source/kischvidimer/sexp.py:dump.
const (
	wrapColumn   = 72 // consecutiveTokenWrapThreshold
	xyWrapColumn = 99 // xySpecialCaseColumnLimit
)

// Print serializes root to its textual source form. root is the untyped
// top-level node produced by Parse; each of its data items (normally
// exactly one, the file's single top-level form) is dumped on its own
// and followed by a newline, matching the source ecosystem's one-form-
// per-file convention.
func Print(root *node.Node) []byte {
	var b strings.Builder
	for _, it := range root.Data() {
		if !it.IsNode() {
			b.WriteString(it.Value.String())
			b.WriteString("\n")
			continue
		}
		b.WriteString(dump(it.Node))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// frame is one level of the iterative dump walk: the children of a node
// still to be visited, cursor-based in place of a Python iterator.
type frame struct {
	items []node.Item
	idx   int
}

func (f *frame) next() (node.Item, bool) {
	if f.idx >= len(f.items) {
		return node.Item{}, false
	}
	it := f.items[f.idx]
	f.idx++
	return it, true
}

// dump renders a single node's textual form, line-wrapped per spec §4.2.
// This is a direct, iterative port of kischvidimer/sexp.py:dump, which
// walks the tree without true recursion so that "the current output
// line" is always out[-1] regardless of nesting depth.
func dump(n *node.Node) string {
	out := []string{"("}
	stack := []*frame{{items: n.Items()}}

	inMultiLineList := false
	inXY := false

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		item, ok := top.next()
		if !ok {
			// End of this block: pop and close its paren.
			stack = stack[:len(stack)-1]
			last := out[len(out)-1]
			if inMultiLineList || strings.HasSuffix(last, ")") {
				out = append(out, strings.Repeat("\t", len(stack))+")")
			} else {
				out[len(out)-1] = last + ")"
			}
			inMultiLineList = false
			continue
		}

		if item.IsNode() {
			out = append(out, strings.Repeat("\t", len(stack))+"(")
			stack = append(stack, &frame{items: item.Node.Items()})
			continue
		}

		txt := item.Value.String()
		if item.Value.Kind == node.KindAtom {
			wasXY := inXY
			inXY = item.Value.Text == "xy"
			if inXY && wasXY && len(out[len(out)-2]) < xyWrapColumn {
				out = out[:len(out)-1]
				out[len(out)-1] += " ("
			}
		}

		last := out[len(out)-1]
		if inXY || len(last) < wrapColumn {
			if strings.HasSuffix(last, "(") {
				out[len(out)-1] = last + txt
			} else {
				out[len(out)-1] = last + " " + txt
			}
		} else {
			out = append(out, strings.Repeat("\t", len(stack))+txt)
			inMultiLineList = true
		}
	}

	return strings.Join(out, "\n")
}

// formatInt renders an integer in the base-10 form the printer uses for
// integers. Nothing in this package calls it.
func formatInt(v int64) string { return strconv.FormatInt(v, 10) }
