package project

import (
	"sort"
	"strings"

	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/sch"
)

// TOCEntry is one node of the hierarchical table of contents spec
// §4.10 describes: `{page-number, display-name, sheet-path, file,
// page-node, children}`.
type TOCEntry struct {
	PageNumber  int
	DisplayName string
	SheetPath   string
	File        string
	Page        *node.Node
	Children    []*TOCEntry
}

type tocNode struct {
	entry    *TOCEntry
	children map[string]*tocNode
	order    []string
}

func newTOCNode() *tocNode { return &tocNode{children: map[string]*tocNode{}} }

// GenTOC builds a sorted, hierarchical table of contents from a
// resolved Pages mapping (spec §4.10), grounded on kicad_pro.py:gen_toc:
// every instance's identity chain nests it under its ancestors (mirrors
// gen_toc's `hier` dict keyed by uuid segments), and siblings at each
// level sort by (page-number, display-name).
func GenTOC(pages *Pages) []*TOCEntry {
	root := newTOCNode()
	var rootID string
	if rootEntry, ok := pages.Get(pages.RootFile); ok {
		rootID = rootEntry.Root.Identity()
	}
	for _, file := range pages.Files() {
		entry, _ := pages.Get(file)
		for _, inst := range entry.Instances {
			chain := inst.Chain(entry.Root)
			if len(inst.Ctx) > 0 && rootID != "" {
				chain = append([]string{rootID}, chain...)
			}
			cur := root
			for i, id := range chain {
				child, ok := cur.children[id]
				if !ok {
					child = newTOCNode()
					cur.children[id] = child
					cur.order = append(cur.order, id)
				}
				cur = child
				if i == len(chain)-1 {
					cur.entry = &TOCEntry{
						PageNumber:  pageNumber(inst),
						DisplayName: displayName(inst.Ctx),
						SheetPath:   inst.SheetPath(entry.Root),
						File:        file,
						Page:        entry.Root,
					}
				}
			}
		}
	}
	return collapse(root)
}

func collapse(n *tocNode) []*TOCEntry {
	var out []*TOCEntry
	for _, id := range n.order {
		child := n.children[id]
		if child.entry == nil {
			// a chain segment recorded only because a deeper instance
			// passed through it, never visited directly; nothing to
			// list at this level (can't happen via Loader.Load, which
			// always records every prefix as its own instance too, but
			// Pages built by hand could omit one).
			continue
		}
		child.entry.Children = collapse(child)
		out = append(out, child.entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PageNumber != out[j].PageNumber {
			return out[i].PageNumber < out[j].PageNumber
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}

// pageNumber recovers the page number recorded for inst from its
// leading sheet's own per-project path-tracking block
// ("instances"/"project"/"path", kicad_sch.py's `instances.paths`).
// Real kicad absolute-uuid path matching needs the full ancestor chain
// including the project's own root identity, which this rewrite's
// Instance.Ctx does not carry for a direct child of the root (root
// instances are the len(Ctx)==0 sentinel, never a real ancestor
// element); rather than reconstruct that chain approximately, this
// takes the first explicit page number recorded anywhere on the sheet's
// instance-tracking block, which is correct for the common case of a
// single project and a single instantiation per sheet. Falls back to 0
// (unknown) when no such record exists; the project root is always 1.
func pageNumber(inst Instance) int {
	leaf := inst.Ctx.Leaf()
	if leaf == nil {
		return 1
	}
	sheet := sch.NewSheet(leaf)
	for _, ip := range sheet.Instances() {
		for _, proj := range ip.Projects() {
			for _, pe := range proj.Paths() {
				if n := pe.Page(); n != 0 {
					return n
				}
			}
		}
	}
	return 0
}

// displayName renders the sheet-name chain leading to inst
// (kicad_pro.py:uuid_to_name): "/" for the project root, else
// "/"-joined sheet display names from the outermost ancestor inward.
func displayName(ctx node.Context) string {
	if len(ctx) == 0 {
		return "/"
	}
	names := make([]string, len(ctx))
	for i, n := range ctx {
		names[i] = sch.NewSheet(n).Name()
	}
	return "/" + strings.Join(names, "/")
}
