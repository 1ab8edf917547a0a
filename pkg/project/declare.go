package project

import (
	"strconv"

	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/sch"
)

// Declare drives spec §4.8/§6's variable and connectivity collaborators
// across a whole resolved project, grounded on kicad_pro.py:fillvars:
// the project descriptor's own global bindings go first (CURRENT_DATE,
// PROJECTNAME, text variables — Project.DeclareVars), then PAGECOUNT is
// defined globally from the resolved page count, then every discovered
// instance is walked in turn with PAGENO bound at its own instance
// scope before sch.Walk descends into the page and registers
// everything else.
//
// proj may be nil when no project descriptor was loaded (e.g. a bare
// root schematic with no .kicad_pro sibling); PAGECOUNT/PAGENO are
// still defined in that case, just without the descriptor's own
// globals.
func Declare(proj *sch.Project, pages *Pages, vars sch.VarSink, net sch.NetSink) {
	if proj != nil {
		proj.DeclareVars(vars, nil, node.Global)
	}
	vars.Define(node.Global, "PAGECOUNT", strconv.Itoa(pages.InstanceCount()))

	fallback := 0
	for _, file := range pages.Files() {
		entry, _ := pages.Get(file)
		for _, inst := range entry.Instances {
			fallback++
			n := pageNumber(inst)
			if n == 0 {
				n = fallback
			}
			instCtx := inst.Ctx.Push(entry.Root)
			vars.Define(instCtx, "PAGENO", strconv.Itoa(n))
			sch.Walk(entry.Root, inst.Ctx, vars, net)
		}
	}

	// Every instance has now registered its connectivity, so cross-sheet
	// bus/sheet-pin bindings can be resolved (spec §4.9 workflow step 2).
	// Resolve isn't part of sch.NetSink itself — it's netlist.Builder's
	// own finishing step, not a per-node collaborator hook — so it's
	// reached through an optional-capability check instead of widening
	// the interface every NetSink implementation would need to satisfy.
	if resolver, ok := net.(interface{ Resolve() }); ok {
		resolver.Resolve()
	}
}
