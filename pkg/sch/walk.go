package sch

import "github.com/openschematic/schemdiff/pkg/node"

// Walk drives the two declarative collaborators of spec §6
// (DeclareVars, DeclareNet) over a parsed tree in document order: every
// node is wrapped via Wrap, asked to declare itself against ctx (the
// context of its *parent*, matching every DeclareVars/DeclareNet
// implementation's own ctx.Push(n) convention), then walked into with
// ctx extended by itself.
//
// This is the orchestration glue a project loader needs to actually
// drive pkg/vars.Engine and pkg/netlist.Builder from a real tree: both
// satisfy VarSink/NetSink structurally, but neither is reachable from a
// parsed page without something calling DeclareVars/DeclareNet on every
// node, in the right order, with the right running context.
func Walk(root *node.Node, ctx node.Context, vars VarSink, net NetSink) {
	w := Wrap(root)
	w.DeclareVars(vars, nil, ctx)
	w.DeclareNet(net, nil, ctx)
	childCtx := ctx.Push(root)
	for _, it := range root.Items() {
		if it.IsNode() {
			Walk(it.Node, childCtx, vars, net)
		}
	}
}
