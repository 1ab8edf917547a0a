package project

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/openschematic/schemdiff/pkg/node"
	"github.com/openschematic/schemdiff/pkg/registry"
	"github.com/openschematic/schemdiff/pkg/sch"
	"github.com/openschematic/schemdiff/pkg/sexp"
)

// Instance is one visitation of a page within a project's sheet graph:
// the ancestor chain of sheet nodes (Ctx) that was followed to reach it.
// Ctx is empty for a file's own root instance — the synthetic visitation
// every file gets the first time it is discovered, matching
// kicad_pro.py's fakepath("")/fakesheet(sch) entry.
type Instance struct {
	Ctx node.Context
}

// Chain returns the ordered identity string for this instance: the
// uuid of every ancestor sheet reference, or — for the root instance,
// whose Ctx is empty — a single-element chain holding the page's own
// identity (spec §4.10 "the page's own root-identity is prepended when
// the page is itself a root").
func (i Instance) Chain(pageRoot *node.Node) []string {
	if len(i.Ctx) == 0 {
		return []string{pageRoot.Identity()}
	}
	out := make([]string, len(i.Ctx))
	for idx, n := range i.Ctx {
		out[idx] = n.Identity()
	}
	return out
}

// SheetPath renders Chain as the "/"-leading instance path string spec
// §4.10 and the glossary ("Instance path") describe.
func (i Instance) SheetPath(pageRoot *node.Node) string {
	return "/" + strings.Join(i.Chain(pageRoot), "/")
}

// PageEntry is one file's contribution to a project: every instance that
// reaches it, plus the page's own parsed root node. Grounded on
// kicad_pro.py:get_pages's `pages[relpath] = (instances, sch)` tuple.
type PageEntry struct {
	Instances []Instance
	Root      *node.Node
}

// Pages is the ordered file-path -> PageEntry mapping spec §4.10 names
// as the project loader's output.
type Pages struct {
	RootFile string
	order    []string
	byFile   map[string]*PageEntry
}

func newPages() *Pages { return &Pages{byFile: map[string]*PageEntry{}} }

// Files returns every discovered file path in first-discovery order.
func (p *Pages) Files() []string { return append([]string(nil), p.order...) }

// Get returns the entry recorded for file, if any.
func (p *Pages) Get(file string) (*PageEntry, bool) {
	e, ok := p.byFile[file]
	return e, ok
}

// InstanceCount is the total number of page-instances across the whole
// project (kicad_pro.py:kicad_pro.pgcount).
func (p *Pages) InstanceCount() int {
	n := 0
	for _, e := range p.byFile {
		n += len(e.Instances)
	}
	return n
}

// Options configures a Loader's tolerance for per-page failures.
type Options struct {
	// Strict aborts Load on the first page that fails to parse. When
	// false (the default), a failing page is logged and skipped, and
	// its subtree is simply never discovered — matching spec §7's
	// "a page that fails to parse ... does not abort the project unless
	// the caller requires strict mode."
	Strict bool
}

// Loader resolves a project's sheet graph from a VersionStore, following
// every sheet reference starting at a root file (spec §4.10).
type Loader struct {
	Store   VersionStore
	Options Options
}

// NewLoader returns a Loader reading through store.
func NewLoader(store VersionStore) *Loader {
	return &Loader{Store: store}
}

type pending struct {
	file string
	ctx  node.Context
}

// Load performs the BFS traversal of spec §4.10: starting at rootFile,
// every "sheet" child's Sheetfile property is resolved relative to its
// containing page and queued in turn. A file is parsed at most once
// (cache, keyed by resolved path); every reference to it — including
// repeats from different ancestor chains — still contributes its own
// Instance, since the same file can legitimately appear at more than
// one place in the hierarchy with distinct connectivity/variable scope.
func (l *Loader) Load(rootFile, version string) (*Pages, error) {
	pages := newPages()
	pages.RootFile = rootFile
	cache := map[string]*node.Node{}
	queue := []pending{{file: rootFile}}
	var errs MultiError

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		root, cached := cache[cur.file]
		if !cached {
			parsed, err := l.loadFile(cur.file, version)
			if err != nil {
				logrus.WithError(err).WithField("file", cur.file).Warn("project: page failed to parse")
				errs = append(errs, fmt.Errorf("%s: %w", cur.file, err))
				if l.Options.Strict {
					return nil, errs.ErrOrNil()
				}
				continue
			}
			root = parsed
			cache[cur.file] = root
		}

		entry, ok := pages.byFile[cur.file]
		if !ok {
			entry = &PageEntry{Root: root}
			pages.byFile[cur.file] = entry
			pages.order = append(pages.order, cur.file)
		}
		entry.Instances = append(entry.Instances, Instance{Ctx: cur.ctx})

		for _, sheetNode := range root.ChildrenOf("sheet") {
			sheet := sch.NewSheet(sheetNode)
			file := sheet.File()
			if file == "" {
				continue
			}
			queue = append(queue, pending{
				file: l.childFile(cur.file, file),
				ctx:  cur.ctx.Push(sheetNode),
			})
		}
	}

	return pages, errs.ErrOrNil()
}

func (l *Loader) loadFile(file, version string) (*node.Node, error) {
	r, err := l.Store.Open(file, version)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	root, err := sexp.Parse(data, file, registry.Registry{})
	if err != nil {
		return nil, err
	}
	pageNodes := root.ChildrenOf("kicad_sch")
	if len(pageNodes) != 1 {
		return nil, fmt.Errorf("project: %s: expected exactly one top-level kicad_sch node, found %d", file, len(pageNodes))
	}
	return pageNodes[0], nil
}

// childFile resolves a sheet's Sheetfile property relative to the page
// that referenced it, matching kicad_sch.py:sch.relpath.
func (l *Loader) childFile(parentFile, sheetFile string) string {
	if path.IsAbs(sheetFile) {
		return sheetFile
	}
	return path.Join(path.Dir(parentFile), sheetFile)
}

// Prune removes every instance whose identity chain cannot be traced
// back to the project's recorded root instance (spec §4.10 "Prune
// instances whose sheet-path cannot be followed back to the project
// root"). Load's own BFS can never produce a stale instance (it only
// ever walks forward from the root), so this matters for Pages
// assembled or edited by a caller outside of Load — e.g. a cached TOC
// reused after sheets were rewired.
func Prune(pages *Pages) *Pages {
	out := newPages()
	out.RootFile = pages.RootFile
	if pages.RootFile == "" {
		return out
	}
	rootEntry, ok := pages.byFile[pages.RootFile]
	if !ok {
		return out
	}

	type located struct {
		file string
		inst Instance
	}
	byChain := map[string]located{}
	for file, entry := range pages.byFile {
		for _, inst := range entry.Instances {
			byChain[strings.Join(inst.Chain(entry.Root), "/")] = located{file: file, inst: inst}
		}
	}

	visited := map[string]bool{}
	var walk func(file string, inst Instance)
	walk = func(file string, inst Instance) {
		entry := pages.byFile[file]
		key := file + "\x00" + strings.Join(inst.Chain(entry.Root), "/")
		if visited[key] {
			return
		}
		visited[key] = true

		dst, ok := out.byFile[file]
		if !ok {
			dst = &PageEntry{Root: entry.Root}
			out.byFile[file] = dst
			out.order = append(out.order, file)
		}
		dst.Instances = append(dst.Instances, inst)

		for _, sheetNode := range entry.Root.ChildrenOf("sheet") {
			childCtx := inst.Ctx.Push(sheetNode)
			childKey := strings.Join(chainOf(childCtx, nil), "/")
			if loc, ok := byChain[childKey]; ok {
				walk(loc.file, loc.inst)
			}
		}
	}

	for _, inst := range rootEntry.Instances {
		if len(inst.Ctx) == 0 {
			walk(pages.RootFile, inst)
		}
	}
	return out
}

// chainOf is Instance.Chain without needing an *Instance receiver, used
// where only a bare Context is in hand (Prune's forward walk).
func chainOf(ctx node.Context, root *node.Node) []string {
	if len(ctx) == 0 {
		if root == nil {
			return nil
		}
		return []string{root.Identity()}
	}
	out := make([]string, len(ctx))
	for i, n := range ctx {
		out[i] = n.Identity()
	}
	return out
}
