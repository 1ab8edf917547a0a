package project_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openschematic/schemdiff/pkg/netlist"
	"github.com/openschematic/schemdiff/pkg/project"
	"github.com/openschematic/schemdiff/pkg/vars"
)

const rootSingle = `(kicad_sch
  (uuid "root-uuid")
  (title_block (title "Top"))
)`

const rootWithChild = `(kicad_sch
  (uuid "root-uuid")
  (sheet
    (uuid "sheet1-uuid")
    (property "Sheetname" "Power")
    (property "Sheetfile" "power.kicad_sch")
  )
)`

const childPage = `(kicad_sch
  (uuid "power-root-uuid")
  (title_block (title "Power"))
)`

const rootWithBrokenChild = `(kicad_sch
  (uuid "root-uuid")
  (sheet
    (uuid "sheet1-uuid")
    (property "Sheetname" "Bad")
    (property "Sheetfile" "missing.kicad_sch")
  )
)`

// TestLoadSinglePage covers a project with no sheet children: one page,
// one root instance.
func TestLoadSinglePage(t *testing.T) {
	store := project.MapStore{"root.kicad_sch": []byte(rootSingle)}
	loader := project.NewLoader(store)

	pages, err := loader.Load("root.kicad_sch", "")
	require.NoError(t, err)
	require.Equal(t, []string{"root.kicad_sch"}, pages.Files())
	require.Equal(t, 1, pages.InstanceCount())

	entry, ok := pages.Get("root.kicad_sch")
	require.True(t, ok)
	require.Len(t, entry.Instances, 1)
	require.Empty(t, entry.Instances[0].Ctx)
	require.Equal(t, "/root-uuid", entry.Instances[0].SheetPath(entry.Root))
}

// TestLoadFollowsSheetChildren covers a two-level hierarchy: the root
// page's one sheet child is resolved to its own file and discovered as
// a second page.
func TestLoadFollowsSheetChildren(t *testing.T) {
	store := project.MapStore{
		"root.kicad_sch":  []byte(rootWithChild),
		"power.kicad_sch": []byte(childPage),
	}
	loader := project.NewLoader(store)

	pages, err := loader.Load("root.kicad_sch", "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"root.kicad_sch", "power.kicad_sch"}, pages.Files())
	require.Equal(t, 2, pages.InstanceCount())

	childEntry, ok := pages.Get("power.kicad_sch")
	require.True(t, ok)
	require.Len(t, childEntry.Instances, 1)
	require.Len(t, childEntry.Instances[0].Ctx, 1)
	require.Equal(t, "sheet1-uuid", childEntry.Instances[0].Ctx[0].Identity())
	require.Equal(t, "/sheet1-uuid", childEntry.Instances[0].SheetPath(childEntry.Root))
}

// TestLoadToleratesBrokenPageByDefault covers spec §7's non-strict
// policy: a page that fails to parse is skipped, not fatal.
func TestLoadToleratesBrokenPageByDefault(t *testing.T) {
	store := project.MapStore{"root.kicad_sch": []byte(rootWithBrokenChild)}
	loader := project.NewLoader(store)

	pages, err := loader.Load("root.kicad_sch", "")
	require.Error(t, err, "Load still reports the failure even though it didn't abort")
	require.Equal(t, []string{"root.kicad_sch"}, pages.Files(), "the broken child's subtree is simply never discovered")
}

// TestLoadStrictAbortsOnFirstFailure covers the opposite policy.
func TestLoadStrictAbortsOnFirstFailure(t *testing.T) {
	store := project.MapStore{"root.kicad_sch": []byte(rootWithBrokenChild)}
	loader := project.NewLoader(store)
	loader.Options.Strict = true

	pages, err := loader.Load("root.kicad_sch", "")
	require.Error(t, err)
	require.Nil(t, pages)
}

// TestFileStoreRejectsVersionedReads covers the version-store
// abstraction's stated non-goal: historical versions need git plumbing
// this package deliberately does not implement.
func TestFileStoreRejectsVersionedReads(t *testing.T) {
	store := project.FileStore{Root: t.TempDir()}
	_, err := store.Open("anything.kicad_sch", "deadbeef")
	require.Error(t, err)
}

// TestPrunePrefersReachableInstances builds a Pages value by hand (as
// Prune is meant to validate data that didn't necessarily come out of
// Loader.Load) with one legitimate root->child instance and one
// orphaned instance whose chain traces back to nothing, and checks only
// the reachable one survives.
func TestPrunePrefersReachableInstances(t *testing.T) {
	store := project.MapStore{
		"root.kicad_sch":  []byte(rootWithChild),
		"power.kicad_sch": []byte(childPage),
	}
	loader := project.NewLoader(store)
	pages, err := loader.Load("root.kicad_sch", "")
	require.NoError(t, err)

	childEntry, _ := pages.Get("power.kicad_sch")
	// Append an orphaned instance: empty Ctx makes Chain fall back to
	// the page's own root identity, which the real root never actually
	// references as a sheet child, so the forward walk never reaches it.
	childEntry.Instances = append(childEntry.Instances, project.Instance{})

	pruned := project.Prune(pages)
	prunedChild, ok := pruned.Get("power.kicad_sch")
	require.True(t, ok)
	require.Len(t, prunedChild.Instances, 1, "the orphaned empty-context instance does not chain back to the real root")
}

// TestGenTOCOrdersByPageThenName builds a two-page project and checks
// GenTOC nests the child sheet under the root and orders by display
// name.
func TestGenTOCOrdersByPageThenName(t *testing.T) {
	store := project.MapStore{
		"root.kicad_sch":  []byte(rootWithChild),
		"power.kicad_sch": []byte(childPage),
	}
	loader := project.NewLoader(store)
	pages, err := loader.Load("root.kicad_sch", "")
	require.NoError(t, err)

	toc := project.GenTOC(pages)
	require.Len(t, toc, 1, "one root-level entry")
	require.Equal(t, "/", toc[0].DisplayName)
	require.Len(t, toc[0].Children, 1)
	require.Equal(t, "/Power", toc[0].Children[0].DisplayName)
	require.Equal(t, "power.kicad_sch", toc[0].Children[0].File)
}

// TestDeclareDefinesPageCountAndWalksEveryInstance runs the
// project-wide driver over a two-page project and checks that it
// defines PAGECOUNT as "2" in the global scope.
func TestDeclareDefinesPageCountAndWalksEveryInstance(t *testing.T) {
	store := project.MapStore{
		"root.kicad_sch":  []byte(rootWithChild),
		"power.kicad_sch": []byte(childPage),
	}
	loader := project.NewLoader(store)
	pages, err := loader.Load("root.kicad_sch", "")
	require.NoError(t, err)

	engine := vars.New()
	builder := netlist.NewBuilder()
	project.Declare(nil, pages, engine, builder)

	count, ok := engine.Resolve(nil, "PAGECOUNT")
	require.True(t, ok)
	require.Equal(t, "2", count)
}

func TestMultiErrorJoinsMessages(t *testing.T) {
	var m project.MultiError
	require.Nil(t, m.ErrOrNil())
	m = append(m, errString("a"), errString("b"))
	require.Error(t, m.ErrOrNil())
	require.True(t, strings.Contains(m.Error(), "a"))
	require.True(t, strings.Contains(m.Error(), "b"))
}

type errString string

func (e errString) Error() string { return string(e) }
