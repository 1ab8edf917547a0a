package registry

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/openschematic/schemdiff/pkg/node"
)

// Usage tracks, for one parsing run, which registered keywords were
// actually exercised (consumed by at least one node), supporting the
// release-gating self-test of spec §6 "Keyword dictionary": three
// external plaintext files enumerate the grammar's recognized atoms,
// and any atom present in a dictionary but never consumed is reported.
type Usage struct {
	consumed map[string]int
}

// NewUsage returns a fresh, empty usage tracker.
func NewUsage() *Usage { return &Usage{consumed: map[string]int{}} }

// Mark records that keyword was consumed once. TrackedRegistry.Promote
// calls this for every node it promotes.
func (u *Usage) Mark(keyword string) { u.consumed[keyword]++ }

// Count returns how many times keyword was consumed.
func (u *Usage) Count(keyword string) int { return u.consumed[keyword] }

// TrackedRegistry wraps Registry with a Usage tracker so a single parse
// run (spec §6's self-test harness, run over a corpus of every file kind)
// can record which keywords were actually consumed.
type TrackedRegistry struct {
	Usage *Usage
}

// Promote implements pkg/sexp.Promoter, recording n's keyword in Usage
// before delegating to the shared Registry dispatch.
func (tr TrackedRegistry) Promote(n *node.Node) *node.Node {
	tr.Usage.Mark(n.Type())
	return Registry{}.Promote(n)
}

// Dictionary is the parsed contents of one keyword-dictionary file: the
// set of atoms the source ecosystem's grammar recognizes for a given
// file kind (schematic, symbol, or worksheet).
type Dictionary map[string]bool

// LoadDictionary reads a plaintext dictionary file, one atom per line,
// blank lines and lines starting with '#' ignored.
func LoadDictionary(r io.Reader) (Dictionary, error) {
	d := Dictionary{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d[line] = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("registry: reading keyword dictionary: %w", err)
	}
	return d, nil
}

// Unconsumed returns every atom present in d but never marked as
// consumed in u, in map iteration order (the result is not sorted).
func Unconsumed(d Dictionary, u *Usage) []string {
	var out []string
	for atom := range d {
		if u.Count(atom) == 0 {
			out = append(out, atom)
		}
	}
	return out
}
