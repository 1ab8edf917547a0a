// Package vars implements the variable engine of spec §4.8: scoped
// `${[scope:]name}` text expansion, grounded on
// original_source/kischvidimer/kicad_common.py:Variables.
package vars

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/openschematic/schemdiff/pkg/node"
)

// reVar matches `${name}` or `${scope:name}`, mirroring
// kicad_common.py:Variables.RE_VAR.
var reVar = regexp.MustCompile(`\$\{([^}:]+:)?([^}]+)\}`)

// Engine is a variable context tree: a binding map keyed by context
// path, with a case-insensitive fallback recorded alongside the
// original-case key at define time (spec §4.8, design note "case-
// insensitive variable fallback" — two explicit keys per binding rather
// than a runtime case-fold).
type Engine struct {
	// primary maps context-path -> variable name -> value, in original
	// case.
	primary map[string]map[string]string
	// fallback maps context-path -> UPPERCASE(variable name) -> value.
	fallback map[string]map[string]string
}

// New returns an empty variable engine.
func New() *Engine {
	return &Engine{primary: map[string]map[string]string{}, fallback: map[string]map[string]string{}}
}

func resolveContext(ctx node.Context) string {
	return ctx.Path()
}

// Define binds variable within the scope identified by ctx (the
// *source* context — spec §4.8 "Definition captures the source
// context"). An empty value is accepted; only a caller choosing not to
// call Define skips a binding, matching kicad_common.py:define's
// `if value is None: return` guard against undefined (not merely
// empty) values being recorded.
func (e *Engine) Define(ctx node.Context, variable, value string) {
	key := resolveContext(ctx)
	if e.primary[key] == nil {
		e.primary[key] = map[string]string{}
	}
	if e.fallback[key] == nil {
		e.fallback[key] = map[string]string{}
	}
	e.primary[key][variable] = value
	upper := strings.ToUpper(variable)
	if _, ok := e.fallback[key][upper]; !ok {
		e.fallback[key][upper] = value
	}
}

// Expand substitutes every `${[scope:]name}` reference in text,
// resolved starting from ctx. Unresolvable references are left
// unchanged in the output (spec §8 scenario S6).
func (e *Engine) Expand(ctx node.Context, text string) string {
	return e.expand(resolveContext(ctx), text, map[[2]string]bool{})
}

func (e *Engine) expand(ctxPath, text string, hist map[[2]string]bool) string {
	return reVar.ReplaceAllStringFunc(text, func(m string) string {
		sub := reVar.FindStringSubmatch(m)
		scope := ctxPath
		if sub[1] != "" {
			scope = strings.TrimSuffix(sub[1], ":")
		}
		name := sub[2]
		resolved, ok := e.resolve(scope, name, hist)
		if !ok {
			return m
		}
		return resolved
	})
}

// Resolve looks up variable starting from the scope identified by ctx,
// walking up the context path toward global ("") on a miss (spec §4.8
// "lookup walks the context path from deepest to shallowest"). Returns
// ("", false) if no binding is found anywhere on the path.
func (e *Engine) Resolve(ctx node.Context, variable string) (string, bool) {
	return e.resolve(resolveContext(ctx), variable, map[[2]string]bool{})
}

func (e *Engine) resolve(ctxPath, variable string, hist map[[2]string]bool) (string, bool) {
	for {
		key := [2]string{ctxPath, variable}
		if !hist[key] {
			hist[key] = true
			if value, ok := e.lookup(ctxPath, variable); ok {
				expanded := e.expand(ctxPath, value, hist)
				if variable == "INTERSHEET_REFS" {
					return dedupSortedRefs(expanded), true
				}
				return expanded, true
			}
		}
		if ctxPath == "" {
			return "", false
		}
		ctxPath = parentPath(ctxPath)
	}
}

func (e *Engine) lookup(ctxPath, variable string) (string, bool) {
	if vardict := e.primary[ctxPath]; vardict != nil {
		if v, ok := vardict[variable]; ok {
			return v, true
		}
	}
	if vardict := e.fallback[ctxPath]; vardict != nil {
		if v, ok := vardict[strings.ToUpper(variable)]; ok {
			return v, true
		}
	}
	return "", false
}

func parentPath(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// dedupSortedRefs implements the INTERSHEET_REFS special case: a
// comma-separated list of page numbers, deduplicated and numerically
// sorted (kicad_common.py:resolve's special-case branch).
func dedupSortedRefs(expanded string) string {
	seen := map[string]bool{}
	var nums []int
	for _, part := range strings.Split(expanded, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return ""
		}
		seen[part] = true
		nums = append(nums, n)
	}
	sort.Ints(nums)
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = strconv.Itoa(n)
	}
	return strings.Join(out, ",")
}
