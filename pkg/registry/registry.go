// Package registry implements the keyword-to-semantic-class dispatch of
// spec §4.4: a process-wide table built at init() time, directly modeled
// on pkg/yang/ast.go's typeMap/nameMap built by initTypes, but keyed by
// plain keyword string rather than reflect.Type, since classes here wrap
// a *node.Node instead of being built by reflection into bespoke Go
// struct fields.
package registry

import "github.com/openschematic/schemdiff/pkg/node"

// Disambiguator picks a semantic class name for an ambiguous keyword by
// inspecting the raw node's shape (its children), the way pin and
// symbol each denote more than one semantic class depending on context
// (spec §4.4 "some keywords are ambiguous without looking at context").
type Disambiguator func(n *node.Node) string

// Promoter is called once the class name has been chosen; it is
// responsible for tagging n (SetClass) and for any class-specific setup
// that must happen exactly once at parse time, such as caching the
// node's own "uuid" child as its identity.
type Promoter func(n *node.Node, class string)

var (
	byKeyword       = map[string]string{}
	disambiguators  = map[string]Disambiguator{}
	promoters       = map[string]Promoter{}
	defaultPromoter = func(n *node.Node, class string) {
		n.SetClass(class)
		if id := n.Get("uuid"); id != nil && len(id.Data()) == 1 && !id.Data()[0].IsNode() {
			v := id.Data()[0].Value
			if v.Kind == node.KindString {
				n.SetIdentity(v.Str)
			} else {
				n.SetIdentity(v.Text)
			}
		}
	}
)

// Register assigns keyword to a single, unambiguous semantic class. It
// panics on a duplicate registration for the same keyword, since that
// would silently shadow an earlier class and is always a programming
// error caught at init() time, never at runtime.
func Register(keyword, class string) {
	if _, ok := byKeyword[keyword]; ok {
		panic("registry: duplicate registration for keyword " + keyword)
	}
	if _, ok := disambiguators[keyword]; ok {
		panic("registry: keyword " + keyword + " already has a disambiguator")
	}
	byKeyword[keyword] = class
}

// RegisterAmbiguous assigns keyword a disambiguator instead of a fixed
// class, used for keywords such as "pin" and "symbol" whose semantic
// class depends on the shape of the node's children (spec §4.4).
func RegisterAmbiguous(keyword string, d Disambiguator) {
	if _, ok := byKeyword[keyword]; ok {
		panic("registry: keyword " + keyword + " already has a fixed class")
	}
	disambiguators[keyword] = d
}

// RegisterPromoter overrides the default promotion behavior for class,
// e.g. to run class-specific invariant checks at parse time.
func RegisterPromoter(class string, p Promoter) {
	promoters[class] = p
}

// ClassOf resolves the semantic class name for a freshly-closed node,
// without mutating it. Returns "" (node.Untyped's counterpart for
// classes) if the node's type has no registered class.
func ClassOf(n *node.Node) string {
	kw := n.Type()
	if d, ok := disambiguators[kw]; ok {
		return d(n)
	}
	return byKeyword[kw]
}

// Promote is the pkg/sexp.Promoter entry point: it classifies n and runs
// the class's promoter (the default one unless overridden), then returns
// n unchanged (promotion only tags the node; it never rewraps it, since
// semantic-class behavior is added by pkg/sch's wrapper types on top of
// the tagged node, not by replacing the node itself).
type Registry struct{}

// Promote implements pkg/sexp.Promoter.
func (Registry) Promote(n *node.Node) *node.Node {
	class := ClassOf(n)
	if class == "" {
		return n
	}
	if p, ok := promoters[class]; ok {
		p(n, class)
	} else {
		defaultPromoter(n, class)
	}
	return n
}
