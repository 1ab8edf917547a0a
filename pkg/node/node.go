// Package node implements the comparable object model that overlays
// semantic identity, ordering, and structural equality on raw
// s-expression trees (spec §3, §4.3).
package node

import (
	"github.com/google/uuid"
)

// Item is one child of a Node: exactly one of a Value or a *Node,
// matching spec §3 ("an ordered sequence of Value or Node").
type Item struct {
	Value Value
	Node  *Node
}

// IsNode reports whether this item is a sub-node rather than a value.
func (it Item) IsNode() bool { return it.Node != nil }

func itemValue(v Value) Item { return Item{Value: v} }
func itemNode(n *Node) Item  { return Item{Node: n} }

// Node is an ordered sequence of Item, with two indexes maintained
// alongside the sequence for O(1) lookup (spec §3):
//   - byType: child-type-atom -> ordered list of sub-Nodes of that type
//   - atoms: multiset of atom children
type Node struct {
	items []Item

	byType map[string][]*Node
	atoms  map[string]int

	class    string // semantic class name assigned by the registry, or "" if generic
	identity string // cached identity (UUID), lazily generated
}

// New builds a Node from a complete list of items. The leading item, if
// an atom, becomes the node's type (spec §3: "The first element, if an
// atom, is the node's type").
func New(items []Item) *Node {
	n := &Node{
		items:  items,
		byType: map[string][]*Node{},
		atoms:  map[string]int{},
	}
	for _, it := range items {
		n.indexAdd(it)
	}
	return n
}

// NewTyped is a convenience constructor: New with a leading atom and data
// items appended.
func NewTyped(typ string, data ...Item) *Node {
	items := make([]Item, 0, len(data)+1)
	items = append(items, itemValue(Atom(typ)))
	items = append(items, data...)
	return New(items)
}

// ValueItem wraps a Value as an Item, for building node literals.
func ValueItem(v Value) Item { return itemValue(v) }

// NodeItem wraps a *Node as an Item, for building node literals.
func NodeItem(n *Node) Item { return itemNode(n) }

func (n *Node) indexAdd(it Item) {
	if it.IsNode() {
		t := it.Node.Type()
		n.byType[t] = append(n.byType[t], it.Node)
		return
	}
	if it.Value.Kind == KindAtom {
		n.atoms[it.Value.Text]++
	}
}

func (n *Node) indexRemove(it Item) {
	if it.IsNode() {
		t := it.Node.Type()
		list := n.byType[t]
		for i, c := range list {
			if c == it.Node {
				n.byType[t] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(n.byType[t]) == 0 {
			delete(n.byType, t)
		}
		return
	}
	if it.Value.Kind == KindAtom {
		n.atoms[it.Value.Text]--
		if n.atoms[it.Value.Text] <= 0 {
			delete(n.atoms, it.Value.Text)
		}
	}
}

// Untyped is the sentinel Type() value for a node whose first element is
// not an atom.
const Untyped = ""

// Type returns the node's leading atom, or Untyped if the node is empty
// or does not begin with an atom.
func (n *Node) Type() string {
	if len(n.items) == 0 {
		return Untyped
	}
	first := n.items[0]
	if first.IsNode() || first.Value.Kind != KindAtom {
		return Untyped
	}
	return first.Value.Text
}

// Class returns the semantic class name assigned to this node by the
// registry (spec §4.4), or "" if the node was never promoted.
func (n *Node) Class() string { return n.class }

// SetClass is called by the registry during promotion.
func (n *Node) SetClass(class string) { n.class = class }

// Data returns the node's children after the leading type atom, or the
// full item list if the node is untyped.
func (n *Node) Data() []Item {
	if n.Type() == Untyped {
		return n.items
	}
	return n.items[1:]
}

// Items returns the complete, unfiltered list of children.
func (n *Node) Items() []Item { return n.items }

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.items) }

// Contains reports whether any child equals the given atom, or any
// child-node has that type (spec §4.3).
func (n *Node) Contains(atom string) bool {
	if n.atoms[atom] > 0 {
		return true
	}
	_, ok := n.byType[atom]
	return ok
}

// Get returns the first child-node of the given type, or a Node wrapping
// the bare atom if a matching atom child exists, or nil.
func (n *Node) Get(atom string) *Node {
	if list := n.byType[atom]; len(list) > 0 {
		return list[0]
	}
	if n.atoms[atom] > 0 {
		return New([]Item{itemValue(Atom(atom))})
	}
	return nil
}

// ChildrenOf returns the ordered list of child-nodes of the given type.
func (n *Node) ChildrenOf(atom string) []*Node {
	list := n.byType[atom]
	out := make([]*Node, len(list))
	copy(out, list)
	return out
}

// Add inserts item, preserving both the sequence and the indexes. If
// index is negative or beyond the end, the item is appended.
func (n *Node) Add(item Item, index int) {
	if index < 0 || index > len(n.items) {
		index = len(n.items)
	}
	n.items = append(n.items, Item{})
	copy(n.items[index+1:], n.items[index:])
	n.items[index] = item
	n.indexAdd(item)
}

// Append adds item to the end of the child sequence.
func (n *Node) Append(item Item) { n.Add(item, len(n.items)) }

// Remove deletes all children matching predicate from both the sequence
// and the indexes, returning how many were removed.
func (n *Node) Remove(predicate func(Item) bool) int {
	kept := n.items[:0:0]
	removed := 0
	for _, it := range n.items {
		if predicate(it) {
			n.indexRemove(it)
			removed++
			continue
		}
		kept = append(kept, it)
	}
	n.items = kept
	return removed
}

// Equal reports structural equality: recursive sequence equality of
// children (spec §4.3). Class and identity are not part of structural
// equality.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if len(n.items) != len(o.items) {
		return false
	}
	for i, it := range n.items {
		oit := o.items[i]
		if it.IsNode() != oit.IsNode() {
			return false
		}
		if it.IsNode() {
			if !it.Node.Equal(oit.Node) {
				return false
			}
			continue
		}
		if !it.Value.Equal(oit.Value) {
			return false
		}
	}
	return true
}

// Identity returns the node's persistent identity string, generating and
// caching a fresh UUID if one was never assigned (spec §3 "Identity").
func (n *Node) Identity() string {
	if n.identity == "" {
		n.identity = uuid.NewString()
	}
	return n.identity
}

// SetIdentity explicitly assigns the identity read from source (the
// node's own "uuid" child, if any), so Identity() doesn't mint a fresh
// one on first access.
func (n *Node) SetIdentity(id string) { n.identity = id }

// HasIdentity reports whether an identity has been assigned or cached
// without minting a new one as a side effect.
func (n *Node) HasIdentity() bool { return n.identity != "" }

// Clone performs a deep copy of n and its entire subtree, preserving
// class and identity. Diff targets reference nodes by identity, not by
// pointer, so a cloned tree's diffs can be re-targeted by rebuilding a
// target index from scratch over the clone (spec §4.5, §5, §9).
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	items := make([]Item, len(n.items))
	for i, it := range n.items {
		if it.IsNode() {
			items[i] = itemNode(it.Node.Clone())
		} else {
			items[i] = it
		}
	}
	c := New(items)
	c.class = n.class
	c.identity = n.identity
	return c
}

// Walk calls fn for n and every descendant node, depth-first pre-order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, it := range n.items {
		if it.IsNode() {
			it.Node.Walk(fn)
		}
	}
}

// ByIdentity returns a lookup from identity string to node, built by
// walking n's subtree. Used to rebuild a diff target index after a deep
// copy (spec §9 "rebuild the diff's target index by walking the cloned
// tree once").
func ByIdentity(root *Node) map[string]*Node {
	out := map[string]*Node{}
	root.Walk(func(n *Node) {
		if n.HasIdentity() {
			out[n.Identity()] = n
		}
	})
	return out
}
