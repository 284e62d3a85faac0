package hierarchy

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// KeyPrefix starts every item key.
const KeyPrefix = "node"

// Node is one input tree node.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Value    float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk calls fn for n and every descendant in pre-order. Returning false
// from fn skips that node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		if n == nil || !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool { count++; return true })
	return count
}

// Item is a prepared tree node.
type Item struct {
	Data   *Node
	Name   string
	Value  float64 // own value for leaves, sum of children otherwise
	Depth  int
	Height int
	Index  int // position among the parent's original children
	Key    string

	Parent   *Item
	Children []*Item
}

// Prepare sums, measures, sorts and keys the tree rooted at root. A nil
// root yields nil.
func Prepare(root *Node) *Item {
	if root == nil {
		return nil
	}
	return build(root, nil, 0, 0, KeyPrefix)
}

func build(n *Node, parent *Item, depth, index int, key string) *Item {
	it := &Item{Data: n, Name: n.Name, Depth: depth, Index: index, Key: key, Parent: parent}
	if n.IsLeaf() {
		it.Value = leafValue(n.Value)
		return it
	}
	it.Children = make([]*Item, 0, len(n.Children))
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		child := build(c, it, depth+1, i, key+"-"+strconv.Itoa(i))
		it.Value += child.Value
		it.Height = max(it.Height, child.Height+1)
		it.Children = append(it.Children, child)
	}
	slices.SortStableFunc(it.Children, func(a, b *Item) int {
		if a.Height != b.Height {
			return b.Height - a.Height
		}
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})
	return it
}

func leafValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// IsLeaf reports whether the item has no children.
func (it *Item) IsLeaf() bool { return len(it.Children) == 0 }

// Descendants returns it and every descendant in breadth-first order.
func (it *Item) Descendants() []*Item {
	out := []*Item{it}
	for i := 0; i < len(out); i++ {
		out = append(out, out[i].Children...)
	}
	return out
}

// Leaves returns the leaves under it in pre-order.
func (it *Item) Leaves() []*Item {
	var out []*Item
	it.Each(func(n *Item) {
		if n.IsLeaf() {
			out = append(out, n)
		}
	})
	return out
}

// Each calls fn for it and each descendant in pre-order.
func (it *Item) Each(fn func(*Item)) {
	fn(it)
	for _, c := range it.Children {
		c.Each(fn)
	}
}

// Ancestors returns it followed by its parent, grandparent and so on up to
// the root.
func (it *Item) Ancestors() []*Item {
	var out []*Item
	for n := it; n != nil; n = n.Parent {
		out = append(out, n)
	}
	return out
}

// Root returns the top of the tree containing it.
func (it *Item) Root() *Item {
	n := it
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Branch returns the depth-1 ancestor of it, or nil for the root.
func (it *Item) Branch() *Item {
	if it.Depth == 0 {
		return nil
	}
	n := it
	for n.Depth > 1 {
		n = n.Parent
	}
	return n
}

// Path joins the names from the root down to it with sep.
func (it *Item) Path(sep string) string {
	anc := it.Ancestors()
	names := make([]string, len(anc))
	for i, a := range anc {
		names[len(anc)-1-i] = a.Name
	}
	return strings.Join(names, sep)
}

// BranchNames returns the names of the root's children in input order.
// They form the color domain of the partition layouts.
func (it *Item) BranchNames() []string {
	root := it.Root()
	if root.Data == nil {
		names := make([]string, len(root.Children))
		for i, c := range root.Children {
			names[i] = c.Name
		}
		return names
	}
	var names []string
	for _, c := range root.Data.Children {
		if c != nil {
			names = append(names, c.Name)
		}
	}
	return names
}
