// Package tree implements a rooted phylogenetic tree: pointer-linked nodes
// with parent/child links, post-order and breadth-first numbering, taxon
// indexing, and the projection (prune + collapse) operation used to confine
// a tree to an observed leaf set.
package tree

import "math"

// NilLength marks the absence of a branch length on a node (the root, or a
// node read from a Newick string with no length token).
const NilLength = math.MinInt64

// NilIndex marks an index field that has not yet been assigned.
const NilIndex = -1

// Node is the single node shape used throughout the tree: it carries
// everything a leaf or an internal node needs.
type Node struct {
	name    string
	length  float64 // distance to parent; NilLength if absent
	hasLen  bool
	support float64
	hasSup  bool
	comment []string

	parent   *Node
	children []*Node

	postOrder int // index in 0..N-1, N-1 reserved for the root
	bfsOrder  int
	taxon     int // index into the sample table's taxon order; NilIndex if internal
}

// NewNode creates a detached node with no parent, no children and no taxon.
func NewNode(name string) *Node {
	return &Node{
		name:      name,
		length:    NilLength,
		postOrder: NilIndex,
		bfsOrder:  NilIndex,
		taxon:     NilIndex,
	}
}

// Name returns the node's label (may be empty for an internal node).
func (n *Node) Name() string { return n.name }

// SetName sets the node's label.
func (n *Node) SetName(name string) { n.name = name }

// Length returns the branch length to the parent and whether it is set.
func (n *Node) Length() (float64, bool) { return n.length, n.hasLen }

// SetLength sets the branch length to the parent.
func (n *Node) SetLength(l float64) {
	n.length = l
	n.hasLen = true
}

// ClearLength removes the branch length, marking it absent.
func (n *Node) ClearLength() {
	n.length = NilLength
	n.hasLen = false
}

// Support returns the node's support value (e.g. bootstrap percentage).
func (n *Node) Support() (float64, bool) { return n.support, n.hasSup }

// SetSupport sets the node's support value.
func (n *Node) SetSupport(s float64) {
	n.support = s
	n.hasSup = true
}

// Comments returns the Newick bracket comments attached to this node.
func (n *Node) Comments() []string { return n.comment }

// AddComment appends a bracket comment.
func (n *Node) AddComment(c string) { n.comment = append(n.comment, c) }

// Parent returns the node's parent, or nil if it is the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the ordered child list (empty for a leaf).
func (n *Node) Children() []*Node { return n.children }

// Tip reports whether the node is a leaf.
func (n *Node) Tip() bool { return len(n.children) == 0 }

// Taxon returns the taxon index bound to this leaf, or NilIndex if unbound
// or internal.
func (n *Node) Taxon() int { return n.taxon }

// SetTaxon binds a taxon index to a leaf node.
func (n *Node) SetTaxon(idx int) { n.taxon = idx }

// PostOrder returns the node's post-order index (valid after the owning
// tree's AssignIndices has run).
func (n *Node) PostOrder() int { return n.postOrder }

// BFSOrder returns the node's breadth-first index from the last
// AssignIndices call.
func (n *Node) BFSOrder() int { return n.bfsOrder }

// addChild appends child to n's child list and sets the back-link. It does
// not set a branch length; callers do that via child.SetLength.
func (n *Node) addChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// Attach makes child a new child of parent with no branch length set. It is
// the building block newick.Reader uses while a subtree is still detached
// from any *Tree.
func Attach(parent, child *Node) {
	parent.addChild(child)
}

// removeChild deletes child from n's child list. It is a no-op if child is
// not among n's children.
func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}
