package tree

import (
	"github.com/evolbioinfo/ebd/ebderr"
)

// Tree owns every node reachable from its root; dropping the tree drops
// every node with it (there is no separate arena to reclaim).
type Tree struct {
	root      *Node
	name      string
	nodeCount int // cached, -1 if stale
}

// New builds an empty tree. Callers typically get a populated tree from
// newick.Reader.Read or from NewStarTree.
func New() *Tree {
	return &Tree{nodeCount: NilIndex}
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// SetRoot replaces the tree's root. It does not validate that the node is
// reachable from the previous root.
func (t *Tree) SetRoot(r *Node) {
	t.root = r
	t.nodeCount = NilIndex
}

// Name returns the tree's optional name (empty if unset).
func (t *Tree) Name() string { return t.name }

// SetName sets the tree's optional name.
func (t *Tree) SetName(name string) { t.name = name }

// Connect makes child a new child of parent, with no branch length set.
// It returns child for chaining.
func (t *Tree) Connect(parent, child *Node) *Node {
	parent.addChild(child)
	t.nodeCount = NilIndex
	return child
}

// Nodes returns every node of the tree in an unspecified (pre-order) order.
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, 0, t.approxSize())
	t.preOrderRecur(t.root, &nodes)
	return nodes
}

func (t *Tree) preOrderRecur(n *Node, out *[]*Node) {
	if n == nil {
		return
	}
	*out = append(*out, n)
	for _, c := range n.children {
		t.preOrderRecur(c, out)
	}
}

func (t *Tree) approxSize() int {
	if t.nodeCount > 0 {
		return t.nodeCount
	}
	return 64
}

// Leaves returns every leaf of the tree, in left-to-right (in-order) order.
func (t *Tree) Leaves() []*Node {
	return SubtreeLeaves(t.root)
}

// SubtreeLeaves returns the leaves of the subtree rooted at n, in-order.
func SubtreeLeaves(n *Node) []*Node {
	leaves := make([]*Node, 0, 16)
	var recur func(*Node)
	recur = func(cur *Node) {
		if cur.Tip() {
			leaves = append(leaves, cur)
			return
		}
		for _, c := range cur.children {
			recur(c)
		}
	}
	recur(n)
	return leaves
}

// SubtreePostOrder returns the nodes of the subtree rooted at n in
// post-order (children strictly before their parent).
func SubtreePostOrder(n *Node) []*Node {
	nodes := make([]*Node, 0, 32)
	var recur func(*Node)
	recur = func(cur *Node) {
		for _, c := range cur.children {
			recur(c)
		}
		nodes = append(nodes, cur)
	}
	recur(n)
	return nodes
}

// SubtreeBFS returns the nodes of the subtree rooted at n in breadth-first
// order.
func SubtreeBFS(n *Node) []*Node {
	nodes := make([]*Node, 0, 32)
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		nodes = append(nodes, cur)
		queue = append(queue, cur.children...)
	}
	return nodes
}

// AssignIndices numbers every node of the tree in post-order (root last,
// receiving the largest index) and, separately, in breadth-first order from
// the root. This is the contract §4.1 describes: children appear strictly
// before their parent, and the root has index len(nodes)-1.
func (t *Tree) AssignIndices() {
	post := SubtreePostOrder(t.root)
	for i, n := range post {
		n.postOrder = i
	}
	bfs := SubtreeBFS(t.root)
	for i, n := range bfs {
		n.bfsOrder = i
	}
	t.nodeCount = len(post)
}

// PostOrder returns every node of the tree ordered by post-order index
// (AssignIndices must have been called since the last structural change).
func (t *Tree) PostOrder() []*Node {
	return SubtreePostOrder(t.root)
}

// NonRootPostOrder returns every node except the root, in post-order. This
// is the index space the branch vector and the engine's weight vector are
// defined over.
func (t *Tree) NonRootPostOrder() []*Node {
	post := t.PostOrder()
	if len(post) == 0 {
		return post
	}
	return post[:len(post)-1]
}

// Size is the number of non-root nodes, i.e. the length of a branch vector.
func (t *Tree) Size() int {
	n := t.approxSizeExact()
	if n == 0 {
		return 0
	}
	return n - 1
}

func (t *Tree) approxSizeExact() int {
	if t.nodeCount >= 0 {
		return t.nodeCount
	}
	return len(t.PostOrder())
}

// PathToRoot returns the chain of nodes from n up to and including the
// root.
func PathToRoot(n *Node) []*Node {
	path := make([]*Node, 0, 8)
	for cur := n; cur != nil; cur = cur.Parent() {
		path = append(path, cur)
	}
	return path
}

// RootDistance returns the sum of branch lengths from n to the root. A
// missing length on any non-root node along the path is a fatal
// DataConsistency error.
func RootDistance(n *Node) (float64, error) {
	var d float64
	for cur := n; cur.Parent() != nil; cur = cur.Parent() {
		l, ok := cur.Length()
		if !ok {
			return 0, ebderr.Newf(ebderr.DataConsistency, "node %q has no branch length to its parent", cur.Name())
		}
		d += l
	}
	return d, nil
}

// Distance returns the phylogenetic distance (sum of branch lengths on the
// unique path) between a and b, found via their two root-paths' first
// common node.
func Distance(a, b *Node) (float64, error) {
	if a == b {
		return 0, nil
	}
	ancestors := make(map[*Node]int, 16)
	pathA := PathToRoot(a)
	for i, n := range pathA {
		ancestors[n] = i
	}
	var distB float64
	var lca *Node
	var distToLCAFromA float64
	for cur := b; cur != nil; cur = cur.Parent() {
		if idxA, ok := ancestors[cur]; ok {
			lca = cur
			var sum float64
			for i := 0; i < idxA; i++ {
				l, hasLen := pathA[i].Length()
				if !hasLen {
					return 0, ebderr.Newf(ebderr.DataConsistency, "node %q has no branch length to its parent", pathA[i].Name())
				}
				sum += l
			}
			distToLCAFromA = sum
			break
		}
		if cur.Parent() != nil {
			l, hasLen := cur.Length()
			if !hasLen {
				return 0, ebderr.Newf(ebderr.DataConsistency, "node %q has no branch length to its parent", cur.Name())
			}
			distB += l
		}
	}
	if lca == nil {
		return 0, ebderr.New(ebderr.DataConsistency, "nodes do not share a common ancestor")
	}
	return distToLCAFromA + distB, nil
}

// NewStarTree builds a flat, non-phylogenetic tree: one root with N leaf
// children, one per name in names, each with branch length 1.0. Used when
// the engine runs without a tree.
func NewStarTree(names []string) *Tree {
	t := New()
	root := NewNode("")
	t.SetRoot(root)
	for _, name := range names {
		leaf := NewNode(name)
		leaf.SetLength(1.0)
		t.Connect(root, leaf)
	}
	t.AssignIndices()
	return t
}
