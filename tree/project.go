package tree

// Project returns a new tree containing only the leaves named in keep,
// following §4.1's three-step contract:
//  1. delete every leaf whose name is not in keep;
//  2. repeatedly walking breadth-first from the root, collapse every
//     non-root internal node with fewer than two children, summing the
//     collapsed branch's length into the surviving child;
//  3. if the root ends up with a single child, replace the root with it.
//
// The projection preserves pairwise leaf distances among retained leaves.
// Projecting onto an empty keep set is allowed but produces a degenerate
// (single-node) tree; callers must not run measurements on it.
func (t *Tree) Project(keep map[string]bool) *Tree {
	clone := t.Clone()
	clone.pruneLeaves(keep)
	clone.collapseDegenerate()
	clone.AssignIndices()
	return clone
}

// pruneLeaves removes every leaf of the clone not named in keep, walking
// leaves bottom-up so a parent left childless is itself removed next.
func (t *Tree) pruneLeaves(keep map[string]bool) {
	for {
		removed := false
		for _, leaf := range t.Leaves() {
			if keep[leaf.Name()] {
				continue
			}
			parent := leaf.Parent()
			if parent == nil {
				// Root is itself the only leaf: nothing left to prune.
				continue
			}
			parent.removeChild(leaf)
			removed = true
			if len(parent.children) == 0 && parent.Parent() != nil {
				// Will be swept up as a now-empty leaf on the next pass.
			}
		}
		if !removed {
			return
		}
	}
}

// collapseDegenerate walks the tree breadth-first from the root, repeating
// until a pass changes nothing, removing any non-root internal node
// left with fewer than two children and folding its branch length into the
// surviving child (or into nothing, if it had none and is dropped outright).
// Finally, if the root has exactly one child, that child becomes the root.
func (t *Tree) collapseDegenerate() {
	for {
		changed := false
		for _, n := range SubtreeBFS(t.root) {
			if n == t.root || n.Tip() {
				continue
			}
			switch len(n.children) {
			case 0:
				if n.Parent() != nil {
					n.Parent().removeChild(n)
					changed = true
				}
			case 1:
				child := n.children[0]
				parentLen, parentHas := n.Length()
				childLen, childHas := child.Length()
				merged := mergeLength(parentHas, parentLen, childHas, childLen)
				parent := n.Parent()
				if parent == nil {
					continue
				}
				parent.removeChild(n)
				parent.addChild(child)
				if merged.has {
					child.SetLength(merged.val)
				} else {
					child.ClearLength()
				}
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	if len(t.root.children) == 1 {
		newRoot := t.root.children[0]
		newRoot.parent = nil
		t.root = newRoot
	}
}

type mergedLength struct {
	has bool
	val float64
}

func mergeLength(aHas bool, a float64, bHas bool, b float64) mergedLength {
	switch {
	case aHas && bHas:
		return mergedLength{true, a + b}
	case aHas:
		return mergedLength{true, a}
	case bHas:
		return mergedLength{true, b}
	default:
		return mergedLength{false, 0}
	}
}

// Clone deep-copies the tree, preserving names, lengths, supports, comments
// and taxon bindings but not cached indices (callers should call
// AssignIndices on the result if needed).
func (t *Tree) Clone() *Tree {
	clone := New()
	newRoot := cloneNode(t.root)
	clone.SetRoot(newRoot)
	cloneChildrenRecur(t.root, newRoot)
	clone.name = t.name
	return clone
}

func cloneNode(n *Node) *Node {
	out := NewNode(n.name)
	if n.hasLen {
		out.SetLength(n.length)
	}
	if n.hasSup {
		out.SetSupport(n.support)
	}
	out.comment = append([]string(nil), n.comment...)
	out.taxon = n.taxon
	return out
}

func cloneChildrenRecur(orig, copyNode *Node) {
	for _, c := range orig.children {
		cc := cloneNode(c)
		copyNode.addChild(cc)
		cloneChildrenRecur(c, cc)
	}
}
