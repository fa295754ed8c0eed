package vectorize

import (
	"github.com/evolbioinfo/ebd/tree"
	"github.com/fredericlemoine/bitset"
)

// RestrictToMRCA confines (bI, bJ, w) to the subtree rooted at the deepest
// node whose subtree contains every taxon present (bI or bJ positive) in
// either sample -- the most recent common ancestor of the pooled presence
// set. Presence-per-subtree is computed via the precomputed leaf bitsets
// (tree.LeafBitsets), intersected against the pair's own presence set,
// rather than a per-pair scratch counter walk.
func (v *Vectorizer) RestrictToMRCA(bI, bJ, w BranchVector) (BranchVector, BranchVector, BranchVector) {
	presence := bitset.New(uint(len(v.leafByTaxon)))
	for idx, leaf := range v.leafByTaxon {
		pos := leaf.PostOrder()
		if pos < len(bI) && (bI[pos] > 0 || bJ[pos] > 0) {
			presence.Set(uint(idx))
		}
	}

	root := v.tr.Root()
	target := presenceCount(v.leafBitsets[root.PostOrder()], presence)
	sub := root
	for {
		next := descendIfUnique(v, sub, presence, target)
		if next == nil {
			break
		}
		sub = next
	}

	if sub == root {
		return append(BranchVector(nil), bI...), append(BranchVector(nil), bJ...), append(BranchVector(nil), w...)
	}

	subPost := tree.SubtreePostOrder(sub)
	n := len(subPost) - 1 // exclude sub itself, mirroring "root excluded"
	outI := make(BranchVector, n)
	outJ := make(BranchVector, n)
	outW := make(BranchVector, n)
	for i, node := range subPost[:n] {
		idx := node.PostOrder()
		outI[i] = bI[idx]
		outJ[i] = bJ[idx]
		outW[i] = w[idx]
	}
	return outI, outJ, outW
}

func presenceCount(subtreeLeaves, presence *bitset.BitSet) uint {
	return subtreeLeaves.Intersection(presence).Count()
}

// descendIfUnique returns the single child of n whose subtree's presence
// count equals target, or nil if zero or more than one child qualifies
// (meaning n itself is the minimal spanning node).
func descendIfUnique(v *Vectorizer, n *tree.Node, presence *bitset.BitSet, target uint) *tree.Node {
	var candidate *tree.Node
	for _, c := range n.Children() {
		if presenceCount(v.leafBitsets[c.PostOrder()], presence) == target {
			if candidate != nil {
				return nil
			}
			candidate = c
		}
	}
	return candidate
}

// ApplyWeightsMRCA computes the experimental MRCA-derived weight vector
// w_MRCA[n] = w[n] * S(parent(n)), with S defined in breadth-first order
// from the root:
//
//	S(root)   = (sum over all leaves of half(bI+bJ)) - (max over leaves of half(bI+bJ))
//	S(v)      = (sum over v's siblings, v included, of half(bI+bJ))
//	            - (max over the same set)
//	            + S(parent(v))
//
// This does not prune; it only reweights.
func (v *Vectorizer) ApplyWeightsMRCA(bI, bJ, w BranchVector) BranchVector {
	s := make([]float64, len(v.fullPost))

	var leafSum, leafMax float64
	first := true
	for _, leaf := range v.tr.Leaves() {
		idx := leaf.PostOrder()
		val := 0.5 * (bI[idx] + bJ[idx])
		leafSum += val
		if first || val > leafMax {
			leafMax = val
			first = false
		}
	}
	root := v.tr.Root()
	s[root.PostOrder()] = leafSum - leafMax

	for _, n := range tree.SubtreeBFS(root) {
		if n == root {
			continue
		}
		parent := n.Parent()
		var sum, max float64
		firstSib := true
		for _, c := range parent.Children() {
			idx := c.PostOrder()
			val := 0.5 * (bI[idx] + bJ[idx])
			sum += val
			if firstSib || val > max {
				max = val
				firstSib = false
			}
		}
		s[n.PostOrder()] = sum - max + s[parent.PostOrder()]
	}

	out := make(BranchVector, len(w))
	for _, n := range v.nonRootPost {
		idx := n.PostOrder()
		out[idx] = w[idx] * s[n.Parent().PostOrder()]
	}
	return out
}
