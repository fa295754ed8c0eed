// Package vectorize projects per-sample taxon counts onto a phylogenetic
// (or star) tree, producing one branch vector per sample, and implements
// the MRCA-restriction operations the dissimilarity engine applies before
// calling a calculator.
package vectorize

import (
	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/fredericlemoine/bitset"
	"github.com/rs/zerolog"
)

// BranchVector holds one value per non-root node of the bound tree, in
// post-order.
type BranchVector []float64

// Vectorizer binds a tree to a sample table's taxon order and a mode
// (phylogenetic/star, weighted/unweighted, normalize/raw), and turns a
// per-sample count row into a BranchVector.
type Vectorizer struct {
	tr           *tree.Tree
	fullPost     []*tree.Node // every node, post-order, root last
	nonRootPost  []*tree.Node
	leafByTaxon  []*tree.Node // index = taxon ordinal from the sample table
	phylogenetic bool
	weighted     bool
	normalize    bool
	log          zerolog.Logger

	leafDist [][]float64 // lazily built, index = taxon ordinal
	rootDist []float64

	// leafBitsets[n.PostOrder()] is the set of taxon ordinals in n's
	// subtree; used by RestrictToMRCA to find the minimal spanning node
	// without an O(nodes) scratch-counter pass per sample pair.
	leafBitsets []*bitset.BitSet
}

// New binds t to tableTaxa (the sample table's column order) and returns a
// Vectorizer. Every name in tableTaxa must label a leaf of t; any leaf of t
// not named in tableTaxa simply never becomes "present" in a sample.
func New(t *tree.Tree, tableTaxa []string, phylogenetic, weighted, normalize bool, log zerolog.Logger) (*Vectorizer, error) {
	leafByName := make(map[string]*tree.Node, len(t.Leaves()))
	for _, leaf := range t.Leaves() {
		leafByName[leaf.Name()] = leaf
	}

	leafByTaxon := make([]*tree.Node, len(tableTaxa))
	for idx, name := range tableTaxa {
		leaf, ok := leafByName[name]
		if !ok {
			return nil, ebderr.Newf(ebderr.DataConsistency, "taxon %q from the sample table is not a leaf of the tree", name)
		}
		leaf.SetTaxon(idx)
		leafByTaxon[idx] = leaf
	}

	t.AssignIndices()
	v := &Vectorizer{
		tr:           t,
		fullPost:     t.PostOrder(),
		nonRootPost:  t.NonRootPostOrder(),
		leafByTaxon:  leafByTaxon,
		phylogenetic: phylogenetic,
		weighted:     weighted,
		normalize:    normalize,
		log:          log,
	}
	v.leafBitsets = t.LeafBitsets(len(tableTaxa))
	return v, nil
}

// Tree returns the bound tree.
func (v *Vectorizer) Tree() *tree.Tree { return v.tr }

// Size is the branch vector length (non-root node count).
func (v *Vectorizer) Size() int { return len(v.nonRootPost) }

// NonRootNodes returns the non-root nodes in the post-order that indexes
// every BranchVector this Vectorizer produces.
func (v *Vectorizer) NonRootNodes() []*tree.Node { return v.nonRootPost }

// CalculateDataVector converts one sample's count row into a branch vector.
//
// leavesOnly, when set, skips writing internal-node entries (they stay
// zero in the output); it is used by leaf-set operations that only care
// about per-leaf values and address the vector by taxon rather than by
// post-order position. totalCount normalizes leaf values to proportions
// when the Vectorizer was built with normalize=true.
func (v *Vectorizer) CalculateDataVector(counts []float64, leavesOnly bool, totalCount float64) BranchVector {
	values := make([]float64, len(v.fullPost))
	for _, n := range v.fullPost {
		idx := n.PostOrder()
		if n.Tip() {
			var val float64
			if t := n.Taxon(); t != tree.NilIndex {
				val = counts[t]
				if v.normalize && totalCount > 0 {
					val /= totalCount
				}
			}
			values[idx] = val
			continue
		}
		var sum float64
		for _, c := range n.Children() {
			sum += values[c.PostOrder()]
		}
		values[idx] = sum
	}

	vec := make(BranchVector, len(v.nonRootPost))
	for _, n := range v.nonRootPost {
		idx := n.PostOrder()
		if n.Tip() {
			vec[idx] = values[idx]
		} else if leavesOnly {
			vec[idx] = 0
		} else {
			vec[idx] = values[idx]
		}
	}

	if !v.weighted {
		for i, val := range vec {
			if val > 0 {
				vec[i] = 1.0
			}
		}
	}
	return vec
}
