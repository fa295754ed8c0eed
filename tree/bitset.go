package tree

import "github.com/fredericlemoine/bitset"

// LeafBitsets returns, indexed by PostOrder(), the set of taxon ordinals
// (as assigned via Node.SetTaxon) present in each node's subtree. size must
// be at least the number of distinct taxon ordinals in use; bits beyond the
// tree's own leaves are simply never set.
func (t *Tree) LeafBitsets(size int) []*bitset.BitSet {
	post := t.PostOrder()
	sets := make([]*bitset.BitSet, len(post))
	for _, n := range post {
		bs := bitset.New(uint(size))
		if n.Tip() {
			if idx := n.Taxon(); idx != NilIndex {
				bs.Set(uint(idx))
			}
		} else {
			for _, c := range n.Children() {
				bs.InPlaceUnion(sets[c.PostOrder()])
			}
		}
		sets[n.PostOrder()] = bs
	}
	return sets
}
