package vectorize

import (
	"github.com/evolbioinfo/ebd/tree"
)

// buildLeafDistances lazily computes the leaf-to-leaf phylogenetic distance
// matrix and root-to-leaf distances, indexed by taxon ordinal. It is cheap
// enough to build once per Vectorizer and reuse across every sample pair.
func (v *Vectorizer) buildLeafDistances() error {
	if v.leafDist != nil {
		return nil
	}
	n := len(v.leafByTaxon)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	root := make([]float64, n)
	for i, li := range v.leafByTaxon {
		d, err := tree.RootDistance(li)
		if err != nil {
			return err
		}
		root[i] = d
		for j := i + 1; j < n; j++ {
			lj := v.leafByTaxon[j]
			d, err := tree.Distance(li, lj)
			if err != nil {
				return err
			}
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	v.leafDist = dist
	v.rootDist = root
	return nil
}

// leafValues extracts the leaf-indexed (by taxon ordinal) slice of a branch
// vector, independent of whether it was built with leavesOnly.
func (v *Vectorizer) leafValues(b BranchVector) []float64 {
	out := make([]float64, len(v.leafByTaxon))
	for idx, leaf := range v.leafByTaxon {
		out[idx] = b[leaf.PostOrder()]
	}
	return out
}

// MeanNearestNeighborDistance computes the MNND measure's ½(D(I→J)+D(J→I))
// term: for each leaf present in one sample, the distance to its nearest
// present leaf in the other sample, averaged (proportion-weighted when the
// vectors carry abundances rather than 0/1 indicators).
func (v *Vectorizer) MeanNearestNeighborDistance(bI, bJ BranchVector) (float64, error) {
	if err := v.buildLeafDistances(); err != nil {
		return 0, err
	}
	pi := v.leafValues(bI)
	pj := v.leafValues(bJ)

	dIJ, err := v.oneWayNearestNeighbor(pi, pj)
	if err != nil {
		return 0, err
	}
	dJI, err := v.oneWayNearestNeighbor(pj, pi)
	if err != nil {
		return 0, err
	}
	return 0.5 * (dIJ + dJI), nil
}

func (v *Vectorizer) oneWayNearestNeighbor(from, to []float64) (float64, error) {
	var weighted, weightSum float64
	any := false
	for i, fv := range from {
		if fv <= 0 {
			continue
		}
		var minD float64
		found := false
		for j, tv := range to {
			if tv <= 0 {
				continue
			}
			d := 0.0
			if i != j {
				d = v.leafDist[i][j]
			}
			if !found || d < minD {
				minD = d
				found = true
			}
		}
		if !found {
			continue
		}
		any = true
		weighted += fv * minD
		weightSum += fv
	}
	if !any || weightSum == 0 {
		return 0, nil
	}
	return weighted / weightSum, nil
}

// MeanPairwiseDistance computes Σ pᵢpⱼd(i,j) / Σ pᵢpⱼ over leaf pairs drawn
// from the proportions in p (MPD's generic form); it is also the building
// block Fst and Rao's Hp use over the pooled and per-sample proportion
// vectors (§4.4's "paired leaf-distance matrices").
func (v *Vectorizer) MeanPairwiseDistance(p []float64) (float64, error) {
	if err := v.buildLeafDistances(); err != nil {
		return 0, err
	}
	var num, den float64
	for i := 0; i < len(p); i++ {
		if p[i] <= 0 {
			continue
		}
		for j := i + 1; j < len(p); j++ {
			if p[j] <= 0 {
				continue
			}
			w := p[i] * p[j]
			num += w * v.leafDist[i][j]
			den += w
		}
	}
	if den == 0 {
		return 0, nil
	}
	return num / den, nil
}

// FstPair returns (dT, dA, dB) for the Fst / Rao's Hp family: dT is the
// mean pairwise distance over the pooled (sample-union) proportions, dA and
// dB are the mean pairwise distances within each sample alone.
func (v *Vectorizer) FstPair(bI, bJ BranchVector) (dT, dA, dB float64, err error) {
	pi := v.leafValues(bI)
	pj := v.leafValues(bJ)
	pooled := make([]float64, len(pi))
	for i := range pooled {
		pooled[i] = 0.5 * (pi[i] + pj[i])
	}
	if dT, err = v.MeanPairwiseDistance(pooled); err != nil {
		return 0, 0, 0, err
	}
	if dA, err = v.MeanPairwiseDistance(pi); err != nil {
		return 0, 0, 0, err
	}
	if dB, err = v.MeanPairwiseDistance(pj); err != nil {
		return 0, 0, 0, err
	}
	return dT, dA, dB, nil
}

// RootDistanceSum returns Σ over leaves present in either sample of
// rootDist(leaf) * (bI[leaf] + bJ[leaf]) -- the normalized weighted
// UniFrac denominator.
func (v *Vectorizer) RootDistanceSum(bI, bJ BranchVector) (float64, error) {
	if err := v.buildLeafDistances(); err != nil {
		return 0, err
	}
	pi := v.leafValues(bI)
	pj := v.leafValues(bJ)
	var sum float64
	for i := range pi {
		sum += v.rootDist[i] * (pi[i] + pj[i])
	}
	return sum, nil
}
