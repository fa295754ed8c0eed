package vectorize_test

import (
	"io"
	"testing"

	"github.com/evolbioinfo/ebd/newick"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/evolbioinfo/ebd/vectorize"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLog() zerolog.Logger { return zerolog.New(io.Discard) }

func quartetTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := newick.Reader{}.Read("((A:1,B:1):1,(C:1,D:1):1);")
	require.NoError(t, err)
	return tr
}

func TestCalculateDataVectorLeafValues(t *testing.T) {
	tr := quartetTree(t)
	v, err := vectorize.New(tr, []string{"A", "B", "C", "D"}, true, true, false, noopLog())
	require.NoError(t, err)

	vec := v.CalculateDataVector([]float64{1, 0, 0, 0}, false, 1)
	for _, n := range v.NonRootNodes() {
		if n.Name() == "A" {
			assert.Equal(t, 1.0, vec[n.PostOrder()])
		}
		if n.Name() == "B" {
			assert.Equal(t, 0.0, vec[n.PostOrder()])
		}
	}
}

func TestCalculateDataVectorInternalSumsChildren(t *testing.T) {
	tr := quartetTree(t)
	v, err := vectorize.New(tr, []string{"A", "B", "C", "D"}, true, true, false, noopLog())
	require.NoError(t, err)
	vec := v.CalculateDataVector([]float64{1, 1, 0, 0}, false, 2)

	var abInternal *tree.Node
	for _, n := range v.NonRootNodes() {
		if !n.Tip() {
			names := map[string]bool{}
			for _, l := range tree.SubtreeLeaves(n) {
				names[l.Name()] = true
			}
			if names["A"] && names["B"] && len(names) == 2 {
				abInternal = n
			}
		}
	}
	require.NotNil(t, abInternal)
	assert.Equal(t, 2.0, vec[abInternal.PostOrder()])
}

func TestUnweightedMapsToIndicator(t *testing.T) {
	tr := quartetTree(t)
	v, err := vectorize.New(tr, []string{"A", "B", "C", "D"}, true, false, false, noopLog())
	require.NoError(t, err)
	vec := v.CalculateDataVector([]float64{3, 0, 0, 0}, false, 3)
	for _, val := range vec {
		assert.Contains(t, []float64{0, 1}, val)
	}
}

func TestRestrictToMRCAWhenAllTaxaPresentIsIdentity(t *testing.T) {
	tr := quartetTree(t)
	v, err := vectorize.New(tr, []string{"A", "B", "C", "D"}, true, true, false, noopLog())
	require.NoError(t, err)
	w := v.Weights()
	bI := v.CalculateDataVector([]float64{1, 1, 1, 1}, false, 4)
	bJ := v.CalculateDataVector([]float64{1, 1, 1, 1}, false, 4)

	rI, rJ, rW := v.RestrictToMRCA(bI, bJ, w)
	assert.Equal(t, len(bI), len(rI))
	assert.Equal(t, bI, rI)
	assert.Equal(t, bJ, rJ)
	assert.Equal(t, w, rW)
}

func TestRestrictToMRCASingleSharedLeafZeroesWeights(t *testing.T) {
	tr := quartetTree(t)
	v, err := vectorize.New(tr, []string{"A", "B", "C", "D"}, true, true, false, noopLog())
	require.NoError(t, err)
	w := v.Weights()
	bI := v.CalculateDataVector([]float64{1, 0, 0, 0}, false, 1)
	bJ := v.CalculateDataVector([]float64{1, 0, 0, 0}, false, 1)

	_, _, rW := v.RestrictToMRCA(bI, bJ, w)
	var sum float64
	for _, x := range rW {
		sum += x
	}
	assert.Equal(t, 0.0, sum)
}
