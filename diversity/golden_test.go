package diversity_test

import (
	"testing"

	"github.com/evolbioinfo/ebd/diversity"
	"github.com/evolbioinfo/ebd/newick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These mirror the worked scenarios from spec.md section 8. Scenario A's
// own worked arithmetic in spec.md is internally inconsistent (it flags its
// own numbers as questionable); the values below are hand-derived directly
// from the bray-curtis formula instead of copied from that text.

const scenarioABTable = "\tA\tB\tC\n" +
	"S1\t1\t0\t0\n" +
	"S2\t0\t1\t0\n" +
	"S3\t1\t1\t0\n"

func TestScenarioA_UnweightedBrayCurtis(t *testing.T) {
	tbl := openTable(t, scenarioABTable)
	e, err := diversity.Open(tbl, nil, diversity.BrayCurtis, diversity.Options{Weighted: false}, noopLog())
	require.NoError(t, err)

	d21, err := e.Dissimilarity(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d21, 1e-9)

	d31, err := e.Dissimilarity(2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, d31, 1e-9)

	d32, err := e.Dissimilarity(2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, d32, 1e-9)
}

func TestScenarioB_UnweightedSoergel(t *testing.T) {
	tbl := openTable(t, scenarioABTable)
	e, err := diversity.Open(tbl, nil, diversity.Soergel, diversity.Options{Weighted: false}, noopLog())
	require.NoError(t, err)

	d21, err := e.Dissimilarity(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d21, 1e-9)

	d31, err := e.Dissimilarity(2, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d31, 1e-9)

	d32, err := e.Dissimilarity(2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d32, 1e-9)
}

func TestScenarioC_WeightedBrayCurtisOnStarTree(t *testing.T) {
	data := "\ta\tb\tc\n" +
		"S1\t2\t1\t0\n" +
		"S2\t1\t2\t1\n"
	tbl := openTable(t, data)
	e, err := diversity.Open(tbl, nil, diversity.BrayCurtis, diversity.Options{Weighted: true}, noopLog())
	require.NoError(t, err)
	d, err := e.Dissimilarity(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/12.0, d, 1e-9)
}

func TestScenarioD_NormalizedUniFracMatchesBrayCurtisOnDisjointSamples(t *testing.T) {
	tbl := openTable(t, quartetData)
	tr, err := newick.Reader{}.Read("((A:1,B:1):1,(C:1,D:1):1);")
	require.NoError(t, err)

	ebc, err := diversity.Open(tbl, tr, diversity.BrayCurtis, diversity.Options{Weighted: true}, noopLog())
	require.NoError(t, err)
	dbc, err := ebc.Dissimilarity(0, 2) // S1={A}, S3={C}: disjoint clades
	require.NoError(t, err)

	euf, err := diversity.Open(tbl, tr, diversity.NormalizedWeightedUniFrac, diversity.Options{Weighted: true}, noopLog())
	require.NoError(t, err)
	duf, err := euf.Dissimilarity(0, 2)
	require.NoError(t, err)

	assert.InDelta(t, dbc, duf, 1e-9)
	assert.InDelta(t, 1.0, duf, 1e-9)
}
