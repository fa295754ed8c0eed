package diversity_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/evolbioinfo/ebd/diversity"
	"github.com/evolbioinfo/ebd/newick"
	"github.com/evolbioinfo/ebd/sampletable"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLog() zerolog.Logger { return zerolog.New(io.Discard) }

type readerAtString struct{ s string }

func (r readerAtString) ReadAt(p []byte, off int64) (int, error) {
	return strings.NewReader(r.s).ReadAt(p, off)
}

func openTable(t *testing.T, data string) *sampletable.Table {
	t.Helper()
	tbl, err := sampletable.Open(bytes.NewBufferString(data), readerAtString{data}, noopLog())
	require.NoError(t, err)
	return tbl
}

const quartetData = "\tA\tB\tC\tD\n" +
	"S1\t1\t0\t0\t0\n" + // only A
	"S2\t1\t0\t0\t0\n" + // identical to S1
	"S3\t0\t0\t1\t0\n" + // only C, in the other clade
	"S4\t1\t1\t1\t1\n" // every taxon present

func TestSelfComparisonIsZero(t *testing.T) {
	tbl := openTable(t, quartetData)
	tr, err := newick.Reader{}.Read("((A:1,B:1):1,(C:1,D:1):1);")
	require.NoError(t, err)

	for _, k := range diversity.All() {
		opts := diversity.Options{Weighted: true, MRCA: diversity.NoMRCA}
		e, err := diversity.Open(tbl, tr, k, opts, noopLog())
		require.NoError(t, err, k.Name())
		d, err := e.Dissimilarity(3, 3)
		require.NoError(t, err, k.Name())
		assert.InDelta(t, 0.0, d, 1e-9, k.Name())
	}
}

func TestBrayCurtisIdenticalSamplesAreZero(t *testing.T) {
	tbl := openTable(t, quartetData)
	e, err := diversity.Open(tbl, nil, diversity.BrayCurtis, diversity.Options{Weighted: true}, noopLog())
	require.NoError(t, err)
	d, err := e.Dissimilarity(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d, 1e-9)
}

func TestBrayCurtisDisjointSamplesAreOne(t *testing.T) {
	tbl := openTable(t, quartetData)
	e, err := diversity.Open(tbl, nil, diversity.BrayCurtis, diversity.Options{Weighted: true}, noopLog())
	require.NoError(t, err)
	d, err := e.Dissimilarity(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-9)
}

func TestMRCARestrictionCollapsesToSharedLeaf(t *testing.T) {
	tbl := openTable(t, quartetData)
	tr, err := newick.Reader{}.Read("((A:1,B:1):1,(C:1,D:1):1);")
	require.NoError(t, err)
	e, err := diversity.Open(tbl, tr, diversity.Soergel, diversity.Options{Weighted: true, MRCA: diversity.RestrictMRCA}, noopLog())
	require.NoError(t, err)
	d, err := e.Dissimilarity(0, 1) // both samples have only A present
	require.NoError(t, err)
	assert.Equal(t, 0.0, d) // MRCA collapses to leaf A itself; empty restricted vector is a zero-division guard
}

func TestAllProducesSymmetricMatrix(t *testing.T) {
	tbl := openTable(t, quartetData)
	e, err := diversity.Open(tbl, nil, diversity.Manhattan, diversity.Options{Weighted: true, MaxDataVecs: 2}, noopLog())
	require.NoError(t, err)
	m, err := e.All()
	require.NoError(t, err)
	require.Len(t, m, 4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0.0, m[i][i])
		for j := 0; j < 4; j++ {
			assert.Equal(t, m[i][j], m[j][i])
		}
	}
}

func TestCalculatorRequiringTreeRejectsStarMode(t *testing.T) {
	tbl := openTable(t, quartetData)
	_, err := diversity.Open(tbl, nil, diversity.MNND, diversity.Options{Weighted: true}, noopLog())
	assert.Error(t, err)
}

func TestByNameResolvesAliases(t *testing.T) {
	k, err := diversity.ByName("bc")
	require.NoError(t, err)
	assert.Equal(t, diversity.BrayCurtis, k)

	_, err = diversity.ByName("not-a-thing")
	assert.Error(t, err)
}
