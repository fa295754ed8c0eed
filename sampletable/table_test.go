package sampletable_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/evolbioinfo/ebd/sampletable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "\tA\tB\tC\tD\n" +
	"S1\t1\t0\t0\t0\n" +
	"S2\t0\t1\t0\t0\n" +
	"S3\t1\t1\t0\t0\n"

type readerAtString struct{ s string }

func (r readerAtString) ReadAt(p []byte, off int64) (int, error) {
	return strings.NewReader(r.s).ReadAt(p, off)
}

func open(t *testing.T) *sampletable.Table {
	t.Helper()
	ra := readerAtString{s: sample}
	tbl, err := sampletable.Open(bytes.NewBufferString(sample), ra, noopLogger())
	require.NoError(t, err)
	return tbl
}

func TestOpenIndexesHeaderAndRows(t *testing.T) {
	tbl := open(t)
	assert.Equal(t, []string{"A", "B", "C", "D"}, tbl.Taxa())
	assert.Equal(t, 3, tbl.NumSamples())
	assert.Equal(t, "S1", tbl.SampleName(0))
	assert.Equal(t, "S3", tbl.SampleName(2))
}

func TestRowParsesCountsAndTotal(t *testing.T) {
	tbl := open(t)
	counts, total, err := tbl.Row(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0, 0}, counts)
	assert.Equal(t, 2.0, total)
}

func TestRowIsIdempotent(t *testing.T) {
	tbl := open(t)
	c1, t1, err := tbl.Row(1)
	require.NoError(t, err)
	c2, t2, err := tbl.Row(1)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
	assert.Equal(t, t1, t2)
}

func TestDuplicateTaxonRejected(t *testing.T) {
	bad := "\tA\tA\n" + "S1\t1\t2\n"
	ra := readerAtString{s: bad}
	_, err := sampletable.Open(bytes.NewBufferString(bad), ra, noopLogger())
	assert.Error(t, err)
}

func TestColumnCountMismatchRejected(t *testing.T) {
	bad := "\tA\tB\n" + "S1\t1\n"
	ra := readerAtString{s: bad}
	tbl, err := sampletable.Open(bytes.NewBufferString(bad), ra, noopLogger())
	require.NoError(t, err)
	_, _, err = tbl.Row(0)
	assert.Error(t, err)
}

func TestJackknifeDrawsFixedSize(t *testing.T) {
	tbl := open(t)
	rng := rand.New(rand.NewSource(1))
	counts, total, err := tbl.Jackknife(2, 1000, rng)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, total)
	var sum float64
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, 1000.0, sum)
}
