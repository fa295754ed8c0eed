package correlate_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/evolbioinfo/ebd/correlate"
	"github.com/evolbioinfo/ebd/diversity"
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

const data = "\tA\tB\tC\tD\n" +
	"S1\t5\t1\t0\t0\n" +
	"S2\t4\t2\t0\t0\n" +
	"S3\t0\t0\t5\t1\n" +
	"S4\t0\t0\t1\t4\n" +
	"S5\t2\t2\t2\t2\n"

func openTable(t *testing.T) *sampletable.Table {
	t.Helper()
	tbl, err := sampletable.Open(bytes.NewBufferString(data), readerAtString{data}, noopLog())
	require.NoError(t, err)
	return tbl
}

func TestRunCorrelatesCalculatorsAndGroups(t *testing.T) {
	tbl := openTable(t)
	calcs := []diversity.Kind{diversity.BrayCurtis, diversity.Manhattan, diversity.Soergel, diversity.Euclidean}
	res, err := correlate.Run(tbl, nil, calcs, correlate.Options{Weighted: true, Threshold: 0.2}, noopLog())
	require.NoError(t, err)

	assert.Len(t, res.Correlation, 4)
	for i := range res.Correlation {
		assert.InDelta(t, 1.0, res.Correlation[i][i], 1e-9)
	}
	require.NotNil(t, res.Dendrogram)
	assert.NotEmpty(t, res.Groups)

	total := 0
	for _, g := range res.Groups {
		total += len(g)
	}
	assert.Equal(t, 4, total)
}

func TestRunRequiresTwoCalculators(t *testing.T) {
	tbl := openTable(t)
	_, err := correlate.Run(tbl, nil, []diversity.Kind{diversity.BrayCurtis}, correlate.Options{Weighted: true}, noopLog())
	assert.Error(t, err)
}
