package newick_test

import (
	"testing"

	"github.com/evolbioinfo/ebd/newick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSimpleQuartet(t *testing.T) {
	tr, err := newick.Reader{}.Read("((A:1,B:1):1,(C:1,D:1):1);")
	require.NoError(t, err)
	names := []string{}
	for _, l := range tr.Leaves() {
		names = append(names, l.Name())
	}
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, names)
	assert.Equal(t, 6, tr.Size())
}

func TestReadQuotedLabel(t *testing.T) {
	tr, err := newick.Reader{}.Read("(A:1,'homo sapiens':1);")
	require.NoError(t, err)
	found := false
	for _, l := range tr.Leaves() {
		if l.Name() == "homo sapiens" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestReadMissingLengthTreatedAsZero(t *testing.T) {
	tr, err := newick.Reader{}.Read("(A:1,B);")
	require.NoError(t, err)
	for _, l := range tr.Leaves() {
		if l.Name() == "B" {
			length, ok := l.Length()
			assert.True(t, ok)
			assert.Equal(t, 0.0, length)
		}
	}
}

func TestWriteRoundTripsLeafSet(t *testing.T) {
	tr, err := newick.Reader{}.Read("((A:1,B:1):1,(C:1,D:1):1);")
	require.NoError(t, err)
	s := newick.Write(tr)

	tr2, err := newick.Reader{}.Read(s)
	require.NoError(t, err)
	assert.Len(t, tr2.Leaves(), 4)
}

func TestReadStripsComments(t *testing.T) {
	tr, err := newick.Reader{}.Read("(A:1[comment],B:1);")
	require.NoError(t, err)
	assert.Len(t, tr.Leaves(), 2)
}
