package tree_test

import (
	"testing"

	"github.com/evolbioinfo/ebd/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPreservesPairwiseDistances(t *testing.T) {
	tr := buildQuartet(t)
	proj := tr.Project(map[string]bool{"A": true, "C": true})

	leaves := map[string]*tree.Node{}
	for _, l := range proj.Leaves() {
		leaves[l.Name()] = l
	}
	require.Len(t, leaves, 2)
	d, err := tree.Distance(leaves["A"], leaves["C"])
	require.NoError(t, err)
	assert.InDelta(t, 4.0, d, 1e-9)
}

func TestProjectCollapsesRootToSingleChild(t *testing.T) {
	tr := buildQuartet(t)
	proj := tr.Project(map[string]bool{"A": true, "B": true})
	assert.True(t, proj.Root().Tip() == false)
	names := []string{}
	for _, l := range proj.Leaves() {
		names = append(names, l.Name())
	}
	assert.ElementsMatch(t, []string{"A", "B"}, names)
}
