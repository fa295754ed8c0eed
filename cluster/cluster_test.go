package cluster_test

import (
	"io"
	"testing"

	"github.com/evolbioinfo/ebd/cluster"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLog() zerolog.Logger { return zerolog.New(io.Discard) }

// symmetric distance matrix over 4 items: {A,B} are close, {C,D} are close,
// and the two pairs are far apart.
var labels = []string{"A", "B", "C", "D"}
var dist = [][]float64{
	{0, 1, 9, 9},
	{1, 0, 9, 9},
	{9, 9, 0, 2},
	{9, 9, 2, 0},
}

func TestAgglomerativeSingleLinkageGroupsClosePairsFirst(t *testing.T) {
	tr, err := cluster.Agglomerative(dist, labels, cluster.Single, noopLog())
	require.NoError(t, err)
	assert.Equal(t, 4, len(tree.SubtreeLeaves(tr.Root())))

	var abInternal *tree.Node
	for _, n := range tr.Nodes() {
		if n.Tip() {
			continue
		}
		names := leafNames(n)
		if len(names) == 2 && names["A"] && names["B"] {
			abInternal = n
		}
	}
	require.NotNil(t, abInternal, "A and B should merge before joining C/D")
}

func TestAgglomerativeMethodByName(t *testing.T) {
	m, err := cluster.ByName("UPGMA")
	require.NoError(t, err)
	assert.Equal(t, cluster.Average, m)

	_, err = cluster.ByName("nonsense")
	assert.Error(t, err)
}

func TestNeighborJoinProducesBinaryRootedTree(t *testing.T) {
	tr, err := cluster.NeighborJoin(dist, labels, noopLog())
	require.NoError(t, err)
	assert.Equal(t, 4, len(tree.SubtreeLeaves(tr.Root())))
	for _, n := range tr.Nodes() {
		if !n.Tip() {
			assert.Len(t, n.Children(), 2)
		}
	}
}

func TestAgglomerativeSingleItem(t *testing.T) {
	tr, err := cluster.Agglomerative([][]float64{{0}}, []string{"only"}, cluster.Average, noopLog())
	require.NoError(t, err)
	assert.Equal(t, "only", tr.Root().Name())
}

// ScenarioF from spec.md section 8: UPGMA on D=[[0,2,3],[2,0,3],[3,3,0]]
// merges {1,2} at height 1, then {1,2}∪{3} at height 1.5.
func TestScenarioF_UPGMAMergeHeights(t *testing.T) {
	d := [][]float64{
		{0, 2, 3},
		{2, 0, 3},
		{3, 3, 0},
	}
	tr, err := cluster.Agglomerative(d, []string{"X", "Y", "Z"}, cluster.Average, noopLog())
	require.NoError(t, err)

	root := tr.Root()
	require.Len(t, root.Children(), 2)

	var zChild, xyChild *tree.Node
	for _, c := range root.Children() {
		if c.Tip() && c.Name() == "Z" {
			zChild = c
		} else if !c.Tip() {
			xyChild = c
		}
	}
	require.NotNil(t, zChild, "Z should join at the root")
	require.NotNil(t, xyChild, "the {X,Y} cluster should join at the root")

	zLen, ok := zChild.Length()
	require.True(t, ok)
	assert.InDelta(t, 1.5, zLen, 1e-9)

	xyLen, ok := xyChild.Length()
	require.True(t, ok)
	assert.InDelta(t, 0.5, xyLen, 1e-9)

	require.Len(t, xyChild.Children(), 2)
	for _, c := range xyChild.Children() {
		require.True(t, c.Tip())
		l, ok := c.Length()
		require.True(t, ok)
		assert.InDelta(t, 1.0, l, 1e-9)
	}
}

func leafNames(n *tree.Node) map[string]bool {
	out := map[string]bool{}
	for _, l := range tree.SubtreeLeaves(n) {
		out[l.Name()] = true
	}
	return out
}
