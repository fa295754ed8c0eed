// Package cluster builds a dendrogram over a symmetric dissimilarity matrix
// via agglomerative clustering (single/complete/average linkage) or
// neighbour joining, reusing the tree package's Node/Tree shape so the
// result can be written out with the newick package like any other tree.
package cluster

import (
	"math"
	"strings"

	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/rs/zerolog"
)

// Method selects the linkage criterion for Agglomerative.
type Method int

const (
	// Single linkage: distance between clusters is the minimum pairwise
	// distance between their members.
	Single Method = iota
	// Complete linkage: the maximum pairwise distance.
	Complete
	// Average linkage (UPGMA): the size-weighted mean pairwise distance.
	Average
)

func (m Method) String() string {
	switch m {
	case Single:
		return "single"
	case Complete:
		return "complete"
	case Average:
		return "average"
	default:
		return "unknown"
	}
}

// ByName resolves a linkage method name (case-insensitive; "upgma" is an
// alias for "average").
func ByName(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single":
		return Single, nil
	case "complete":
		return Complete, nil
	case "average", "upgma":
		return Average, nil
	default:
		return 0, ebderr.Newf(ebderr.Config, "unknown clustering method %q", name)
	}
}

type activeCluster struct {
	node   *tree.Node
	size   int
	height float64 // merge height: half the dissimilarity at which this cluster was formed (0 for a leaf)
	repr   string  // lexicographically smallest label in the cluster, for tie-breaking
}

// Agglomerative clusters len(labels) items given their symmetric
// dissimilarity matrix, merging the closest pair at each step under the
// chosen linkage until one cluster remains, and returns the resulting
// dendrogram. Ties in the minimum distance are broken by the lexicographic
// order of the two candidate clusters' smallest member label, so the result
// is deterministic regardless of map/slice iteration order.
func Agglomerative(dist [][]float64, labels []string, method Method, log zerolog.Logger) (*tree.Tree, error) {
	n := len(labels)
	if n == 0 {
		return nil, ebderr.New(ebderr.Config, "cannot cluster zero items")
	}
	if n == 1 {
		leaf := tree.NewNode(labels[0])
		t := tree.New()
		t.SetRoot(leaf)
		t.AssignIndices()
		return t, nil
	}

	d := make(map[int]map[int]float64, 2*n)
	for i := 0; i < n; i++ {
		d[i] = make(map[int]float64, n)
		for j := 0; j < n; j++ {
			if i != j {
				d[i][j] = dist[i][j]
			}
		}
	}

	clusters := make(map[int]*activeCluster, n)
	for i, l := range labels {
		clusters[i] = &activeCluster{node: tree.NewNode(l), size: 1, repr: l}
	}
	nextID := n

	for len(clusters) > 1 {
		bi, bj, err := closestPair(clusters, d)
		if err != nil {
			return nil, err
		}
		ci, cj := clusters[bi], clusters[bj]
		height := d[bi][bj] / 2

		merged := tree.NewNode("")
		tree.Attach(merged, ci.node)
		tree.Attach(merged, cj.node)
		ci.node.SetLength(math.Max(0, height-ci.height))
		cj.node.SetLength(math.Max(0, height-cj.height))

		repr := ci.repr
		if cj.repr < repr {
			repr = cj.repr
		}
		newCluster := &activeCluster{node: merged, size: ci.size + cj.size, height: height, repr: repr}

		d[nextID] = make(map[int]float64, len(clusters))
		for k := range clusters {
			if k == bi || k == bj {
				continue
			}
			nd := linkageDistance(method, d[bi][k], d[bj][k], ci.size, cj.size)
			d[k][nextID] = nd
			d[nextID][k] = nd
		}
		delete(clusters, bi)
		delete(clusters, bj)
		delete(d, bi)
		delete(d, bj)
		for k := range d {
			delete(d[k], bi)
			delete(d[k], bj)
		}
		clusters[nextID] = newCluster
		log.Debug().Str("a", ci.repr).Str("b", cj.repr).Float64("height", height).Msg("merged clusters")
		nextID++
	}

	var root *tree.Node
	for _, c := range clusters {
		root = c.node
	}
	t := tree.New()
	t.SetRoot(root)
	t.AssignIndices()
	return t, nil
}

func closestPair(clusters map[int]*activeCluster, d map[int]map[int]float64) (int, int, error) {
	ids := make([]int, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	bi, bj := -1, -1
	best := math.Inf(1)
	for ii := 0; ii < len(ids); ii++ {
		for jj := ii + 1; jj < len(ids); jj++ {
			i, j := ids[ii], ids[jj]
			dij := d[i][j]
			if dij > best {
				continue
			}
			if dij < best {
				best, bi, bj = dij, i, j
				continue
			}
			// tie: prefer the pair whose lexicographically-smaller
			// representative label sorts first.
			if lexLess(clusters[i], clusters[j], clusters[bi], clusters[bj]) {
				bi, bj = i, j
			}
		}
	}
	if bi < 0 {
		return 0, 0, ebderr.New(ebderr.DataConsistency, "no mergeable cluster pair found")
	}
	return bi, bj, nil
}

func lexLess(i, j, curBi, curBj *activeCluster) bool {
	a1, a2 := orderedPair(i.repr, j.repr)
	b1, b2 := orderedPair(curBi.repr, curBj.repr)
	if a1 != b1 {
		return a1 < b1
	}
	return a2 < b2
}

func orderedPair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// CutAt runs the same agglomerative merge loop as Agglomerative but stops
// as soon as the minimum remaining inter-cluster distance exceeds
// threshold, returning each surviving cluster's member labels. It is used
// by the calculator correlator (§4.6) to emit discrete groups instead of a
// full dendrogram.
func CutAt(dist [][]float64, labels []string, method Method, threshold float64, log zerolog.Logger) ([][]string, error) {
	n := len(labels)
	if n == 0 {
		return nil, ebderr.New(ebderr.Config, "cannot cluster zero items")
	}

	d := make(map[int]map[int]float64, 2*n)
	for i := 0; i < n; i++ {
		d[i] = make(map[int]float64, n)
		for j := 0; j < n; j++ {
			if i != j {
				d[i][j] = dist[i][j]
			}
		}
	}
	clusters := make(map[int]*activeCluster, n)
	for i, l := range labels {
		clusters[i] = &activeCluster{node: tree.NewNode(l), size: 1, repr: l}
	}
	members := make(map[int][]string, n)
	for i, l := range labels {
		members[i] = []string{l}
	}
	nextID := n

	for len(clusters) > 1 {
		bi, bj, err := closestPair(clusters, d)
		if err != nil {
			return nil, err
		}
		if d[bi][bj] > threshold {
			break
		}
		ci, cj := clusters[bi], clusters[bj]
		repr := ci.repr
		if cj.repr < repr {
			repr = cj.repr
		}
		clusters[nextID] = &activeCluster{node: tree.NewNode(""), size: ci.size + cj.size, height: d[bi][bj] / 2, repr: repr}
		members[nextID] = append(append([]string(nil), members[bi]...), members[bj]...)

		d[nextID] = make(map[int]float64, len(clusters))
		for k := range clusters {
			if k == bi || k == bj {
				continue
			}
			d[nextID][k] = linkageDistance(method, d[bi][k], d[bj][k], ci.size, cj.size)
			d[k][nextID] = d[nextID][k]
		}
		delete(clusters, bi)
		delete(clusters, bj)
		delete(members, bi)
		delete(members, bj)
		delete(d, bi)
		delete(d, bj)
		for k := range d {
			delete(d[k], bi)
			delete(d[k], bj)
		}
		nextID++
	}

	groups := make([][]string, 0, len(clusters))
	for id := range clusters {
		groups = append(groups, members[id])
	}
	log.Debug().Int("groups", len(groups)).Msg("cut dendrogram at threshold")
	return groups, nil
}

// linkageDistance applies the Lance-Williams update for the chosen method.
func linkageDistance(method Method, dik, djk float64, ni, nj int) float64 {
	switch method {
	case Single:
		return math.Min(dik, djk)
	case Complete:
		return math.Max(dik, djk)
	case Average:
		n := float64(ni + nj)
		return (float64(ni)*dik + float64(nj)*djk) / n
	default:
		return math.Min(dik, djk)
	}
}
