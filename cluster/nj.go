package cluster

import (
	"math"

	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/rs/zerolog"
)

// NeighborJoin builds a tree from a symmetric dissimilarity matrix using the
// classic Saitou-Nei neighbour-joining algorithm. Since every other tree in
// this module is rooted, the final two-cluster join is rooted at its
// midpoint rather than left as an unrooted trifurcation.
func NeighborJoin(dist [][]float64, labels []string, log zerolog.Logger) (*tree.Tree, error) {
	n := len(labels)
	if n == 0 {
		return nil, ebderr.New(ebderr.Config, "cannot join zero items")
	}
	if n == 1 {
		leaf := tree.NewNode(labels[0])
		t := tree.New()
		t.SetRoot(leaf)
		t.AssignIndices()
		return t, nil
	}

	d := make(map[int]map[int]float64, 2*n)
	nodes := make(map[int]*tree.Node, 2*n)
	for i := 0; i < n; i++ {
		d[i] = make(map[int]float64, n)
		for j := 0; j < n; j++ {
			if i != j {
				d[i][j] = dist[i][j]
			}
		}
		nodes[i] = tree.NewNode(labels[i])
	}
	repr := make(map[int]string, 2*n)
	for i, l := range labels {
		repr[i] = l
	}
	active := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		active[i] = true
	}
	nextID := n

	for len(active) > 2 {
		m := len(active)
		r := make(map[int]float64, m)
		for i := range active {
			var sum float64
			for j := range active {
				if i != j {
					sum += d[i][j]
				}
			}
			r[i] = sum
		}

		bi, bj, err := minQ(active, d, r, float64(m), repr)
		if err != nil {
			return nil, err
		}

		u := tree.NewNode("")
		tree.Attach(u, nodes[bi])
		tree.Attach(u, nodes[bj])
		lenI := 0.5*d[bi][bj] + (r[bi]-r[bj])/(2*(float64(m)-2))
		lenJ := d[bi][bj] - lenI
		nodes[bi].SetLength(math.Max(0, lenI))
		nodes[bj].SetLength(math.Max(0, lenJ))

		d[nextID] = make(map[int]float64, m)
		for k := range active {
			if k == bi || k == bj {
				continue
			}
			nk := 0.5 * (d[bi][k] + d[bj][k] - d[bi][bj])
			d[k][nextID] = nk
			d[nextID][k] = nk
		}
		delete(active, bi)
		delete(active, bj)
		delete(d, bi)
		delete(d, bj)
		for k := range d {
			delete(d[k], bi)
			delete(d[k], bj)
		}
		nodes[nextID] = u
		pr := repr[bi]
		if repr[bj] < pr {
			pr = repr[bj]
		}
		repr[nextID] = pr
		active[nextID] = true
		log.Debug().Str("a", repr[bi]).Str("b", repr[bj]).Int("merged-into", nextID).Msg("neighbor-joined pair")
		nextID++
	}

	var ids []int
	for id := range active {
		ids = append(ids, id)
	}
	i, j := ids[0], ids[1]
	root := tree.NewNode("")
	tree.Attach(root, nodes[i])
	tree.Attach(root, nodes[j])
	half := d[i][j] / 2
	nodes[i].SetLength(math.Max(0, half))
	nodes[j].SetLength(math.Max(0, half))

	t := tree.New()
	t.SetRoot(root)
	t.AssignIndices()
	return t, nil
}

func minQ(active map[int]bool, d map[int]map[int]float64, r map[int]float64, m float64, repr map[int]string) (int, int, error) {
	ids := make([]int, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	bi, bj := -1, -1
	best := math.Inf(1)
	for ii := 0; ii < len(ids); ii++ {
		for jj := ii + 1; jj < len(ids); jj++ {
			i, j := ids[ii], ids[jj]
			q := (m-2)*d[i][j] - r[i] - r[j]
			switch {
			case q < best:
				best, bi, bj = q, i, j
			case q == best:
				a1, a2 := orderedPair(repr[i], repr[j])
				b1, b2 := orderedPair(repr[bi], repr[bj])
				if a1 < b1 || (a1 == b1 && a2 < b2) {
					bi, bj = i, j
				}
			}
		}
	}
	if bi < 0 {
		return 0, 0, ebderr.New(ebderr.DataConsistency, "no joinable pair found")
	}
	return bi, bj, nil
}
