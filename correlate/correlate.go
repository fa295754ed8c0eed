// Package correlate implements the calculator correlator (§4.6): it runs
// several dissimilarity calculators over the same sample table, measures
// how correlated their pairwise outputs are, and groups calculators whose
// outputs agree closely enough to be considered redundant.
package correlate

import (
	"sort"

	"github.com/evolbioinfo/ebd/cluster"
	"github.com/evolbioinfo/ebd/diversity"
	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/evolbioinfo/ebd/sampletable"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// Result holds the correlator's output.
type Result struct {
	Calculators []diversity.Kind
	// Correlation[i][j] is the Pearson correlation between calculator i's
	// and calculator j's flattened upper-triangle dissimilarity vectors.
	Correlation [][]float64
	// Dendrogram clusters calculators by 1-correlation under complete
	// linkage, for callers that want the full hierarchy.
	Dendrogram *tree.Tree
	// Groups partitions Calculators at Threshold: calculators in the same
	// group produce near-identical pairwise orderings over this table.
	Groups [][]diversity.Kind
}

// Options configures Run.
type Options struct {
	Weighted    bool
	MRCA        diversity.MRCAMode
	MaxDataVecs int
	// Threshold is the 1-r distance below which two calculators are
	// folded into the same group.
	Threshold float64
}

// Run evaluates every calculator in calcs over table (and, for
// tree-requiring calculators, t) and correlates their outputs.
func Run(table *sampletable.Table, t *tree.Tree, calcs []diversity.Kind, opts Options, log zerolog.Logger) (*Result, error) {
	if len(calcs) < 2 {
		return nil, ebderr.New(ebderr.Config, "need at least two calculators to correlate")
	}

	vectors := make([][]float64, len(calcs))
	for i, k := range calcs {
		weighted := opts.Weighted || !k.SupportsUnweighted()
		e, err := diversity.Open(table, t, k, diversity.Options{
			Weighted: weighted, MRCA: opts.MRCA, MaxDataVecs: opts.MaxDataVecs,
		}, log)
		if err != nil {
			return nil, ebderr.Wrapf(ebderr.Config, err, "opening calculator %q", k.Name())
		}
		m, err := e.All()
		if err != nil {
			return nil, err
		}
		vectors[i] = upperTriangle(m)
	}

	n := len(calcs)
	corr := make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
		corr[i][i] = 1
	}
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := stat.Correlation(vectors[i], vectors[j], nil)
			corr[i][j], corr[j][i] = r, r
			d := 1 - r
			dist[i][j], dist[j][i] = d, d
		}
	}

	labels := make([]string, n)
	for i, k := range calcs {
		labels[i] = k.Name()
	}
	dendro, err := cluster.Agglomerative(dist, labels, cluster.Complete, log)
	if err != nil {
		return nil, err
	}
	rawGroups, err := cluster.CutAt(dist, labels, cluster.Complete, opts.Threshold, log)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]diversity.Kind, n)
	for _, k := range calcs {
		byName[k.Name()] = k
	}
	groups := make([][]diversity.Kind, len(rawGroups))
	for i, g := range rawGroups {
		sort.Strings(g)
		kinds := make([]diversity.Kind, len(g))
		for j, name := range g {
			kinds[j] = byName[name]
		}
		groups[i] = kinds
	}

	return &Result{
		Calculators: calcs,
		Correlation: corr,
		Dendrogram:  dendro,
		Groups:      groups,
	}, nil
}

// upperTriangle flattens the strict upper triangle of a symmetric matrix
// into a single vector, in row-major order, for correlation.
func upperTriangle(m [][]float64) []float64 {
	n := len(m)
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, m[i][j])
		}
	}
	return out
}
