package diversity

import (
	"math"
	"math/rand"

	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/evolbioinfo/ebd/sampletable"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/evolbioinfo/ebd/vectorize"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// MRCAMode selects how a sample pair's branch vectors are restricted before
// the calculator runs.
type MRCAMode int

const (
	// NoMRCA passes the full tree's branch vectors through unchanged.
	NoMRCA MRCAMode = iota
	// RestrictMRCA prunes to the MRCA-spanning subtree (vectorize.RestrictToMRCA).
	RestrictMRCA
	// StrictMRCA reweights via vectorize.ApplyWeightsMRCA without pruning.
	StrictMRCA
)

// Options configures an Engine.
type Options struct {
	Weighted    bool
	UseCounts   bool // true: raw counts: false: normalize to proportions
	MRCA        MRCAMode
	MaxDataVecs int // block size for All(); 0 means "no blocking, load everything"
}

// Engine evaluates one calculator over a sample table, optionally weighted
// by a phylogenetic tree, using the precomputed summaries §4.4 requires.
type Engine struct {
	table *sampletable.Table
	vec   *vectorize.Vectorizer
	calc  Kind
	info  info
	opts  Options
	log   zerolog.Logger

	colMin, colMax, colSum []float64
	totalW                 float64
}

// Open binds a sample table and an optional tree (nil selects a star tree
// over the table's taxa, i.e. non-phylogenetic mode) to a calculator, and
// runs whatever prepass that calculator's catalogue entry requires.
func Open(table *sampletable.Table, t *tree.Tree, calc Kind, opts Options, log zerolog.Logger) (*Engine, error) {
	entry, ok := catalogue[calc]
	if !ok {
		return nil, ebderr.Newf(ebderr.Config, "unknown calculator kind %d", calc)
	}
	if !opts.Weighted && !entry.unweighted {
		return nil, ebderr.Newf(ebderr.Config, "%s has no unweighted variant", entry.name)
	}
	phylogenetic := t != nil
	if entry.requiresTree && !phylogenetic {
		return nil, ebderr.Newf(ebderr.Config, "%s requires a phylogenetic tree", entry.name)
	}
	tr := t
	if tr == nil {
		tr = tree.NewStarTree(table.Taxa())
	}

	v, err := vectorize.New(tr, table.Taxa(), phylogenetic, opts.Weighted, !opts.UseCounts, log)
	if err != nil {
		return nil, err
	}

	e := &Engine{table: table, vec: v, calc: calc, info: entry, opts: opts, log: log}

	w := v.Weights()
	e.totalW = floats.Sum(w)

	if entry.needsColExtents || entry.needsColSum {
		if err := e.buildColumnSummaries(w); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// buildColumnSummaries does the one required full pass over every sample
// row to compute per-node-position min/max/sum across the whole table --
// the only summaries in §4.4 that cannot be derived from a single sample
// pair's own vectors.
func (e *Engine) buildColumnSummaries(w vectorize.BranchVector) error {
	n := e.vec.Size()
	colMin := make([]float64, n)
	colMax := make([]float64, n)
	colSum := make([]float64, n)
	for i := range colMin {
		colMin[i] = math.MaxFloat64
		colMax[i] = -math.MaxFloat64
	}

	for i := 0; i < e.table.NumSamples(); i++ {
		counts, total, err := e.table.Row(i)
		if err != nil {
			return err
		}
		vec := e.vec.CalculateDataVector(counts, false, total)
		for pos, val := range vec {
			if val < colMin[pos] {
				colMin[pos] = val
			}
			if val > colMax[pos] {
				colMax[pos] = val
			}
		}
		floats.Add(colSum, vec)
	}
	e.colMin, e.colMax, e.colSum = colMin, colMax, colSum
	return nil
}

// loadVector reads sample i's row and produces its branch vector plus its
// raw per-sample total (Ri).
func (e *Engine) loadVector(i int) (vectorize.BranchVector, float64, error) {
	counts, total, err := e.table.Row(i)
	if err != nil {
		return nil, 0, err
	}
	return e.vec.CalculateDataVector(counts, false, total), total, nil
}

func (e *Engine) restrict(a, b, w vectorize.BranchVector) (vectorize.BranchVector, vectorize.BranchVector, vectorize.BranchVector) {
	if e.info.needsColExtents || e.info.needsColSum {
		// Column-extent/column-sum summaries are indexed by the full
		// tree's post-order positions; restricting the pair's own
		// vectors first would desynchronize those indices, so these
		// calculators always see the unrestricted pair.
		return a, b, w
	}
	switch e.opts.MRCA {
	case RestrictMRCA:
		return e.vec.RestrictToMRCA(a, b, w)
	case StrictMRCA:
		return a, b, e.vec.ApplyWeightsMRCA(a, b, w)
	default:
		return a, b, w
	}
}

// Dissimilarity evaluates the bound calculator for samples i and j.
func (e *Engine) Dissimilarity(i, j int) (float64, error) {
	a, ri, err := e.loadVector(i)
	if err != nil {
		return 0, err
	}
	b, rj, err := e.loadVector(j)
	if err != nil {
		return 0, err
	}
	return e.pairValue(a, b, ri, rj)
}

func (e *Engine) pairValue(a, b vectorize.BranchVector, ri, rj float64) (float64, error) {
	w := e.vec.Weights()
	ra, rb, rw := e.restrict(a, b, w)
	s := &evalState{
		a: ra, b: rb, w: rw,
		colMin: e.colMin, colMax: e.colMax, colSum: e.colSum,
		totalW: e.totalW, ri: ri, rj: rj,
		vec: e.vec,
	}
	return e.info.fn(s)
}

// All computes the full symmetric N×N dissimilarity matrix, processing
// samples in blocks of opts.MaxDataVecs so that at most two blocks' worth
// of branch vectors are held in memory at once.
func (e *Engine) All() ([][]float64, error) {
	n := e.table.NumSamples()
	block := e.opts.MaxDataVecs
	if block <= 0 || block > n {
		block = n
	}

	result := make([][]float64, n)
	for i := range result {
		result[i] = make([]float64, n)
	}

	type loaded struct {
		vec   vectorize.BranchVector
		total float64
	}
	loadBlock := func(start, end int) ([]loaded, error) {
		out := make([]loaded, end-start)
		for i := start; i < end; i++ {
			v, total, err := e.loadVector(i)
			if err != nil {
				return nil, err
			}
			out[i-start] = loaded{v, total}
		}
		return out, nil
	}

	for bi := 0; bi < n; bi += block {
		biEnd := min(bi+block, n)
		blockI, err := loadBlock(bi, biEnd)
		if err != nil {
			return nil, err
		}
		for bj := bi; bj < n; bj += block {
			bjEnd := min(bj+block, n)
			var blockJ []loaded
			if bj == bi {
				blockJ = blockI
			} else {
				blockJ, err = loadBlock(bj, bjEnd)
				if err != nil {
					return nil, err
				}
			}
			for i := bi; i < biEnd; i++ {
				jStart := bj
				if bj == bi {
					jStart = i + 1
				}
				for j := jStart; j < bjEnd; j++ {
					li := blockI[i-bi]
					lj := blockJ[j-bj]
					d, err := e.pairValue(li.vec, lj.vec, li.total, lj.total)
					if err != nil {
						return nil, err
					}
					result[i][j] = d
					result[j][i] = d
				}
			}
		}
	}
	return result, nil
}

// min is shadowed here rather than relying on the go1.21 builtin so the
// block-bound logic reads the same regardless of toolchain version.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// JackknifeDissimilarity draws `draws` independent jackknife resamples of
// size drawSize for samples i and j and evaluates the bound calculator on
// each draw, returning one value per draw.
func (e *Engine) JackknifeDissimilarity(i, j, drawSize, draws int, rng *rand.Rand) ([]float64, error) {
	out := make([]float64, draws)
	for d := 0; d < draws; d++ {
		ai, ti, err := e.table.Jackknife(i, drawSize, rng)
		if err != nil {
			return nil, err
		}
		bj, tj, err := e.table.Jackknife(j, drawSize, rng)
		if err != nil {
			return nil, err
		}
		va := e.vec.CalculateDataVector(ai, false, ti)
		vb := e.vec.CalculateDataVector(bj, false, tj)
		v, err := e.pairValue(va, vb, ti, tj)
		if err != nil {
			return nil, err
		}
		out[d] = v
	}
	return out, nil
}
