// Package diversity implements the β-diversity dissimilarity engine: the
// calculator catalogue (§4.4), the precomputed per-calculator summaries,
// and the blocked streaming driver that evaluates every sample pair.
package diversity

import (
	"math"
	"strings"

	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/evolbioinfo/ebd/vectorize"
)

// Kind enumerates the calculator catalogue of §4.4. There is exactly one
// Kind per row of that table; the weighted/unweighted distinction is a
// run-time flag on the Vectorizer, not a separate Kind.
type Kind int

const (
	BrayCurtis Kind = iota
	Canberra
	ChiSquared
	CoefficientOfSimilarity
	CompleteTree
	Euclidean
	Fst
	Gower
	Hellinger
	Kulczynski
	LennonCD
	LennonLRG
	Manhattan
	MNND
	MPD
	MorisitaHorn
	NormalizedWeightedUniFrac
	Pearson
	RaoHp
	Soergel
	SpeciesProfile
	TamasCoefficient
	WeightedCorrelation
	Whittaker
	YueClayton
)

// info describes one catalogue entry: its canonical name, aliases, whether
// an unweighted variant exists, whether it requires a tree, whether it
// needs the column-extent/column-sum prepass, whether its formula divides
// by the raw per-sample total (Ri), and whether it uses leaf-to-leaf
// distances. Only the two column flags change what Open does.
type info struct {
	name               string
	aliases            []string
	unweighted         bool
	requiresTree       bool
	needsColExtents    bool
	needsColSum        bool
	needsRowLeafSum    bool
	needsLeafDistances bool
	fn                 calcFunc
}

var catalogue = map[Kind]info{
	BrayCurtis:              {name: "bray-curtis", aliases: []string{"bc"}, unweighted: true, fn: brayCurtis},
	Canberra:                {name: "canberra", unweighted: true, fn: canberra},
	ChiSquared:              {name: "chi-squared", aliases: []string{"chisq"}, needsColSum: true, needsRowLeafSum: true, fn: chiSquared},
	CoefficientOfSimilarity: {name: "coefficient-of-similarity", aliases: []string{"coeff-similarity"}, unweighted: true, fn: coefficientOfSimilarity},
	CompleteTree:            {name: "complete-tree", needsColExtents: true, fn: completeTree},
	Euclidean:               {name: "euclidean", unweighted: true, fn: euclidean},
	Fst:                     {name: "fst", unweighted: true, requiresTree: true, needsLeafDistances: true, fn: fst},
	Gower:                   {name: "gower", unweighted: true, needsColExtents: true, fn: gower},
	Hellinger:               {name: "hellinger", needsRowLeafSum: true, fn: hellinger},
	Kulczynski:              {name: "kulczynski", unweighted: true, fn: kulczynski},
	LennonCD:                {name: "lennon-cd", unweighted: true, fn: lennonCD},
	LennonLRG:               {name: "lennon-lrg", fn: lennonLRG},
	Manhattan:               {name: "manhattan", unweighted: true, fn: manhattan},
	MNND:                    {name: "mnnd", unweighted: true, requiresTree: true, needsLeafDistances: true, fn: mnnd},
	MPD:                     {name: "mpd", unweighted: true, requiresTree: true, needsLeafDistances: true, fn: mpd},
	MorisitaHorn:            {name: "morisita-horn", fn: morisitaHorn},
	NormalizedWeightedUniFrac: {name: "normalized-weighted-unifrac", aliases: []string{"nwu", "unifrac"}, requiresTree: true, needsLeafDistances: true, fn: normalizedWeightedUniFrac},
	Pearson:                 {name: "pearson", unweighted: true, fn: pearson},
	RaoHp:                   {name: "rao-hp", requiresTree: true, needsLeafDistances: true, fn: raoHp},
	Soergel:                 {name: "soergel", unweighted: true, fn: soergel},
	SpeciesProfile:          {name: "species-profile", needsRowLeafSum: true, fn: speciesProfile},
	TamasCoefficient:        {name: "tamas-coefficient", aliases: []string{"tamas"}, unweighted: true, needsColExtents: true, fn: tamasCoefficient},
	WeightedCorrelation:     {name: "weighted-correlation", unweighted: true, fn: weightedCorrelation},
	Whittaker:               {name: "whittaker", needsRowLeafSum: true, fn: whittaker},
	YueClayton:              {name: "yue-clayton", aliases: []string{"yc"}, unweighted: true, fn: yueClayton},
}

// ordered lists every Kind in catalogue order, for List() and for All().
var ordered = []Kind{
	BrayCurtis, Canberra, ChiSquared, CoefficientOfSimilarity, CompleteTree,
	Euclidean, Fst, Gower, Hellinger, Kulczynski, LennonCD, LennonLRG,
	Manhattan, MNND, MPD, MorisitaHorn, NormalizedWeightedUniFrac, Pearson,
	RaoHp, Soergel, SpeciesProfile, TamasCoefficient, WeightedCorrelation,
	Whittaker, YueClayton,
}

// ByName resolves a calculator name or alias (case-insensitive) to its Kind.
func ByName(name string) (Kind, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, k := range ordered {
		info := catalogue[k]
		if info.name == lower {
			return k, nil
		}
		for _, a := range info.aliases {
			if a == lower {
				return k, nil
			}
		}
	}
	return 0, ebderr.Newf(ebderr.Config, "unknown calculator %q", name)
}

// Name returns a calculator's canonical name.
func (k Kind) Name() string { return catalogue[k].name }

// SupportsUnweighted reports whether k may be run with the Vectorizer's
// weighted flag off.
func (k Kind) SupportsUnweighted() bool { return catalogue[k].unweighted }

// RequiresTree reports whether k is only meaningful on a phylogenetic tree.
func (k Kind) RequiresTree() bool { return catalogue[k].requiresTree }

// List returns every catalogue entry's canonical name and aliases, in
// catalogue order, for the `list` CLI subcommand.
func List() []string {
	out := make([]string, 0, len(ordered))
	for _, k := range ordered {
		info := catalogue[k]
		line := info.name
		if len(info.aliases) > 0 {
			line += " (" + strings.Join(info.aliases, ", ") + ")"
		}
		out = append(out, line)
	}
	return out
}

// All returns every Kind, in catalogue order.
func All() []Kind { return append([]Kind(nil), ordered...) }

// evalState bundles everything a calcFunc needs for one sample pair.
type evalState struct {
	a, b, w vectorize.BranchVector
	colMin  []float64
	colMax  []float64
	colSum  []float64
	totalW  float64
	ri, rj  float64 // raw per-sample total counts (Chi-squared, Hellinger, Species-profile, Whittaker)
	vec     *vectorize.Vectorizer
}

type calcFunc func(s *evalState) (float64, error)

// zeroIfNaN guards a formula's 0/0 against propagating NaN into output; the
// specific fallback value (0 or 1) is chosen per calculator, not here.
func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
