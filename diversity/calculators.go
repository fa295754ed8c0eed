package diversity

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Every calcFunc below reads s.a, s.b, s.w (equal-length branch vectors,
// already MRCA-restricted if the engine was asked to do so) and returns a
// dissimilarity. The ratio-based formulas stay within [0,1] for
// non-negative abundances; Euclidean, Manhattan, Canberra, Chi-squared,
// the leaf-distance measures (MNND, MPD, Rao's Hp) and Pearson's 1-r are
// not bounded by 1. Formulas that the catalogue table left
// an exact tie-break or normalization unspecified are resolved here and
// recorded in DESIGN.md rather than re-litigated inline.

func brayCurtis(s *evalState) (float64, error) {
	var num, den float64
	for i := range s.a {
		num += s.w[i] * math.Abs(s.a[i]-s.b[i])
		den += s.w[i] * (s.a[i] + s.b[i])
	}
	if den == 0 {
		return 0, nil
	}
	return num / den, nil
}

func canberra(s *evalState) (float64, error) {
	var sum float64
	var count int
	for i := range s.a {
		denom := s.a[i] + s.b[i]
		if denom <= 0 {
			continue
		}
		sum += s.w[i] * math.Abs(s.a[i]-s.b[i]) / denom
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return sum, nil
}

func chiSquared(s *evalState) (float64, error) {
	if s.ri == 0 || s.rj == 0 {
		return 0, nil
	}
	var sum float64
	for i := range s.a {
		if s.colSum[i] <= 0 {
			continue
		}
		diff := s.a[i]/s.ri - s.b[i]/s.rj
		sum += s.w[i] * diff * diff / s.colSum[i]
	}
	return math.Sqrt(sum), nil
}

func coefficientOfSimilarity(s *evalState) (float64, error) {
	var num, den float64
	for i := range s.a {
		mx := math.Max(s.a[i], s.b[i])
		if mx <= 0 {
			continue
		}
		num += s.w[i] * math.Min(s.a[i], s.b[i])
		den += s.w[i] * mx
	}
	if den == 0 {
		return 0, nil
	}
	return 1 - num/den, nil
}

func completeTree(s *evalState) (float64, error) {
	var sum float64
	var count int
	for i := range s.a {
		rng := s.colMax[i] - s.colMin[i]
		if rng <= 0 {
			continue
		}
		sum += s.w[i] * math.Abs(s.a[i]-s.b[i]) / rng
		count++
	}
	if count == 0 {
		return 1, nil
	}
	return sum / float64(count), nil
}

func euclidean(s *evalState) (float64, error) {
	var sum float64
	for i := range s.a {
		d := s.a[i] - s.b[i]
		sum += s.w[i] * d * d
	}
	return math.Sqrt(sum), nil
}

func fst(s *evalState) (float64, error) {
	dT, dA, dB, err := s.vec.FstPair(s.a, s.b)
	if err != nil {
		return 0, err
	}
	if dT == 0 {
		return 0, nil
	}
	return (dT - 0.5*(dA+dB)) / dT, nil
}

func gower(s *evalState) (float64, error) {
	var sum float64
	var count int
	for i := range s.a {
		rng := s.colMax[i] - s.colMin[i]
		if rng <= 0 {
			continue
		}
		sum += s.w[i] * math.Abs(s.a[i]-s.b[i]) / rng
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

func hellinger(s *evalState) (float64, error) {
	if s.ri == 0 || s.rj == 0 {
		return 0, nil
	}
	var sum float64
	for i := range s.a {
		d := math.Sqrt(s.a[i]/s.ri) - math.Sqrt(s.b[i]/s.rj)
		sum += s.w[i] * d * d
	}
	return math.Sqrt(sum/2), nil
}

func kulczynski(s *evalState) (float64, error) {
	var shared, sumA, sumB float64
	for i := range s.a {
		shared += s.w[i] * math.Min(s.a[i], s.b[i])
		sumA += s.w[i] * s.a[i]
		sumB += s.w[i] * s.b[i]
	}
	var half1, half2 float64
	if sumA > 0 {
		half1 = shared / sumA
	}
	if sumB > 0 {
		half2 = shared / sumB
	}
	return 1 - 0.5*(half1+half2), nil
}

// lennonCD is Lennon et al.'s CD measure: min(B,C)/(min(B,C)+A) over the
// presence/absence partition A=shared, B=unique-to-I, C=unique-to-J.
func lennonCD(s *evalState) (float64, error) {
	shared, uniqueI, uniqueJ := lennonPartition(s, true)
	minUnique := math.Min(uniqueI, uniqueJ)
	denom := shared + minUnique
	if denom == 0 {
		return 0, nil
	}
	return minUnique / denom, nil
}

// lennonLRG is Lennon et al.'s LRG measure: 2|B-C|/(2A+B+C) over the
// abundance partition A=shared, B=unique-to-I, C=unique-to-J.
func lennonLRG(s *evalState) (float64, error) {
	shared, uniqueI, uniqueJ := lennonPartition(s, false)
	denom := 2*shared + uniqueI + uniqueJ
	if denom == 0 {
		return 0, nil
	}
	return 2 * math.Abs(uniqueI-uniqueJ) / denom, nil
}

// lennonPartition computes the shared/unique-to-I/unique-to-J partition;
// incidence mode (presence=true) drives Lennon CD, abundance mode drives
// Lennon LRG.
func lennonPartition(s *evalState, incidence bool) (shared, uniqueI, uniqueJ float64) {
	for i := range s.a {
		a, b := s.a[i], s.b[i]
		if incidence {
			ap, bp := a > 0, b > 0
			switch {
			case ap && bp:
				shared += s.w[i]
			case ap && !bp:
				uniqueI += s.w[i]
			case !ap && bp:
				uniqueJ += s.w[i]
			}
			continue
		}
		shared += s.w[i] * math.Min(a, b)
		if a > b {
			uniqueI += s.w[i] * (a - b)
		} else if b > a {
			uniqueJ += s.w[i] * (b - a)
		}
	}
	return shared, uniqueI, uniqueJ
}

func manhattan(s *evalState) (float64, error) {
	var sum float64
	for i := range s.a {
		sum += s.w[i] * math.Abs(s.a[i]-s.b[i])
	}
	return sum, nil
}

func mnnd(s *evalState) (float64, error) {
	return s.vec.MeanNearestNeighborDistance(s.a, s.b)
}

// mpd compares the two samples' internal phylogenetic dispersion (their
// own mean pairwise leaf distances), rather than Fst's pooled-vs-within
// comparison; it is 0 exactly when both samples have identical dispersion,
// in particular for a sample compared with itself.
func mpd(s *evalState) (float64, error) {
	_, dA, dB, err := s.vec.FstPair(s.a, s.b)
	if err != nil {
		return 0, err
	}
	return math.Abs(dA - dB), nil
}

func morisitaHorn(s *evalState) (float64, error) {
	var sumA, sumB, sumA2, sumB2, sumAB float64
	for i := range s.a {
		a, b := s.a[i], s.b[i]
		sumA += s.w[i] * a
		sumB += s.w[i] * b
		sumA2 += s.w[i] * a * a
		sumB2 += s.w[i] * b * b
		sumAB += s.w[i] * a * b
	}
	if sumA == 0 || sumB == 0 {
		return 0, nil
	}
	denom := (sumA2/(sumA*sumA) + sumB2/(sumB*sumB)) * sumA * sumB
	if denom == 0 {
		return 0, nil
	}
	sim := 2 * sumAB / denom
	return 1 - sim, nil
}

func normalizedWeightedUniFrac(s *evalState) (float64, error) {
	denom, err := s.vec.RootDistanceSum(s.a, s.b)
	if err != nil {
		return 0, err
	}
	if denom == 0 {
		return 0, nil
	}
	var num float64
	for i := range s.a {
		num += s.w[i] * math.Abs(s.a[i]-s.b[i])
	}
	return num / denom, nil
}

func pearson(s *evalState) (float64, error) {
	if !hasVariance(s.a) || !hasVariance(s.b) {
		return 0, nil
	}
	r := stat.Correlation(s.a, s.b, s.w)
	if math.IsNaN(r) {
		return 0, nil
	}
	return 1 - r, nil
}

func raoHp(s *evalState) (float64, error) {
	dT, dA, dB, err := s.vec.FstPair(s.a, s.b)
	if err != nil {
		return 0, err
	}
	return dT - 0.5*(dA+dB), nil
}

func soergel(s *evalState) (float64, error) {
	var num, den float64
	for i := range s.a {
		num += s.w[i] * math.Abs(s.a[i]-s.b[i])
		den += s.w[i] * math.Max(s.a[i], s.b[i])
	}
	if den == 0 {
		return 0, nil
	}
	return num / den, nil
}

func speciesProfile(s *evalState) (float64, error) {
	if s.ri == 0 || s.rj == 0 {
		return 0, nil
	}
	var sum float64
	for i := range s.a {
		d := s.a[i]/s.ri - s.b[i]/s.rj
		sum += s.w[i] * d * d
	}
	return math.Sqrt(sum), nil
}

func tamasCoefficient(s *evalState) (float64, error) {
	var num, den float64
	for i := range s.a {
		num += s.w[i] * math.Abs(s.a[i]-s.b[i])
		den += s.w[i] * s.colMax[i]
	}
	if den == 0 {
		return 0, nil
	}
	return num / den, nil
}

func weightedCorrelation(s *evalState) (float64, error) {
	if s.totalW == 0 || !hasVariance(s.a) || !hasVariance(s.b) {
		return 0, nil
	}
	var sumA2, sumB2, sumAB float64
	for i := range s.a {
		sumA2 += s.w[i] * s.a[i] * s.a[i]
		sumB2 += s.w[i] * s.b[i] * s.b[i]
		sumAB += s.w[i] * s.a[i] * s.b[i]
	}
	norm := math.Sqrt(sumA2/s.totalW) * math.Sqrt(sumB2/s.totalW)
	if norm == 0 {
		return 0, nil
	}
	sim := (sumAB / s.totalW) / norm
	return 1 - sim, nil
}

func whittaker(s *evalState) (float64, error) {
	if s.ri == 0 || s.rj == 0 {
		return 0, nil
	}
	var sum float64
	for i := range s.a {
		sum += s.w[i] * math.Abs(s.a[i]/s.ri-s.b[i]/s.rj)
	}
	return 0.5 * sum, nil
}

func yueClayton(s *evalState) (float64, error) {
	var sumA2, sumB2, sumAB float64
	for i := range s.a {
		sumA2 += s.w[i] * s.a[i] * s.a[i]
		sumB2 += s.w[i] * s.b[i] * s.b[i]
		sumAB += s.w[i] * s.a[i] * s.b[i]
	}
	denom := sumA2 + sumB2
	if denom == 0 {
		return 0, nil
	}
	return 1 - 2*sumAB/denom, nil
}

func hasVariance(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	first := v[0]
	for _, x := range v[1:] {
		if x != first {
			return true
		}
	}
	return false
}
