package sampletable

import (
	"math/rand"

	"github.com/evolbioinfo/ebd/ebderr"
)

// Jackknife draws drawSize independent samples with replacement from the
// multinomial distribution defined by sample i's row counts, returning the
// resampled counts (aligned with Taxa()) and drawSize as the new total.
func (t *Table) Jackknife(i int, drawSize int, rng *rand.Rand) ([]float64, float64, error) {
	counts, total, err := t.Row(i)
	if err != nil {
		return nil, 0, err
	}
	if total <= 0 {
		return nil, 0, ebderr.Newf(ebderr.Numeric, "sample %q has zero total count, cannot jackknife", t.samples[i])
	}

	cumulative := make([]float64, len(counts))
	var running float64
	for idx, c := range counts {
		running += c
		cumulative[idx] = running
	}

	draws := make([]float64, len(counts))
	for k := 0; k < drawSize; k++ {
		target := rng.Float64() * total
		idx := searchCumulative(cumulative, target)
		draws[idx]++
	}
	return draws, float64(drawSize), nil
}

// searchCumulative returns the smallest index whose cumulative value
// exceeds target, via binary search over the (non-decreasing) prefix-sum
// array cumulative.
func searchCumulative(cumulative []float64, target float64) int {
	lo, hi := 0, len(cumulative)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cumulative[mid] > target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
