package analyze

import (
	"math"
	"sort"
)

// percentile computes the p-th percentile (0..100) with linear interpolation
// between closest ranks, matching the numpy default. The montanaflynn
// percentile uses nearest-rank, so quartiles go through this helper instead.
func percentile(data []float64, p float64) float64 {
	n := len(data)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return data[0]
	}

	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
