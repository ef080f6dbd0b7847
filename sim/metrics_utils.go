// sim/metrics_utils.go
package sim

import (
	"math"
	"sort"
)

type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculatePercentile is a util function that calculates the p-th percentile of a data list
// using linear interpolation between closest ranks. The input need not be sorted.
// Returns 0 for an empty list.
func CalculatePercentile[T IntOrFloat64](data []T, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	for i, v := range data {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if lowerIdx < 0 {
		return sorted[0]
	}
	if upperIdx >= n {
		return sorted[n-1]
	}
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	return sorted[lowerIdx] + (sorted[upperIdx]-sorted[lowerIdx])*(rank-float64(lowerIdx))
}

// CalculateMean is a util function that calculates the mean of a data list
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, number := range numbers {
		sum += float64(number)
	}

	return sum / float64(len(numbers))
}
