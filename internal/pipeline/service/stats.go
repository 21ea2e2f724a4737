package service

import (
	"math"
	"sort"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// upperMedian returns the middle element of the sorted values. For
// even-length input this is the upper-middle element, not the average of
// the two middle elements.
func upperMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// populationVariance divides by n, not n-1.
func populationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := mean(values)
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64) float64 {
	return math.Sqrt(populationVariance(values))
}
