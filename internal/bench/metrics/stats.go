package metrics

import "math"

// Mean returns the arithmetic mean of the samples, 0 for an empty slice.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// Stddev returns the population standard deviation of the samples.
func Stddev(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	mean := Mean(samples)
	var sumSquares float64
	for _, s := range samples {
		diff := s - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(samples)))
}
