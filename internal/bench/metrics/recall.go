package metrics

// RecallAtK computes the fraction of the true top-k neighbors present in
// the returned id set. The denominator is always k, so a result set
// shorter than k can never reach full recall.
func RecallAtK(returned []int64, truth []int64, k int) float64 {
	if k <= 0 || len(returned) == 0 {
		return 0
	}

	n := min(k, len(truth))
	trueSet := make(map[int64]struct{}, n)
	for _, id := range truth[:n] {
		trueSet[id] = struct{}{}
	}

	var hits int
	limit := min(k, len(returned))
	for _, id := range returned[:limit] {
		if _, ok := trueSet[id]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}

// MeanRecallAtK averages RecallAtK over a batch of queries. Result row i
// is scored against truth row i.
func MeanRecallAtK(returned [][]int64, truth [][]int64, k int) float64 {
	if len(returned) == 0 {
		return 0
	}

	var sum float64
	for i, ids := range returned {
		sum += RecallAtK(ids, truth[i], k)
	}
	return sum / float64(len(returned))
}
