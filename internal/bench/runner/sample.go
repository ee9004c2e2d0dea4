package runner

import "math/rand"

// SampleIndices draws size distinct indices from [0, n) using the given
// seed. The same seed always yields the same sample.
func SampleIndices(n, size int, seed int64) []int {
	if size > n {
		size = n
	}
	if size <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	return rng.Perm(n)[:size]
}
