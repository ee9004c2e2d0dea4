package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleIndices(t *testing.T) {
	t.Run("deterministic for a seed", func(t *testing.T) {
		a := SampleIndices(1000, 100, 42)
		b := SampleIndices(1000, 100, 42)
		assert.Equal(t, a, b)
	})

	t.Run("seed changes the sample", func(t *testing.T) {
		a := SampleIndices(1000, 100, 42)
		b := SampleIndices(1000, 100, 43)
		assert.NotEqual(t, a, b)
	})

	t.Run("indices are distinct and in range", func(t *testing.T) {
		sample := SampleIndices(50, 20, 7)
		assert.Len(t, sample, 20)

		seen := make(map[int]bool, len(sample))
		for _, idx := range sample {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, 50)
			assert.False(t, seen[idx], "index %d sampled twice", idx)
			seen[idx] = true
		}
	})

	t.Run("size capped at population", func(t *testing.T) {
		sample := SampleIndices(5, 100, 42)
		assert.Len(t, sample, 5)
	})

	t.Run("non-positive size yields nothing", func(t *testing.T) {
		assert.Nil(t, SampleIndices(10, 0, 42))
		assert.Nil(t, SampleIndices(10, -1, 42))
	})
}
