package dataset

import (
	"math/rand"
	"sort"

	"github.com/viant/vec/search"
)

const (
	syntheticSeed      = 42
	syntheticBaseCount = 10_000
	syntheticQueries   = 100
	syntheticDim       = 128
	syntheticDepth     = 100
)

// Synthetic builds a deterministic random dataset with exact brute-force
// ground truth, so the pipeline stays runnable with no network and no
// cached files.
func Synthetic(baseCount, queryCount, dim, depth int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	base := randomVectors(rng, baseCount, dim)
	queries := randomVectors(rng, queryCount, dim)

	return &Dataset{
		Base:        base,
		Queries:     queries,
		GroundTruth: BruteForceNeighbors(base, queries, depth),
		Dim:         dim,
		Source:      SourceSynthetic,
	}
}

func randomVectors(rng *rand.Rand, count, dim int) [][]float32 {
	vecs := make([][]float32, count)
	for i := range vecs {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = rng.Float32()
		}
		vecs[i] = vec
	}
	return vecs
}

// BruteForceNeighbors computes the exact top-k neighbor ids of every query
// under L2 distance. Distance ties break toward the lower id to keep the
// result deterministic.
func BruteForceNeighbors(base, queries [][]float32, k int) [][]int32 {
	if k > len(base) {
		k = len(base)
	}

	truth := make([][]int32, len(queries))
	dists := make([]float32, len(base))
	order := make([]int, len(base))

	for qi, q := range queries {
		qv := search.Float32s(q)
		for bi, b := range base {
			dists[bi] = qv.EuclideanDistance(b)
			order[bi] = bi
		}

		sort.Slice(order, func(i, j int) bool {
			di, dj := dists[order[i]], dists[order[j]]
			if di != dj {
				return di < dj
			}
			return order[i] < order[j]
		})

		row := make([]int32, k)
		for i := 0; i < k; i++ {
			row[i] = int32(order[i])
		}
		truth[qi] = row
	}
	return truth
}
