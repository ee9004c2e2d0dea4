package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SyntheticFallback(t *testing.T) {
	dir := t.TempDir()

	ds, err := Load(context.Background(), Config{Dir: dir, SkipDownload: true})
	require.NoError(t, err)

	assert.Equal(t, SourceSynthetic, ds.Source)
	assert.Len(t, ds.Base, syntheticBaseCount)
	assert.Len(t, ds.Queries, syntheticQueries)
	assert.Equal(t, syntheticDim, ds.Dim)

	// The fallback is written through the cache files.
	for _, name := range []string{baseFile, queryFile, groundTruthFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestLoad_CacheHit(t *testing.T) {
	dir := t.TempDir()
	seed := Synthetic(120, 8, 6, 10, 9)
	require.NoError(t, writeCache(dir, seed))

	ds, err := Load(context.Background(), Config{Dir: dir, SkipDownload: true})
	require.NoError(t, err)

	assert.Equal(t, SourceCache, ds.Source)
	assert.Equal(t, seed.Base, ds.Base)
	assert.Equal(t, seed.Queries, ds.Queries)
	assert.Equal(t, seed.GroundTruth, ds.GroundTruth)
	assert.Equal(t, 6, ds.Dim)
}

func TestLoad_QueryLimitSlicesGroundTruth(t *testing.T) {
	dir := t.TempDir()
	seed := Synthetic(120, 8, 6, 10, 9)
	require.NoError(t, writeCache(dir, seed))

	ds, err := Load(context.Background(), Config{Dir: dir, SkipDownload: true, MaxQueries: 3})
	require.NoError(t, err)

	assert.Len(t, ds.Queries, 3)
	assert.Len(t, ds.GroundTruth, 3)
	assert.Equal(t, seed.GroundTruth[:3], ds.GroundTruth)
	assert.Len(t, ds.Base, 120)
}

func TestLoad_BaseLimitRecomputesGroundTruth(t *testing.T) {
	dir := t.TempDir()
	seed := Synthetic(120, 8, 6, 10, 9)
	require.NoError(t, writeCache(dir, seed))

	ds, err := Load(context.Background(), Config{
		Dir:          dir,
		SkipDownload: true,
		MaxBase:      40,
		MaxQueries:   4,
		Depth:        10,
	})
	require.NoError(t, err)

	assert.Len(t, ds.Base, 40)
	assert.Len(t, ds.Queries, 4)
	require.Len(t, ds.GroundTruth, 4)

	// Cached neighbor ids pointed into the full base set; recomputed
	// ones must stay inside the subset.
	for _, row := range ds.GroundTruth {
		assert.Len(t, row, 10)
		for _, id := range row {
			assert.Less(t, id, int32(40))
		}
	}
	assert.Equal(t, BruteForceNeighbors(ds.Base, ds.Queries, 10), ds.GroundTruth)
}

func TestLoad_CorruptCacheFallsThrough(t *testing.T) {
	dir := t.TempDir()
	seed := Synthetic(50, 4, 6, 10, 9)
	require.NoError(t, writeCache(dir, seed))
	// Drop the ground-truth file so the cache is incomplete.
	require.NoError(t, os.Remove(filepath.Join(dir, groundTruthFile)))

	ds, err := Load(context.Background(), Config{Dir: dir, SkipDownload: true})
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, ds.Source)
}
