package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Config struct {
	Dir          string
	SkipDownload bool
	// MaxBase and MaxQueries cap the dataset for fast runs; zero means
	// the full set. Truncating the base set invalidates cached neighbor
	// ids, so ground truth is recomputed over the subset.
	MaxBase    int
	MaxQueries int
	// Depth is the ground-truth depth used when neighbors have to be
	// (re)computed.
	Depth int
}

// Load supplies the dataset from the first path that works: the on-disk
// cache, then a remote download, then the synthetic fallback. The chosen
// path is recorded on the returned Dataset.
func Load(ctx context.Context, cfg Config) (*Dataset, error) {
	if cfg.Dir == "" {
		cfg.Dir = "data"
	}
	if cfg.Depth <= 0 {
		cfg.Depth = syntheticDepth
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	ds, err := loadCache(cfg.Dir)
	if err == nil {
		ds.Source = SourceCache
		slog.Info("dataset loaded from cache", "dir", cfg.Dir, "base", len(ds.Base), "queries", len(ds.Queries))
		return limit(ds, cfg), nil
	}
	slog.Debug("dataset cache miss", "dir", cfg.Dir, "error", err)

	if !cfg.SkipDownload {
		if err := download(ctx, cfg.Dir); err != nil {
			slog.Warn("dataset download failed, falling back to synthetic data", "error", err)
		} else {
			ds, err = loadCache(cfg.Dir)
			if err != nil {
				return nil, fmt.Errorf("read downloaded dataset: %w", err)
			}
			ds.Source = SourceDownload
			slog.Info("dataset downloaded", "dir", cfg.Dir, "base", len(ds.Base), "queries", len(ds.Queries))
			return limit(ds, cfg), nil
		}
	}

	slog.Info("generating synthetic dataset",
		"base", syntheticBaseCount, "queries", syntheticQueries, "dim", syntheticDim, "seed", syntheticSeed)
	ds = Synthetic(syntheticBaseCount, syntheticQueries, syntheticDim, cfg.Depth, syntheticSeed)

	if err := writeCache(cfg.Dir, ds); err != nil {
		return nil, fmt.Errorf("cache synthetic dataset: %w", err)
	}
	return limit(ds, cfg), nil
}

func loadCache(dir string) (*Dataset, error) {
	base, err := ReadFvecs(filepath.Join(dir, baseFile))
	if err != nil {
		return nil, fmt.Errorf("base vectors: %w", err)
	}
	queries, err := ReadFvecs(filepath.Join(dir, queryFile))
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	truth, err := ReadIvecs(filepath.Join(dir, groundTruthFile))
	if err != nil {
		return nil, fmt.Errorf("ground truth: %w", err)
	}

	if len(base[0]) != len(queries[0]) {
		return nil, fmt.Errorf("dimension mismatch: base %d, queries %d", len(base[0]), len(queries[0]))
	}
	if len(truth) != len(queries) {
		return nil, fmt.Errorf("ground truth covers %d queries, want %d", len(truth), len(queries))
	}

	return &Dataset{
		Base:        base,
		Queries:     queries,
		GroundTruth: truth,
		Dim:         len(base[0]),
	}, nil
}

func writeCache(dir string, ds *Dataset) error {
	if err := WriteFvecs(filepath.Join(dir, baseFile), ds.Base); err != nil {
		return err
	}
	if err := WriteFvecs(filepath.Join(dir, queryFile), ds.Queries); err != nil {
		return err
	}
	return WriteIvecs(filepath.Join(dir, groundTruthFile), ds.GroundTruth)
}

func limit(ds *Dataset, cfg Config) *Dataset {
	truncatedBase := false
	if cfg.MaxBase > 0 && cfg.MaxBase < len(ds.Base) {
		ds.Base = ds.Base[:cfg.MaxBase]
		truncatedBase = true
	}
	if cfg.MaxQueries > 0 && cfg.MaxQueries < len(ds.Queries) {
		ds.Queries = ds.Queries[:cfg.MaxQueries]
		ds.GroundTruth = ds.GroundTruth[:cfg.MaxQueries]
	}

	if truncatedBase {
		slog.Info("base set truncated, recomputing ground truth",
			"base", len(ds.Base), "queries", len(ds.Queries), "depth", cfg.Depth)
		ds.GroundTruth = BruteForceNeighbors(ds.Base, ds.Queries, cfg.Depth)
	}
	return ds
}
