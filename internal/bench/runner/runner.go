package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vecmark/vecmark/internal/bench/matrix"
	"github.com/vecmark/vecmark/internal/bench/metrics"
	"github.com/vecmark/vecmark/internal/bench/store"
	"github.com/vecmark/vecmark/internal/dataset"
)

type Runner struct {
	config Config
	store  store.Store
}

func New(cfg Config, st store.Store) *Runner {
	return &Runner{config: cfg.withDefaults(), store: st}
}

// RunAll evaluates every configuration in order. A configuration that
// fails at any step is logged and skipped; the run continues with the
// next one.
func (r *Runner) RunAll(ctx context.Context, configs []matrix.IndexConfig, ds *dataset.Dataset) *Result {
	result := &Result{}

	for _, cfg := range configs {
		if ctx.Err() != nil {
			slog.Warn("benchmark run canceled", "remaining", cfg.Name)
			break
		}

		rec, err := r.runConfig(ctx, cfg, ds)
		if err != nil {
			slog.Warn("index configuration failed, skipping", "index", cfg.Name, "error", err)
			result.Skipped = append(result.Skipped, SkippedConfig{IndexType: cfg.Name, Err: err})
			continue
		}
		result.Records = append(result.Records, *rec)
	}

	return result
}

func (r *Runner) runConfig(ctx context.Context, cfg matrix.IndexConfig, ds *dataset.Dataset) (*Record, error) {
	collection := matrix.CollectionName(cfg.Name)
	slog.Info("benchmarking index", "index", cfg.Name, "collection", collection)

	if err := r.store.Provision(ctx, collection, ds.Dim); err != nil {
		return nil, fmt.Errorf("provision collection: %w", err)
	}

	if err := r.insertAll(ctx, collection, ds.Base); err != nil {
		return nil, err
	}

	buildStart := time.Now()
	if err := r.store.BuildIndex(ctx, collection, cfg); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	buildTime := time.Since(buildStart).Seconds()
	slog.Info("index built", "index", cfg.Name, "seconds", buildTime)

	if err := r.store.Load(ctx, collection); err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}

	eval, err := r.evaluate(ctx, collection, cfg, ds)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		IndexType:    cfg.Name,
		BuildTime:    buildTime,
		AvgLatency:   eval.avgLatency,
		StdLatency:   eval.stdLatency,
		AvgRecall:    eval.avgRecall,
		StdRecall:    eval.stdRecall,
		SearchParams: cfg.SearchParams,
	}
	if rec.AvgLatency > 0 {
		rec.QPS = 1000 / rec.AvgLatency
	}

	slog.Info("index benchmarked",
		"index", cfg.Name,
		"avg_latency_ms", rec.AvgLatency,
		"avg_recall", rec.AvgRecall,
		"qps", rec.QPS)
	return rec, nil
}

// insertAll loads the base vectors in bounded batches, flushes, and
// verifies the stored entity count.
func (r *Runner) insertAll(ctx context.Context, collection string, base [][]float32) error {
	batch := r.config.InsertBatch

	for start := 0; start < len(base); start += batch {
		end := min(start+batch, len(base))
		ids := make([]int64, end-start)
		for i := range ids {
			ids[i] = int64(start + i)
		}
		if err := r.store.InsertBatch(ctx, collection, ids, base[start:end]); err != nil {
			return fmt.Errorf("insert batch at offset %d: %w", start, err)
		}
		slog.Debug("batch inserted", "collection", collection, "offset", start, "size", end-start)
	}

	if err := r.store.Flush(ctx, collection); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	count, err := r.store.Count(ctx, collection)
	if err != nil {
		return fmt.Errorf("count entities: %w", err)
	}
	if count != int64(len(base)) {
		return fmt.Errorf("entity count mismatch: stored %d, inserted %d", count, len(base))
	}
	return nil
}

type evalStats struct {
	avgLatency float64
	stdLatency float64
	avgRecall  float64
	stdRecall  float64
}

// evaluate issues the sampled query batch Runs times and aggregates
// per-run latency and recall into mean and standard deviation.
func (r *Runner) evaluate(ctx context.Context, collection string, cfg matrix.IndexConfig, ds *dataset.Dataset) (*evalStats, error) {
	sampleSize := min(r.config.SampleSize, len(ds.Queries))
	if sampleSize == 0 {
		return nil, fmt.Errorf("dataset has no query vectors")
	}

	sample := SampleIndices(len(ds.Queries), sampleSize, r.config.Seed)
	queries := make([][]float32, sampleSize)
	truth := make([][]int64, sampleSize)
	for i, qi := range sample {
		queries[i] = ds.Queries[qi]
		truth[i] = toInt64(ds.GroundTruth[qi])
	}

	var latencies, recalls []float64
	for run := 1; run <= r.config.Runs; run++ {
		start := time.Now()
		results, err := r.store.Search(ctx, collection, cfg, queries, r.config.TopK)
		if err != nil {
			return nil, fmt.Errorf("search run %d: %w", run, err)
		}
		elapsed := time.Since(start)

		if len(results) != len(queries) {
			return nil, fmt.Errorf("search returned %d result sets for %d queries", len(results), len(queries))
		}

		latency := elapsed.Seconds() * 1000 / float64(len(queries))
		recall := metrics.MeanRecallAtK(results, truth, r.config.TopK)
		latencies = append(latencies, latency)
		recalls = append(recalls, recall)

		slog.Debug("search run complete", "index", cfg.Name, "run", run, "latency_ms", latency, "recall", recall)
	}

	return &evalStats{
		avgLatency: metrics.Mean(latencies),
		stdLatency: metrics.Stddev(latencies),
		avgRecall:  metrics.Mean(recalls),
		stdRecall:  metrics.Stddev(recalls),
	}, nil
}

func toInt64(ids []int32) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
