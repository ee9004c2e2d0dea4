package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vecmark/vecmark/internal/apperr"
	"github.com/vecmark/vecmark/internal/bench/matrix"
	"github.com/vecmark/vecmark/internal/bench/report"
	"github.com/vecmark/vecmark/internal/bench/runner"
	"github.com/vecmark/vecmark/internal/bench/score"
	"github.com/vecmark/vecmark/internal/bench/store"
	"github.com/vecmark/vecmark/internal/dataset"
	"github.com/vecmark/vecmark/internal/envcheck"
	"github.com/vecmark/vecmark/internal/lifecycle"
	"github.com/vecmark/vecmark/pkg/config/env"
)

// Fast-test caps keep a smoke run under a minute.
const (
	fastTestBase    = 1000
	fastTestQueries = 50
)

func main() {
	env.LoadDotEnv(".env")
	cfg := parseFlags()

	if cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case cfg.CheckEnv:
		err = runCheckEnv(ctx, cfg)
	case cfg.AnalyzeOnly:
		err = runAnalyze(cfg)
	default:
		err = runBenchmark(ctx, cfg)
	}
	if err != nil {
		stop()
		var se *apperr.SetupError
		if errors.As(err, &se) {
			slog.Error("Fatal precondition failed", "stage", se.Stage, "error", se.Err)
		} else {
			slog.Error("Run failed", "error", err)
		}
		os.Exit(1)
	}
}

func runCheckEnv(ctx context.Context, cfg cliConfig) error {
	r := envcheck.Run(ctx, envcheck.Config{DataDir: cfg.DataDir, MilvusAddr: cfg.MilvusAddr})

	for _, c := range r.Checks {
		status := "ok"
		if !c.Passed {
			status = "FAIL"
		}
		slog.Info("Environment check", "check", c.Name, "status", status, "detail", c.Detail)
	}

	if err := os.MkdirAll(cfg.ResultsDir, 0755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	path := envcheck.ReportPath(cfg.ResultsDir, r.Timestamp)
	if err := envcheck.WriteReport(r, path); err != nil {
		return err
	}
	slog.Info("Environment report written", "path", path)

	if !r.Passed {
		return errors.New("environment not ready")
	}
	return nil
}

func runAnalyze(cfg cliConfig) error {
	path, err := report.LatestResults(cfg.ResultsDir)
	if err != nil {
		return err
	}

	results, err := report.LoadJSON(path)
	if err != nil {
		return err
	}
	slog.Info("Analyzing results", "path", path, "records", len(results.Records))

	report.WriteTable(score.Analyze(results.Records), os.Stdout)
	return nil
}

func runBenchmark(ctx context.Context, cfg cliConfig) error {
	configs, err := selectConfigs(cfg)
	if err != nil {
		return err
	}

	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		return apperr.NewSetup("dataset", err)
	}

	if !cfg.SkipMilvus {
		manager := lifecycle.New(lifecycle.Config{Dir: "milvus"})
		if err := manager.Up(ctx); err != nil {
			return apperr.NewSetup("milvus", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := manager.Down(stopCtx); err != nil {
				slog.Warn("Failed to stop milvus", "error", err)
			}
		}()
	}

	st, err := store.NewMilvus(ctx, store.MilvusConfig{Address: cfg.MilvusAddr})
	if err != nil {
		return apperr.NewSetup("milvus", err)
	}
	defer st.Close()

	serverVersion, err := st.Version(ctx)
	if err != nil {
		slog.Warn("Could not read server version", "error", err)
	}

	runCfg := runner.Config{Runs: cfg.Runs, TopK: cfg.TopK, Seed: cfg.Seed}
	if cfg.FastTest {
		runCfg.SampleSize = fastTestQueries
	}

	result := runner.New(runCfg, st).RunAll(ctx, configs, ds)
	if len(result.Records) == 0 {
		return fmt.Errorf("no index configuration completed (%d skipped)", len(result.Skipped))
	}

	report.WriteTable(score.Analyze(result.Records), os.Stdout)

	return writeResults(cfg, ds, serverVersion, result)
}

func selectConfigs(cfg cliConfig) ([]matrix.IndexConfig, error) {
	configs := matrix.Default()
	if cfg.MatrixPath != "" {
		loaded, err := matrix.LoadFromFile(cfg.MatrixPath)
		if err != nil {
			return nil, fmt.Errorf("load matrix: %w", err)
		}
		configs = loaded
	}

	names := cfg.indexNames()
	if cfg.FastTest {
		names = []string{matrix.IndexFlat}
	}
	return matrix.Select(configs, names)
}

func loadDataset(ctx context.Context, cfg cliConfig) (*dataset.Dataset, error) {
	dsCfg := dataset.Config{Dir: cfg.DataDir, SkipDownload: cfg.SkipDownload}
	if cfg.FastTest {
		dsCfg.MaxBase = fastTestBase
		dsCfg.MaxQueries = fastTestQueries
	}
	return dataset.Load(ctx, dsCfg)
}

func writeResults(cfg cliConfig, ds *dataset.Dataset, serverVersion string, result *runner.Result) error {
	if err := os.MkdirAll(cfg.ResultsDir, 0755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	meta := report.NewRunMeta(serverVersion, string(ds.Source), report.DatasetInfo{
		BaseCount:  len(ds.Base),
		QueryCount: len(ds.Queries),
		Dim:        ds.Dim,
	})
	for _, s := range result.Skipped {
		meta.Skipped = append(meta.Skipped, s.IndexType)
	}

	results := &report.Results{Meta: meta, Records: result.Records}

	jsonPath := report.ResultsPath(cfg.ResultsDir, meta.Timestamp)
	if err := report.WriteJSON(results, jsonPath); err != nil {
		return err
	}
	slog.Info("Results written", "path", jsonPath)

	csvPath := strings.TrimSuffix(jsonPath, ".json") + ".csv"
	if err := report.WriteCSV(results, csvPath); err != nil {
		return err
	}
	slog.Info("CSV written", "path", csvPath)

	return nil
}
