package main

import (
	"flag"
	"net"
	"os"
	"strings"

	"github.com/vecmark/vecmark/internal/bench/runner"
	"github.com/vecmark/vecmark/pkg/utils"
)

type cliConfig struct {
	Indices      string
	MatrixPath   string
	FastTest     bool
	SkipDownload bool
	SkipMilvus   bool
	CheckEnv     bool
	AnalyzeOnly  bool
	Runs         int
	TopK         int
	Seed         int64
	DataDir      string
	ResultsDir   string
	MilvusAddr   string
	Verbose      bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Indices, "indices", "", "Index types to benchmark, comma-separated (default: all)")
	flag.StringVar(&cfg.MatrixPath, "matrix", "", "Path to index matrix YAML (default: built-in matrix)")
	flag.BoolVar(&cfg.FastTest, "fast-test", false, "Quick smoke run: FLAT only on a truncated dataset")
	flag.BoolVar(&cfg.SkipDownload, "skip-download", false, "Never download, use cached or synthetic data")
	flag.BoolVar(&cfg.SkipMilvus, "skip-milvus", false, "Assume Milvus is already running")
	flag.BoolVar(&cfg.CheckEnv, "check-env", false, "Probe the environment and exit")
	flag.BoolVar(&cfg.AnalyzeOnly, "analyze-only", false, "Re-analyze the latest results file and exit")
	flag.IntVar(&cfg.Runs, "runs", runner.DefaultRuns, "Search repetitions per index")
	flag.IntVar(&cfg.TopK, "top-k", runner.DefaultTopK, "Neighbors requested per query")
	flag.Int64Var(&cfg.Seed, "seed", runner.DefaultSeed, "Query sampling seed")
	flag.StringVar(&cfg.DataDir, "data-dir", envOr("DATA_DIR", "data"), "Dataset cache directory")
	flag.StringVar(&cfg.ResultsDir, "results-dir", envOr("RESULTS_DIR", "results"), "Results directory")
	flag.StringVar(&cfg.MilvusAddr, "milvus-addr", defaultMilvusAddr(), "Milvus address as host:port")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Debug logging")

	flag.Parse()
	return cfg
}

func (c cliConfig) indexNames() []string {
	parts := strings.Split(c.Indices, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return utils.RemoveEmptyStrings(parts)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultMilvusAddr() string {
	if addr := os.Getenv("MILVUS_ADDR"); addr != "" {
		return addr
	}
	return net.JoinHostPort(envOr("MILVUS_HOST", "localhost"), envOr("MILVUS_PORT", "19530"))
}
