package matrix

import (
	"fmt"
	"strings"

	"github.com/vecmark/vecmark/internal/apperr"
)

const (
	IndexFlat    = "FLAT"
	IndexIvfFlat = "IVF_FLAT"
	IndexIvfSQ8  = "IVF_SQ8"
	IndexHNSW    = "HNSW"
)

const MetricL2 = "L2"

// IndexConfig identifies one experiment: an index type plus its build-time
// and search-time parameters. Configs are defined once per run and never
// mutated afterward.
type IndexConfig struct {
	Name         string         `yaml:"name" json:"name"`
	Metric       string         `yaml:"metric" json:"metric"`
	BuildParams  map[string]int `yaml:"build_params" json:"build_params,omitempty"`
	SearchParams map[string]int `yaml:"search_params" json:"search_params,omitempty"`
}

// Default returns the built-in experiment matrix.
func Default() []IndexConfig {
	return []IndexConfig{
		{
			Name:   IndexFlat,
			Metric: MetricL2,
		},
		{
			Name:         IndexIvfFlat,
			Metric:       MetricL2,
			BuildParams:  map[string]int{"nlist": 1024},
			SearchParams: map[string]int{"nprobe": 16},
		},
		{
			Name:         IndexIvfSQ8,
			Metric:       MetricL2,
			BuildParams:  map[string]int{"nlist": 1024},
			SearchParams: map[string]int{"nprobe": 16},
		},
		{
			Name:         IndexHNSW,
			Metric:       MetricL2,
			BuildParams:  map[string]int{"M": 16, "efConstruction": 500},
			SearchParams: map[string]int{"ef": 64},
		},
	}
}

var validIndexNames = map[string]bool{
	IndexFlat:    true,
	IndexIvfFlat: true,
	IndexIvfSQ8:  true,
	IndexHNSW:    true,
}

// Select filters configs down to the named index types, preserving the
// order of configs. Names are case-insensitive.
func Select(configs []IndexConfig, names []string) ([]IndexConfig, error) {
	if len(names) == 0 {
		return configs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		canonical := strings.ToUpper(strings.TrimSpace(n))
		if !validIndexNames[canonical] {
			return nil, apperr.NewValidation(fmt.Sprintf("unknown index type %q", n))
		}
		wanted[canonical] = true
	}

	var selected []IndexConfig
	for _, cfg := range configs {
		if wanted[cfg.Name] {
			selected = append(selected, cfg)
		}
	}
	if len(selected) == 0 {
		return nil, apperr.NewValidation(fmt.Sprintf("no configured index matches %v", names))
	}
	return selected, nil
}

// CollectionName returns the isolated collection used for one index type.
func CollectionName(indexName string) string {
	return "sift_benchmark_" + strings.ToLower(indexName)
}
