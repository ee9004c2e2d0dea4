package matrix

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vecmark/vecmark/internal/apperr"
)

type matrixFile struct {
	Indices []IndexConfig `yaml:"indices"`
}

// LoadFromFile reads an experiment matrix from a YAML file, replacing the
// built-in table.
func LoadFromFile(path string) ([]IndexConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matrix file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]IndexConfig, error) {
	var mf matrixFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, apperr.NewValidationWrap("parse matrix YAML", err)
	}
	if err := validate(&mf); err != nil {
		return nil, err
	}
	return mf.Indices, nil
}

func validate(mf *matrixFile) error {
	if len(mf.Indices) == 0 {
		return apperr.NewValidation("matrix has no indices")
	}

	defaults := make(map[string]IndexConfig, 4)
	for _, d := range Default() {
		defaults[d.Name] = d
	}

	seen := make(map[string]bool, len(mf.Indices))
	for i := range mf.Indices {
		cfg := &mf.Indices[i]
		if cfg.Name == "" {
			return apperr.NewValidation(fmt.Sprintf("index at position %d has no name", i))
		}
		if !validIndexNames[cfg.Name] {
			return apperr.NewValidation(fmt.Sprintf("index %q has unsupported type", cfg.Name))
		}
		if seen[cfg.Name] {
			return apperr.NewValidation(fmt.Sprintf("index %q appears more than once", cfg.Name))
		}
		seen[cfg.Name] = true

		if cfg.Metric == "" {
			cfg.Metric = MetricL2
		}
		if cfg.BuildParams == nil {
			cfg.BuildParams = defaults[cfg.Name].BuildParams
		}
		if cfg.SearchParams == nil {
			cfg.SearchParams = defaults[cfg.Name].SearchParams
		}
	}
	return nil
}
