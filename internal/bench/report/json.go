package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	resultsPrefix   = "benchmark_results_"
	timestampLayout = "20060102_150405"
)

// ResultsPath names one run's results file inside dir. The timestamp
// format sorts lexicographically in chronological order.
func ResultsPath(dir string, ts time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s.json", resultsPrefix, ts.Format(timestampLayout)))
}

func WriteJSON(r *Results, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func LoadJSON(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return &r, nil
}

// LatestResults returns the most recent results file under dir.
func LatestResults(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, resultsPrefix+"*.json"))
	if err != nil {
		return "", fmt.Errorf("glob results: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no results files under %s", dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
