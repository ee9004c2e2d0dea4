package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// WriteCSV exports the raw records with the same column names as the
// JSON keys. Floats keep full precision.
func WriteCSV(r *Results, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"index_type", "build_time", "avg_latency", "std_latency", "avg_recall", "std_recall", "qps", "search_params"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range r.Records {
		row := []string{
			rec.IndexType,
			formatFloat(rec.BuildTime),
			formatFloat(rec.AvgLatency),
			formatFloat(rec.StdLatency),
			formatFloat(rec.AvgRecall),
			formatFloat(rec.StdRecall),
			formatFloat(rec.QPS),
			formatParams(rec.SearchParams),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatParams(params map[string]int) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, params[k])
	}
	return strings.Join(parts, ";")
}
