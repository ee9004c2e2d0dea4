package envcheck

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const reportLayout = "20060102_150405"

func ReportPath(dir string, ts time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("env_check_%s.json", ts.Format(reportLayout)))
}

func WriteReport(r *Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal env report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write env report: %w", err)
	}
	return nil
}
