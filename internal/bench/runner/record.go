package runner

// Record is the outcome of running one index configuration to completion.
// Records are created once, after the search evaluation, and never
// mutated.
type Record struct {
	IndexType    string         `json:"index_type"`
	BuildTime    float64        `json:"build_time"`
	AvgLatency   float64        `json:"avg_latency"`
	StdLatency   float64        `json:"std_latency"`
	AvgRecall    float64        `json:"avg_recall"`
	StdRecall    float64        `json:"std_recall"`
	QPS          float64        `json:"qps"`
	SearchParams map[string]int `json:"search_params,omitempty"`
	IndexSize    int64          `json:"index_size,omitempty"`
}

// SkippedConfig notes a configuration that failed and was passed over.
type SkippedConfig struct {
	IndexType string
	Err       error
}

// Result holds the per-configuration records of one run in input order,
// plus the configurations that had to be skipped.
type Result struct {
	Records []Record
	Skipped []SkippedConfig
}
