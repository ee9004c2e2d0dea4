package report

import (
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/vecmark/vecmark/internal/bench/runner"
)

// Results is the canonical exchange format between a benchmark run and
// later analysis. It round-trips losslessly through JSON.
type Results struct {
	Meta    RunMeta         `json:"meta"`
	Records []runner.Record `json:"results"`
}

type RunMeta struct {
	RunID         string          `json:"run_id"`
	ServerVersion string          `json:"server_version,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	DatasetSource string          `json:"dataset_source"`
	Dataset       DatasetInfo     `json:"dataset"`
	Environment   EnvironmentInfo `json:"environment"`
	Skipped       []string        `json:"skipped,omitempty"`
}

type DatasetInfo struct {
	BaseCount  int `json:"base_count"`
	QueryCount int `json:"query_count"`
	Dim        int `json:"dim"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewRunMeta(serverVersion, datasetSource string, shape DatasetInfo) RunMeta {
	return RunMeta{
		RunID:         uuid.NewString(),
		ServerVersion: serverVersion,
		Timestamp:     time.Now().UTC(),
		DatasetSource: datasetSource,
		Dataset:       shape,
		Environment:   NewEnvironmentInfo(),
	}
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}
