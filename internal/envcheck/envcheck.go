// Package envcheck probes the host for everything a benchmark run
// needs: hardware headroom, a docker daemon with compose, a reachable
// Milvus, and the dataset cache.
package envcheck

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	dockerclient "github.com/docker/docker/client"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/vecmark/vecmark/internal/bench/store"
	"github.com/vecmark/vecmark/internal/dataset"
	"github.com/vecmark/vecmark/pkg/utils"
)

const (
	minCPUs     = 2
	minMemoryGB = 4.0
	minDiskGB   = 10.0

	dialTimeout = 2 * time.Second
	gb          = 1 << 30
	mb          = 1 << 20
)

type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

type Report struct {
	Timestamp time.Time `json:"timestamp"`
	Checks    []Check   `json:"checks"`
	Passed    bool      `json:"passed"`
}

type Config struct {
	DataDir    string
	MilvusAddr string
}

// Run executes every probe and never aborts early. A failed check lands
// in the report, it does not stop the remaining ones.
func Run(ctx context.Context, cfg Config) *Report {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.MilvusAddr == "" {
		cfg.MilvusAddr = "localhost:19530"
	}

	r := &Report{Timestamp: time.Now().UTC(), Passed: true}
	for _, check := range []Check{
		goRuntime(),
		cpuCheck(ctx),
		memoryCheck(ctx),
		diskCheck(ctx, cfg.DataDir),
		dockerCheck(ctx),
		composeCheck(ctx),
		milvusCheck(ctx, cfg.MilvusAddr),
		datasetCheck(cfg.DataDir),
	} {
		r.Checks = append(r.Checks, check)
		if !check.Passed {
			r.Passed = false
		}
	}
	return r
}

func goRuntime() Check {
	return Check{
		Name:   "go_runtime",
		Passed: true,
		Detail: fmt.Sprintf("%s on %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}
}

func cpuCheck(ctx context.Context) Check {
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return failed("cpu", fmt.Sprintf("count cpus: %v", err))
	}
	return Check{
		Name:   "cpu",
		Passed: count >= minCPUs,
		Detail: fmt.Sprintf("%d logical cores (minimum %d)", count, minCPUs),
	}
}

func memoryCheck(ctx context.Context) Check {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return failed("memory", fmt.Sprintf("read memory stats: %v", err))
	}
	availGB := utils.RoundDecimal(float64(vm.Available)/gb, 2)
	totalGB := utils.RoundDecimal(float64(vm.Total)/gb, 2)
	return Check{
		Name:   "memory",
		Passed: availGB >= minMemoryGB,
		Detail: fmt.Sprintf("%v GB available of %v GB (minimum %v GB)", availGB, totalGB, minMemoryGB),
	}
}

func diskCheck(ctx context.Context, dir string) Check {
	path := dir
	if _, err := os.Stat(path); err != nil {
		path = "."
	}
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return failed("disk", fmt.Sprintf("read disk usage for %s: %v", path, err))
	}
	freeGB := utils.RoundDecimal(float64(usage.Free)/gb, 2)
	return Check{
		Name:   "disk",
		Passed: freeGB >= minDiskGB,
		Detail: fmt.Sprintf("%v GB free at %s (minimum %v GB)", freeGB, path, minDiskGB),
	}
}

func dockerCheck(ctx context.Context) Check {
	cli, err := dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
	if err != nil {
		return failed("docker", fmt.Sprintf("docker client: %v", err))
	}
	defer cli.Close()

	ping, err := cli.Ping(ctx)
	if err != nil {
		return failed("docker", fmt.Sprintf("daemon unreachable: %v", err))
	}
	return Check{
		Name:   "docker",
		Passed: true,
		Detail: fmt.Sprintf("daemon up, api %s", ping.APIVersion),
	}
}

func composeCheck(ctx context.Context) Check {
	out, err := exec.CommandContext(ctx, "docker", "compose", "version").Output()
	if err != nil {
		return failed("docker_compose", fmt.Sprintf("docker compose unavailable: %v", err))
	}
	return Check{
		Name:   "docker_compose",
		Passed: true,
		Detail: strings.TrimSpace(string(out)),
	}
}

func milvusCheck(ctx context.Context, addr string) Check {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return failed("milvus", fmt.Sprintf("%s unreachable: %v", addr, err))
	}
	conn.Close()

	st, err := store.NewMilvus(ctx, store.MilvusConfig{Address: addr, ConnectAttempts: 1})
	if err != nil {
		return failed("milvus", fmt.Sprintf("connect %s: %v", addr, err))
	}
	defer st.Close()

	version, err := st.Version(ctx)
	if err != nil {
		return Check{Name: "milvus", Passed: true, Detail: fmt.Sprintf("connected to %s, version unknown: %v", addr, err)}
	}
	return Check{Name: "milvus", Passed: true, Detail: fmt.Sprintf("connected to %s, server %s", addr, version)}
}

func datasetCheck(dir string) Check {
	var missing []string
	var totalMB float64

	for _, name := range dataset.CacheFiles() {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			missing = append(missing, name)
			continue
		}
		totalMB += float64(info.Size()) / mb
	}

	if len(missing) > 0 {
		return failed("dataset", fmt.Sprintf("missing from %s: %s", dir, strings.Join(missing, ", ")))
	}
	return Check{
		Name:   "dataset",
		Passed: true,
		Detail: fmt.Sprintf("%d files cached in %s (%v MB)", len(dataset.CacheFiles()), dir, utils.RoundDecimal(totalMB, 2)),
	}
}

func failed(name, detail string) Check {
	return Check{Name: name, Detail: detail}
}
