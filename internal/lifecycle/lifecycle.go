// Package lifecycle starts and stops the Milvus standalone stack
// through docker compose and reports when it is ready to serve.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	dockerclient "github.com/docker/docker/client"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/vecmark/vecmark/internal/retry"
)

const (
	defaultVersion      = "2.3.0"
	defaultHealthURL    = "http://localhost:9091/api/v1/health"
	defaultWaitAttempts = 30
	defaultWaitInterval = 2 * time.Second
	defaultSettleDelay  = 10 * time.Second

	composeFileName = "docker-compose.yml"
	composeURL      = "https://github.com/milvus-io/milvus/releases/download/v%s/milvus-standalone-docker-compose.yml"
)

// composeFallback is used when the published standalone definition
// cannot be fetched. The %s slot takes the Milvus version.
const composeFallback = `version: '3.5'

services:
  etcd:
    container_name: milvus-etcd
    image: quay.io/coreos/etcd:v3.5.5
    environment:
      - ETCD_AUTO_COMPACTION_MODE=revision
      - ETCD_AUTO_COMPACTION_RETENTION=1000
      - ETCD_QUOTA_BACKEND_BYTES=4294967296
      - ETCD_SNAPSHOT_COUNT=50000
    volumes:
      - ${DOCKER_VOLUME_DIRECTORY:-.}/volumes/etcd:/etcd
    command: etcd -advertise-client-urls=http://127.0.0.1:2379 -listen-client-urls http://0.0.0.0:2379 --data-dir /etcd

  minio:
    container_name: milvus-minio
    image: minio/minio:RELEASE.2023-03-20T20-16-18Z
    environment:
      MINIO_ACCESS_KEY: minioadmin
      MINIO_SECRET_KEY: minioadmin
    volumes:
      - ${DOCKER_VOLUME_DIRECTORY:-.}/volumes/minio:/minio_data
    command: minio server /minio_data
    healthcheck:
      test: ["CMD", "curl", "-f", "http://localhost:9000/minio/health/live"]
      interval: 30s
      timeout: 20s
      retries: 3

  standalone:
    container_name: milvus-standalone
    image: milvusdb/milvus:v%s
    command: ["milvus", "run", "standalone"]
    environment:
      ETCD_ENDPOINTS: etcd:2379
      MINIO_ADDRESS: minio:9000
    volumes:
      - ${DOCKER_VOLUME_DIRECTORY:-.}/volumes/milvus:/var/lib/milvus
    ports:
      - "19530:19530"
      - "9091:9091"
    depends_on:
      - "etcd"
      - "minio"

networks:
  default:
    name: milvus
`

type Config struct {
	// Dir holds the compose file and the container volumes.
	Dir          string
	Version      string
	HealthURL    string
	WaitAttempts int
	WaitInterval time.Duration
	SettleDelay  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.Version == "" {
		c.Version = defaultVersion
	}
	if c.HealthURL == "" {
		c.HealthURL = defaultHealthURL
	}
	if c.WaitAttempts == 0 {
		c.WaitAttempts = defaultWaitAttempts
	}
	if c.WaitInterval == 0 {
		c.WaitInterval = defaultWaitInterval
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = defaultSettleDelay
	}
	return c
}

type Manager struct {
	cfg Config
}

func New(cfg Config) *Manager {
	return &Manager{cfg: cfg.withDefaults()}
}

// Up brings the stack up and blocks until Milvus answers its health
// endpoint. It requires a running docker daemon.
func (m *Manager) Up(ctx context.Context) error {
	if err := m.checkDocker(ctx); err != nil {
		return err
	}

	path, err := m.ensureComposeFile(ctx)
	if err != nil {
		return err
	}

	slog.Info("starting milvus", "compose", path)
	if out, err := composeCmd(ctx, path, "up", "-d").CombinedOutput(); err != nil {
		return fmt.Errorf("docker compose up: %w: %s", err, out)
	}

	return m.WaitReady(ctx)
}

func (m *Manager) Down(ctx context.Context) error {
	path := filepath.Join(m.cfg.Dir, composeFileName)
	if out, err := composeCmd(ctx, path, "down").CombinedOutput(); err != nil {
		return fmt.Errorf("docker compose down: %w: %s", err, out)
	}
	slog.Info("milvus stopped")
	return nil
}

// WaitReady polls the health endpoint under the configured retry budget,
// then holds for the settle delay so freshly started internals catch up.
func (m *Manager) WaitReady(ctx context.Context) error {
	policy := retry.Policy{MaxAttempts: m.cfg.WaitAttempts, Interval: m.cfg.WaitInterval}
	client := &http.Client{Timeout: 2 * time.Second}

	attempt := 0
	err := retry.Do(ctx, policy, func() error {
		attempt++
		if err := m.probeHealth(ctx, client); err != nil {
			slog.Debug("milvus not ready yet", "attempt", attempt, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("milvus not ready after %d attempts: %w", m.cfg.WaitAttempts, err)
	}

	slog.Info("milvus ready", "attempts", attempt)
	return m.settle(ctx)
}

func (m *Manager) probeHealth(ctx context.Context, client *http.Client) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint answered %d", resp.StatusCode)
	}
	return nil
}

func (m *Manager) settle(ctx context.Context) error {
	if m.cfg.SettleDelay <= 0 {
		return nil
	}
	slog.Debug("letting milvus settle", "delay", m.cfg.SettleDelay)
	select {
	case <-time.After(m.cfg.SettleDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) checkDocker(ctx context.Context) error {
	cli, err := dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("docker client: %w", err)
	}
	defer cli.Close()

	ping, err := cli.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	slog.Debug("docker daemon reachable", "api_version", ping.APIVersion)
	return nil
}

// ensureComposeFile reuses an existing compose file, otherwise fetches
// the published standalone definition and falls back to the embedded one.
func (m *Manager) ensureComposeFile(ctx context.Context) (string, error) {
	path := filepath.Join(m.cfg.Dir, composeFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(m.cfg.Dir, 0755); err != nil {
		return "", fmt.Errorf("create compose dir: %w", err)
	}

	content, err := m.downloadCompose(ctx)
	if err != nil {
		slog.Warn("compose download failed, using embedded definition", "error", err)
		content = []byte(fmt.Sprintf(composeFallback, m.cfg.Version))
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write compose file: %w", err)
	}
	return path, nil
}

func (m *Manager) downloadCompose(ctx context.Context) ([]byte, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	client.HTTPClient.Timeout = 30 * time.Second

	url := fmt.Sprintf(composeURL, m.cfg.Version)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build compose request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func composeCmd(ctx context.Context, composePath string, args ...string) *exec.Cmd {
	full := append([]string{"compose", "-f", composePath}, args...)
	return exec.CommandContext(ctx, "docker", full...)
}
