package lifecycle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReady_EventuallyHealthy(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New(Config{
		HealthURL:    srv.URL,
		WaitAttempts: 5,
		WaitInterval: 10 * time.Millisecond,
		SettleDelay:  time.Millisecond,
	})

	require.NoError(t, m.WaitReady(context.Background()))
	assert.Equal(t, 3, requests)
}

func TestWaitReady_ExhaustsAttempts(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := New(Config{
		HealthURL:    srv.URL,
		WaitAttempts: 3,
		WaitInterval: 5 * time.Millisecond,
		SettleDelay:  time.Millisecond,
	})

	err := m.WaitReady(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "not ready after 3 attempts")
	assert.Equal(t, 3, requests)
}

func TestWaitReady_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(Config{
		HealthURL:    srv.URL,
		WaitAttempts: 10,
		WaitInterval: time.Second,
		SettleDelay:  time.Millisecond,
	})

	err := m.WaitReady(ctx)
	assert.Error(t, err)
}

func TestEnsureComposeFile_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, composeFileName)
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0644))

	m := New(Config{Dir: dir})
	got, err := m.ensureComposeFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "services: {}\n", string(content))
}

func TestComposeFallbackTemplate(t *testing.T) {
	content := fmt.Sprintf(composeFallback, "2.3.0")

	assert.Contains(t, content, "image: milvusdb/milvus:v2.3.0")
	assert.Contains(t, content, "quay.io/coreos/etcd:v3.5.5")
	assert.Contains(t, content, "minio/minio:RELEASE.2023-03-20T20-16-18Z")
	assert.Contains(t, content, `"19530:19530"`)
	assert.Contains(t, content, `"9091:9091"`)
	assert.Contains(t, content, "${DOCKER_VOLUME_DIRECTORY:-.}")
	assert.False(t, strings.Contains(content, "%!"), "template formatting leaked a verb")
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, "2.3.0", cfg.Version)
	assert.Equal(t, "http://localhost:9091/api/v1/health", cfg.HealthURL)
	assert.Equal(t, 30, cfg.WaitAttempts)
	assert.Equal(t, 2*time.Second, cfg.WaitInterval)
	assert.Equal(t, 10*time.Second, cfg.SettleDelay)
}
