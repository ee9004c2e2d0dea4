package dataset

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"
)

const (
	remoteBaseURL = "http://corpus-texmex.irisa.fr/sift"

	downloadAttempts = 3
	downloadWait     = 2 * time.Second
	downloadTimeout  = 5 * time.Minute
)

var remoteFiles = []struct {
	remote string
	local  string
}{
	{"sift_base.fvecs.gz", baseFile},
	{"sift_query.fvecs.gz", queryFile},
	{"sift_groundtruth.ivecs.gz", groundTruthFile},
}

func newDownloadClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = downloadAttempts - 1
	c.RetryWaitMin = downloadWait
	c.RetryWaitMax = downloadWait
	c.HTTPClient.Timeout = downloadTimeout
	c.Logger = nil
	return c
}

// download fetches the gzipped texmex files and unpacks them into dir.
func download(ctx context.Context, dir string) error {
	client := newDownloadClient()

	for _, rf := range remoteFiles {
		url := remoteBaseURL + "/" + rf.remote
		dest := filepath.Join(dir, rf.local)

		slog.Info("downloading dataset file", "url", url)
		if err := downloadFile(ctx, client, url, dest); err != nil {
			return fmt.Errorf("download %s: %w", rf.remote, err)
		}
	}
	return nil
}

func downloadFile(ctx context.Context, client *retryablehttp.Client, url, dest string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body := bufio.NewReaderSize(resp.Body, 1<<20)
	head, _ := body.Peek(64)
	if looksLikeHTML(head) {
		// Some mirrors answer errors with a 200 HTML page.
		return fmt.Errorf("server returned an html page instead of data")
	}

	gz, err := gzip.NewReader(body)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	// Unpack next to the destination and rename, so an interrupted
	// download never poisons the cache.
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, gz); err != nil {
		tmp.Close()
		return fmt.Errorf("unpack: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("move into cache: %w", err)
	}
	return nil
}

func looksLikeHTML(head []byte) bool {
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	lower := bytes.ToLower(trimmed)
	return bytes.HasPrefix(lower, []byte("<html")) || bytes.HasPrefix(lower, []byte("<!doctype"))
}
