// Package webfetch downloads documentation pages with bounded retries.
package webfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound marks a 404; callers skip these URLs instead of failing the
// whole ingestion batch.
var ErrNotFound = errors.New("url not found")

const (
	maxAttempts  = 5
	maxBodyBytes = 1 << 20
	userAgent    = "docrag/1.0"
)

type Fetcher struct {
	client *http.Client
}

func New() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

// Get downloads the URL body, retrying transient failures with exponential
// backoff (1s, 2s, 4s, 8s capped at 10s). A 404 returns ErrNotFound
// immediately, without retries.
func (f *Fetcher) Get(ctx context.Context, url string) (string, error) {
	var lastErr error
	delay := 1 * time.Second
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > 10*time.Second {
				delay = 10 * time.Second
			}
		}

		body, err := f.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("fetch %s failed after %d attempts: %w", url, maxAttempts, lastErr)
}

func (f *Fetcher) getOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body failed: %w", err)
	}
	return string(body), nil
}
