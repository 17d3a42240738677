// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textfetch retrieves already-extracted plain text from the
// upstream extraction service. The engine never decodes PDF or DOCX
// itself; whatever served the upload is expected to hand back text.
// Implements: prd105-text-fetch (R1, R2).
package textfetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/deadline-engine/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const (
	defaultMaxRetries = 5
	defaultMaxBytes   = 10 << 20
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "deadline-engine/0.1"
)

// Fetcher pulls extracted document text over HTTP with retry on rate
// limiting and a hard size cap.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	token      string
	maxRetries int
	maxBytes   int64
}

// NewFetcher builds a Fetcher from config, filling defaults for any
// unset field.
func NewFetcher(cfg types.FetchConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		token:      cfg.Token,
		maxRetries: maxRetries,
		maxBytes:   maxBytes,
	}
}

// Text fetches the plain text at url. Rate-limited responses are
// retried with exponential backoff; any other non-2xx status is an
// error. Bodies larger than the configured cap are rejected so an
// oversized document never reaches the scanner (R2.3).
func (f *Fetcher) Text(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.doWithRetry(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("document at %s exceeds %d byte limit", url, f.maxBytes)
	}
	return string(body), nil
}

// doWithRetry executes the request and retries on HTTP 429 with
// exponential backoff starting at RetryBaseDelay. On each 429 the body
// is drained and closed before sleeping; a cancelled context during a
// backoff wait returns ctx.Err(). After exhausting retries the last
// 429 response is returned so the caller can inspect it.
func (f *Fetcher) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := f.client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if attempt >= f.maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
