// Package trending discovers candidate tokens from market-data feeds and
// on-chain pool creation events, merging them into one analysis list.
package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default configuration values.
const (
	DefaultHTTPTimeout = 20 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 2 * time.Second
)

// apiClient is the shared GET-JSON helper for the public market-data APIs.
// All of them are unauthenticated and rate-limited, so every call retries
// 429/5xx with a flat delay.
type apiClient struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

func newAPIClient() *apiClient {
	return &apiClient{
		client:     &http.Client{Timeout: DefaultHTTPTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
}

// getJSON fetches url and decodes the body into result.
func (c *apiClient) getJSON(ctx context.Context, url string, result interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode %s: %w", url, err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
