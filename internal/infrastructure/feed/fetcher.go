package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves raw feed documents over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wires an HTTP client; a 20s-timeout default is used when nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Fetcher{client: client}
}

// Fetch returns the feed document body. Any transport failure or non-2xx
// status is an error; callers absorb it per feed.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TechVibe/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read feed body: %w", err)
	}

	return string(body), nil
}
