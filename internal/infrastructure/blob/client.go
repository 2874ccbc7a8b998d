package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"techvibe/internal/config"
	"techvibe/internal/domain"
	"techvibe/internal/ports"
)

// Client talks to a Supabase-style storage API: object upload by key with
// overwrite semantics, plus public URL derivation.
type Client struct {
	endpoint   string
	bucket     string
	serviceKey string
	httpClient *http.Client
}

var _ ports.BlobStore = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.StorageConfig) *Client {
	return &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		bucket:     cfg.Bucket,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Upload stores data under key, overwriting any previous object.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if c.endpoint == "" || c.bucket == "" {
		return fmt.Errorf("blob store misconfigured")
	}

	endpoint := fmt.Sprintf("%s/object/%s/%s", c.endpoint, c.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")
	if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s: %s", domain.ErrStorage, resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}

// PublicURL derives the public retrieval URI for a stored object.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.endpoint, c.bucket, key)
}
