// Package http wraps the shared outbound HTTP client used by the provider
// adapters. One client per process keeps connection pooling across vendors.
package http

import (
	"context"
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
}

// NewClient builds a client whose timeout matches the executor's per-attempt
// budget.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DoWithContext sends the request bound to ctx, so attempt deadlines set by
// the fallback executor propagate down to the transport.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req.WithContext(ctx))
}
