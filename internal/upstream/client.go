// Package upstream provides the shared HTTP plumbing for third-party data
// providers: a JSON fetch helper with a bounded per-call timeout and the
// error taxonomy the retrieval engine dispatches on. Every call takes a
// context and is cancelled, not abandoned, when the timeout expires.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solana-proxy/internal/observability"
)

// DefaultTimeout bounds every provider call.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response is carried in errors.
const maxErrorBody = 2048

// Client performs JSON requests against a single named provider.
type Client struct {
	name    string
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a Client for the provider identified by name. The name
// appears in errors and metrics, never on the wire.
func NewClient(name string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		client:  &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// GetJSON fetches url and unmarshals the response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	return c.do(ctx, http.MethodGet, url, nil, out)
}

// PostJSON sends body as JSON to url and unmarshals the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.name, err)
	}
	return c.do(ctx, http.MethodPost, url, payload, out)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	observability.RecordUpstreamCall(c.name, time.Since(start).Seconds(), err)
	if err != nil {
		return Unreachable(c.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Unreachable(c.name, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return RateLimited(c.name, truncate(respBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Provider: c.name, Status: resp.StatusCode, Body: truncate(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return Malformed(c.name, truncate(respBody))
		}
	}

	return nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}
