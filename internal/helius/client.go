// Package helius provides a client for the enriched transaction history
// provider. Two operations back the retrieval engine: ParseTransactions is
// the second step of the fast path, AddressHistory is the slow single-call
// fallback.
package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"solana-proxy/internal/domain"
	"solana-proxy/internal/upstream"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.helius.xyz"

// Client calls the enriched transaction history REST API.
type Client struct {
	baseURL string
	apiKey  string
	u       *upstream.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithUpstreamOptions forwards options to the underlying upstream client.
func WithUpstreamOptions(opts ...upstream.Option) ClientOption {
	return func(c *Client) {
		c.u = upstream.NewClient("helius", opts...)
	}
}

// NewClient creates a Client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		u:       upstream.NewClient("helius"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseTransactions resolves a batch of signatures into enriched transaction
// records. A payload that is not a JSON array is a malformed-response
// upstream error.
func (c *Client) ParseTransactions(ctx context.Context, signatures []string) ([]domain.TransactionRecord, error) {
	endpoint := fmt.Sprintf("%s/v0/transactions?api-key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	body := map[string]interface{}{"transactions": signatures}

	var raw json.RawMessage
	if err := c.u.PostJSON(ctx, endpoint, body, &raw); err != nil {
		return nil, err
	}
	return decodeRecordArray(c.u.Name(), raw)
}

// AddressHistory fetches up to limit enriched transactions for a wallet in a
// single call.
func (c *Client) AddressHistory(ctx context.Context, wallet string, limit int) ([]domain.TransactionRecord, error) {
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?api-key=%s&limit=%s",
		c.baseURL, url.PathEscape(wallet), url.QueryEscape(c.apiKey), strconv.Itoa(limit))

	var raw json.RawMessage
	if err := c.u.GetJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	return decodeRecordArray(c.u.Name(), raw)
}

// decodeRecordArray enforces the array shape the engine requires. Providers
// occasionally answer 200 with an error object; that is malformed here.
func decodeRecordArray(provider string, raw json.RawMessage) ([]domain.TransactionRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, upstream.Malformed(provider, string(trimmed))
	}

	var records []domain.TransactionRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, upstream.Malformed(provider, string(trimmed))
	}
	if records == nil {
		records = []domain.TransactionRecord{}
	}
	return records, nil
}
