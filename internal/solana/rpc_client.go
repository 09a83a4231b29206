// Package solana provides an HTTP JSON-RPC 2.0 client for a Solana RPC node.
//
// Unlike a general-purpose RPC client, every method here performs exactly one
// attempt: the retrieval engine owns failure handling and falls back to a
// slower provider instead of retrying, so rate-limit and error signals are
// classified and surfaced rather than absorbed by a retry loop.
package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"solana-proxy/internal/upstream"
)

// rateLimitErrorCode is the RPC-level equivalent of HTTP 429 some providers
// return inside an otherwise successful response.
const rateLimitErrorCode = 429

// HTTPClient implements the RPC methods the proxy needs over JSON-RPC 2.0.
type HTTPClient struct {
	endpoint  string
	u         *upstream.Client
	requestID atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithUpstreamOptions forwards options to the underlying upstream client.
func WithUpstreamOptions(opts ...upstream.Option) ClientOption {
	return func(c *HTTPClient) {
		c.u = upstream.NewClient("rpc", opts...)
	}
}

// NewHTTPClient creates a new Solana RPC HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint: endpoint,
		u:        upstream.NewClient("rpc"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured RPC endpoint.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// rpcRequest represents a JSON-RPC 2.0 request. Params is an array for
// standard RPC methods and an object for DAS methods.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call performs a single JSON-RPC call. RPC-level errors are converted into
// the upstream taxonomy: code 429 becomes a rate-limit signal, anything else
// a bad-gateway upstream error.
func (c *HTTPClient) call(ctx context.Context, method string, params, result interface{}) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	var resp rpcResponse
	if err := c.u.PostJSON(ctx, c.endpoint, req, &resp); err != nil {
		return err
	}

	if resp.Error != nil {
		detail := fmt.Sprintf("RPC error %d: %s", resp.Error.Code, resp.Error.Message)
		if resp.Error.Code == rateLimitErrorCode {
			return upstream.RateLimited(c.u.Name(), detail)
		}
		return &upstream.Error{Provider: c.u.Name(), Status: http.StatusBadGateway, Body: detail}
	}

	if result != nil && resp.Result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return upstream.Malformed(c.u.Name(), string(resp.Result))
		}
	}

	return nil
}

// GetSignaturesForAddress retrieves recent transaction signatures for an
// address, most recent first.
func (c *HTTPClient) GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error) {
	config := make(map[string]interface{})
	if opts != nil {
		if opts.Before != "" {
			config["before"] = opts.Before
		}
		if opts.Until != "" {
			config["until"] = opts.Until
		}
		if opts.Limit > 0 {
			config["limit"] = opts.Limit
		}
	}

	params := []interface{}{address}
	if len(config) > 0 {
		params = append(params, config)
	}

	var result []getSignaturesResult
	if err := c.call(ctx, "getSignaturesForAddress", params, &result); err != nil {
		return nil, err
	}

	sigs := make([]SignatureInfo, len(result))
	for i, r := range result {
		sigs[i] = SignatureInfo{
			Signature: r.Signature,
			Slot:      r.Slot,
			BlockTime: r.BlockTime,
			Err:       r.Err,
		}
	}

	return sigs, nil
}

// getSignaturesResult is the raw RPC response item for getSignaturesForAddress.
type getSignaturesResult struct {
	Signature string      `json:"signature"`
	Slot      int64       `json:"slot"`
	BlockTime *int64      `json:"blockTime"`
	Err       interface{} `json:"err"`
}

// GetAsset retrieves token metadata via the DAS getAsset method. Returns nil
// when the node does not know the asset.
func (c *HTTPClient) GetAsset(ctx context.Context, mint string) (*TokenAsset, error) {
	params := map[string]interface{}{"id": mint}

	var result getAssetResult
	if err := c.call(ctx, "getAsset", params, &result); err != nil {
		return nil, err
	}

	if result.Content == nil {
		return nil, nil
	}

	asset := &TokenAsset{}
	if result.Content.Metadata != nil {
		asset.Name = result.Content.Metadata.Name
		asset.Symbol = result.Content.Metadata.Symbol
	}
	if result.Content.Links != nil {
		asset.Image = result.Content.Links.Image
	}

	return asset, nil
}

// getAssetResult is the raw DAS response for getAsset.
type getAssetResult struct {
	Content *getAssetContent `json:"content"`
}

type getAssetContent struct {
	Metadata *getAssetMetadata `json:"metadata"`
	Links    *getAssetLinks    `json:"links"`
}

type getAssetMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type getAssetLinks struct {
	Image string `json:"image"`
}
