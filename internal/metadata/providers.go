package metadata

import (
	"context"
	"fmt"
	"net/url"

	"solana-proxy/internal/upstream"
)

// Default provider hosts. Each client takes a base-URL override for tests.
const (
	DefaultJupiterBaseURL     = "https://tokens.jup.ag"
	DefaultSolscanBaseURL     = "https://public-api.solscan.io"
	DefaultDexScreenerBaseURL = "https://api.dexscreener.com"
	DefaultTokenListURL       = "https://cdn.jsdelivr.net/gh/solana-labs/token-list@main/src/tokens/solana.tokenlist.json"
)

// JupiterClient queries the aggregator token-list API.
type JupiterClient struct {
	baseURL string
	u       *upstream.Client
}

// NewJupiterClient creates a JupiterClient. An empty baseURL selects the
// production host.
func NewJupiterClient(baseURL string) *JupiterClient {
	if baseURL == "" {
		baseURL = DefaultJupiterBaseURL
	}
	return &JupiterClient{baseURL: baseURL, u: upstream.NewClient("jupiter")}
}

// JupiterToken is the aggregator's token info payload.
type JupiterToken struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	LogoURI string `json:"logoURI"`
}

// TokenInfo fetches the aggregator's record for mint.
func (c *JupiterClient) TokenInfo(ctx context.Context, mint string) (*JupiterToken, error) {
	endpoint := fmt.Sprintf("%s/token/%s", c.baseURL, url.PathEscape(mint))
	var out JupiterToken
	if err := c.u.GetJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SolscanClient queries the chain-indexer API.
type SolscanClient struct {
	baseURL string
	u       *upstream.Client
}

// NewSolscanClient creates a SolscanClient. An empty baseURL selects the
// production host.
func NewSolscanClient(baseURL string) *SolscanClient {
	if baseURL == "" {
		baseURL = DefaultSolscanBaseURL
	}
	return &SolscanClient{baseURL: baseURL, u: upstream.NewClient("solscan")}
}

// SolscanTokenMeta is the indexer's token metadata payload.
type SolscanTokenMeta struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	FirstMintTime int64  `json:"first_mint_time"` // unix seconds, 0 when unknown
}

// TokenMeta fetches the indexer's metadata for mint.
func (c *SolscanClient) TokenMeta(ctx context.Context, mint string) (*SolscanTokenMeta, error) {
	endpoint := fmt.Sprintf("%s/token/meta?tokenAddress=%s", c.baseURL, url.QueryEscape(mint))
	var out SolscanTokenMeta
	if err := c.u.GetJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DexScreenerClient queries the market-data API.
type DexScreenerClient struct {
	baseURL string
	u       *upstream.Client
}

// NewDexScreenerClient creates a DexScreenerClient. An empty baseURL selects
// the production host.
func NewDexScreenerClient(baseURL string) *DexScreenerClient {
	if baseURL == "" {
		baseURL = DefaultDexScreenerBaseURL
	}
	return &DexScreenerClient{baseURL: baseURL, u: upstream.NewClient("dexscreener")}
}

// DexScreenerPair is one trading pair in the market-data payload.
type DexScreenerPair struct {
	BaseToken struct {
		Address string `json:"address"`
		Symbol  string `json:"symbol"`
		Name    string `json:"name"`
	} `json:"baseToken"`
	Info struct {
		ImageURL string `json:"imageUrl"`
	} `json:"info"`
	PairCreatedAt int64 `json:"pairCreatedAt"` // unix milliseconds
}

// TokenPairs fetches the trading pairs known for mint.
func (c *DexScreenerClient) TokenPairs(ctx context.Context, mint string) ([]DexScreenerPair, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, url.PathEscape(mint))
	var out struct {
		Pairs []DexScreenerPair `json:"pairs"`
	}
	if err := c.u.GetJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out.Pairs, nil
}

// TokenListClient fetches the static community token list. The whole list is
// fetched and scanned per lookup; the list is the last probe in the chain so
// this cost is only paid when every API provider failed.
type TokenListClient struct {
	listURL string
	u       *upstream.Client
}

// NewTokenListClient creates a TokenListClient. An empty listURL selects the
// community list CDN.
func NewTokenListClient(listURL string) *TokenListClient {
	if listURL == "" {
		listURL = DefaultTokenListURL
	}
	return &TokenListClient{listURL: listURL, u: upstream.NewClient("tokenlist")}
}

// TokenListEntry is one token in the community list.
type TokenListEntry struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	LogoURI string `json:"logoURI"`
}

// Lookup scans the community list for mint. Returns nil when absent.
func (c *TokenListClient) Lookup(ctx context.Context, mint string) (*TokenListEntry, error) {
	var out struct {
		Tokens []TokenListEntry `json:"tokens"`
	}
	if err := c.u.GetJSON(ctx, c.listURL, &out); err != nil {
		return nil, err
	}
	for i := range out.Tokens {
		if out.Tokens[i].Address == mint {
			return &out.Tokens[i], nil
		}
	}
	return nil, nil
}
