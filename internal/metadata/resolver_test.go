package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-proxy/internal/domain"
	"solana-proxy/internal/solana"
)

// wsolMint is a well-known valid mint address usable in probe tests.
const wsolMint = "So11111111111111111111111111111111111111112"

// fakeAssets is a canned AssetSource.
type fakeAssets struct {
	asset *solana.TokenAsset
	err   error
	calls int
}

func (f *fakeAssets) GetAsset(ctx context.Context, mint string) (*solana.TokenAsset, error) {
	f.calls++
	return f.asset, f.err
}

// jupiterServer returns a JupiterClient backed by a canned handler.
func jupiterServer(t *testing.T, handler http.HandlerFunc) *JupiterClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewJupiterClient(server.URL)
}

func solscanServer(t *testing.T, handler http.HandlerFunc) *SolscanClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSolscanClient(server.URL)
}

func dexscreenerServer(t *testing.T, handler http.HandlerFunc) *DexScreenerClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewDexScreenerClient(server.URL)
}

func tokenListServer(t *testing.T, handler http.HandlerFunc) *TokenListClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewTokenListClient(server.URL)
}

func failing(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func TestResolveToken_PrimaryProviderWins(t *testing.T) {
	assets := &fakeAssets{asset: &solana.TokenAsset{Symbol: "SOL", Name: "Wrapped SOL", Image: "https://img/sol.png"}}
	jupiterCalled := false

	resolver := New(Options{
		Assets: assets,
		Jupiter: jupiterServer(t, func(w http.ResponseWriter, r *http.Request) {
			jupiterCalled = true
			w.Write([]byte(`{"symbol":"JUP-ANSWER","name":"never used"}`))
		}),
	})

	meta := resolver.ResolveToken(context.Background(), wsolMint)
	assert.Equal(t, domain.TokenMetadata{Symbol: "SOL", Name: "Wrapped SOL", Logo: "https://img/sol.png"}, meta)
	assert.False(t, jupiterCalled, "first success in probe order must win")
}

func TestResolveToken_FallsThroughFailedProviders(t *testing.T) {
	assets := &fakeAssets{err: errors.New("das unavailable")}

	resolver := New(Options{
		Assets:  assets,
		Jupiter: jupiterServer(t, failing(t)),
		Solscan: solscanServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, wsolMint, r.URL.Query().Get("tokenAddress"))
			w.Write([]byte(`{"symbol":"SOL","name":"Solana","icon":"https://img/s.png"}`))
		}),
	})

	meta := resolver.ResolveToken(context.Background(), wsolMint)
	assert.Equal(t, "SOL", meta.Symbol)
	assert.Equal(t, "Solana", meta.Name)
}

func TestResolveToken_AllEmptyAnswerContinuesProbing(t *testing.T) {
	resolver := New(Options{
		// Answers 200 with no usable fields; the next probe must run.
		Jupiter: jupiterServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}),
		Solscan: solscanServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"symbol":"NXT"}`))
		}),
	})

	meta := resolver.ResolveToken(context.Background(), wsolMint)
	assert.Equal(t, "NXT", meta.Symbol)
}

func TestResolveToken_AllProvidersFail_Sentinel(t *testing.T) {
	resolver := New(Options{
		Assets:      &fakeAssets{err: errors.New("down")},
		Jupiter:     jupiterServer(t, failing(t)),
		Solscan:     solscanServer(t, failing(t)),
		DexScreener: dexscreenerServer(t, failing(t)),
		TokenList:   tokenListServer(t, failing(t)),
	})

	meta := resolver.ResolveToken(context.Background(), wsolMint)
	assert.True(t, meta.Empty())
}

func TestResolveToken_InvalidMint_Sentinel(t *testing.T) {
	assets := &fakeAssets{asset: &solana.TokenAsset{Symbol: "X"}}
	resolver := New(Options{Assets: assets})

	meta := resolver.ResolveToken(context.Background(), "not-a-mint")
	assert.True(t, meta.Empty())
	assert.Zero(t, assets.calls, "invalid mint must not reach providers")
}

func TestResolveToken_DexScreenerMatchesBaseToken(t *testing.T) {
	resolver := New(Options{
		DexScreener: dexscreenerServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"pairs":[
				{"baseToken":{"address":"OtherMint","symbol":"OTHER","name":"Other"}},
				{"baseToken":{"address":"` + wsolMint + `","symbol":"SOL","name":"Wrapped SOL"},"info":{"imageUrl":"https://img/d.png"}}
			]}`))
		}),
	})

	meta := resolver.ResolveToken(context.Background(), wsolMint)
	assert.Equal(t, "SOL", meta.Symbol)
	assert.Equal(t, "https://img/d.png", meta.Logo)
}

func TestResolveToken_StaticListLastResort(t *testing.T) {
	resolver := New(Options{
		Jupiter: jupiterServer(t, failing(t)),
		TokenList: tokenListServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"tokens":[
				{"address":"SomethingElse","symbol":"NOPE","name":"Nope"},
				{"address":"` + wsolMint + `","symbol":"SOL","name":"Wrapped SOL","logoURI":"https://img/l.png"}
			]}`))
		}),
	})

	meta := resolver.ResolveToken(context.Background(), wsolMint)
	assert.Equal(t, domain.TokenMetadata{Symbol: "SOL", Name: "Wrapped SOL", Logo: "https://img/l.png"}, meta)
}

func TestResolveMintBorn_IndexerFirst(t *testing.T) {
	dexCalled := false
	resolver := New(Options{
		Solscan: solscanServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"symbol":"SOL","first_mint_time":1650000000}`))
		}),
		DexScreener: dexscreenerServer(t, func(w http.ResponseWriter, r *http.Request) {
			dexCalled = true
			w.Write([]byte(`{"pairs":[]}`))
		}),
	})

	ts, ok := resolver.ResolveMintBorn(context.Background(), wsolMint)
	require.True(t, ok)
	assert.Equal(t, int64(1650000000), ts)
	assert.False(t, dexCalled)
}

func TestResolveMintBorn_MarketDataMillisConverted(t *testing.T) {
	resolver := New(Options{
		Solscan: solscanServer(t, failing(t)),
		DexScreener: dexscreenerServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"pairs":[
				{"pairCreatedAt":1700000123000},
				{"pairCreatedAt":1690000456000}
			]}`))
		}),
	})

	ts, ok := resolver.ResolveMintBorn(context.Background(), wsolMint)
	require.True(t, ok)
	assert.Equal(t, int64(1690000456), ts, "earliest pair creation, converted to seconds")
}

func TestResolveMintBorn_NoAnswer(t *testing.T) {
	resolver := New(Options{
		Solscan:     solscanServer(t, failing(t)),
		DexScreener: dexscreenerServer(t, failing(t)),
	})

	_, ok := resolver.ResolveMintBorn(context.Background(), wsolMint)
	assert.False(t, ok)
}
