// Package metadata implements the ordered-fallback resolvers for token
// metadata and mint origin. Providers are probed strictly in priority order;
// every probe is best-effort and a provider failure is silently treated as
// "no answer". Resolvers are stateless and never return an error.
package metadata

import (
	"context"

	"go.uber.org/zap"

	"solana-proxy/internal/domain"
	"solana-proxy/internal/observability"
	"solana-proxy/internal/probe"
	"solana-proxy/internal/solana"
)

// AssetSource serves the DAS getAsset lookup, the primary metadata probe.
type AssetSource interface {
	GetAsset(ctx context.Context, mint string) (*solana.TokenAsset, error)
}

// Resolver probes metadata providers in a fixed priority order.
type Resolver struct {
	assets      AssetSource
	jupiter     *JupiterClient
	solscan     *SolscanClient
	dexscreener *DexScreenerClient
	tokenList   *TokenListClient
	logger      *zap.Logger
}

// Options for creating a Resolver. A nil provider is skipped in the probe
// order.
type Options struct {
	Assets      AssetSource
	Jupiter     *JupiterClient
	Solscan     *SolscanClient
	DexScreener *DexScreenerClient
	TokenList   *TokenListClient
	Logger      *zap.Logger
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		assets:      opts.Assets,
		jupiter:     opts.Jupiter,
		solscan:     opts.Solscan,
		dexscreener: opts.DexScreener,
		tokenList:   opts.TokenList,
		logger:      logger,
	}
}

// ResolveToken returns the best-known metadata for mint: the first provider
// in priority order (DAS, aggregator list, chain indexer, market data,
// community list) answering with at least one non-empty field wins. All
// providers failing yields the all-empty sentinel, never an error.
func (r *Resolver) ResolveToken(ctx context.Context, mint string) domain.TokenMetadata {
	if err := solana.ValidateAddress(mint); err != nil {
		r.logger.Debug("skipping probes for invalid mint", zap.String("mint", mint), zap.Error(err))
		return domain.TokenMetadata{}
	}

	meta, ok := probe.First(ctx,
		r.assetProbe(mint),
		r.jupiterProbe(mint),
		r.solscanProbe(mint),
		r.dexscreenerProbe(mint),
		r.tokenListProbe(mint),
	)
	if !ok {
		return domain.TokenMetadata{}
	}
	return meta
}

// ResolveMintBorn returns the first available creation timestamp for mint in
// unix seconds: the chain indexer's first-mint time, then the market-data
// API's earliest pair creation time. ok is false when neither answers.
func (r *Resolver) ResolveMintBorn(ctx context.Context, mint string) (int64, bool) {
	if err := solana.ValidateAddress(mint); err != nil {
		r.logger.Debug("skipping probes for invalid mint", zap.String("mint", mint), zap.Error(err))
		return 0, false
	}

	return probe.First(ctx,
		r.solscanBornProbe(mint),
		r.dexscreenerBornProbe(mint),
	)
}

func (r *Resolver) assetProbe(mint string) probe.Func[domain.TokenMetadata] {
	return func(ctx context.Context) (domain.TokenMetadata, bool) {
		if r.assets == nil {
			return domain.TokenMetadata{}, false
		}
		asset, err := r.assets.GetAsset(ctx, mint)
		if err != nil || asset == nil {
			return r.miss("das", mint, err)
		}
		return r.answer("das", domain.TokenMetadata{
			Symbol: asset.Symbol,
			Name:   asset.Name,
			Logo:   asset.Image,
		})
	}
}

func (r *Resolver) jupiterProbe(mint string) probe.Func[domain.TokenMetadata] {
	return func(ctx context.Context) (domain.TokenMetadata, bool) {
		if r.jupiter == nil {
			return domain.TokenMetadata{}, false
		}
		token, err := r.jupiter.TokenInfo(ctx, mint)
		if err != nil {
			return r.miss("jupiter", mint, err)
		}
		return r.answer("jupiter", domain.TokenMetadata{
			Symbol: token.Symbol,
			Name:   token.Name,
			Logo:   token.LogoURI,
		})
	}
}

func (r *Resolver) solscanProbe(mint string) probe.Func[domain.TokenMetadata] {
	return func(ctx context.Context) (domain.TokenMetadata, bool) {
		if r.solscan == nil {
			return domain.TokenMetadata{}, false
		}
		meta, err := r.solscan.TokenMeta(ctx, mint)
		if err != nil {
			return r.miss("solscan", mint, err)
		}
		return r.answer("solscan", domain.TokenMetadata{
			Symbol: meta.Symbol,
			Name:   meta.Name,
			Logo:   meta.Icon,
		})
	}
}

func (r *Resolver) dexscreenerProbe(mint string) probe.Func[domain.TokenMetadata] {
	return func(ctx context.Context) (domain.TokenMetadata, bool) {
		if r.dexscreener == nil {
			return domain.TokenMetadata{}, false
		}
		pairs, err := r.dexscreener.TokenPairs(ctx, mint)
		if err != nil || len(pairs) == 0 {
			return r.miss("dexscreener", mint, err)
		}
		for _, pair := range pairs {
			if pair.BaseToken.Address != mint {
				continue
			}
			return r.answer("dexscreener", domain.TokenMetadata{
				Symbol: pair.BaseToken.Symbol,
				Name:   pair.BaseToken.Name,
				Logo:   pair.Info.ImageURL,
			})
		}
		return r.miss("dexscreener", mint, nil)
	}
}

func (r *Resolver) tokenListProbe(mint string) probe.Func[domain.TokenMetadata] {
	return func(ctx context.Context) (domain.TokenMetadata, bool) {
		if r.tokenList == nil {
			return domain.TokenMetadata{}, false
		}
		entry, err := r.tokenList.Lookup(ctx, mint)
		if err != nil || entry == nil {
			return r.miss("tokenlist", mint, err)
		}
		return r.answer("tokenlist", domain.TokenMetadata{
			Symbol: entry.Symbol,
			Name:   entry.Name,
			Logo:   entry.LogoURI,
		})
	}
}

func (r *Resolver) solscanBornProbe(mint string) probe.Func[int64] {
	return func(ctx context.Context) (int64, bool) {
		if r.solscan == nil {
			return 0, false
		}
		meta, err := r.solscan.TokenMeta(ctx, mint)
		if err != nil || meta.FirstMintTime <= 0 {
			if err != nil {
				r.logger.Debug("mint-born probe failed", zap.String("provider", "solscan"), zap.String("mint", mint), zap.Error(err))
			}
			return 0, false
		}
		return meta.FirstMintTime, true
	}
}

func (r *Resolver) dexscreenerBornProbe(mint string) probe.Func[int64] {
	return func(ctx context.Context) (int64, bool) {
		if r.dexscreener == nil {
			return 0, false
		}
		pairs, err := r.dexscreener.TokenPairs(ctx, mint)
		if err != nil {
			r.logger.Debug("mint-born probe failed", zap.String("provider", "dexscreener"), zap.String("mint", mint), zap.Error(err))
			return 0, false
		}
		var earliest int64
		for _, pair := range pairs {
			if pair.PairCreatedAt <= 0 {
				continue
			}
			if earliest == 0 || pair.PairCreatedAt < earliest {
				earliest = pair.PairCreatedAt
			}
		}
		if earliest == 0 {
			return 0, false
		}
		return earliest / 1000, true
	}
}

// answer records a hit unless the provider returned an all-empty record, in
// which case the probe order continues.
func (r *Resolver) answer(provider string, meta domain.TokenMetadata) (domain.TokenMetadata, bool) {
	if meta.Empty() {
		observability.RecordMetadataProbe(provider, "miss")
		return domain.TokenMetadata{}, false
	}
	observability.RecordMetadataProbe(provider, "hit")
	return meta, true
}

func (r *Resolver) miss(provider, mint string, err error) (domain.TokenMetadata, bool) {
	if err != nil {
		r.logger.Debug("metadata probe failed", zap.String("provider", provider), zap.String("mint", mint), zap.Error(err))
	}
	observability.RecordMetadataProbe(provider, "miss")
	return domain.TokenMetadata{}, false
}
