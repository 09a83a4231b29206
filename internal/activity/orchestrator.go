// Package activity implements the freshness-tiered retrieval engine for
// wallet transaction history.
//
// For each request the orchestrator decides between three paths: serve the
// per-wallet cache when it is fresh, run the fast two-step chain (signature
// listing on the RPC node, then a batch parse on the enriched-history
// provider), or fall back to the slow single-call provider. A rate-limit
// signal from the RPC node puts the wallet into a cooldown window during
// which the fast path is bypassed entirely; the cooldown is a circuit
// breaker scoped per wallet, not global.
package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"solana-proxy/internal/cache"
	"solana-proxy/internal/domain"
	"solana-proxy/internal/observability"
	"solana-proxy/internal/solana"
	"solana-proxy/internal/upstream"
)

const (
	// FreshnessTTL is the maximum age of cached data still served without a
	// refetch. It exists to absorb repeated polling, not for correctness.
	FreshnessTTL = 15 * time.Second

	// CooldownDuration is the fast-path bypass window after a rate-limit
	// signal.
	CooldownDuration = 45 * time.Second

	// DefaultLimit applies when the caller did not specify a usable limit.
	DefaultLimit = 40

	// MaxLimit caps the number of records per request.
	MaxLimit = 100
)

// SignatureLister lists recent transaction signatures for an address,
// most recent first.
type SignatureLister interface {
	GetSignaturesForAddress(ctx context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error)
}

// HistoryProvider serves enriched transaction records: batch parsing for the
// fast path and full address history for the slow path.
type HistoryProvider interface {
	ParseTransactions(ctx context.Context, signatures []string) ([]domain.TransactionRecord, error)
	AddressHistory(ctx context.Context, wallet string, limit int) ([]domain.TransactionRecord, error)
}

// Orchestrator owns the per-request path decision and the cache/cooldown
// bookkeeping around it.
type Orchestrator struct {
	rpc           SignatureLister
	history       HistoryProvider
	store         cache.WalletActivityStore
	logger        *zap.Logger
	hasCredential bool
	nowFn         func() time.Time
	group         singleflight.Group
}

// Options for creating an Orchestrator.
type Options struct {
	RPC           SignatureLister
	History       HistoryProvider
	Store         cache.WalletActivityStore
	Logger        *zap.Logger
	HasCredential bool

	// Now overrides the time source, for tests.
	Now func() time.Time
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Orchestrator{
		rpc:           opts.RPC,
		history:       opts.History,
		store:         opts.Store,
		logger:        logger,
		hasCredential: opts.HasCredential,
		nowFn:         nowFn,
	}
}

// fetchResult pairs records with the path tag that produced them.
type fetchResult struct {
	records []domain.TransactionRecord
	source  domain.Source
}

// FetchWalletActivity returns recent transactions for wallet along with the
// source tag identifying which path served them. Concurrent identical
// requests are coalesced so only one performs the upstream work.
func (o *Orchestrator) FetchWalletActivity(ctx context.Context, wallet string, limit int) ([]domain.TransactionRecord, domain.Source, error) {
	if err := o.validate(wallet); err != nil {
		return nil, "", err
	}
	limit = clampLimit(limit)

	key := fmt.Sprintf("%s|%d", wallet, limit)
	v, err, shared := o.group.Do(key, func() (interface{}, error) {
		return o.fetch(ctx, wallet, limit)
	})
	if err != nil {
		return nil, "", err
	}

	res := v.(*fetchResult)
	if shared {
		o.logger.Debug("coalesced concurrent fetch", zap.String("wallet", wallet))
	}
	observability.RecordActivityResponse(res.source.String())
	return res.records, res.source, nil
}

// FetchWalletActivitySlow serves the slow single-call provider directly,
// bypassing the cache and cooldown machinery entirely.
func (o *Orchestrator) FetchWalletActivitySlow(ctx context.Context, wallet string, limit int) ([]domain.TransactionRecord, error) {
	if err := o.validate(wallet); err != nil {
		return nil, err
	}
	return o.history.AddressHistory(ctx, wallet, clampLimit(limit))
}

func (o *Orchestrator) validate(wallet string) error {
	if wallet == "" {
		return ErrMissingWallet
	}
	if !o.hasCredential {
		return ErrNoCredential
	}
	if err := solana.ValidateAddress(wallet); err != nil {
		// Not rejected: providers answer with an empty history for unknown
		// addresses, which is the more useful response shape for callers.
		o.logger.Debug("wallet is not a canonical address", zap.String("wallet", wallet), zap.Error(err))
	} else if !solana.IsOnCurve(wallet) {
		o.logger.Debug("wallet is off-curve, likely a program-derived address", zap.String("wallet", wallet))
	}
	return nil
}

func (o *Orchestrator) fetch(ctx context.Context, wallet string, limit int) (*fetchResult, error) {
	// Cooldown takes precedence over freshness: a rate-limited wallet is
	// routed to the slow provider regardless of cache state.
	if o.store.InCooldown(wallet, o.nowFn()) {
		o.logger.Debug("wallet in cooldown, skipping fast path", zap.String("wallet", wallet))
		return o.slowFallback(ctx, wallet, limit, domain.SourceSlowCooldown)
	}

	if cached, ok := o.store.GetFresh(wallet, FreshnessTTL); ok {
		observability.RecordCacheHit()
		return &fetchResult{records: cached, source: domain.SourceCache}, nil
	}
	observability.RecordCacheMiss()

	sigs, err := o.rpc.GetSignaturesForAddress(ctx, wallet, &solana.SignaturesOpts{Limit: limit})
	if err != nil {
		if upstream.IsRateLimited(err) {
			o.store.EnterCooldown(wallet, o.nowFn(), CooldownDuration)
			observability.RecordCooldown()
			o.logger.Warn("rpc rate limited, entering cooldown",
				zap.String("wallet", wallet),
				zap.Duration("cooldown", CooldownDuration),
			)
			return o.slowFallback(ctx, wallet, limit, domain.SourceSlow429)
		}
		// No cache or cooldown writes on other failures.
		return nil, err
	}

	if len(sigs) == 0 {
		empty := []domain.TransactionRecord{}
		o.store.Put(wallet, empty)
		return &fetchResult{records: empty, source: domain.SourceFastEmpty}, nil
	}

	signatures := make([]string, len(sigs))
	for i, sig := range sigs {
		signatures[i] = sig.Signature
	}

	records, err := o.history.ParseTransactions(ctx, signatures)
	if err != nil {
		return nil, err
	}

	o.store.Put(wallet, records)
	return &fetchResult{records: records, source: domain.SourceFastParse}, nil
}

// slowFallback queries the slow provider and caches its answer. One cooldown
// write per triggering rate limit: the fallback call itself never touches
// the window.
func (o *Orchestrator) slowFallback(ctx context.Context, wallet string, limit int, source domain.Source) (*fetchResult, error) {
	records, err := o.history.AddressHistory(ctx, wallet, limit)
	if err != nil {
		return nil, err
	}
	o.store.Put(wallet, records)
	return &fetchResult{records: records, source: source}, nil
}

// clampLimit bounds limit to [1, MaxLimit]. Zero means unspecified and
// selects the default.
func clampLimit(limit int) int {
	if limit == 0 {
		return DefaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
