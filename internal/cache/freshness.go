// Package cache implements the per-wallet freshness and cooldown store used
// by the retrieval engine. The store is process-local and ephemeral; entries
// are bounded by an LRU eviction policy rather than an explicit delete.
package cache

import (
	"container/list"
	"sync"
	"time"

	"solana-proxy/internal/domain"
)

// DefaultCapacity bounds the number of tracked wallets.
const DefaultCapacity = 10000

// WalletActivityStore tracks the last fetched activity and the rate-limit
// cooldown deadline for each wallet.
type WalletActivityStore interface {
	// GetFresh returns the cached records only if they are younger than
	// maxAge. No side effects beyond recency tracking.
	GetFresh(wallet string, maxAge time.Duration) ([]domain.TransactionRecord, bool)

	// Put overwrites the cached records and fetch timestamp for wallet. Any
	// active cooldown on the entry is preserved.
	Put(wallet string, records []domain.TransactionRecord)

	// InCooldown reports whether wallet has a cooldown deadline after now.
	InCooldown(wallet string, now time.Time) bool

	// EnterCooldown sets the cooldown deadline to now+d, unconditionally
	// overwriting any prior deadline. Last rate-limit wins.
	EnterCooldown(wallet string, now time.Time, d time.Duration)
}

// walletState is the per-wallet entry. hasResult distinguishes "cached an
// empty sequence" from "never fetched".
type walletState struct {
	wallet        string
	fetchedAt     time.Time
	records       []domain.TransactionRecord
	hasResult     bool
	cooldownUntil time.Time
}

// Store is the in-memory, LRU-bounded implementation of WalletActivityStore.
// Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently touched
	nowFn    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the time source, for tests.
func WithClock(nowFn func() time.Time) Option {
	return func(s *Store) {
		s.nowFn = nowFn
	}
}

// NewStore creates a Store bounded to capacity wallets. A capacity of zero
// or less falls back to DefaultCapacity.
func NewStore(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		nowFn:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetFresh returns the cached records only if they are younger than maxAge.
func (s *Store) GetFresh(wallet string, maxAge time.Duration) ([]domain.TransactionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[wallet]
	if !ok {
		return nil, false
	}
	state := elem.Value.(*walletState)
	if !state.hasResult || s.nowFn().Sub(state.fetchedAt) >= maxAge {
		return nil, false
	}

	s.order.MoveToFront(elem)

	records := make([]domain.TransactionRecord, len(state.records))
	copy(records, state.records)
	return records, true
}

// Put overwrites the cached records and fetch timestamp for wallet.
func (s *Store) Put(wallet string, records []domain.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.touch(wallet)
	state.fetchedAt = s.nowFn()
	state.records = make([]domain.TransactionRecord, len(records))
	copy(state.records, records)
	state.hasResult = true
}

// InCooldown reports whether wallet has a cooldown deadline after now.
func (s *Store) InCooldown(wallet string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[wallet]
	if !ok {
		return false
	}
	state := elem.Value.(*walletState)
	return !state.cooldownUntil.IsZero() && now.Before(state.cooldownUntil)
}

// EnterCooldown sets the cooldown deadline to now+d.
func (s *Store) EnterCooldown(wallet string, now time.Time, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.touch(wallet)
	state.cooldownUntil = now.Add(d)
}

// Len returns the number of tracked wallets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// touch returns the entry for wallet, creating it if needed, moving it to
// the front and evicting the least-recently touched wallet when over
// capacity. Callers must hold the lock.
func (s *Store) touch(wallet string) *walletState {
	if elem, ok := s.entries[wallet]; ok {
		s.order.MoveToFront(elem)
		return elem.Value.(*walletState)
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			evicted := oldest.Value.(*walletState)
			delete(s.entries, evicted.wallet)
			s.order.Remove(oldest)
		}
	}

	state := &walletState{wallet: wallet}
	s.entries[wallet] = s.order.PushFront(state)
	return state
}

var _ WalletActivityStore = (*Store)(nil)
