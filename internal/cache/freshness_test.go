package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"solana-proxy/internal/domain"
)

func records(sigs ...string) []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, len(sigs))
	for i, sig := range sigs {
		out[i] = json.RawMessage(fmt.Sprintf(`{"signature":%q}`, sig))
	}
	return out
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_GetFreshWithinTTL(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(10, WithClock(clock.Now))

	store.Put("w1", records("a", "b"))

	clock.Advance(14 * time.Second)
	got, ok := store.GetFresh("w1", 15*time.Second)
	if !ok {
		t.Fatal("expected fresh data within TTL")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestStore_GetFreshExpired(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(10, WithClock(clock.Now))

	store.Put("w1", records("a"))

	clock.Advance(15 * time.Second)
	if _, ok := store.GetFresh("w1", 15*time.Second); ok {
		t.Fatal("expected stale data at exactly TTL age")
	}
}

func TestStore_GetFreshUnknownWallet(t *testing.T) {
	store := NewStore(10)
	if _, ok := store.GetFresh("missing", time.Minute); ok {
		t.Fatal("expected miss for unknown wallet")
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(10, WithClock(clock.Now))

	store.Put("w1", records("old"))
	clock.Advance(10 * time.Second)
	store.Put("w1", records("new1", "new2"))

	got, ok := store.GetFresh("w1", 15*time.Second)
	if !ok {
		t.Fatal("expected fresh data after overwrite")
	}
	if len(got) != 2 {
		t.Fatalf("expected overwritten records, got %d", len(got))
	}
}

func TestStore_EmptyResultIsCached(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(10, WithClock(clock.Now))

	store.Put("w1", []domain.TransactionRecord{})

	got, ok := store.GetFresh("w1", 15*time.Second)
	if !ok {
		t.Fatal("expected cached empty sequence to count as fresh")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty records, got %d", len(got))
	}
}

func TestStore_Cooldown(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(10, WithClock(clock.Now))

	now := clock.Now()
	store.EnterCooldown("w1", now, 45*time.Second)

	if !store.InCooldown("w1", now) {
		t.Fatal("expected cooldown immediately after entering")
	}
	if !store.InCooldown("w1", now.Add(44*time.Second)) {
		t.Fatal("expected cooldown just before deadline")
	}
	if store.InCooldown("w1", now.Add(45*time.Second)) {
		t.Fatal("expected cooldown to expire at deadline")
	}
	if store.InCooldown("w2", now) {
		t.Fatal("cooldown must be scoped per wallet")
	}
}

func TestStore_CooldownLastWriteWins(t *testing.T) {
	store := NewStore(10)
	now := time.Unix(1700000000, 0)

	store.EnterCooldown("w1", now, 45*time.Second)
	// A later, shorter cooldown overwrites the earlier deadline.
	store.EnterCooldown("w1", now.Add(time.Second), 10*time.Second)

	if store.InCooldown("w1", now.Add(12*time.Second)) {
		t.Fatal("expected shorter rewrite to shrink the window")
	}
	if !store.InCooldown("w1", now.Add(10*time.Second)) {
		t.Fatal("expected cooldown active inside rewritten window")
	}
}

func TestStore_PutPreservesCooldown(t *testing.T) {
	store := NewStore(10)
	now := time.Unix(1700000000, 0)

	store.EnterCooldown("w1", now, 45*time.Second)
	store.Put("w1", records("a"))

	if !store.InCooldown("w1", now.Add(time.Second)) {
		t.Fatal("Put must not clear an active cooldown")
	}
}

func TestStore_EvictsLeastRecentlyTouched(t *testing.T) {
	store := NewStore(2)

	store.Put("w1", records("a"))
	store.Put("w2", records("b"))

	// Touch w1 so w2 becomes the eviction candidate.
	if _, ok := store.GetFresh("w1", time.Minute); !ok {
		t.Fatal("expected w1 fresh")
	}

	store.Put("w3", records("c"))

	if store.Len() != 2 {
		t.Fatalf("expected capacity 2, got %d", store.Len())
	}
	if _, ok := store.GetFresh("w2", time.Minute); ok {
		t.Fatal("expected w2 evicted")
	}
	if _, ok := store.GetFresh("w1", time.Minute); !ok {
		t.Fatal("expected w1 retained")
	}
}

func TestStore_ReturnedSliceIsACopy(t *testing.T) {
	store := NewStore(10)
	store.Put("w1", records("a", "b"))

	got, ok := store.GetFresh("w1", time.Minute)
	if !ok {
		t.Fatal("expected fresh data")
	}
	got[0] = json.RawMessage(`{"mutated":true}`)

	again, _ := store.GetFresh("w1", time.Minute)
	if string(again[0]) != `{"signature":"a"}` {
		t.Fatal("cached records must not alias returned slice")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore(100)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			wallet := fmt.Sprintf("w%d", n%4)
			for j := 0; j < 200; j++ {
				store.Put(wallet, records("sig"))
				store.GetFresh(wallet, time.Minute)
				store.EnterCooldown(wallet, time.Now(), time.Second)
				store.InCooldown(wallet, time.Now())
			}
		}(i)
	}
	wg.Wait()
}
