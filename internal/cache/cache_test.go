package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("u1/personal:summary:2024:1", 10)
	c.Set("u1/personal:summary:2024:2", 20)

	if v, ok := c.Get("u1/personal:summary:2024:1"); !ok || v != 10 {
		t.Fatalf("expected 10, got %d (ok=%v)", v, ok)
	}

	// Third insert evicts the least recently used entry (2024:2).
	c.Set("u1/personal:summary:2024:3", 30)
	if _, ok := c.Get("u1/personal:summary:2024:2"); ok {
		t.Fatalf("expected eviction of oldest entry")
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[string](4, time.Millisecond)
	c.Set("u1/personal:k", "v")
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("u1/personal:k"); ok {
		t.Fatalf("expected expired entry")
	}
	c.Set("u1/personal:k2", "v")
	time.Sleep(5 * time.Millisecond)
	if cleaned := c.CleanExpired(); cleaned != 1 {
		t.Fatalf("expected 1 cleaned, got %d", cleaned)
	}
}

func TestLRUCacheFlushByScope(t *testing.T) {
	c := NewLRUCache[int](8, time.Minute)
	c.Set(Key("u1/personal", "summary", "2024", "1"), 1)
	c.Set(Key("u1/personal", "summary", "2024", "2"), 2)
	c.Set(Key("u1/p1", "summary", "2024", "1"), 3)

	if dropped := c.Flush("u1/personal"); dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", dropped)
	}
	if _, ok := c.Get(Key("u1/p1", "summary", "2024", "1")); !ok {
		t.Fatalf("other scope must survive the flush")
	}
}

func TestRegistryInvalidate(t *testing.T) {
	reg := NewRegistry()
	tx := NewLRUCache[int](8, time.Minute)
	an := NewLRUCache[int](8, time.Minute)
	reg.Register(RegionTransactions, tx)
	reg.Register(RegionAnalytics, an)

	tx.Set(Key("u1/personal", "list"), 1)
	an.Set(Key("u1/personal", "history"), 2)

	dropped := reg.Invalidate("u1/personal", RegionTransactions, RegionAnalytics, RegionInvestment)
	if dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", dropped)
	}
	if tx.Size() != 0 || an.Size() != 0 {
		t.Fatalf("expected empty caches")
	}
}

func TestRegionValid(t *testing.T) {
	for _, r := range AllRegions() {
		if !r.Valid() {
			t.Fatalf("region %s should be valid", r)
		}
	}
	if Region("sessions").Valid() {
		t.Fatalf("unknown region must not validate")
	}
}
