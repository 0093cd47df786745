package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](time.Minute)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set(ctx, "a", 1)
	v, ok := c.Get(ctx, "a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](time.Minute)

	now := time.Unix(1_700_000_000, 0)
	c.nowFn = func() time.Time { return now }

	c.Set(ctx, "a", 1)

	now = now.Add(59 * time.Second)
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not evicted, len = %d", c.Len())
	}
}

func TestCache_StaleWriteDoesNotOverwriteNewer(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](time.Minute)

	now := time.Unix(1_700_000_000, 0)
	c.nowFn = func() time.Time { return now }

	c.SetAt(ctx, "a", 2, now)
	// A fetch that started earlier finishes late and tries to write.
	c.SetAt(ctx, "a", 1, now.Add(-10*time.Second))

	v, _ := c.Get(ctx, "a")
	if v != 2 {
		t.Fatalf("stale write overwrote newer value: got %d, want 2", v)
	}
}

func TestCache_SweepDropsIdleEntries(t *testing.T) {
	ctx := context.Background()
	c := New[int, int](time.Second)

	now := time.Unix(1_700_000_000, 0)
	c.nowFn = func() time.Time { return now }

	for i := 0; i < sweepThreshold; i++ {
		c.Set(ctx, i, i)
	}

	// All entries are now expired and idle well past 5x TTL; the next Set
	// pushes the cache over the threshold and triggers the sweep.
	now = now.Add(time.Minute)
	c.Set(ctx, sweepThreshold, 0)

	if c.Len() != 1 {
		t.Fatalf("sweep kept %d entries, want 1", c.Len())
	}
}
