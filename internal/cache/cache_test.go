package cache

import (
	"testing"
	"time"
)

func TestCache_ExpiresEntries(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New[int](time.Minute)
	c.now = func() time.Time { return now }

	c.SetIfGeneration("k", 42, c.Generation())

	if v, ok := c.Get("k"); !ok || v != 42 {
		t.Fatalf("got (%v, %v), want (42, true)", v, ok)
	}

	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to be expired")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[string](time.Minute)
	c.SetIfGeneration("a", "1", c.Generation())
	c.SetIfGeneration("b", "2", c.Generation())

	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected cache to be empty after Clear")
	}
}

func TestNew_DefaultsTTL(t *testing.T) {
	c := New[int](0)
	if c.ttl != 5*time.Second {
		t.Fatalf("got ttl %v, want 5s", c.ttl)
	}
}

func TestCache_SetIfGenerationSkipsAfterClear(t *testing.T) {
	c := New[string](time.Minute)

	gen := c.Generation()
	c.Clear()

	if c.SetIfGeneration("page", "stale", gen) {
		t.Fatalf("expected stale set to be rejected")
	}
	if _, ok := c.Get("page"); ok {
		t.Fatalf("stale value must not be cached")
	}

	if !c.SetIfGeneration("page", "fresh", c.Generation()) {
		t.Fatalf("expected set with current generation to succeed")
	}
	if v, ok := c.Get("page"); !ok || v != "fresh" {
		t.Fatalf("got (%v, %v), want (fresh, true)", v, ok)
	}
}
