package cache

import (
	"testing"
	"time"
)

func TestGetSetInvalidate(t *testing.T) {
	c := New[string, int](time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("unexpected hit on empty cache")
	}

	c.Set("a", 42)
	if got, ok := c.Get("a"); !ok || got != 42 {
		t.Fatalf("Get(a) = %d, %v", got, ok)
	}

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("entry survived invalidation")
	}
}

func TestExpiry(t *testing.T) {
	c := New[string, int](time.Millisecond)
	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expired entry served")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *TTLCache[string, int]
	c.Set("a", 1)
	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("nil cache returned a value")
	}
}
