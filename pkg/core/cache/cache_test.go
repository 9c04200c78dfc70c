package cache

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache reported a hit")
	}

	c.Set("greeting", "hello")
	got, ok := c.Get("greeting")
	if !ok {
		t.Fatal("Get() after Set() reported a miss")
	}
	if got != "hello" {
		t.Errorf("Get() = %q, want %q", got, "hello")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[int](20 * time.Millisecond)

	c.Set("n", 42)
	if _, ok := c.Get("n"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("n"); ok {
		t.Error("entry still live after its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", c.Len())
	}
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := New[string](0)

	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Error("entry with zero TTL expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("k", "v")
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Get() after Delete() reported a hit")
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("k", "old")
	c.Set("k", "new")
	got, _ := c.Get("k")
	if got != "new" {
		t.Errorf("Get() = %q, want %q", got, "new")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_SetSweepsExpired(t *testing.T) {
	c := New[int](20 * time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(60 * time.Millisecond)

	c.Set("c", 3)

	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	if n != 1 {
		t.Errorf("items after sweep = %d, want 1", n)
	}
}
