package cache

import (
	"sync"
	"time"
)

// Cache is a small TTL map. Expired entries are dropped lazily on Get.
type Cache[V any] struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	m   map[string]entry[V]
	gen uint64
}

type entry[V any] struct {
	val V
	exp time.Time
}

func New[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache[V]{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry[V]),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return zero, false
	}

	return e.val, true
}

// Generation changes on every Clear. Readers take it before loading a value
// and hand it to SetIfGeneration.
func (c *Cache[V]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetIfGeneration stores val only if no Clear happened since gen was taken,
// so a load that raced a write cannot put the pre-write value back.
func (c *Cache[V]) SetIfGeneration(key string, val V, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.m[key] = entry[V]{val: val, exp: c.now().Add(c.ttl)}
	return true
}

// Clear drops every entry; writes call it since any write can change any page.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry[V])
	c.gen++
	c.mu.Unlock()
}
