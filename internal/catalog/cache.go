package catalog

import (
	"sync"
	"time"
)

// Cache is the short-TTL storefront snapshot. It lives in process memory:
// any catalog write must Invalidate so the next read rebuilds.
type Cache struct {
	mu       sync.Mutex
	snapshot []StorefrontProduct
	expiry   time.Time
	ttl      time.Duration
	clock    func() time.Time
}

// NewCache builds a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 900 * time.Second
	}
	return &Cache{ttl: ttl, clock: time.Now}
}

// SetClock overrides the time source, used by tests.
func (c *Cache) SetClock(clock func() time.Time) {
	if clock != nil {
		c.clock = clock
	}
}

// Get returns the snapshot and true on a hit. An expired or invalidated
// snapshot is a miss.
func (c *Cache) Get() ([]StorefrontProduct, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil || !c.clock().Before(c.expiry) {
		return nil, false
	}
	return c.snapshot, true
}

// Set replaces the snapshot and restarts the TTL.
func (c *Cache) Set(snapshot []StorefrontProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
	c.expiry = c.clock().Add(c.ttl)
}

// Invalidate drops the snapshot so the next read repopulates it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
