package cache

import (
	"sync"
	"time"
)

type item struct {
	val       any
	expiresAt time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// TTLCache is an in-process map cache with lazy expiry. It serves as the
// only cache when Redis is disabled and as the local layer otherwise.
type TTLCache struct {
	mu sync.RWMutex
	m  map[string]item
}

var _ BytesCache = (*TTLCache)(nil)

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]item)}
}

func (c *TTLCache) Get(key string) (any, bool) {
	now := time.Now()

	c.mu.RLock()
	it, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !it.expired(now) {
		return it.val, true
	}

	// evict, unless a writer replaced the entry in the meantime
	c.mu.Lock()
	if cur, ok := c.m[key]; ok && cur.expired(now) {
		delete(c.m, key)
	}
	c.mu.Unlock()
	return nil, false
}

// Set stores a value; ttl <= 0 means no expiry.
func (c *TTLCache) Set(key string, v any, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = item{val: v, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Delete removes a key regardless of expiry.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return b, true, nil
}

func (c *TTLCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	c.Set(key, value, ttl)
	return nil
}
