package cache

import "time"

// Layered combines a process-local TTL cache in front of a shared backend.
// Hits in the backend are promoted into the local layer with a shorter TTL
// so repeated lookups on one replica stay in memory.
type Layered struct {
	local   *TTLCache
	backend BytesCache
	// localTTL caps how long a promoted entry lives locally; the backend
	// remains the source of truth for expiry.
	localTTL time.Duration
}

func NewLayered(local *TTLCache, backend BytesCache, localTTL time.Duration) *Layered {
	if localTTL <= 0 {
		localTTL = time.Minute
	}
	return &Layered{local: local, backend: backend, localTTL: localTTL}
}

func (c *Layered) GetBytes(key string) ([]byte, bool, error) {
	if b, ok, _ := c.local.GetBytes(key); ok {
		return b, true, nil
	}
	b, ok, err := c.backend.GetBytes(key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.local.SetBytes(key, b, c.localTTL)
	return b, true, nil
}

func (c *Layered) SetBytes(key string, value []byte, ttl time.Duration) error {
	localTTL := ttl
	if localTTL <= 0 || localTTL > c.localTTL {
		localTTL = c.localTTL
	}
	_ = c.local.SetBytes(key, value, localTTL)
	return c.backend.SetBytes(key, value, ttl)
}
