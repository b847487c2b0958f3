package ratelimit

import (
	"sync"
	"time"
)

// pruneAfter is how long an untouched bucket survives. Keys are derived
// from client IPs, so the map would otherwise grow without bound.
const pruneAfter = 10 * time.Minute

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a keyed token bucket. Each key gets its own bucket sized on
// first use; capacity and refill travel with the call so different routes
// can share one limiter with different budgets.
type Limiter struct {
	mu        sync.Mutex
	m         map[string]*bucket
	lastPrune time.Time
}

func New() *Limiter {
	return &Limiter{m: make(map[string]*bucket), lastPrune: time.Now()}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > pruneAfter {
		l.prune(now)
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// prune drops buckets idle past the cutoff; caller holds the lock.
func (l *Limiter) prune(now time.Time) {
	for k, b := range l.m {
		if now.Sub(b.last) > pruneAfter {
			delete(l.m, k)
		}
	}
	l.lastPrune = now
}
