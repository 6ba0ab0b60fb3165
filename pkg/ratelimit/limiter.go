package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key (client IP, account id).
type RateLimiter struct {
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	ttl     time.Duration // Time to keep inactive buckets
	mu      sync.Mutex
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter
// perMinute: sustained requests allowed per minute per key
// burst: maximum number of requests allowed in a burst per key
func NewRateLimiter(perMinute float64, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perMinute / 60.0),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Allow reports whether a request for key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	now := rl.now()
	b, exists := rl.buckets[key]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Cleanup removes buckets idle for longer than the TTL and returns how many
// were dropped.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.ttl {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every TTL until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	if rl.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(rl.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

// ActiveBuckets returns the number of tracked keys
func (rl *RateLimiter) ActiveBuckets() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}
