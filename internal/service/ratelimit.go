package service

import (
	"sync"
	"time"
)

const (
	bucketSweepInterval = 5 * time.Minute
	bucketStaleAfter    = 10 * time.Minute
)

// TokenBucket is an in-memory per-key rate limiter using the token
// bucket algorithm, keyed by client address for the login and register
// endpoints. It is safe for concurrent use; stale buckets are swept by
// a background goroutine.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
	now      func() time.Time
	done     chan struct{}
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a rate limiter that allows up to capacity
// requests per key in a burst, refilling at rate tokens per second.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go tb.sweep()
	return tb
}

// Close stops the background sweeper. The limiter keeps working after
// Close; only the stale-bucket cleanup ends. Close must be called at
// most once.
func (tb *TokenBucket) Close() {
	close(tb.done)
}

// SetClock replaces the limiter's time source. Tests use this to step
// time deterministically instead of sleeping for refills.
func (tb *TokenBucket) SetClock(now func() time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.now = now
}

// Allow reports whether the given key may proceed under the rate limit.
// Each call consumes one token; an empty bucket denies the request.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// sweep periodically drops buckets that have not been touched recently,
// until Close is called.
func (tb *TokenBucket) sweep() {
	ticker := time.NewTicker(bucketSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tb.done:
			return
		case <-ticker.C:
			tb.mu.Lock()
			cutoff := tb.now().Add(-bucketStaleAfter)
			for key, b := range tb.buckets {
				if b.last.Before(cutoff) {
					delete(tb.buckets, key)
				}
			}
			tb.mu.Unlock()
		}
	}
}
