// Rate limiter for the snapshot-export endpoint, the one write path the
// HTTP API exposes. Unlike a public multi-tenant API there is no set of
// distinct clients to key buckets on — every caller already holds the
// same admin bearer token. What actually needs throttling is the
// operation itself: a capture walks every alive entity and every logged
// event, then writes the result to SQLite, so two overlapping captures
// would both pay that cost for no benefit over one. SnapshotLimiter
// enforces a single global rate plus mutual exclusion: no more than
// maxRate captures may start per window, and only one may run at a time.
package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// SnapshotLimiter throttles the snapshot-export endpoint as a whole
// rather than per caller.
type SnapshotLimiter struct {
	mu        sync.Mutex
	tokens    int
	maxRate   int
	window    time.Duration
	lastReset time.Time
	inFlight  bool
}

// NewRateLimiter creates a limiter allowing maxRate snapshot captures
// per window, with at most one capture running at a time.
func NewRateLimiter(maxRate int, window time.Duration) *SnapshotLimiter {
	return &SnapshotLimiter{
		maxRate:   maxRate,
		window:    window,
		tokens:    maxRate,
		lastReset: time.Now(),
	}
}

// Allow reports whether a new capture may start now, and reserves the
// slot if so. Refused when a capture is already running or the window's
// token budget is spent. Call Release once the capture completes.
func (rl *SnapshotLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.inFlight {
		return false
	}

	now := time.Now()
	if now.Sub(rl.lastReset) >= rl.window {
		rl.tokens = rl.maxRate
		rl.lastReset = now
	}
	if rl.tokens <= 0 {
		return false
	}

	rl.tokens--
	rl.inFlight = true
	return true
}

// Release marks the in-flight capture as finished, freeing the next
// request to run.
func (rl *SnapshotLimiter) Release() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.inFlight = false
}

// RetryAfter returns how many seconds until the window's token budget
// resets.
func (rl *SnapshotLimiter) RetryAfter() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	remaining := rl.window - time.Since(rl.lastReset)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// RateLimitMiddleware wraps a handler so at most one call into it runs
// at a time, bounded by rl's window budget. Returns 429 if exceeded or
// if a capture is already in flight.
func RateLimitMiddleware(rl *SnapshotLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter()))
			http.Error(w, "snapshot capture already in progress or rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		defer rl.Release()
		next(w, r)
	}
}
