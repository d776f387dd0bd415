// Package middleware wraps the HTTP surface with request throttling.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"placeserve/internal/metrics"
)

// TokenBucket is a per-second bucket refilled on the wall-clock second
// boundary. Requests beyond capacity are dropped with 429, not queued.
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	mu       sync.Mutex
}

func NewTokenBucket(capacity int) *TokenBucket {
	return &TokenBucket{capacity: capacity, tokens: capacity}
}

func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := time.Now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit throttles the wrapped handler to capacity requests per
// second. A capacity of zero or less disables limiting entirely.
func RateLimit(capacity int, next http.Handler) http.Handler {
	if capacity <= 0 {
		return next
	}
	tb := NewTokenBucket(capacity)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.allow() {
			metrics.RateLimitedTotal.Inc()
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
