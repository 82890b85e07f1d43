// internal/app/system/ratelimit/ratelimit.go

// Package ratelimit throttles expensive requests per client and per key.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows that start at a key's
// first request. It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]window
	limit    int
	duration time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key per duration.
// Expired windows are swept every 2*duration until Close is called.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.sweep(2 * duration)
	return l
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	l.windows[key] = w
	return true
}

// Remaining returns how many requests are left for key in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// RetryAfter returns how long key must wait before its next request is
// allowed, or zero if it may proceed now.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	now := l.now()
	if !ok || now.After(w.expiresAt) || w.count < l.limit {
		return 0
	}
	return w.expiresAt.Sub(now)
}

// Reset clears the window of key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Close stops the sweeper. The limiter keeps working without it.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (comma-separated list, first is client)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr (strip port)
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// SolveLimiter rate limits optimizer runs. It tracks both a per-IP limit and
// a per-scope limit so that neither one client nor many clients together can
// queue up solves faster than the optimizer drains them.
type SolveLimiter struct {
	ipLimiter    *Limiter
	scopeLimiter *Limiter
}

// NewSolveLimiter creates a limiter configured for solve protection.
// Defaults: 6 solves per IP per minute, 20 solves per scope per minute.
func NewSolveLimiter() *SolveLimiter {
	return &SolveLimiter{
		ipLimiter:    New(6, time.Minute),
		scopeLimiter: New(20, time.Minute),
	}
}

// NewSolveLimiterWithConfig creates a solve limiter with custom limits.
func NewSolveLimiterWithConfig(ipLimit int, ipDuration time.Duration, scopeLimit int, scopeDuration time.Duration) *SolveLimiter {
	return &SolveLimiter{
		ipLimiter:    New(ipLimit, ipDuration),
		scopeLimiter: New(scopeLimit, scopeDuration),
	}
}

// Check verifies if a solve should be allowed.
// Returns (allowed, reason) where reason explains why it was blocked.
func (sl *SolveLimiter) Check(r *http.Request, scope string) (bool, string) {
	if !sl.ipLimiter.Allow(ClientIP(r)) {
		return false, "too many solve requests from this client; wait a minute before trying again"
	}
	if scope != "" && !sl.scopeLimiter.Allow(scopeKey(scope)) {
		return false, "too many solve requests for this schedule; wait a minute before trying again"
	}
	return true, ""
}

// RetryAfter returns how long the caller of r must wait before Check can
// succeed again for scope.
func (sl *SolveLimiter) RetryAfter(r *http.Request, scope string) time.Duration {
	return max(sl.ipLimiter.RetryAfter(ClientIP(r)), sl.scopeLimiter.RetryAfter(scopeKey(scope)))
}

// Close stops both sweepers.
func (sl *SolveLimiter) Close() {
	sl.ipLimiter.Close()
	sl.scopeLimiter.Close()
}

func scopeKey(scope string) string {
	return strings.ToLower(strings.TrimSpace(scope))
}
