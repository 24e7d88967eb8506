// Package ratelimit provides per-client rate limiting for the
// authentication endpoints.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Limiter defines the interface for rate limiters.
type Limiter interface {
	// Allow checks if a request is allowed for the given key.
	Allow(ctx context.Context, key string) (bool, error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error

	// Close releases any resources held by the limiter.
	Close() error
}

// GetClientIP extracts the client IP from an HTTP request, preferring
// proxy headers over the socket address.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
		if addr[i] == ']' {
			break
		}
	}
	return addr
}

// entry tracks the request count for one key within a window.
type entry struct {
	count    int
	windowAt time.Time
}

// MemoryLimiter is an in-process fixed-window rate limiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	rate    int
	window  time.Duration
	done    chan struct{}
}

// NewMemoryLimiter creates an in-memory limiter allowing rate requests
// per window. Expired entries are swept by a background goroutine until
// Close is called.
func NewMemoryLimiter(rate int, window time.Duration) *MemoryLimiter {
	ml := &MemoryLimiter{
		entries: make(map[string]*entry),
		rate:    rate,
		window:  window,
		done:    make(chan struct{}),
	}
	go ml.sweep()
	return ml
}

// Allow checks if a request is allowed for the given key.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	e, exists := m.entries[key]
	if !exists || now.After(e.windowAt) {
		m.entries[key] = &entry{count: 1, windowAt: now.Add(m.window)}
		return m.rate >= 1, nil
	}

	if e.count >= m.rate {
		return false, nil
	}
	e.count++
	return true, nil
}

// Reset clears the rate limit state for the given key.
func (m *MemoryLimiter) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Close stops the sweep goroutine.
func (m *MemoryLimiter) Close() error {
	close(m.done)
	return nil
}

func (m *MemoryLimiter) sweep() {
	ticker := time.NewTicker(m.window)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for key, e := range m.entries {
				if now.After(e.windowAt) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Middleware applies per-client-IP rate limiting. When the limiter
// itself fails (for example Redis is down) the request is allowed
// through: rate limiting degrades open, authentication does not.
func Middleware(limiter Limiter, logger *slog.Logger, onLimited http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := GetClientIP(r)
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limit check failed", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				onLimited(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Ensure MemoryLimiter implements Limiter.
var _ Limiter = (*MemoryLimiter)(nil)
