package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMemoryLimiter_AllowWithinRate(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	defer l.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "client")
		if err != nil {
			t.Fatalf("Allow() error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}

	allowed, err := l.Allow(ctx, "client")
	if err != nil {
		t.Fatalf("Allow() error: %v", err)
	}
	if allowed {
		t.Error("request over the rate allowed, want denied")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	defer l.Close()
	ctx := context.Background()

	if allowed, _ := l.Allow(ctx, "a"); !allowed {
		t.Fatal("first request for key a denied")
	}
	if allowed, _ := l.Allow(ctx, "b"); !allowed {
		t.Error("first request for key b denied; keys are not independent")
	}
}

func TestMemoryLimiter_WindowExpiry(t *testing.T) {
	l := NewMemoryLimiter(1, 20*time.Millisecond)
	defer l.Close()
	ctx := context.Background()

	if allowed, _ := l.Allow(ctx, "k"); !allowed {
		t.Fatal("first request denied")
	}
	if allowed, _ := l.Allow(ctx, "k"); allowed {
		t.Fatal("second request in window allowed")
	}

	time.Sleep(30 * time.Millisecond)

	if allowed, _ := l.Allow(ctx, "k"); !allowed {
		t.Error("request after window expiry denied")
	}
}

func TestMemoryLimiter_Reset(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	defer l.Close()
	ctx := context.Background()

	l.Allow(ctx, "k")
	if err := l.Reset(ctx, "k"); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if allowed, _ := l.Allow(ctx, "k"); !allowed {
		t.Error("request after reset denied")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.1:4321", "10.0.0.1"},
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "10.0.0.1:4321", "1.2.3.4"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "10.0.0.1:4321", "1.2.3.4"},
		{"x-real-ip", map[string]string{"X-Real-IP": "9.9.9.9"}, "10.0.0.1:4321", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWindowMember_DistinctWithinSameMicrosecond(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		m, err := windowMember(now)
		if err != nil {
			t.Fatalf("windowMember() error: %v", err)
		}
		if seen[m] {
			t.Fatal("two requests with identical timestamps produced the same member")
		}
		seen[m] = true
	}
}

// failingLimiter always errors, simulating an unreachable backend.
type failingLimiter struct{}

func (failingLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return false, errors.New("backend down")
}
func (failingLimiter) Reset(ctx context.Context, key string) error { return nil }
func (failingLimiter) Close() error                                { return nil }

func TestMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limited := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("denies over rate", func(t *testing.T) {
		l := NewMemoryLimiter(1, time.Minute)
		defer l.Close()
		handler := Middleware(l, logger, limited)(next)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1000"

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("first request status = %d, want 200", w.Code)
		}

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("second request status = %d, want 429", w.Code)
		}
	})

	t.Run("degrades open on limiter failure", func(t *testing.T) {
		handler := Middleware(failingLimiter{}, logger, limited)(next)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 when limiter fails", w.Code)
		}
	})
}
