package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tasktrack/internal/policy"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

// identityKey is the context key for the authenticated identity.
const identityKey contextKey = "tasktrack_identity"

// SetIdentity stores the verified identity in the request context.
func SetIdentity(ctx context.Context, id policy.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity set by Authenticate.
func IdentityFromContext(ctx context.Context) (policy.Identity, bool) {
	id, ok := ctx.Value(identityKey).(policy.Identity)
	return id, ok
}

// TokenVerifier validates a bearer token and returns the identity it
// asserts.
type TokenVerifier interface {
	Verify(token string) (policy.Identity, error)
}

// Authenticate rejects requests without a valid bearer token. Missing,
// expired, and malformed tokens all get the same generic 401; the
// reason is never surfaced to the caller.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				fail(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			id, err := verifier.Verify(token)
			if err != nil {
				fail(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), id)))
		})
	}
}

// extractBearer pulls the token out of an Authorization header.
func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// Recoverer is the single top-level boundary for unexpected failures:
// panics are logged and converted to a generic 500 so internal details
// never leak to the client.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic in handler",
						"method", r.Method, "path", r.URL.Path, "panic", rec)
					fail(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one line per request with method, path, status,
// and duration.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start),
			)
		})
	}
}

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
