package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tasktrack/internal/auth"
	"tasktrack/internal/ratelimit"
	"tasktrack/internal/store"
	"tasktrack/web"
)

// Config wires the router's dependencies.
type Config struct {
	Auth    *auth.Service
	Store   store.Store
	Logger  *slog.Logger
	Limiter ratelimit.Limiter // nil disables rate limiting
}

// NewRouter builds the full HTTP surface: the JSON API under /api/v1,
// a health endpoint, and the embedded web client on everything else.
func NewRouter(cfg Config) http.Handler {
	h := NewHandler(cfg.Auth, cfg.Store, cfg.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Recoverer(cfg.Logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			fail(w, http.StatusNotFound, "not found")
		})

		r.Group(func(r chi.Router) {
			if cfg.Limiter != nil {
				r.Use(ratelimit.Middleware(cfg.Limiter, cfg.Logger, tooManyRequests))
			}
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(cfg.Auth))

			r.Get("/auth/me", h.Me)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", h.CreateTask)
				r.Get("/", h.ListTasks)
				r.Get("/{id}", h.GetTask)
				r.Put("/{id}", h.UpdateTask)
				r.Delete("/{id}", h.DeleteTask)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.Get("/{id}", h.GetUser)
				r.Patch("/{id}", h.UpdateUserRole)
				r.Delete("/{id}", h.DeleteUser)
			})
		})
	})

	r.Get("/healthz", h.Health)

	r.Handle("/*", web.Handler())

	return r
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		fail(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	respondMessage(w, http.StatusOK, "ok")
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	fail(w, http.StatusTooManyRequests, "too many requests")
}
