// Package httpapi implements the REST surface of tasktrack. Every
// handler follows the same sequence: resolve identity, fetch the target
// if the action is by-id, consult the authorization policy, then touch
// the store and shape the response.
package httpapi

import (
	"log/slog"

	"tasktrack/internal/auth"
	"tasktrack/internal/store"
)

// Handler carries the dependencies shared by all resource handlers.
type Handler struct {
	auth   *auth.Service
	store  store.Store
	logger *slog.Logger
}

// NewHandler creates the resource handler set.
func NewHandler(authSvc *auth.Service, st store.Store, logger *slog.Logger) *Handler {
	return &Handler{
		auth:   authSvc,
		store:  st,
		logger: logger,
	}
}
