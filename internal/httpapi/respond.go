package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"tasktrack/internal/auth"
	"tasktrack/internal/policy"
	"tasktrack/internal/store"
)

// envelope is the uniform response shape:
// {"success": true, "<resource>": ...} or
// {"success": false, "message": "..."}.
type envelope map[string]any

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respond writes a success envelope carrying one named resource.
func respond(w http.ResponseWriter, status int, key string, v any) {
	writeJSON(w, status, envelope{"success": true, key: v})
}

// respondMessage writes a success envelope with a human-readable message.
func respondMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"success": true, "message": msg})
}

// fail writes a failure envelope.
func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"success": false, "message": msg})
}

// forbid writes a 403 with the message for a policy denial.
func forbid(w http.ResponseWriter, reason policy.DenyReason) {
	switch reason {
	case policy.ReasonAdminOnly:
		fail(w, http.StatusForbidden, "admin access required")
	default:
		fail(w, http.StatusForbidden, "not authorized")
	}
}

// error maps a service or store error onto the HTTP taxonomy. Anything
// unrecognized is a 500 whose details are logged server-side and never
// sent to the client.
func (h *Handler) error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case auth.IsInputError(err):
		fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		fail(w, http.StatusUnauthorized, err.Error())
	case auth.IsTokenError(err):
		fail(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, store.ErrDuplicateEmail):
		fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		fail(w, http.StatusNotFound, "not found")
	default:
		h.logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		fail(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
