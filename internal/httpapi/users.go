package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tasktrack/internal/policy"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// requireAdmin consults the policy for a user-management action and
// writes the denial if the caller is not allowed. It returns false if
// the request has already been answered.
func requireAdmin(w http.ResponseWriter, r *http.Request, action policy.Action) bool {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if d := policy.Authorize(id, action, policy.UserResource()); !d.Allowed {
		forbid(w, d.Reason)
		return false
	}
	return true
}

// ListUsers handles GET /api/v1/users. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, policy.ActionRead) {
		return
	}

	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.error(w, r, err)
		return
	}

	respond(w, http.StatusOK, "users", users)
}

// GetUser handles GET /api/v1/users/{id}. Admin only.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, policy.ActionRead) {
		return
	}

	user, err := h.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, r, err)
		return
	}

	respond(w, http.StatusOK, "user", user)
}

// CreateUser handles POST /api/v1/users. Admin only. The password is
// optional; accounts created without one cannot log in.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, policy.ActionUpdate) {
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.CreateAccount(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		h.error(w, r, err)
		return
	}

	respond(w, http.StatusCreated, "user", user)
}

// UpdateUserRole handles PATCH /api/v1/users/{id}. Admin only. Only the
// role can change through this endpoint, and it must be a known role.
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, policy.ActionUpdate) {
		return
	}

	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role != policy.RoleUser && req.Role != policy.RoleAdmin {
		fail(w, http.StatusBadRequest, "role must be \"user\" or \"admin\"")
		return
	}

	user, err := h.store.UpdateUserRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		h.error(w, r, err)
		return
	}

	respond(w, http.StatusOK, "user", user)
}

// DeleteUser handles DELETE /api/v1/users/{id}. Admin only. Tasks owned
// by the deleted user are left in place; with their owner gone they
// become reachable only by administrators.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, policy.ActionDelete) {
		return
	}

	if err := h.store.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.error(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "user deleted")
}
