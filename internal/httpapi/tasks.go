package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tasktrack/internal/policy"
	"tasktrack/internal/store"
)

// taskResource builds the policy resource for a task, resolving whether
// its owner reference still points at an existing user. A task whose
// owner was deleted is owned by nobody, so a still-valid token carrying
// the deleted owner's ID fails the ownership check.
func (h *Handler) taskResource(ctx context.Context, task *store.Task) (policy.Resource, error) {
	if task.OwnerID == "" {
		return policy.TaskResource(task, false), nil
	}
	_, err := h.store.GetUser(ctx, task.OwnerID)
	if errors.Is(err, store.ErrNotFound) {
		return policy.TaskResource(task, false), nil
	}
	if err != nil {
		return policy.Resource{}, err
	}
	return policy.TaskResource(task, true), nil
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
}

// updateTaskRequest uses pointers so absent fields are distinguishable
// from fields set to the empty string.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Owner       *string `json:"owner"`
}

// CreateTask handles POST /api/v1/tasks. Ownership defaults to the
// caller; only administrators may assign a task to someone else, and
// the assignee must exist.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		fail(w, http.StatusBadRequest, "title is required")
		return
	}

	owner := id.UserID
	if req.Owner != "" && req.Owner != id.UserID {
		if !id.IsAdmin() {
			forbid(w, policy.ReasonNotOwner)
			return
		}
		owner = req.Owner
	}

	// The owner reference must resolve at creation time. When it is the
	// caller's own ID that fails to resolve, the account behind the
	// still-valid token is gone.
	if _, err := h.store.GetUser(r.Context(), owner); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if owner == id.UserID {
				fail(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			fail(w, http.StatusBadRequest, "owner does not exist")
			return
		}
		h.error(w, r, err)
		return
	}

	now := time.Now()
	task := &store.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateTask(r.Context(), task); err != nil {
		h.error(w, r, err)
		return
	}

	respond(w, http.StatusCreated, "task", task)
}

// ListTasks handles GET /api/v1/tasks. Scoping happens in the query
// itself: non-admins never receive rows they do not own.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tasks, err := h.store.ListTasks(r.Context(), policy.ListScope(id))
	if err != nil {
		h.error(w, r, err)
		return
	}

	respond(w, http.StatusOK, "tasks", tasks)
}

// GetTask handles GET /api/v1/tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task, err := h.store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, r, err)
		return
	}

	res, err := h.taskResource(r.Context(), task)
	if err != nil {
		h.error(w, r, err)
		return
	}
	if d := policy.Authorize(id, policy.ActionRead, res); !d.Allowed {
		forbid(w, d.Reason)
		return
	}

	respond(w, http.StatusOK, "task", task)
}

// UpdateTask handles PUT /api/v1/tasks/{id}. Existence is checked
// before authorization, so a missing task is a 404 even for callers
// who could never have touched it.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, r, err)
		return
	}

	res, err := h.taskResource(r.Context(), task)
	if err != nil {
		h.error(w, r, err)
		return
	}
	if d := policy.Authorize(id, policy.ActionUpdate, res); !d.Allowed {
		forbid(w, d.Reason)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			fail(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Owner != nil && *req.Owner != task.OwnerID {
		if !id.IsAdmin() {
			forbid(w, policy.ReasonAdminOnly)
			return
		}
		if _, err := h.store.GetUser(r.Context(), *req.Owner); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(w, http.StatusBadRequest, "owner does not exist")
				return
			}
			h.error(w, r, err)
			return
		}
		task.OwnerID = *req.Owner
	}
	task.UpdatedAt = time.Now()

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		h.error(w, r, err)
		return
	}

	respond(w, http.StatusOK, "task", task)
}

// DeleteTask handles DELETE /api/v1/tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task, err := h.store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, r, err)
		return
	}

	res, err := h.taskResource(r.Context(), task)
	if err != nil {
		h.error(w, r, err)
		return
	}
	if d := policy.Authorize(id, policy.ActionDelete, res); !d.Allowed {
		forbid(w, d.Reason)
		return
	}

	if err := h.store.DeleteTask(r.Context(), task.ID); err != nil {
		h.error(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "task deleted")
}
