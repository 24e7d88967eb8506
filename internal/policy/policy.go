// Package policy implements the authorization and ownership rules for
// tasktrack. Every resource handler consults the single Authorize
// decision before touching the store, so the admin-or-owner rule lives
// in exactly one place.
package policy

import (
	"tasktrack/internal/store"
)

// Roles recognized by the policy.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NormalizeRole maps arbitrary role strings to a recognized role.
// Anything that is not exactly RoleAdmin or RoleUser degrades to
// RoleUser: unknown roles must never grant unintended access.
func NormalizeRole(role string) string {
	switch role {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Identity is the authenticated caller, as asserted by a verified token.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return NormalizeRole(id.Role) == RoleAdmin
}

// Action is the operation an identity wants to perform on a resource.
type Action string

// Actions subject to authorization.
const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// DenyReason explains why a decision denied access.
type DenyReason string

// Deny reasons.
const (
	// ReasonNotOwner: the task belongs to another user (or to nobody).
	ReasonNotOwner DenyReason = "not_owner"

	// ReasonAdminOnly: user management requires the admin role.
	ReasonAdminOnly DenyReason = "admin_only"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the permitting decision.
var Allow = Decision{Allowed: true}

// Deny constructs a denying decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// resourceKind distinguishes the two resource families the policy knows.
type resourceKind int

const (
	kindTask resourceKind = iota
	kindUser
)

// Resource is the target of an authorization check.
type Resource struct {
	kind    resourceKind
	ownerID string
}

// TaskResource wraps a task for an authorization check. ownerExists
// reports whether the task's owner reference still resolves to a user;
// a task whose owner is gone is owned by nobody, even when the owner ID
// happens to match the caller's.
func TaskResource(task *store.Task, ownerExists bool) Resource {
	if !ownerExists {
		return Resource{kind: kindTask}
	}
	return Resource{kind: kindTask, ownerID: task.OwnerID}
}

// UserResource represents any user-management target. Individual user
// records carry no ownership: only admins may act on them.
func UserResource() Resource {
	return Resource{kind: kindUser}
}

// Authorize decides whether the identity may perform the action on the
// resource. Rules are evaluated in order, first match wins:
//
//  1. Admins may do anything to any resource.
//  2. A task's owner may read, update, and delete that task, provided
//     the owner reference still resolves.
//  3. Any other access to a task is denied as ReasonNotOwner. A task
//     whose owner no longer resolves is owned by nobody and fails
//     closed here, including for the deleted owner's own still-valid
//     tokens.
//  4. User-management actions by non-admins are denied as
//     ReasonAdminOnly.
//
// Authorize is a pure function: it performs no I/O and no mutation.
func Authorize(id Identity, action Action, res Resource) Decision {
	if id.IsAdmin() {
		return Allow
	}

	if res.kind == kindTask {
		if res.ownerID != "" && res.ownerID == id.UserID {
			return Allow
		}
		return Deny(ReasonNotOwner)
	}

	return Deny(ReasonAdminOnly)
}

// ListScope returns the task filter a listing must apply for the
// identity: admins see everything, everyone else sees only their own
// tasks. The filter is applied at the store query, not by discarding
// rows after a full fetch.
func ListScope(id Identity) store.TaskFilter {
	if id.IsAdmin() {
		return store.TaskFilter{}
	}
	return store.TaskFilter{OwnerID: id.UserID}
}
