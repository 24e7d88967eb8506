package policy

import (
	"testing"

	"tasktrack/internal/store"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want string
	}{
		{"admin", "admin", RoleAdmin},
		{"user", "user", RoleUser},
		{"empty", "", RoleUser},
		{"unknown role", "superadmin", RoleUser},
		{"case sensitive", "Admin", RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRole(tt.role); got != tt.want {
				t.Errorf("NormalizeRole(%q) = %q, want %q", tt.role, got, tt.want)
			}
		})
	}
}

func TestAuthorize_AdminAllowsEverything(t *testing.T) {
	admin := Identity{UserID: "admin1", Role: RoleAdmin}
	task := &store.Task{ID: "t1", OwnerID: "someone-else"}

	resources := map[string]Resource{
		"foreign task": TaskResource(task, true),
		"orphan task":  TaskResource(&store.Task{ID: "t2", OwnerID: "deleted"}, false),
		"user record":  UserResource(),
	}

	for name, res := range resources {
		for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete} {
			d := Authorize(admin, action, res)
			if !d.Allowed {
				t.Errorf("Authorize(admin, %s, %s) denied with %q, want allow", action, name, d.Reason)
			}
		}
	}
}

func TestAuthorize_OwnerMayActOnOwnTask(t *testing.T) {
	owner := Identity{UserID: "u1", Role: RoleUser}
	task := &store.Task{ID: "t1", OwnerID: "u1"}

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete} {
		d := Authorize(owner, action, TaskResource(task, true))
		if !d.Allowed {
			t.Errorf("Authorize(owner, %s, own task) denied with %q, want allow", action, d.Reason)
		}
	}
}

func TestAuthorize_NonOwnerDeniedOnForeignTask(t *testing.T) {
	stranger := Identity{UserID: "u2", Role: RoleUser}
	task := &store.Task{ID: "t1", OwnerID: "u1"}

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete} {
		d := Authorize(stranger, action, TaskResource(task, true))
		if d.Allowed {
			t.Errorf("Authorize(stranger, %s, foreign task) allowed, want deny", action)
		}
		if d.Reason != ReasonNotOwner {
			t.Errorf("deny reason = %q, want %q", d.Reason, ReasonNotOwner)
		}
	}
}

func TestAuthorize_OrphanTaskFailsClosed(t *testing.T) {
	// A task whose owner was deleted is owned by nobody; non-admins are
	// always denied, even when their own ID happens to be empty.
	orphan := &store.Task{ID: "t1", OwnerID: ""}

	d := Authorize(Identity{UserID: "u1", Role: RoleUser}, ActionUpdate, TaskResource(orphan, false))
	if d.Allowed {
		t.Fatal("non-admin allowed on orphan task, want deny")
	}
	if d.Reason != ReasonNotOwner {
		t.Errorf("deny reason = %q, want %q", d.Reason, ReasonNotOwner)
	}

	d = Authorize(Identity{UserID: "", Role: RoleUser}, ActionUpdate, TaskResource(orphan, false))
	if d.Allowed {
		t.Fatal("identity with empty ID allowed on orphan task, want deny")
	}
}

func TestAuthorize_DeletedOwnerTokenDenied(t *testing.T) {
	// The deleted owner's still-valid token carries their old user ID,
	// which matches the orphan's owner reference. The reference no
	// longer resolves, so ownership must fail closed anyway.
	orphan := &store.Task{ID: "t1", OwnerID: "u1"}
	ghost := Identity{UserID: "u1", Role: RoleUser}

	for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete} {
		d := Authorize(ghost, action, TaskResource(orphan, false))
		if d.Allowed {
			t.Errorf("Authorize(deleted owner, %s, orphan task) allowed, want deny", action)
		}
		if d.Reason != ReasonNotOwner {
			t.Errorf("deny reason = %q, want %q", d.Reason, ReasonNotOwner)
		}
	}
}

func TestAuthorize_UserManagementIsAdminOnly(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
	}{
		{"plain user", Identity{UserID: "u1", Role: RoleUser}},
		{"unknown role", Identity{UserID: "u1", Role: "moderator"}},
		{"empty role", Identity{UserID: "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range []Action{ActionRead, ActionUpdate, ActionDelete} {
				d := Authorize(tt.id, action, UserResource())
				if d.Allowed {
					t.Errorf("Authorize(%s, %s, user resource) allowed, want deny", tt.name, action)
				}
				if d.Reason != ReasonAdminOnly {
					t.Errorf("deny reason = %q, want %q", d.Reason, ReasonAdminOnly)
				}
			}
		})
	}
}

func TestAuthorize_UnknownRoleGetsLeastPrivilege(t *testing.T) {
	// A role outside {user, admin} must behave exactly like "user".
	odd := Identity{UserID: "u1", Role: "root"}

	own := &store.Task{ID: "t1", OwnerID: "u1"}
	if d := Authorize(odd, ActionUpdate, TaskResource(own, true)); !d.Allowed {
		t.Error("unknown role denied on own task, want owner semantics")
	}

	foreign := &store.Task{ID: "t2", OwnerID: "u2"}
	if d := Authorize(odd, ActionUpdate, TaskResource(foreign, true)); d.Allowed {
		t.Error("unknown role allowed on foreign task, want deny")
	}
}

func TestListScope(t *testing.T) {
	admin := Identity{UserID: "a1", Role: RoleAdmin}
	if got := ListScope(admin); got.OwnerID != "" {
		t.Errorf("admin scope = %+v, want unfiltered", got)
	}

	user := Identity{UserID: "u1", Role: RoleUser}
	if got := ListScope(user); got.OwnerID != "u1" {
		t.Errorf("user scope = %+v, want owner filter on u1", got)
	}

	odd := Identity{UserID: "u2", Role: "owner"}
	if got := ListScope(odd); got.OwnerID != "u2" {
		t.Errorf("unknown-role scope = %+v, want owner filter on u2", got)
	}
}
