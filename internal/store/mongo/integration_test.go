package mongo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasktrack/internal/store"
	"tasktrack/internal/testutil"
)

// These tests need Docker; run with -short to skip them.

func TestMongoStore_Users(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}

	s := testutil.SetupMongo(t)
	ctx := context.Background()
	now := time.Now()

	user := &store.User{
		ID:        "u1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Role:      "user",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}

	// Duplicate email is rejected by the unique index.
	dup := *user
	dup.ID = "u2"
	if err := s.CreateUser(ctx, &dup); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("CreateUser(duplicate) error = %v, want ErrDuplicateEmail", err)
	}

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("GetUserByEmail().ID = %q, want u1", got.ID)
	}

	updated, err := s.UpdateUserRole(ctx, "u1", "admin")
	if err != nil {
		t.Fatalf("UpdateUserRole() error: %v", err)
	}
	if updated.Role != "admin" {
		t.Errorf("updated role = %q, want admin", updated.Role)
	}

	if err := s.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUser() error: %v", err)
	}
	if _, err := s.GetUser(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUser(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestMongoStore_TaskScoping(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}

	s := testutil.SetupMongo(t)
	ctx := context.Background()
	now := time.Now()

	for i, owner := range []string{"u1", "u2", "u1"} {
		task := &store.Task{
			ID:        "t" + string(rune('1'+i)),
			Title:     "Task",
			OwnerID:   owner,
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
			UpdatedAt: now,
		}
		if err := s.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask() error: %v", err)
		}
	}

	all, err := s.ListTasks(ctx, store.TaskFilter{})
	if err != nil {
		t.Fatalf("ListTasks() error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered list length = %d, want 3", len(all))
	}

	mine, err := s.ListTasks(ctx, store.TaskFilter{OwnerID: "u1"})
	if err != nil {
		t.Fatalf("ListTasks(owner) error: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("owner-filtered list length = %d, want 2", len(mine))
	}

	task := mine[0]
	task.Title = "renamed"
	if err := s.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask() error: %v", err)
	}
	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "renamed" {
		t.Errorf("title after update = %q, want renamed", got.Title)
	}

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask() error: %v", err)
	}
	if err := s.DeleteTask(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteTask(deleted) error = %v, want ErrNotFound", err)
	}
}
