// Package store defines the persistence model and interfaces for tasktrack.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// User is a registered account. The password hash never leaves the
// authentication layer: it is excluded from JSON serialization.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Task is a unit of work owned by exactly one user. OwnerID references
// a User by ID; the reference is validated at creation time only, so a
// task may outlive its owner (see policy package for how orphans are
// treated).
type Task struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     string    `json:"owner" bson:"owner"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// TaskFilter restricts a task listing. A zero filter matches everything.
// Filtering happens inside the store query, never by post-filtering a
// full fetch.
type TaskFilter struct {
	// OwnerID, when non-empty, limits results to tasks owned by that user.
	OwnerID string
}

// UserStore persists user records. Email uniqueness is an invariant
// enforced by the store: CreateUser returns ErrDuplicateEmail when the
// email is already taken.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUserRole(ctx context.Context, id, role string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}

// TaskStore persists task records.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id string) error
}

// Store is the full persistence interface the application is wired with.
type Store interface {
	UserStore
	TaskStore

	// Migrate creates indexes or schema required by the backend.
	Migrate(ctx context.Context) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close(ctx context.Context) error
}
