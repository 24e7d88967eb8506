// Package memory provides an in-memory store implementation for testing
// and development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tasktrack/internal/store"
)

// Store is an in-memory implementation of the store.Store interface.
// All state is lost on process exit.
type Store struct {
	mu sync.RWMutex

	users   map[string]*store.User // keyed by ID
	byEmail map[string]string      // email -> ID
	tasks   map[string]*store.Task // keyed by ID
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		users:   make(map[string]*store.User),
		byEmail: make(map[string]string),
		tasks:   make(map[string]*store.Task),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(ctx context.Context) error {
	return nil
}

// Ping checks if the store is available.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close releases resources held by the store.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// CreateUser stores a new user, enforcing email uniqueness.
func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return store.ErrDuplicateEmail
	}

	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[key] = user.ID
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[emailKey(email)]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

// ListUsers returns all users ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*store.User, 0, len(s.users))
	for _, user := range s.users {
		cp := *user
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateUserRole sets a user's role and returns the updated record.
func (s *Store) UpdateUserRole(ctx context.Context, id, role string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	cp := *user
	return &cp, nil
}

// DeleteUser removes a user by ID. Tasks owned by the user are left in
// place; they become orphans.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return store.ErrNotFound
	}
	delete(s.users, id)
	delete(s.byEmail, emailKey(user.Email))
	return nil
}

// CreateTask stores a new task.
func (s *Store) CreateTask(ctx context.Context, task *store.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*store.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	cp := *task
	return &cp, nil
}

// ListTasks returns tasks matching the filter, ordered by creation time.
func (s *Store) ListTasks(ctx context.Context, filter store.TaskFilter) ([]*store.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*store.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.OwnerID != "" && task.OwnerID != filter.OwnerID {
			continue
		}
		cp := *task
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateTask replaces a stored task. Last write wins.
func (s *Store) UpdateTask(ctx context.Context, task *store.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; !exists {
		return store.ErrNotFound
	}
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// emailKey normalizes an email for uniqueness checks.
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
