// Package testutil provides testing utilities for tasktrack.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"

	"tasktrack/internal/store"
	mongostore "tasktrack/internal/store/mongo"
)

// SetupMongo starts a MongoDB testcontainer and returns a connected,
// migrated store. The container is cleaned up when the test finishes.
func SetupMongo(t testing.TB) store.Store {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MongoDB container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	s, err := mongostore.New(ctx, &mongostore.Config{
		URI:      uri,
		Database: "tasktrack_test",
	})
	if err != nil {
		t.Fatalf("Failed to create MongoDB store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(context.Background()); err != nil {
			t.Logf("Failed to close store: %v", err)
		}
	})

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	return s
}
