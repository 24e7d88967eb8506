// Command server runs the tasktrack HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"tasktrack/internal/auth"
	"tasktrack/internal/config"
	"tasktrack/internal/httpapi"
	"tasktrack/internal/password"
	"tasktrack/internal/ratelimit"
	"tasktrack/internal/store"
	"tasktrack/internal/store/memory"
	mongostore "tasktrack/internal/store/mongo"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(*configPath, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	logger.Info("store ready", "driver", cfg.Store.Driver)

	limiter := newLimiter(cfg)
	if limiter != nil {
		defer limiter.Close()
	}

	authSvc := auth.NewService(&auth.Config{
		Secret:    cfg.Secret,
		TokenTTL:  time.Duration(cfg.TokenTTL),
		ClockSkew: time.Duration(cfg.ClockSkew),
	}, st, password.NewBcryptHasher(cfg.BcryptCost))

	router := httpapi.NewRouter(httpapi.Config{
		Auth:    authSvc,
		Store:   st,
		Logger:  logger,
		Limiter: limiter,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// openStore selects the persistence backend from configuration.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "mongo":
		return mongostore.New(ctx, &mongostore.Config{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDatabase,
		})
	default:
		return memory.New(), nil
	}
}

// newLimiter builds the auth-endpoint rate limiter, or nil when
// disabled. With a Redis address configured the limit is shared across
// server instances; otherwise it is per-process.
func newLimiter(cfg *config.Config) ratelimit.Limiter {
	if cfg.RateLimit.Rate <= 0 {
		return nil
	}
	window := time.Duration(cfg.RateLimit.Window)
	if cfg.RateLimit.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
		return ratelimit.NewRedisLimiter(client, "tasktrack:auth:", cfg.RateLimit.Rate, window)
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit.Rate, window)
}
