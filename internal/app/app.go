// Package app wires configuration, logging, and the selected storage
// backend into a runnable process. The backend is chosen exactly once at
// construction; there is no lazily-initialized global handle, and an
// initialization failure is a typed error instead of a silently empty
// proxy.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/lfcamara/fundef-registry/internal/config"
	"github.com/lfcamara/fundef-registry/internal/logging"
	"github.com/lfcamara/fundef-registry/internal/storage"
	"github.com/lfcamara/fundef-registry/internal/storage/firestore"
	"github.com/lfcamara/fundef-registry/internal/storage/sqlite"
)

// App owns the storage handle for the lifetime of the process.
type App struct {
	config *config.Config
	logger logging.Logger
	store  storage.Service
}

// New builds the logger, opens the configured backend, and runs Init.
// The returned App is ready to use; on any failure nothing is left open.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault(cfg.LogLevel).With("instance", uuid.NewString())

	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	logger.Info(ctx, "storage ready", "backend", backendName(cfg))
	return &App{config: cfg, logger: logger, store: store}, nil
}

func openBackend(ctx context.Context, cfg *config.Config, logger logging.Logger) (storage.Service, error) {
	if cfg.UseFirebase {
		return firestore.Open(ctx, firestore.Config{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.FirebaseCredentialsFile,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		}, logger)
	}
	return sqlite.Open(cfg.DataDir, logger)
}

func backendName(cfg *config.Config) string {
	if cfg.UseFirebase {
		return "firestore"
	}
	return "sqlite"
}

// Storage exposes the persistence service to the application layer.
func (a *App) Storage() storage.Service {
	return a.store
}

// Logger exposes the process logger.
func (a *App) Logger() logging.Logger {
	return a.logger
}

// Run blocks until the context is canceled or a termination signal
// arrives, then releases the storage handle.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigs)

	select {
	case <-ctx.Done():
	case s := <-sigs:
		a.logger.Info(ctx, "shutting down", "signal", s.String())
	}

	return a.Close()
}

// Close releases the storage handle.
func (a *App) Close() error {
	return a.store.Close()
}
