package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
)

// errMigrateMemoryBackend is returned by -migrate when no database is configured.
var errMigrateMemoryBackend = errors.New("migrations require the postgres store backend")

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory backend.
	db *sql.DB

	taskStore     store.TaskStore
	authenticator *auth.Authenticator
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.authenticator, err = auth.NewAuthenticator(tokenEntries(cfg.Auth))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authenticator: %w", err)
	}

	if err := app.setupStore(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("Application initialized successfully", "store_backend", cfg.Store.Backend)
	return app, nil
}

// setupStore opens the configured task store backend.
func (app *application) setupStore(ctx context.Context) error {
	switch app.config.Store.Backend {
	case config.BackendMemory:
		app.taskStore = memory.NewTaskStore()
		app.logger.Warn("using in-memory task store, tasks are lost on restart")
		return nil

	case config.BackendPostgres:
		db, err := postgres.Open(ctx, app.config.Database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		app.db = db
		app.logger.Info("Database connection established")

		if app.config.Database.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		taskStore, err := postgres.NewPostgresTaskStore(db, app.config.Database.Table)
		if err != nil {
			return fmt.Errorf("failed to create task store: %w", err)
		}
		app.taskStore = taskStore
		app.logger.Info("Postgres task store ready", "table", taskStore.Table())
		return nil

	default:
		return fmt.Errorf("unknown store backend %q", app.config.Store.Backend)
	}
}

// tokenEntries converts the auth configuration to the authenticator's token
// table. A hash takes precedence over a plaintext token for the same role.
func tokenEntries(cfg config.AuthConfig) []auth.TokenEntry {
	entry := func(role domain.Role, token, hash string) auth.TokenEntry {
		if hash != "" {
			return auth.TokenEntry{Role: role, Hash: hash}
		}
		return auth.TokenEntry{Role: role, Token: token}
	}

	return []auth.TokenEntry{
		entry(domain.RoleUser, cfg.UserToken, cfg.UserTokenHash),
		entry(domain.RoleAdmin, cfg.AdminToken, cfg.AdminTokenHash),
	}
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupRouter builds the HTTP handler from the application dependencies.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Store:         app.taskStore,
		Authenticator: app.authenticator,
		Logger:        app.logger,
		BasePath:      app.config.Server.BasePath,
	})
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}

// runMigrations applies the embedded schema migrations.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Store.Backend != config.BackendPostgres {
		return errMigrateMemoryBackend
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Migrations applied")
	return nil
}
