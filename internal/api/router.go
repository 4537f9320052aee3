package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
)

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Store         store.TaskStore
	Authenticator *auth.Authenticator
	Logger        *slog.Logger
	// BasePath prefixes every task route, e.g. "/api/v1.0". Empty mounts at the root.
	BasePath string
}

// NewRouter builds the HTTP handler. Role guards are attached to the
// individual routes at registration.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Store == nil {
		panic("store cannot be nil")
	}
	if cfg.Authenticator == nil {
		panic("authenticator cannot be nil")
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	health := NewHealthHandler(cfg.Store)
	r.Get("/health", health.Check)

	tasks := NewTaskHandler(cfg.Store)
	requireUser := middleware.RequireRole(cfg.Authenticator, domain.RoleUser)
	requireAdmin := middleware.RequireRole(cfg.Authenticator, domain.RoleAdmin)

	registerTasks := func(r chi.Router) {
		r.Get("/tasks", tasks.ListTasks)
		r.With(requireUser).Post("/tasks", tasks.CreateTask)
		r.Get("/tasks/{id}", tasks.GetTask)
		r.With(requireUser).Put("/tasks/{id}", tasks.UpdateTask)
		r.With(requireAdmin).Delete("/tasks/{id}", tasks.DeleteTask)
	}

	basePath := strings.TrimRight(cfg.BasePath, "/")
	if basePath == "" {
		registerTasks(r)
	} else {
		r.Route(basePath, registerTasks)
	}

	return r
}
