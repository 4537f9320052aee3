package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskDeletedMessage is returned by a successful delete.
const TaskDeletedMessage = "Task deleted successfully"

// TaskHandler handles task-related HTTP requests. Role checks are applied
// by the router before the mutating handlers run.
type TaskHandler struct {
	store store.TaskStore
	// withCreatedAt exposes created_at, which only durable stores report.
	withCreatedAt bool
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	return &TaskHandler{
		store:         taskStore,
		withCreatedAt: store.IsDurable(taskStore),
	}
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK,
		TaskListEnvelope{Tasks: tasksToResponse(tasks, h.withCreatedAt)})
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	body, err := shared.ReadBody(w, r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	fields, err := ParseCreateTask(body)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.store.Create(r.Context(), *fields.Title, *fields.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContext(r.Context()).Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("role", callerRole(r)))
	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: taskToResponse(task, h.withCreatedAt)})
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: taskToResponse(task, h.withCreatedAt)})
}

// UpdateTask handles PUT /tasks/{id}. The task must exist before the body
// is validated, so an unknown ID yields 404 even with an invalid body.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	body, err := shared.ReadBody(w, r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	fields, err := ParseUpdateTask(body)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if fields.IsEmpty() {
		shared.RespondWithJSON(w, r, http.StatusOK,
			TaskEnvelope{Task: taskToResponse(existing, h.withCreatedAt)})
		return
	}

	task, err := h.store.Update(r.Context(), existing.ID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContext(r.Context()).Info("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("role", callerRole(r)))
	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: taskToResponse(task, h.withCreatedAt)})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), existing.ID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContext(r.Context()).Info("task deleted",
		slog.Int64("task_id", existing.ID),
		slog.String("role", callerRole(r)))
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: TaskDeletedMessage})
}

// loadTask resolves the {id} path parameter to a stored task, writing the
// error response itself when it cannot.
func (h *TaskHandler) loadTask(w http.ResponseWriter, r *http.Request) (*domain.Task, bool) {
	id, err := taskIDParam(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	task, err := h.store.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return task, true
}

// taskIDParam parses {id}. Only a run of ASCII digits naming a positive
// integer can name a task; anything else, signs included, is reported as
// domain.ErrInvalidID.
func taskIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" || strings.IndexFunc(raw, func(c rune) bool { return c < '0' || c > '9' }) >= 0 {
		return 0, domain.ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// callerRole names the role that passed the route guard, for logging.
func callerRole(r *http.Request) string {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		return ""
	}
	return identity.Role.String()
}
