package api

import (
	"time"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskResponse is the JSON shape of a single task. CreatedAt is only set
// for tasks served from a durable store.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// TaskEnvelope wraps one task: {"task": {...}}.
type TaskEnvelope struct {
	Task TaskResponse `json:"task"`
}

// TaskListEnvelope wraps the task list: {"tasks": [...]}.
type TaskListEnvelope struct {
	Tasks []TaskResponse `json:"tasks"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func taskToResponse(t *domain.Task, withCreatedAt bool) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
	}
	if withCreatedAt && !t.CreatedAt.IsZero() {
		createdAt := t.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func tasksToResponse(tasks []domain.Task, withCreatedAt bool) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskToResponse(&tasks[i], withCreatedAt))
	}
	return out
}
