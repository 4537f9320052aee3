package store

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskStore defines the operations over the collection of tasks.
// Implementations must be safe for concurrent use and behave identically
// from the caller's point of view.
type TaskStore interface {
	// ListAll returns every task. The in-memory backend returns insertion
	// order; the durable backend orders by creation time, ascending.
	ListAll(ctx context.Context) ([]domain.Task, error)

	// Create assigns a new unique ID and creation time, stores the task and
	// returns it. IDs are never reused, even after a delete.
	Create(ctx context.Context, title, description string) (*domain.Task, error)

	// Get returns the task with the given ID, or ErrTaskNotFound.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// Update applies only the supplied fields and returns the updated task,
	// or ErrTaskNotFound. An empty field set is a no-op that still returns the task.
	Update(ctx context.Context, id int64, fields domain.TaskFields) (*domain.Task, error)

	// Delete removes the task, or returns ErrTaskNotFound.
	Delete(ctx context.Context, id int64) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Durable is implemented by stores whose tasks outlive the process.
type Durable interface {
	Durable() bool
}

// IsDurable reports whether s persists tasks beyond the process lifetime.
// Stores that do not implement Durable are treated as ephemeral.
func IsDurable(s TaskStore) bool {
	d, ok := s.(Durable)
	return ok && d.Durable()
}
