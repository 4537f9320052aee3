package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskStore keeps tasks in insertion order behind a read/write mutex.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  []domain.Task
	nextID int64
	now    func() time.Time
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTaskStore returns an empty store.
func NewTaskStore(opts ...Option) *TaskStore {
	s := &TaskStore{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.TaskStore = (*TaskStore)(nil)

// ListAll returns a copy of every task in insertion order.
func (s *TaskStore) ListAll(ctx context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// Create appends a task with the next ID.
func (s *TaskStore) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := domain.Task{
		ID:          s.nextID,
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	}
	s.nextID++
	s.tasks = append(s.tasks, t)

	logger.FromContext(ctx).Debug("task created", slog.Int64("task_id", t.ID))
	return &t, nil
}

// Get returns a copy of the task with the given ID.
func (s *TaskStore) Get(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	t := s.tasks[i]
	return &t, nil
}

// Update applies the supplied fields in place.
func (s *TaskStore) Update(
	ctx context.Context,
	id int64,
	fields domain.TaskFields,
) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, store.ErrTaskNotFound
	}
	fields.Apply(&s.tasks[i])

	t := s.tasks[i]
	return &t, nil
}

// Delete removes the task, keeping the order of the rest.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return store.ErrTaskNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	logger.FromContext(ctx).Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// Ping always succeeds.
func (s *TaskStore) Ping(ctx context.Context) error {
	return nil
}

// indexOf must be called with mu held.
func (s *TaskStore) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
