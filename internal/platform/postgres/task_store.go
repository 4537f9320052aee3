package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// DefaultTable is the table created by the embedded migrations.
const DefaultTable = "tasks"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresTaskStore implements store.TaskStore on a single PostgreSQL table.
// Every write runs in its own transaction.
type PostgresTaskStore struct {
	db    *sql.DB
	table string

	listQuery   string
	getQuery    string
	insertQuery string
	updateQuery string
	deleteQuery string
}

var (
	_ store.TaskStore = (*PostgresTaskStore)(nil)
	_ store.Durable   = (*PostgresTaskStore)(nil)
)

// NewPostgresTaskStore creates a store over table, which may be schema
// qualified. An empty table name selects DefaultTable.
func NewPostgresTaskStore(db *sql.DB, table string) (*PostgresTaskStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if table == "" {
		table = DefaultTable
	}
	quoted, err := QuoteTable(table)
	if err != nil {
		return nil, fmt.Errorf("invalid table name: %w", err)
	}

	const columns = "id, title, description, created_at"
	return &PostgresTaskStore{
		db:    db,
		table: quoted,
		listQuery: fmt.Sprintf(
			"SELECT %s FROM %s ORDER BY created_at ASC, id ASC", columns, quoted,
		),
		getQuery: fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", columns, quoted),
		insertQuery: fmt.Sprintf(
			"INSERT INTO %s (title, description) VALUES ($1, $2) RETURNING %s",
			quoted, columns,
		),
		updateQuery: fmt.Sprintf(
			"UPDATE %s SET title = COALESCE($2, title), description = COALESCE($3, description) "+
				"WHERE id = $1 RETURNING %s",
			quoted, columns,
		),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE id = $1", quoted),
	}, nil
}

// Table returns the quoted table name the store reads and writes.
func (s *PostgresTaskStore) Table() string {
	return s.table
}

// Durable reports true: tasks live in PostgreSQL.
func (s *PostgresTaskStore) Durable() bool {
	return true
}

// ListAll returns every task ordered by creation time, then ID.
func (s *PostgresTaskStore) ListAll(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContext(ctx)

	rows, err := s.db.QueryContext(ctx, s.listQuery)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "row iteration failed", MapError(err))
	}

	return tasks, nil
}

// Create inserts a task and returns it with the ID and creation time the
// database assigned.
func (s *PostgresTaskStore) Create(
	ctx context.Context,
	title, description string,
) (*domain.Task, error) {
	var created *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		t, err := scanTask(tx.QueryRowContext(ctx, s.insertQuery, title, description))
		if err != nil {
			return store.NewStoreError("task", "create", "insert failed", MapError(err))
		}
		created = t
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to create task", slog.String("error", err.Error()))
		return nil, err
	}

	logger.FromContext(ctx).Debug("task created", slog.Int64("task_id", created.ID))
	return created, nil
}

// Get returns the task with the given ID.
func (s *PostgresTaskStore) Get(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, s.getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContext(ctx).Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}
	return t, nil
}

// Update overwrites the supplied fields. Omitted fields keep their value.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id int64,
	fields domain.TaskFields,
) (*domain.Task, error) {
	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		t, err := scanTask(tx.QueryRowContext(ctx, s.updateQuery, id, fields.Title, fields.Description))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrTaskNotFound
			}
			return store.NewStoreError("task", "update", "update failed", MapError(err))
		}
		updated = t
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContext(ctx).Error("failed to update task",
				slog.Int64("task_id", id),
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the task with the given ID.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.deleteQuery, id)
		if err != nil {
			return store.NewStoreError("task", "delete", "delete failed", MapError(err))
		}
		return checkRowsAffected(result, store.ErrTaskNotFound)
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContext(ctx).Error("failed to delete task",
				slog.Int64("task_id", id),
				slog.String("error", err.Error()))
		}
		return err
	}

	logger.FromContext(ctx).Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// Ping checks database connectivity.
func (s *PostgresTaskStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}
