// Package postgres provides the PostgreSQL implementation of store.TaskStore.
// It handles opening the connection pool, applying the embedded schema
// migrations with goose, and mapping database errors onto the store's
// sentinel errors so callers never see driver-specific types.
package postgres
