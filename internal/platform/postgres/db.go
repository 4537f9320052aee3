package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/task-api/internal/config"
)

// pingTimeout bounds the connectivity check performed by Open.
const pingTimeout = 5 * time.Second

// Open creates a connection pool for cfg.URL and verifies it with a ping.
// A positive StatementTimeout is applied to every session so that a stuck
// query fails instead of holding the request open.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if cfg.StatementTimeout > 0 {
		connCfg.RuntimeParams["statement_timeout"] = strconv.FormatInt(
			cfg.StatementTimeout.Milliseconds(), 10,
		)
	}

	db := stdlib.OpenDB(*connCfg)
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// QuoteTable turns a possibly schema-qualified name such as "flask_task.task"
// into a safely quoted SQL identifier.
func QuoteTable(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("table name is empty")
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("table name %q has too many parts", name)
	}
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("table name %q has an empty part", name)
		}
	}
	return pgx.Identifier(parts).Sanitize(), nil
}
