//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup and cleanup statements.
const TestTimeout = 5 * time.Second

// GetTestDBWithT opens a migrated database for the test and closes it on
// cleanup. The test is skipped when no database URL is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("TASKAPI_TEST_DATABASE_URL or DATABASE_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		URL:              dbURL,
		Table:            postgres.DefaultTable,
		StatementTimeout: TestTimeout,
		MaxOpenConns:     4,
	})
	require.NoError(t, err, "failed to open %s", maskDatabaseURL(dbURL))

	require.NoError(t, postgres.Migrate(ctx, db), "failed to migrate test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close database: %v", err)
		}
	})
	return db
}

// ResetTable empties table and restarts its identity sequence.
func ResetTable(t *testing.T, db *sql.DB, table string) {
	t.Helper()

	quoted, err := postgres.QuoteTable(table)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err = db.ExecContext(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", quoted))
	require.NoError(t, err, "failed to reset %s", quoted)
}

// maskDatabaseURL hides the password in dbURL for logging.
func maskDatabaseURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "****")
		}
	}
	return u.String()
}
