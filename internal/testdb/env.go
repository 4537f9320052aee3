//go:build integration

package testdb

import "os"

// databaseURLEnvVars are checked in order by GetTestDatabaseURL.
var databaseURLEnvVars = []string{"TASKAPI_TEST_DATABASE_URL", "DATABASE_URL"}

// GetTestDatabaseURL returns the first non-empty database URL from the
// environment, or "".
func GetTestDatabaseURL() string {
	for _, name := range databaseURLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}
