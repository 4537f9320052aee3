//go:build integration

// Package testdb provides helpers for tests that need a live PostgreSQL
// database. Tests using it are compiled only with the "integration" build
// tag and are skipped when no database URL is configured.
//
// Typical usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.ResetTable(t, db, "tasks")
//	    ...
//	}
package testdb
