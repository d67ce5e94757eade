package testutil

import (
	"database/sql"
	"testing"

	"github.com/nathanfields/ebb/internal/db"
)

// NewTestDB opens a private in-memory task database with the full schema
// applied, including the seeded default category. Closed via t.Cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW wraps the test database in a real UnitOfWork, for tests that
// exercise multi-write commits and rollbacks against actual transactions.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
