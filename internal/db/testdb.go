package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an in-memory database with the kv table, closed when the
// test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("creating test database schema: %v", err)
	}
	return database
}

// SeedKV writes a raw value under key, bypassing any encoding, so tests can
// plant malformed data.
func SeedKV(t testing.TB, database *sql.DB, key, value string) {
	t.Helper()

	if _, err := database.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value); err != nil {
		t.Fatalf("seeding key %q: %v", key, err)
	}
}
