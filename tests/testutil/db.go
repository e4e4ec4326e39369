// Package testutil provides test utilities and fixtures for the AI router service.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database with full schema for testing.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=ON")
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		db.Close()
	})

	// Run schema creation
	err = createSchema(db)
	require.NoError(t, err, "failed to create schema")

	return db
}

// createSchema creates all tables for testing. Mirrors the embedded
// migrations in internal/database/migrations.
func createSchema(db *sql.DB) error {
	schema := `
-- Routing decision audit log
CREATE TABLE IF NOT EXISTS decision_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id TEXT NOT NULL,
    category TEXT NOT NULL,
    model_name TEXT NOT NULL DEFAULT '',
    execution_mode TEXT NOT NULL DEFAULT '',
    prompt_preview TEXT NOT NULL DEFAULT '',
    latency_ms REAL NOT NULL DEFAULT 0,
    success INTEGER NOT NULL DEFAULT 0,
    error_kind TEXT NOT NULL DEFAULT '',
    hybrid INTEGER NOT NULL DEFAULT 0,
    validation_status TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_decision_logs_created_at ON decision_logs (created_at);
CREATE INDEX IF NOT EXISTS idx_decision_logs_category ON decision_logs (category);
CREATE INDEX IF NOT EXISTS idx_decision_logs_request_id ON decision_logs (request_id);
`

	_, err := db.Exec(schema)
	return err
}
