package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB opens a shared-cache in-memory database named after the test,
// so writer and reader see the same data and parallel tests stay isolated.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// The escaped test name cannot be mistaken for DSN query parameters.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)",
		url.PathEscape(t.Name()),
	)

	db, err := openDSN(context.Background(), dsn, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if _, err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}
