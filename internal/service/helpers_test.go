package service

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/leopoldus11/tag-directory/internal/store"
)

// testQueries opens a migrated database in a temporary directory.
func testQueries(t *testing.T) (*store.Queries, *sql.DB) {
	t.Helper()

	db, err := store.NewDB(store.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return store.New(db), db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
