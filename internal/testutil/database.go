package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/scorecard/internal/storage"
)

// SetupTestDB opens a migrated database in a temporary directory and closes
// it when the test ends.
func SetupTestDB(t testing.TB) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "scorecard.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
