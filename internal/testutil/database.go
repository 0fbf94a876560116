// Package testutil provides helpers for tests that need a real database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fleetops/fuelflow/internal/model"
	"github.com/fleetops/fuelflow/internal/storage"
)

// SetupTestDB creates a migrated SQLite database in a test temp directory.
// Cleanup is automatic.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "fuelflow_test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedVehicles saves the given vehicles into the directory.
func SeedVehicles(t *testing.T, store *storage.SQLiteStorage, vehicles ...model.Vehicle) {
	t.Helper()

	ctx := context.Background()
	for i := range vehicles {
		if err := store.SaveVehicle(ctx, &vehicles[i]); err != nil {
			t.Fatalf("failed to seed vehicle %s: %v", vehicles[i].ID, err)
		}
	}
}
