// Package testutil provides test helpers for setting up temporary ledgers and
// in-memory databases, seeding fixtures, and making assertions.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/storage/filestore"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

// NewTempLedger creates a flat-file store inside a per-test temp directory.
func NewTempLedger(t *testing.T) *filestore.Store {
	t.Helper()

	store, err := filestore.New(filepath.Join(t.TempDir(), "expenses.json"))
	if err != nil {
		t.Fatalf("failed to create temp ledger: %v", err)
	}
	return store
}

// SetupTestDB creates an isolated in-memory SQLite database with the expense
// table migrated. The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Expense{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err != nil {
			t.Errorf("failed to get underlying DB for teardown: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}
