// Package testutil provides test helpers for setting up in-memory stores,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneta/internal/localstore"
)

var dbCounter atomic.Int64

// SetupTestDB creates a localstore over an in-memory SQLite database. Each
// call gets its own named database so parallel tests cannot see each other's
// rows; cache=shared keeps the database alive across the connection pool.
func SetupTestDB(t *testing.T) *localstore.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	store, err := localstore.New(db)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return store
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, store *localstore.Store) {
	t.Helper()

	if err := store.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
