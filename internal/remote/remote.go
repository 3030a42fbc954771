// Package remote defines the uniform collection contract against the hosted
// backend, plus the client implementations used by the sync engine.
package remote

import (
	"context"
	"encoding/json"
)

// Collection names on the remote backend.
const (
	CollectionTransactions      = "transactions"
	CollectionWallets           = "wallets"
	CollectionCustomCategories  = "custom_categories"
	CollectionDashboardSettings = "dashboard_settings"
)

// Row is a schemaless record as exchanged with the backend.
type Row = json.RawMessage

// Order specifies the sort order for List.
type Order struct {
	Field      string
	Descending bool
}

// CreatedAtDesc is the canonical download order: newest records first.
var CreatedAtDesc = Order{Field: "created_at", Descending: true}

// Store is the collection-oriented backend contract. All operations may fail
// with a transient (network/unavailable) or permanent (validation/constraint)
// error; callers distinguish the two via errors.IsTransient.
type Store interface {
	// List returns all rows of the collection in the given order.
	List(ctx context.Context, collection string, orderBy Order) ([]Row, error)
	// Insert stores a row without an id and returns the row with the
	// server-assigned id.
	Insert(ctx context.Context, collection string, row Row) (Row, error)
	// Update applies a partial patch to the row with the given id.
	Update(ctx context.Context, collection, id string, patch Row) error
	// Delete removes the row with the given id.
	Delete(ctx context.Context, collection, id string) error
	// DeleteWhere removes every row whose field equals value.
	DeleteWhere(ctx context.Context, collection, field, value string) error
	// Subscribe registers a best-effort change notification callback and
	// returns an unsubscribe function. Backends without push support return
	// a no-op unsubscribe; this only disables immediate reactive refresh.
	Subscribe(collection string, fn func()) func()
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
