package syncer

import (
	"moneta/internal/localstore"
	"moneta/internal/remote"
)

// Adapter binds one entity type to its storage keys, remote collection, and
// download ordering. The orchestrator processes adapters in the order
// returned by Adapters.
type Adapter struct {
	Name       string
	Collection string
	StoreKey   string
	// QueueKey is the pending-queue key, or "" for entity types without a
	// pending upload phase.
	QueueKey string
	OrderBy  remote.Order
	// UploadUnsynced marks singleton entity types (dashboard settings) whose
	// unconfirmed record is uploaded straight from the local store instead of
	// a queue.
	UploadUnsynced bool
}

// Adapters returns the registered entity sync adapters in their fixed sync
// order.
func Adapters() []Adapter {
	return []Adapter{
		{
			Name:       "transactions",
			Collection: remote.CollectionTransactions,
			StoreKey:   localstore.KeyTransactions,
			QueueKey:   localstore.KeyPendingTransactions,
			OrderBy:    remote.CreatedAtDesc,
		},
		{
			Name:       "wallets",
			Collection: remote.CollectionWallets,
			StoreKey:   localstore.KeyWallets,
			QueueKey:   localstore.KeyPendingWallets,
			OrderBy:    remote.CreatedAtDesc,
		},
		{
			Name:       "custom categories",
			Collection: remote.CollectionCustomCategories,
			StoreKey:   localstore.KeyCustomCategories,
			QueueKey:   localstore.KeyPendingCustomCategories,
			OrderBy:    remote.CreatedAtDesc,
		},
		{
			Name:           "dashboard settings",
			Collection:     remote.CollectionDashboardSettings,
			StoreKey:       localstore.KeyDashboardCards,
			OrderBy:        remote.CreatedAtDesc,
			UploadUnsynced: true,
		},
	}
}
