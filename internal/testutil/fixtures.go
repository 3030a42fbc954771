package testutil

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneta/internal/localstore"
	"moneta/internal/models"
)

// TxnRecord builds a transaction record with a temporary id for seeding the
// local store directly.
func TxnRecord(id uint64, txnType models.TransactionType, amount, walletID string) models.Transaction {
	return models.Transaction{
		ID:          models.LocalID(id),
		Type:        txnType,
		Amount:      decimal.RequireFromString(amount),
		Category:    "Food",
		Description: "seeded",
		Date:        "2024-01-01",
		WalletID:    walletID,
	}
}

// SeedTransactions writes the given records as the complete transaction list.
func SeedTransactions(t *testing.T, store *localstore.Store, txns ...models.Transaction) {
	t.Helper()

	if err := localstore.Save(store, localstore.KeyTransactions, txns); err != nil {
		t.Fatalf("failed to seed transactions: %v", err)
	}
}

// SeedWallets writes the given records as the complete wallet list.
func SeedWallets(t *testing.T, store *localstore.Store, wallets ...models.Wallet) {
	t.Helper()

	if err := localstore.Save(store, localstore.KeyWallets, wallets); err != nil {
		t.Fatalf("failed to seed wallets: %v", err)
	}
}
