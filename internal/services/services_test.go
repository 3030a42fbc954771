package services

import (
	"testing"

	"moneta/internal/clock"
	"moneta/internal/connectivity"
	"moneta/internal/localstore"
	"moneta/internal/pending"
	"moneta/internal/remote"
	"moneta/internal/testutil"
)

// testEnv bundles a full service stack over an in-memory store and backend.
type testEnv struct {
	store        *localstore.Store
	queue        *pending.Queue
	remote       *remote.MemStore
	monitor      *connectivity.Monitor
	transactions TransactionServicer
	wallets      WalletServicer
	categories   CategoryServicer
	dashboard    DashboardServicer
}

// newTestEnv builds the stack in the online state; call
// env.monitor.SetOnline(false) to exercise the offline paths.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, store) })

	queue := pending.NewQueue(store)
	mem := remote.NewMemStore()
	monitor := connectivity.NewMonitor(true)
	ids := &clock.TempIDSource{}

	wallets := NewWalletService(store, queue, mem, monitor, ids)
	transactions := NewTransactionService(store, queue, mem, monitor, ids, wallets)
	wallets.SetTransactions(transactions)

	return &testEnv{
		store:        store,
		queue:        queue,
		remote:       mem,
		monitor:      monitor,
		transactions: transactions,
		wallets:      wallets,
		categories:   NewCategoryService(store, queue, mem, monitor, ids),
		dashboard:    NewDashboardService(store, mem, monitor, ids),
	}
}

// validTxnInput returns a well-formed transaction input.
func validTxnInput() TransactionInput {
	return TransactionInput{
		Amount:      "50000",
		Type:        "expense",
		Category:    "Food",
		Description: "groceries",
		Date:        "2024-03-15",
	}
}
