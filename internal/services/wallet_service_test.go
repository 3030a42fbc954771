package services

import (
	"testing"

	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/localstore"
	"moneta/internal/models"
	"moneta/internal/pending"
	"moneta/internal/remote"
	"moneta/internal/testutil"
)

func TestCreateWallet(t *testing.T) {
	t.Run("online_creation_confirms_server_id", func(t *testing.T) {
		env := newTestEnv(t)

		wallet, err := env.wallets.CreateWallet(WalletInput{Name: "Cash", Color: "#FF8800"})
		testutil.AssertNoError(t, err)

		if wallet.ID.IsLocal() || wallet.ID.IsZero() {
			t.Errorf("expected server id, got %v", wallet.ID)
		}
		testutil.AssertDecimalEqual(t, decimal.Zero, wallet.Balance)
		if got := env.remote.Count(remote.CollectionWallets); got != 1 {
			t.Errorf("expected 1 remote row, got %d", got)
		}
	})

	t.Run("offline_creation_is_queued", func(t *testing.T) {
		env := newTestEnv(t)
		env.monitor.SetOnline(false)

		wallet, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
		testutil.AssertNoError(t, err)

		if !wallet.ID.IsLocal() {
			t.Errorf("expected temporary id offline, got %v", wallet.ID)
		}
		queued, err := pending.Peek[models.Wallet](env.queue, localstore.KeyPendingWallets)
		testutil.AssertNoError(t, err)
		if len(queued) != 1 || queued[0].ID != wallet.ID {
			t.Errorf("expected wallet in pending queue")
		}
	})

	t.Run("rejects_reserved_name", func(t *testing.T) {
		env := newTestEnv(t)

		for _, name := range []string{"global", "Global", "GLOBAL", "  global  "} {
			_, err := env.wallets.CreateWallet(WalletInput{Name: name})
			testutil.AssertAppError(t, err, apperrors.ErrReservedWalletName.Code)
		}
	})

	t.Run("rejects_duplicate_name", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
		testutil.AssertNoError(t, err)
		_, err = env.wallets.CreateWallet(WalletInput{Name: "cash"})
		testutil.AssertAppError(t, err, apperrors.ErrDuplicateWalletName.Code)
	})

	t.Run("rejects_malformed_color", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.wallets.CreateWallet(WalletInput{Name: "Cash", Color: "red"})
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})
}

func TestUpdateWallet(t *testing.T) {
	t.Run("renames_keeping_balance", func(t *testing.T) {
		env := newTestEnv(t)

		wallet, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, env.wallets.ApplyBalanceDelta(wallet.ID.String(), decimal.NewFromInt(75)))

		updated, err := env.wallets.UpdateWallet(wallet.ID, WalletInput{Name: "Spending", Color: "#00FF00"})
		testutil.AssertNoError(t, err)

		if updated.Name != "Spending" {
			t.Errorf("expected renamed wallet, got %q", updated.Name)
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(75), updated.Balance)
	})

	t.Run("rejects_name_of_other_wallet_but_allows_own", func(t *testing.T) {
		env := newTestEnv(t)

		cash, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
		testutil.AssertNoError(t, err)
		_, err = env.wallets.CreateWallet(WalletInput{Name: "Bank"})
		testutil.AssertNoError(t, err)

		_, err = env.wallets.UpdateWallet(cash.ID, WalletInput{Name: "Bank"})
		testutil.AssertAppError(t, err, apperrors.ErrDuplicateWalletName.Code)

		// Re-saving under its own name is not a duplicate.
		_, err = env.wallets.UpdateWallet(cash.ID, WalletInput{Name: "Cash", Icon: "coins"})
		testutil.AssertNoError(t, err)
	})

	t.Run("unknown_id", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.wallets.UpdateWallet(models.RemoteID("missing"), WalletInput{Name: "Cash"})
		testutil.AssertAppError(t, err, apperrors.ErrWalletNotFound.Code)
	})
}

func TestDeleteWallet(t *testing.T) {
	t.Run("keeps_transactions_by_default", func(t *testing.T) {
		env := newTestEnv(t)

		wallet, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
		testutil.AssertNoError(t, err)
		_, err = env.transactions.AddTransaction(validTxnInput(), wallet.ID.String())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, env.wallets.DeleteWallet(wallet.ID, false))

		wallets, err := env.wallets.Wallets()
		testutil.AssertNoError(t, err)
		if len(wallets) != 0 {
			t.Errorf("expected wallet removed, got %d", len(wallets))
		}
		list, err := env.transactions.Transactions()
		testutil.AssertNoError(t, err)
		if len(list) != 1 {
			t.Errorf("expected transactions kept, got %d", len(list))
		}
	})

	t.Run("cascades_to_transactions_when_requested", func(t *testing.T) {
		env := newTestEnv(t)

		wallet, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
		testutil.AssertNoError(t, err)
		_, err = env.transactions.AddTransaction(validTxnInput(), wallet.ID.String())
		testutil.AssertNoError(t, err)
		unassigned, err := env.transactions.AddTransaction(validTxnInput(), "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, env.wallets.DeleteWallet(wallet.ID, true))

		list, err := env.transactions.Transactions()
		testutil.AssertNoError(t, err)
		if len(list) != 1 || list[0].ID != unassigned.ID {
			t.Errorf("expected only wallet-scoped transactions removed")
		}
		if got := env.remote.Count(remote.CollectionWallets); got != 0 {
			t.Errorf("expected remote wallet removed, got %d", got)
		}
	})

	t.Run("unknown_id", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.wallets.DeleteWallet(models.RemoteID("missing"), false)
		testutil.AssertAppError(t, err, apperrors.ErrWalletNotFound.Code)
	})
}

func TestGlobalWallet(t *testing.T) {
	env := newTestEnv(t)

	wallet, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
	testutil.AssertNoError(t, err)

	income := validTxnInput()
	income.Type = "income"
	income.Amount = "200000"
	_, err = env.transactions.AddTransaction(income, wallet.ID.String())
	testutil.AssertNoError(t, err)

	expense := validTxnInput()
	expense.Amount = "80000"
	_, err = env.transactions.AddTransaction(expense, "")
	testutil.AssertNoError(t, err)

	global, err := env.wallets.GlobalWallet()
	testutil.AssertNoError(t, err)

	// The aggregate spans every transaction, assigned or not.
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(120000), global.Balance)
	if global.ID.String() != models.GlobalWalletID {
		t.Errorf("expected sentinel id, got %v", global.ID)
	}

	// It is synthetic: never among the persisted wallets.
	wallets, err := env.wallets.Wallets()
	testutil.AssertNoError(t, err)
	for _, w := range wallets {
		if w.ID.String() == models.GlobalWalletID {
			t.Errorf("aggregate wallet must not be persisted")
		}
	}
}

func TestApplyBalanceDelta(t *testing.T) {
	t.Run("accumulates_signed_deltas", func(t *testing.T) {
		env := newTestEnv(t)

		wallet, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, env.wallets.ApplyBalanceDelta(wallet.ID.String(), decimal.NewFromInt(100)))
		testutil.AssertNoError(t, env.wallets.ApplyBalanceDelta(wallet.ID.String(), decimal.NewFromInt(-30)))

		wallets, err := env.wallets.Wallets()
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(70), wallets[0].Balance)
	})

	t.Run("refreshes_queued_copy_of_unsynced_wallet", func(t *testing.T) {
		env := newTestEnv(t)
		env.monitor.SetOnline(false)

		wallet, err := env.wallets.CreateWallet(WalletInput{Name: "Cash"})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, env.wallets.ApplyBalanceDelta(wallet.ID.String(), decimal.NewFromInt(50)))

		queued, err := pending.Peek[models.Wallet](env.queue, localstore.KeyPendingWallets)
		testutil.AssertNoError(t, err)
		if len(queued) != 1 {
			t.Fatalf("expected single queued entry, got %d", len(queued))
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(50), queued[0].Balance)
	})

	t.Run("unknown_wallet", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.wallets.ApplyBalanceDelta("missing", decimal.NewFromInt(1))
		testutil.AssertAppError(t, err, apperrors.ErrWalletNotFound.Code)
	})
}
