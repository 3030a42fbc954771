package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"moneta/internal/clock"
	"moneta/internal/connectivity"
	apperrors "moneta/internal/errors"
	"moneta/internal/localstore"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/pending"
	"moneta/internal/remote"
	"moneta/internal/validator"
)

// transactionService handles transaction-related business logic: validation,
// normalization, and the durable-local-first write path.
type transactionService struct {
	store   *localstore.Store
	queue   *pending.Queue
	remote  remote.Store
	monitor *connectivity.Monitor
	ids     *clock.TempIDSource
	wallets WalletServicer
	log     *zap.SugaredLogger
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(
	store *localstore.Store,
	queue *pending.Queue,
	remoteStore remote.Store,
	monitor *connectivity.Monitor,
	ids *clock.TempIDSource,
	wallets WalletServicer,
) TransactionServicer {
	return &transactionService{
		store:   store,
		queue:   queue,
		remote:  remoteStore,
		monitor: monitor,
		ids:     ids,
		wallets: wallets,
		log:     logger.Get(),
	}
}

// Validate checks that the input carries a positive amount, a category, a
// description, and a well-formed date.
func (s *transactionService) Validate(input TransactionInput) error {
	if err := validator.Struct(input); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	amount, err := parseAmount(input.Amount)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be a calendar date (YYYY-MM-DD)")
	}
	return nil
}

// Normalize converts validated input into a canonical record: numeric amount,
// resolved wallet id, empty optional fields dropped.
func (s *transactionService) Normalize(input TransactionInput, walletContext string) (models.Transaction, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		Type:        models.TransactionType(input.Type),
		Amount:      amount.Abs(),
		Category:    strings.TrimSpace(input.Category),
		Subcategory: strings.TrimSpace(input.Subcategory),
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
		Time:        strings.TrimSpace(input.Time),
		WalletID:    resolveWalletID(strings.TrimSpace(input.WalletID), walletContext),
	}, nil
}

// AddTransaction validates, normalizes, and writes a single transaction.
func (s *transactionService) AddTransaction(input TransactionInput, walletContext string) (models.Transaction, error) {
	if err := s.Validate(input); err != nil {
		return models.Transaction{}, err
	}
	txn, err := s.Normalize(input, walletContext)
	if err != nil {
		return models.Transaction{}, err
	}
	return s.Write(txn)
}

// Write lands the record locally first, then attempts the remote insert.
// The local save is the durability point: once it succeeds, any remote
// failure falls back to the pending queue and never fails the caller.
func (s *transactionService) Write(txn models.Transaction) (models.Transaction, error) {
	// Optimistic wallet balance delta before persistence, so balances are
	// immediately consistent for the UI even under network latency.
	if hasWallet(txn) {
		if err := s.wallets.ApplyBalanceDelta(txn.WalletID, txn.Signed()); err != nil {
			return models.Transaction{}, err
		}
	}

	txn.ID = models.LocalID(s.ids.Next())
	if txn.CreatedAt == "" {
		txn.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	list, err := localstore.Load[models.Transaction](s.store, localstore.KeyTransactions)
	if err != nil {
		return models.Transaction{}, err
	}
	// New records are always most-recent-first on creation, regardless of
	// their date field.
	list = append([]models.Transaction{txn}, list...)
	if err := localstore.Save(s.store, localstore.KeyTransactions, list); err != nil {
		return models.Transaction{}, err
	}

	if !s.monitor.Status().IsOnline {
		if err := pending.Enqueue(s.queue, localstore.KeyPendingTransactions, txn); err != nil {
			return models.Transaction{}, err
		}
		return txn, nil
	}

	return s.insertRemote(txn, list)
}

// insertRemote attempts the remote insert for a freshly written record. On
// success the server record replaces the temporary one at the same list
// position; on any failure the record is queued.
func (s *transactionService) insertRemote(txn models.Transaction, list []models.Transaction) (models.Transaction, error) {
	payload, err := payloadWithoutID(txn)
	if err != nil {
		return models.Transaction{}, err
	}

	serverRow, err := s.remote.Insert(context.Background(), remote.CollectionTransactions, payload)
	if err != nil {
		s.log.Warnw("remote insert failed, queueing transaction", "id", txn.ID, "error", err)
		if qErr := pending.Enqueue(s.queue, localstore.KeyPendingTransactions, txn); qErr != nil {
			return models.Transaction{}, qErr
		}
		return txn, nil
	}

	serverTxn, err := decodeRow[models.Transaction](serverRow)
	if err != nil {
		s.log.Warnw("undecodable server transaction, queueing", "id", txn.ID, "error", err)
		if qErr := pending.Enqueue(s.queue, localstore.KeyPendingTransactions, txn); qErr != nil {
			return models.Transaction{}, qErr
		}
		return txn, nil
	}

	for i := range list {
		if list[i].ID == txn.ID {
			list[i] = serverTxn
			break
		}
	}
	if err := localstore.Save(s.store, localstore.KeyTransactions, list); err != nil {
		return models.Transaction{}, err
	}
	return serverTxn, nil
}

// EditTransaction re-validates and re-normalizes the input, reverses the old
// optimistic balance delta, applies the new one, and persists local-first
// with best-effort remote update.
func (s *transactionService) EditTransaction(id models.ID, input TransactionInput, walletContext string) (models.Transaction, error) {
	if err := s.Validate(input); err != nil {
		return models.Transaction{}, err
	}
	updated, err := s.Normalize(input, walletContext)
	if err != nil {
		return models.Transaction{}, err
	}

	list, err := localstore.Load[models.Transaction](s.store, localstore.KeyTransactions)
	if err != nil {
		return models.Transaction{}, err
	}
	idx := indexByID(list, id)
	if idx < 0 {
		return models.Transaction{}, apperrors.ErrTransactionNotFound
	}
	old := list[idx]

	if hasWallet(old) {
		if err := s.wallets.ApplyBalanceDelta(old.WalletID, old.Signed().Neg()); err != nil {
			return models.Transaction{}, err
		}
	}
	if hasWallet(updated) {
		if err := s.wallets.ApplyBalanceDelta(updated.WalletID, updated.Signed()); err != nil {
			return models.Transaction{}, err
		}
	}

	updated.ID = old.ID
	updated.CreatedAt = old.CreatedAt
	list[idx] = updated
	if err := localstore.Save(s.store, localstore.KeyTransactions, list); err != nil {
		return models.Transaction{}, err
	}

	if id.IsLocal() {
		// The record was never confirmed remotely; refresh its queued copy so
		// the eventual flush uploads the edited payload.
		replaced, err := pending.Replace(s.queue, localstore.KeyPendingTransactions,
			func(e models.Transaction) bool { return e.ID == id }, updated)
		if err != nil {
			return models.Transaction{}, err
		}
		if !replaced {
			if err := pending.Enqueue(s.queue, localstore.KeyPendingTransactions, updated); err != nil {
				return models.Transaction{}, err
			}
		}
		return updated, nil
	}

	if s.monitor.Status().IsOnline {
		patch, err := payloadWithoutID(updated)
		if err != nil {
			return models.Transaction{}, err
		}
		if err := s.remote.Update(context.Background(), remote.CollectionTransactions, id.Remote(), patch); err != nil {
			// The local edit stands; the next download may overwrite it
			// (remote-wins).
			s.log.Warnw("remote update failed", "id", id, "error", err)
		}
	}
	return updated, nil
}

// DeleteTransaction removes the record locally, reverses its optimistic
// balance delta, and purges any queued pending entry so a delayed flush
// cannot resurrect it.
func (s *transactionService) DeleteTransaction(id models.ID) error {
	list, err := localstore.Load[models.Transaction](s.store, localstore.KeyTransactions)
	if err != nil {
		return err
	}
	idx := indexByID(list, id)
	if idx < 0 {
		return apperrors.ErrTransactionNotFound
	}
	txn := list[idx]

	if hasWallet(txn) {
		if err := s.wallets.ApplyBalanceDelta(txn.WalletID, txn.Signed().Neg()); err != nil {
			return err
		}
	}

	list = append(list[:idx], list[idx+1:]...)
	if err := localstore.Save(s.store, localstore.KeyTransactions, list); err != nil {
		return err
	}

	if err := pending.Remove(s.queue, localstore.KeyPendingTransactions,
		func(e models.Transaction) bool { return e.ID == id }); err != nil {
		return err
	}

	if !id.IsLocal() && s.monitor.Status().IsOnline {
		if err := s.remote.Delete(context.Background(), remote.CollectionTransactions, id.Remote()); err != nil {
			s.log.Warnw("remote delete failed", "id", id, "error", err)
		}
	}
	return nil
}

// ImportTransactions validates every row first (all-or-nothing), then writes
// the batch ahead of pre-existing records, preserving the rows' relative
// input order.
func (s *transactionService) ImportTransactions(inputs []TransactionInput, walletContext string) ([]models.Transaction, error) {
	for _, input := range inputs {
		if err := s.Validate(input); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	batch := make([]models.Transaction, 0, len(inputs))
	for _, input := range inputs {
		txn, err := s.Normalize(input, walletContext)
		if err != nil {
			return nil, err
		}
		txn.ID = models.LocalID(s.ids.Next())
		txn.CreatedAt = now
		batch = append(batch, txn)
	}

	for _, txn := range batch {
		if hasWallet(txn) {
			if err := s.wallets.ApplyBalanceDelta(txn.WalletID, txn.Signed()); err != nil {
				return nil, err
			}
		}
	}

	list, err := localstore.Load[models.Transaction](s.store, localstore.KeyTransactions)
	if err != nil {
		return nil, err
	}
	list = append(append([]models.Transaction{}, batch...), list...)
	if err := localstore.Save(s.store, localstore.KeyTransactions, list); err != nil {
		return nil, err
	}

	online := s.monitor.Status().IsOnline
	result := make([]models.Transaction, 0, len(batch))
	for _, txn := range batch {
		if !online {
			if err := pending.Enqueue(s.queue, localstore.KeyPendingTransactions, txn); err != nil {
				return nil, err
			}
			result = append(result, txn)
			continue
		}
		list, err = localstore.Load[models.Transaction](s.store, localstore.KeyTransactions)
		if err != nil {
			return nil, err
		}
		written, err := s.insertRemote(txn, list)
		if err != nil {
			return nil, err
		}
		result = append(result, written)
	}
	return result, nil
}

// DeleteTransactionsByWallet removes every record whose wallet id equals the
// given id. Records with no wallet are untouched: this is a filter predicate,
// not a cascading relational delete.
func (s *transactionService) DeleteTransactionsByWallet(walletID string) error {
	list, err := localstore.Load[models.Transaction](s.store, localstore.KeyTransactions)
	if err != nil {
		return err
	}
	kept := make([]models.Transaction, 0, len(list))
	for _, txn := range list {
		if txn.WalletID != walletID {
			kept = append(kept, txn)
		}
	}
	if err := localstore.Save(s.store, localstore.KeyTransactions, kept); err != nil {
		return err
	}

	if err := pending.Remove(s.queue, localstore.KeyPendingTransactions,
		func(e models.Transaction) bool { return e.WalletID == walletID }); err != nil {
		return err
	}

	if s.monitor.Status().IsOnline {
		if err := s.remote.DeleteWhere(context.Background(), remote.CollectionTransactions, "wallet_id", walletID); err != nil {
			s.log.Warnw("remote wallet-scoped delete failed", "wallet_id", walletID, "error", err)
		}
	}
	return nil
}

// Transactions returns the current local list.
func (s *transactionService) Transactions() ([]models.Transaction, error) {
	return localstore.Load[models.Transaction](s.store, localstore.KeyTransactions)
}

// ResetAll clears every entity type's local cache and pending queue, and
// best-effort wipes the remote collections. A remote failure never blocks
// the local reset.
func (s *transactionService) ResetAll() error {
	storeKeys := []string{
		localstore.KeyTransactions,
		localstore.KeyWallets,
		localstore.KeyCustomCategories,
		localstore.KeyDashboardCards,
	}
	for _, key := range storeKeys {
		if err := s.store.SaveRaw(key, []byte("[]")); err != nil {
			return err
		}
	}
	queueKeys := []string{
		localstore.KeyPendingTransactions,
		localstore.KeyPendingWallets,
		localstore.KeyPendingCustomCategories,
	}
	for _, key := range queueKeys {
		if err := s.queue.Clear(key); err != nil {
			return err
		}
	}

	if s.monitor.Status().IsOnline {
		s.wipeRemote()
	}
	return nil
}

// wipeRemote deletes every row of every collection, tolerating failures.
func (s *transactionService) wipeRemote() {
	ctx := context.Background()
	collections := []string{
		remote.CollectionTransactions,
		remote.CollectionWallets,
		remote.CollectionCustomCategories,
		remote.CollectionDashboardSettings,
	}
	for _, collection := range collections {
		rows, err := s.remote.List(ctx, collection, remote.Order{})
		if err != nil {
			s.log.Warnw("remote wipe: list failed", "collection", collection, "error", err)
			continue
		}
		for _, row := range rows {
			serverTxn, err := decodeRow[struct {
				ID string `json:"id"`
			}](row)
			if err != nil || serverTxn.ID == "" {
				continue
			}
			if err := s.remote.Delete(ctx, collection, serverTxn.ID); err != nil {
				s.log.Warnw("remote wipe: delete failed", "collection", collection, "id", serverTxn.ID, "error", err)
			}
		}
	}
}

// hasWallet reports whether the record is assigned to a real wallet.
func hasWallet(txn models.Transaction) bool {
	return txn.WalletID != "" && !strings.EqualFold(txn.WalletID, models.GlobalWalletID)
}

// indexByID finds a record by id, -1 if absent.
func indexByID(list []models.Transaction, id models.ID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
