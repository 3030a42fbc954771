package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
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

// walletService handles wallet-related business logic. Persisted wallets
// carry a running balance maintained by explicit delta updates; the synthetic
// Global wallet is always recomputed and never stored.
type walletService struct {
	store        *localstore.Store
	queue        *pending.Queue
	remote       remote.Store
	monitor      *connectivity.Monitor
	ids          *clock.TempIDSource
	transactions TransactionServicer
	log          *zap.SugaredLogger
}

// NewWalletService creates a new WalletServicer. Attach the transaction
// service afterwards with SetTransactions to enable cascade deletes.
func NewWalletService(
	store *localstore.Store,
	queue *pending.Queue,
	remoteStore remote.Store,
	monitor *connectivity.Monitor,
	ids *clock.TempIDSource,
) WalletServicer {
	return &walletService{
		store:   store,
		queue:   queue,
		remote:  remoteStore,
		monitor: monitor,
		ids:     ids,
		log:     logger.Get(),
	}
}

// SetTransactions wires the transaction service used for wallet-scoped
// cascade deletes.
func (s *walletService) SetTransactions(transactions TransactionServicer) {
	s.transactions = transactions
}

// CreateWallet validates the name against the reserved sentinel and existing
// wallets, then writes local-first with remote fallback to the pending queue.
func (s *walletService) CreateWallet(input WalletInput) (models.Wallet, error) {
	wallets, err := s.Wallets()
	if err != nil {
		return models.Wallet{}, err
	}
	if err := s.validateInput(input, wallets, models.ID{}); err != nil {
		return models.Wallet{}, err
	}

	wallet := models.Wallet{
		ID:        models.LocalID(s.ids.Next()),
		Name:      strings.TrimSpace(input.Name),
		Color:     input.Color,
		Icon:      input.Icon,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	wallets = append([]models.Wallet{wallet}, wallets...)
	if err := localstore.Save(s.store, localstore.KeyWallets, wallets); err != nil {
		return models.Wallet{}, err
	}

	if !s.monitor.Status().IsOnline {
		if err := pending.Enqueue(s.queue, localstore.KeyPendingWallets, wallet); err != nil {
			return models.Wallet{}, err
		}
		return wallet, nil
	}

	payload, err := payloadWithoutID(wallet)
	if err != nil {
		return models.Wallet{}, err
	}
	serverRow, err := s.remote.Insert(context.Background(), remote.CollectionWallets, payload)
	if err != nil {
		s.log.Warnw("remote insert failed, queueing wallet", "id", wallet.ID, "error", err)
		if qErr := pending.Enqueue(s.queue, localstore.KeyPendingWallets, wallet); qErr != nil {
			return models.Wallet{}, qErr
		}
		return wallet, nil
	}

	serverWallet, err := decodeRow[models.Wallet](serverRow)
	if err != nil {
		s.log.Warnw("undecodable server wallet, queueing", "id", wallet.ID, "error", err)
		if qErr := pending.Enqueue(s.queue, localstore.KeyPendingWallets, wallet); qErr != nil {
			return models.Wallet{}, qErr
		}
		return wallet, nil
	}

	for i := range wallets {
		if wallets[i].ID == wallet.ID {
			wallets[i] = serverWallet
			break
		}
	}
	if err := localstore.Save(s.store, localstore.KeyWallets, wallets); err != nil {
		return models.Wallet{}, err
	}
	return serverWallet, nil
}

// UpdateWallet renames or restyles a wallet, keeping its balance.
func (s *walletService) UpdateWallet(id models.ID, input WalletInput) (models.Wallet, error) {
	wallets, err := s.Wallets()
	if err != nil {
		return models.Wallet{}, err
	}
	idx := walletIndexByID(wallets, id)
	if idx < 0 {
		return models.Wallet{}, apperrors.ErrWalletNotFound
	}
	if err := s.validateInput(input, wallets, id); err != nil {
		return models.Wallet{}, err
	}

	wallet := wallets[idx]
	wallet.Name = strings.TrimSpace(input.Name)
	wallet.Color = input.Color
	wallet.Icon = input.Icon
	wallets[idx] = wallet
	if err := localstore.Save(s.store, localstore.KeyWallets, wallets); err != nil {
		return models.Wallet{}, err
	}

	if id.IsLocal() {
		replaced, err := pending.Replace(s.queue, localstore.KeyPendingWallets,
			func(e models.Wallet) bool { return e.ID == id }, wallet)
		if err != nil {
			return models.Wallet{}, err
		}
		if !replaced {
			if err := pending.Enqueue(s.queue, localstore.KeyPendingWallets, wallet); err != nil {
				return models.Wallet{}, err
			}
		}
		return wallet, nil
	}

	if s.monitor.Status().IsOnline {
		patch, err := payloadWithoutID(wallet)
		if err != nil {
			return models.Wallet{}, err
		}
		if err := s.remote.Update(context.Background(), remote.CollectionWallets, id.Remote(), patch); err != nil {
			s.log.Warnw("remote wallet update failed", "id", id, "error", err)
		}
	}
	return wallet, nil
}

// DeleteWallet removes the wallet and, when requested, its transactions.
func (s *walletService) DeleteWallet(id models.ID, deleteTransactions bool) error {
	wallets, err := s.Wallets()
	if err != nil {
		return err
	}
	idx := walletIndexByID(wallets, id)
	if idx < 0 {
		return apperrors.ErrWalletNotFound
	}

	wallets = append(wallets[:idx], wallets[idx+1:]...)
	if err := localstore.Save(s.store, localstore.KeyWallets, wallets); err != nil {
		return err
	}
	if err := pending.Remove(s.queue, localstore.KeyPendingWallets,
		func(e models.Wallet) bool { return e.ID == id }); err != nil {
		return err
	}

	if deleteTransactions && s.transactions != nil {
		if err := s.transactions.DeleteTransactionsByWallet(id.String()); err != nil {
			return err
		}
	}

	if !id.IsLocal() && s.monitor.Status().IsOnline {
		if err := s.remote.Delete(context.Background(), remote.CollectionWallets, id.Remote()); err != nil {
			s.log.Warnw("remote wallet delete failed", "id", id, "error", err)
		}
	}
	return nil
}

// Wallets returns the persisted wallets. The Global wallet is never among
// them.
func (s *walletService) Wallets() ([]models.Wallet, error) {
	return localstore.Load[models.Wallet](s.store, localstore.KeyWallets)
}

// GlobalWallet recomputes the synthetic aggregate wallet from the current
// transactions.
func (s *walletService) GlobalWallet() (models.Wallet, error) {
	transactions, err := localstore.Load[models.Transaction](s.store, localstore.KeyTransactions)
	if err != nil {
		return models.Wallet{}, err
	}
	return models.GlobalWallet(transactions), nil
}

// ApplyBalanceDelta adjusts a wallet's running balance and persists it.
// The remote copy is patched best-effort; an unsynced wallet's queued entry
// is refreshed instead so the eventual flush carries the current balance.
func (s *walletService) ApplyBalanceDelta(walletID string, delta decimal.Decimal) error {
	wallets, err := s.Wallets()
	if err != nil {
		return err
	}
	idx := -1
	for i := range wallets {
		if wallets[i].ID.String() == walletID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrWalletNotFound
	}

	wallets[idx].Balance = wallets[idx].Balance.Add(delta)
	wallet := wallets[idx]
	if err := localstore.Save(s.store, localstore.KeyWallets, wallets); err != nil {
		return err
	}

	if wallet.ID.IsLocal() {
		if _, err := pending.Replace(s.queue, localstore.KeyPendingWallets,
			func(e models.Wallet) bool { return e.ID == wallet.ID }, wallet); err != nil {
			return err
		}
		return nil
	}

	if s.monitor.Status().IsOnline {
		patch, err := json.Marshal(map[string]interface{}{"balance": wallet.Balance})
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if err := s.remote.Update(context.Background(), remote.CollectionWallets, wallet.ID.Remote(), patch); err != nil {
			s.log.Warnw("remote balance update failed", "id", wallet.ID, "error", err)
		}
	}
	return nil
}

// validateInput checks the input fields, the reserved sentinel, and name
// uniqueness (case-insensitive) against all wallets except self.
func (s *walletService) validateInput(input WalletInput, wallets []models.Wallet, self models.ID) error {
	name := strings.TrimSpace(input.Name)
	if strings.EqualFold(name, models.GlobalWalletID) {
		return apperrors.ErrReservedWalletName
	}
	if err := validator.Struct(input); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	for _, w := range wallets {
		if w.ID != self && strings.EqualFold(w.Name, name) {
			return apperrors.ErrDuplicateWalletName
		}
	}
	return nil
}

// walletIndexByID finds a wallet by id, -1 if absent.
func walletIndexByID(wallets []models.Wallet, id models.ID) int {
	for i := range wallets {
		if wallets[i].ID == id {
			return i
		}
	}
	return -1
}
