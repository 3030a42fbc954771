// Package moneta is the offline-first persistence and synchronization core
// of a personal finance tracker. Writes land in the durable local store
// first; remote writes are best-effort with fallback to a pending queue; a
// full sync pass uploads the queue and then overwrites the local cache with
// the authoritative remote copy.
package moneta

import (
	"context"
	"time"

	"moneta/internal/clock"
	"moneta/internal/config"
	"moneta/internal/connectivity"
	"moneta/internal/localstore"
	"moneta/internal/logger"
	"moneta/internal/pending"
	"moneta/internal/remote"
	"moneta/internal/services"
	"moneta/internal/syncer"
)

// Engine wires the sync core together: one instance per process/session,
// with an explicit Start/Stop lifecycle. Consumers receive it by injection
// rather than importing global state.
type Engine struct {
	cfg     *config.Config
	store   *localstore.Store
	queue   *pending.Queue
	remote  remote.Store
	monitor *connectivity.Monitor
	orch    *syncer.Orchestrator

	Transactions services.TransactionServicer
	Wallets      services.WalletServicer
	Categories   services.CategoryServicer
	Dashboard    services.DashboardServicer

	unsubs []func()
}

// New builds an engine over the given remote store. Passing nil constructs
// the HTTP client for cfg.RemoteBaseURL.
func New(cfg *config.Config, remoteStore remote.Store) (*Engine, error) {
	logger.Init(cfg.Env)

	store, err := localstore.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if remoteStore == nil {
		remoteStore = remote.NewHTTPStore(cfg.RemoteBaseURL, cfg.RemoteTimeout)
	}

	queue := pending.NewQueue(store)
	ids := &clock.TempIDSource{}
	// The monitor starts offline; Start probes reachability and flips it,
	// which doubles as the initial sync trigger.
	monitor := connectivity.NewMonitor(false)
	orch := syncer.New(store, queue, remoteStore, monitor)

	walletSvc := services.NewWalletService(store, queue, remoteStore, monitor, ids)
	txnSvc := services.NewTransactionService(store, queue, remoteStore, monitor, ids, walletSvc)
	walletSvc.SetTransactions(txnSvc)

	return &Engine{
		cfg:          cfg,
		store:        store,
		queue:        queue,
		remote:       remoteStore,
		monitor:      monitor,
		orch:         orch,
		Transactions: txnSvc,
		Wallets:      walletSvc,
		Categories:   services.NewCategoryService(store, queue, remoteStore, monitor, ids),
		Dashboard:    services.NewDashboardService(store, remoteStore, monitor, ids),
	}, nil
}

// Start probes remote reachability, registers the reconnect hook and change
// subscriptions, and restores the persisted last-sync timestamp. If the
// backend cannot be reached at all, the engine runs in local-only mode for
// the session: every write skips remote attempts and queues directly.
func (e *Engine) Start(ctx context.Context) error {
	if last, err := e.store.LoadString(localstore.KeyLastSync); err == nil && last != "" {
		if t, err := time.Parse(time.RFC3339, last); err == nil {
			e.monitor.SetLastSync(t)
		}
	}

	if e.cfg.SyncOnReconnect {
		e.monitor.OnOnline(func() {
			e.orch.RunFullSync(context.Background())
		})
	}

	for _, a := range syncer.Adapters() {
		unsub := e.remote.Subscribe(a.Collection, func() {
			// Debounced by the orchestrator's single-flight guard.
			e.orch.RunFullSync(context.Background())
		})
		e.unsubs = append(e.unsubs, unsub)
	}

	if err := e.remote.Ping(ctx); err != nil {
		logger.Get().Warnw("backend unreachable, entering local-only mode", "error", err)
		return nil
	}
	e.monitor.SetOnline(true)
	return nil
}

// Stop detaches remote subscriptions, closes the local store, and flushes
// the logger.
func (e *Engine) Stop() error {
	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil
	logger.Sync()
	return e.store.Close()
}

// Monitor exposes the connectivity monitor for status reads, subscriptions,
// and reachability transitions reported by the embedding application.
func (e *Engine) Monitor() *connectivity.Monitor {
	return e.monitor
}

// RunFullSync triggers a full sync pass on demand. It is a no-op while a
// pass is already in flight.
func (e *Engine) RunFullSync(ctx context.Context) {
	e.orch.RunFullSync(ctx)
}
