// Package syncer drives the full sync pass: upload pending mutations, then
// download the authoritative remote copy and overwrite the local cache
// (remote-download-wins).
package syncer

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"moneta/internal/connectivity"
	"moneta/internal/localstore"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/pending"
	"moneta/internal/remote"
)

// Orchestrator runs full sync passes. It is single-flight: while a pass is in
// flight, further RunFullSync calls are no-ops.
type Orchestrator struct {
	store    *localstore.Store
	queue    *pending.Queue
	remote   remote.Store
	monitor  *connectivity.Monitor
	adapters []Adapter
	syncing  atomic.Bool
	log      *zap.SugaredLogger
}

// New creates an orchestrator over the standard entity adapters.
func New(store *localstore.Store, queue *pending.Queue, remoteStore remote.Store, monitor *connectivity.Monitor) *Orchestrator {
	return &Orchestrator{
		store:    store,
		queue:    queue,
		remote:   remoteStore,
		monitor:  monitor,
		adapters: Adapters(),
		log:      logger.Get(),
	}
}

// IsSyncing reports whether a pass is currently in flight.
func (o *Orchestrator) IsSyncing() bool {
	return o.syncing.Load()
}

// RunFullSync performs one full sync pass: for each entity type in fixed
// order, drain and upload the pending queue, then download the authoritative
// list and overwrite the local cache. A failure in one entity type does not
// abort the others. Concurrent callers observe the in-flight pass and return
// immediately.
func (o *Orchestrator) RunFullSync(ctx context.Context) {
	if !o.syncing.CompareAndSwap(false, true) {
		o.log.Debug("sync already in flight, skipping")
		return
	}
	defer o.syncing.Store(false)

	o.monitor.SetSyncing(true)
	defer o.monitor.SetSyncing(false)

	o.log.Info("full sync started")
	for _, a := range o.adapters {
		o.syncEntity(ctx, a)
	}

	now := time.Now().UTC()
	if err := o.store.SaveString(localstore.KeyLastSync, now.Format(time.RFC3339)); err != nil {
		o.log.Warnw("persisting last sync timestamp failed", "error", err)
	}
	o.monitor.SetLastSync(now)
	o.log.Infow("full sync finished", "at", now)
}

// syncEntity uploads then downloads one entity type. Unexpected errors are
// logged and the pass moves on to the next type.
func (o *Orchestrator) syncEntity(ctx context.Context, a Adapter) {
	if a.QueueKey != "" {
		o.uploadPending(ctx, a)
	}
	if a.UploadUnsynced {
		o.uploadUnsynced(ctx, a)
	}
	o.download(ctx, a)
}

// uploadPending drains the queue for the entity type and attempts a remote
// insert for each entry, oldest first. A confirmed insert replaces the
// matching temporary record in the local cache in place; a failed insert is
// re-enqueued, never dropped.
func (o *Orchestrator) uploadPending(ctx context.Context, a Adapter) {
	entries, err := pending.DrainAll[remote.Row](o.queue, a.QueueKey)
	if err != nil {
		o.log.Warnw("draining pending queue failed", "entity", a.Name, "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	o.log.Infow("uploading pending entries", "entity", a.Name, "count", len(entries))
	for _, entry := range entries {
		tempID, err := rowID(entry)
		if err != nil {
			o.log.Warnw("skipping malformed pending entry", "entity", a.Name, "error", err)
			continue
		}

		serverRow, err := o.remote.Insert(ctx, a.Collection, withoutID(entry))
		if err != nil {
			o.log.Warnw("pending upload failed, re-enqueueing", "entity", a.Name, "id", tempID, "error", err)
			if qErr := pending.Enqueue(o.queue, a.QueueKey, entry); qErr != nil {
				o.log.Errorw("re-enqueueing pending entry failed", "entity", a.Name, "id", tempID, "error", qErr)
			}
			continue
		}

		if err := o.replaceInStore(a.StoreKey, tempID, serverRow); err != nil {
			o.log.Warnw("replacing temporary record failed", "entity", a.Name, "id", tempID, "error", err)
		}
	}
}

// uploadUnsynced inserts a singleton record that still carries a temporary
// id, straight from the local cache.
func (o *Orchestrator) uploadUnsynced(ctx context.Context, a Adapter) {
	rows, err := localstore.Load[remote.Row](o.store, a.StoreKey)
	if err != nil {
		o.log.Warnw("loading local records failed", "entity", a.Name, "error", err)
		return
	}

	for _, row := range rows {
		id, err := rowID(row)
		if err != nil || !id.IsLocal() {
			continue
		}
		serverRow, err := o.remote.Insert(ctx, a.Collection, withoutID(row))
		if err != nil {
			o.log.Warnw("unsynced upload failed", "entity", a.Name, "id", id, "error", err)
			continue
		}
		if err := o.replaceInStore(a.StoreKey, id, serverRow); err != nil {
			o.log.Warnw("replacing temporary record failed", "entity", a.Name, "id", id, "error", err)
		}
	}
}

// download fetches the authoritative list and unconditionally overwrites the
// local cache for the entity type. This replace-not-merge step is the
// system's conflict resolution policy.
func (o *Orchestrator) download(ctx context.Context, a Adapter) {
	rows, err := o.remote.List(ctx, a.Collection, a.OrderBy)
	if err != nil {
		o.log.Warnw("download failed, keeping local cache", "entity", a.Name, "error", err)
		return
	}
	if err := localstore.Save(o.store, a.StoreKey, rows); err != nil {
		o.log.Warnw("overwriting local cache failed", "entity", a.Name, "error", err)
		return
	}
	o.log.Debugw("local cache replaced", "entity", a.Name, "count", len(rows))
}

// replaceInStore swaps the record carrying tempID for the server-returned
// row, preserving its list position. A record evicted from the cache by an
// earlier download is skipped; the pass's own download step restores it.
func (o *Orchestrator) replaceInStore(storeKey string, tempID models.ID, serverRow remote.Row) error {
	rows, err := localstore.Load[remote.Row](o.store, storeKey)
	if err != nil {
		return err
	}
	for i, row := range rows {
		id, err := rowID(row)
		if err != nil {
			continue
		}
		if id == tempID {
			rows[i] = serverRow
			return localstore.Save(o.store, storeKey, rows)
		}
	}
	return nil
}

// rowID extracts the id field of a raw record.
func rowID(row remote.Row) (models.ID, error) {
	var probe struct {
		ID models.ID `json:"id"`
	}
	if err := json.Unmarshal(row, &probe); err != nil {
		return models.ID{}, err
	}
	return probe.ID, nil
}

// withoutID strips the id field so the backend assigns its own.
func withoutID(row remote.Row) remote.Row {
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(row, &decoded); err != nil {
		return row
	}
	delete(decoded, "id")
	stripped, err := json.Marshal(decoded)
	if err != nil {
		return row
	}
	return stripped
}
