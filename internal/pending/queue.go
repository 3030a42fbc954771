// Package pending holds mutations not yet confirmed by the remote store.
// Entries are appended in call order and drained oldest-first, so upload
// attempts during a sync pass preserve the original mutation order.
package pending

import (
	"moneta/internal/localstore"
)

// Queue is a durable per-entity-type list of unconfirmed mutations backed by
// the same key→value store as the local cache.
type Queue struct {
	store *localstore.Store
}

// NewQueue creates a queue over the given store.
func NewQueue(store *localstore.Store) *Queue {
	return &Queue{store: store}
}

// Enqueue appends a full copy of the record to the queue under key.
func Enqueue[T any](q *Queue, key string, record T) error {
	entries, err := localstore.Load[T](q.store, key)
	if err != nil {
		return err
	}
	entries = append(entries, record)
	return localstore.Save(q.store, key, entries)
}

// DrainAll returns all queued entries in enqueue order and clears the queue.
// There is no partial drain.
func DrainAll[T any](q *Queue, key string) ([]T, error) {
	entries, err := localstore.Load[T](q.store, key)
	if err != nil {
		return nil, err
	}
	if err := localstore.Save(q.store, key, []T{}); err != nil {
		return nil, err
	}
	return entries, nil
}

// Peek returns the queued entries without clearing them.
func Peek[T any](q *Queue, key string) ([]T, error) {
	return localstore.Load[T](q.store, key)
}

// Remove deletes every queued entry matching the predicate. Used when a
// record is deleted locally so a delayed flush cannot resurrect it.
func Remove[T any](q *Queue, key string, match func(T) bool) error {
	entries, err := localstore.Load[T](q.store, key)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	return localstore.Save(q.store, key, kept)
}

// Replace swaps the first queued entry matching the predicate for entry,
// preserving its queue position. It reports whether a match was found.
func Replace[T any](q *Queue, key string, match func(T) bool, entry T) (bool, error) {
	entries, err := localstore.Load[T](q.store, key)
	if err != nil {
		return false, err
	}
	for i, e := range entries {
		if match(e) {
			entries[i] = entry
			return true, localstore.Save(q.store, key, entries)
		}
	}
	return false, nil
}

// Clear empties the queue under key.
func (q *Queue) Clear(key string) error {
	return q.store.SaveRaw(key, []byte("[]"))
}
