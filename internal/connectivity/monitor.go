// Package connectivity tracks online/offline transitions and exposes the
// current sync status to subscribers. It is an explicit store + observer,
// decoupled from any rendering layer.
package connectivity

import (
	"sync"
	"time"

	"moneta/internal/logger"
)

// Status is the externally visible connectivity and sync state.
type Status struct {
	IsOnline  bool
	IsSyncing bool
	LastSync  *time.Time
}

type subscriber struct {
	id int
	fn func(Status)
}

// Monitor holds the connectivity state. Every transition synchronously
// notifies all current subscribers in registration order; an offline→online
// transition additionally fires the reconnect hook exactly once.
type Monitor struct {
	mu       sync.Mutex
	status   Status
	subs     []subscriber
	nextID   int
	onOnline func()
}

// NewMonitor creates a monitor whose status reflects the given initial
// reachability.
func NewMonitor(initialOnline bool) *Monitor {
	return &Monitor{status: Status{IsOnline: initialOnline}}
}

// Status returns the current status.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// OnOnline registers the hook fired once per offline→online transition
// (typically SyncOrchestrator.RunFullSync).
func (m *Monitor) OnOnline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onOnline = fn
}

// Subscribe registers a status callback and returns an unsubscribe function.
func (m *Monitor) Subscribe(fn func(Status)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
	}
}

// SetOnline records a reachability transition. Setting the current value is
// a no-op.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.status.IsOnline == online {
		m.mu.Unlock()
		return
	}
	m.status.IsOnline = online
	status := m.status
	subs := m.snapshotSubs()
	hook := m.onOnline
	m.mu.Unlock()

	logger.Get().Infow("connectivity changed", "online", online)
	for _, fn := range subs {
		fn(status)
	}
	if online && hook != nil {
		hook()
	}
}

// SetSyncing records the orchestrator entering or leaving a sync pass.
func (m *Monitor) SetSyncing(syncing bool) {
	m.mu.Lock()
	if m.status.IsSyncing == syncing {
		m.mu.Unlock()
		return
	}
	m.status.IsSyncing = syncing
	status := m.status
	subs := m.snapshotSubs()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(status)
	}
}

// SetLastSync records the completion time of the latest full sync pass.
func (m *Monitor) SetLastSync(t time.Time) {
	m.mu.Lock()
	m.status.LastSync = &t
	status := m.status
	subs := m.snapshotSubs()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(status)
	}
}

// snapshotSubs returns the callbacks in registration order. Caller must hold
// the lock.
func (m *Monitor) snapshotSubs() []func(Status) {
	fns := make([]func(Status), 0, len(m.subs))
	for _, s := range m.subs {
		fns = append(fns, s.fn)
	}
	return fns
}
