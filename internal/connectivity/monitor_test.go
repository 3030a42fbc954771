package connectivity

import (
	"testing"
	"time"
)

func TestStatusReflectsConstruction(t *testing.T) {
	online := NewMonitor(true)
	if !online.Status().IsOnline {
		t.Error("expected online status")
	}

	offline := NewMonitor(false)
	if offline.Status().IsOnline {
		t.Error("expected offline status")
	}
}

func TestNotifiesSubscribersInRegistrationOrder(t *testing.T) {
	m := NewMonitor(false)

	var order []int
	m.Subscribe(func(Status) { order = append(order, 1) })
	m.Subscribe(func(Status) { order = append(order, 2) })
	m.Subscribe(func(Status) { order = append(order, 3) })

	m.SetOnline(true)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected notification order [1 2 3], got %v", order)
	}
}

func TestOnlineHookFiresOncePerTransition(t *testing.T) {
	m := NewMonitor(false)

	var hookCalls int
	m.OnOnline(func() { hookCalls++ })
	m.Subscribe(func(Status) {})
	m.Subscribe(func(Status) {})

	m.SetOnline(true)
	if hookCalls != 1 {
		t.Fatalf("expected 1 hook call after transition, got %d", hookCalls)
	}

	// Setting the same state again is not a transition.
	m.SetOnline(true)
	if hookCalls != 1 {
		t.Fatalf("expected no additional hook call, got %d", hookCalls)
	}

	m.SetOnline(false)
	m.SetOnline(true)
	if hookCalls != 2 {
		t.Errorf("expected 2 hook calls after second transition, got %d", hookCalls)
	}
}

func TestHookNotFiredOnOffline(t *testing.T) {
	m := NewMonitor(true)

	var hookCalls int
	m.OnOnline(func() { hookCalls++ })

	m.SetOnline(false)
	if hookCalls != 0 {
		t.Errorf("expected no hook call on going offline, got %d", hookCalls)
	}
}

func TestUnsubscribe(t *testing.T) {
	m := NewMonitor(false)

	var calls int
	unsub := m.Subscribe(func(Status) { calls++ })

	m.SetOnline(true)
	unsub()
	m.SetOnline(false)

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestSyncingAndLastSync(t *testing.T) {
	m := NewMonitor(true)

	var statuses []Status
	m.Subscribe(func(s Status) { statuses = append(statuses, s) })

	m.SetSyncing(true)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	m.SetLastSync(at)
	m.SetSyncing(false)

	if len(statuses) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(statuses))
	}
	if !statuses[0].IsSyncing {
		t.Error("expected syncing=true in first notification")
	}
	if statuses[1].LastSync == nil || !statuses[1].LastSync.Equal(at) {
		t.Errorf("expected last sync %v, got %v", at, statuses[1].LastSync)
	}
	if statuses[2].IsSyncing {
		t.Error("expected syncing=false in last notification")
	}
}
