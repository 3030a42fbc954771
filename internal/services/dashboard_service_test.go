package services

import (
	"testing"

	"moneta/internal/localstore"
	"moneta/internal/models"
	"moneta/internal/remote"
	"moneta/internal/testutil"
)

func TestSaveCards(t *testing.T) {
	t.Run("creates_singleton_lazily", func(t *testing.T) {
		env := newTestEnv(t)

		cards, err := env.dashboard.Cards()
		testutil.AssertNoError(t, err)
		if len(cards) != 0 {
			t.Fatalf("expected no layout before first save, got %d cards", len(cards))
		}

		settings, err := env.dashboard.SaveCards([]models.DashboardCard{
			{Kind: "balance"},
			{Kind: "trend", Size: "half"},
		})
		testutil.AssertNoError(t, err)
		if settings.ID.IsZero() {
			t.Error("expected an id on the singleton record")
		}

		records, err := localstore.Load[models.DashboardSettings](env.store, localstore.KeyDashboardCards)
		testutil.AssertNoError(t, err)
		if len(records) != 1 {
			t.Fatalf("expected exactly one persisted record, got %d", len(records))
		}
	})

	t.Run("repeated_saves_never_grow_past_one_row", func(t *testing.T) {
		env := newTestEnv(t)

		first, err := env.dashboard.SaveCards([]models.DashboardCard{{Kind: "balance"}})
		testutil.AssertNoError(t, err)
		second, err := env.dashboard.SaveCards([]models.DashboardCard{{Kind: "trend"}, {Kind: "balance"}})
		testutil.AssertNoError(t, err)

		if first.ID != second.ID {
			t.Errorf("expected the same record updated in place, got %v then %v", first.ID, second.ID)
		}
		records, err := localstore.Load[models.DashboardSettings](env.store, localstore.KeyDashboardCards)
		testutil.AssertNoError(t, err)
		if len(records) != 1 {
			t.Fatalf("expected exactly one persisted record, got %d", len(records))
		}
		if got := env.remote.Count(remote.CollectionDashboardSettings); got != 1 {
			t.Errorf("expected exactly one remote row, got %d", got)
		}

		cards, err := env.dashboard.Cards()
		testutil.AssertNoError(t, err)
		if len(cards) != 2 || cards[0].Kind != "trend" {
			t.Errorf("expected latest layout in order, got %v", cards)
		}
	})

	t.Run("offline_save_uses_temporary_id", func(t *testing.T) {
		env := newTestEnv(t)
		env.monitor.SetOnline(false)

		settings, err := env.dashboard.SaveCards([]models.DashboardCard{{Kind: "balance"}})
		testutil.AssertNoError(t, err)
		if !settings.ID.IsLocal() {
			t.Errorf("expected temporary id offline, got %v", settings.ID)
		}
		// No pending queue for the singleton; the next sync pass uploads it.
		if env.remote.Count(remote.CollectionDashboardSettings) != 0 {
			t.Error("expected no remote row while offline")
		}
	})

	t.Run("nil_cards_saved_as_empty_layout", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.dashboard.SaveCards(nil)
		testutil.AssertNoError(t, err)

		cards, err := env.dashboard.Cards()
		testutil.AssertNoError(t, err)
		if cards == nil || len(cards) != 0 {
			t.Errorf("expected empty non-nil layout, got %v", cards)
		}
	})
}
