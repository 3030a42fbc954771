package services

import (
	"testing"

	apperrors "moneta/internal/errors"
	"moneta/internal/localstore"
	"moneta/internal/models"
	"moneta/internal/pending"
	"moneta/internal/remote"
	"moneta/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("online_creation_confirms_server_id", func(t *testing.T) {
		env := newTestEnv(t)

		category, err := env.categories.CreateCategory(CategoryInput{Name: "Gear", Type: "expense"})
		testutil.AssertNoError(t, err)

		if category.ID.IsLocal() || category.ID.IsZero() {
			t.Errorf("expected server id, got %v", category.ID)
		}
		if got := env.remote.Count(remote.CollectionCustomCategories); got != 1 {
			t.Errorf("expected 1 remote row, got %d", got)
		}
	})

	t.Run("offline_creation_is_queued", func(t *testing.T) {
		env := newTestEnv(t)
		env.monitor.SetOnline(false)

		category, err := env.categories.CreateCategory(CategoryInput{Name: "Gear", Type: "expense"})
		testutil.AssertNoError(t, err)

		if !category.ID.IsLocal() {
			t.Errorf("expected temporary id offline, got %v", category.ID)
		}
		queued, err := pending.Peek[models.CustomCategory](env.queue, localstore.KeyPendingCustomCategories)
		testutil.AssertNoError(t, err)
		if len(queued) != 1 {
			t.Errorf("expected category in pending queue, got %d", len(queued))
		}
	})

	t.Run("rejects_builtin_duplicate", func(t *testing.T) {
		env := newTestEnv(t)

		builtin := models.DefaultCategories()[0]
		_, err := env.categories.CreateCategory(CategoryInput{Name: builtin.Name, Type: string(builtin.Type)})
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})

	t.Run("rejects_custom_duplicate_same_type_only", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.categories.CreateCategory(CategoryInput{Name: "Gear", Type: "expense"})
		testutil.AssertNoError(t, err)
		_, err = env.categories.CreateCategory(CategoryInput{Name: "gear", Type: "expense"})
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)

		// The same name under the other type is a distinct category.
		_, err = env.categories.CreateCategory(CategoryInput{Name: "Gear", Type: "income"})
		testutil.AssertNoError(t, err)
	})

	t.Run("rejects_bad_type", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.categories.CreateCategory(CategoryInput{Name: "Gear", Type: "transfer"})
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("removes_record_and_queued_copy", func(t *testing.T) {
		env := newTestEnv(t)
		env.monitor.SetOnline(false)

		category, err := env.categories.CreateCategory(CategoryInput{Name: "Gear", Type: "expense"})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, env.categories.DeleteCategory(category.ID))

		categories, err := env.categories.CustomCategories()
		testutil.AssertNoError(t, err)
		if len(categories) != 0 {
			t.Errorf("expected category removed, got %d", len(categories))
		}
		queued, err := pending.Peek[models.CustomCategory](env.queue, localstore.KeyPendingCustomCategories)
		testutil.AssertNoError(t, err)
		if len(queued) != 0 {
			t.Errorf("expected queued copy purged")
		}
	})

	t.Run("unknown_id", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.categories.DeleteCategory(models.RemoteID("missing"))
		testutil.AssertAppError(t, err, apperrors.ErrCategoryNotFound.Code)
	})
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.categories.CreateCategory(CategoryInput{Name: "Gear", Type: "expense"})
	testutil.AssertNoError(t, err)

	merged, err := env.categories.Categories(models.TransactionTypeExpense)
	testutil.AssertNoError(t, err)

	var builtinCount int
	for _, c := range models.DefaultCategories() {
		if c.Type == models.TransactionTypeExpense {
			builtinCount++
		}
	}
	if len(merged) != builtinCount+1 {
		t.Fatalf("expected %d categories, got %d", builtinCount+1, len(merged))
	}
	// Built-ins come first; the custom one is appended.
	if merged[len(merged)-1].Name != "Gear" {
		t.Errorf("expected custom category last, got %q", merged[len(merged)-1].Name)
	}
	for _, c := range merged {
		if c.Type != models.TransactionTypeExpense {
			t.Errorf("unexpected type %q in expense list", c.Type)
		}
	}
}
