package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/filestore"
	"expensetracker/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestList(t *testing.T) {
	t.Run("missing_file_is_empty", func(t *testing.T) {
		store := testutil.NewTempLedger(t)

		expenses := testutil.ListExpenses(t, store)
		if expenses == nil || len(expenses) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", expenses)
		}
		if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
			t.Errorf("list must not create the data file, stat err = %v", err)
		}
	})

	t.Run("empty_file_is_empty", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		if err := os.WriteFile(store.Path(), nil, 0o644); err != nil {
			t.Fatal(err)
		}

		if got := testutil.ListExpenses(t, store); len(got) != 0 {
			t.Errorf("expected no expenses, got %d", len(got))
		}
	})

	t.Run("corrupt_file", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		if err := os.WriteFile(store.Path(), []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := store.List(context.Background())
		if !errors.Is(err, storage.ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})

	t.Run("reads_plain_array_format", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		legacy := `[
  {"id": 1, "description": "Coffee", "amount": 3.5, "category": "food", "date": "2024-01-01"},
  {"id": 2, "description": "Bus", "amount": 2.0, "category": "transport", "date": "2024-01-02"}
]`
		if err := os.WriteFile(store.Path(), []byte(legacy), 0o644); err != nil {
			t.Fatal(err)
		}

		got := testutil.ListExpenses(t, store)
		if len(got) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(got))
		}
		if got[0].Description != "Coffee" || got[0].Amount != 3.5 || got[1].Category != "transport" {
			t.Errorf("unexpected contents: %+v", got)
		}
	})
}

func TestAppend(t *testing.T) {
	t.Run("sequential_ids", func(t *testing.T) {
		store := testutil.NewTempLedger(t)

		for want := int64(1); want <= 3; want++ {
			e := testutil.CreateTestExpense(t, store, 10, "food")
			if e.ID != want {
				t.Errorf("expected id %d, got %d", want, e.ID)
			}
		}
	})

	t.Run("survives_restart", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		created := testutil.CreateTestExpense(t, store, 42.5, "rent")

		reopened, err := filestore.New(store.Path())
		testutil.AssertNoError(t, err)

		got := testutil.ListExpenses(t, reopened)
		if len(got) != 1 || got[0] != created {
			t.Fatalf("expected [%+v], got %+v", created, got)
		}
	})

	t.Run("delete_first_then_append_does_not_collide", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		first := testutil.CreateTestExpense(t, store, 1, "a")
		second := testutil.CreateTestExpense(t, store, 2, "b")

		_, err := store.Delete(context.Background(), first.ID)
		testutil.AssertNoError(t, err)

		third := testutil.CreateTestExpense(t, store, 3, "c")
		if third.ID == second.ID {
			t.Fatalf("id %d reused", third.ID)
		}
		if third.ID != 3 {
			t.Errorf("expected id 3, got %d", third.ID)
		}
	})

	t.Run("delete_highest_then_append_does_not_reuse", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		testutil.CreateTestExpense(t, store, 1, "a")
		last := testutil.CreateTestExpense(t, store, 2, "b")

		_, err := store.Delete(context.Background(), last.ID)
		testutil.AssertNoError(t, err)

		reopened, err := filestore.New(store.Path())
		testutil.AssertNoError(t, err)

		next := testutil.CreateTestExpense(t, reopened, 3, "c")
		if next.ID != 3 {
			t.Errorf("expected id 3 after deleting id 2, got %d", next.ID)
		}
	})

	t.Run("legacy_file_without_counter", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		legacy := `[{"id": 7, "description": "Old", "amount": 1, "category": "x", "date": "2023-05-05"}]`
		if err := os.WriteFile(store.Path(), []byte(legacy), 0o644); err != nil {
			t.Fatal(err)
		}

		e := testutil.CreateTestExpense(t, store, 1, "x")
		if e.ID != 8 {
			t.Errorf("expected id 8, got %d", e.ID)
		}
	})

	t.Run("failed_append_persists_nothing", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		existing := testutil.CreateTestExpense(t, store, 1, "a")

		seqPath := store.Path() + ".seq"
		if err := os.Remove(seqPath); err != nil {
			t.Fatal(err)
		}
		if err := os.Mkdir(seqPath, 0o755); err != nil {
			t.Fatal(err)
		}

		_, err := store.Append(context.Background(), models.Expense{Amount: 2, Category: "b", Date: "2024-01-01"})
		if !errors.Is(err, storage.ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
		if got := testutil.ListExpenses(t, store); len(got) != 1 || got[0] != existing {
			t.Errorf("an append reported as failed must not be stored, got %+v", got)
		}
	})

	t.Run("concurrent_appends", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		const n = 25

		var wg sync.WaitGroup
		ids := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				e, err := store.Append(context.Background(), models.Expense{Amount: 1, Category: "c", Date: "2024-01-01"})
				if err != nil {
					t.Errorf("append failed: %v", err)
					return
				}
				ids <- e.ID
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool)
		for id := range ids {
			if seen[id] {
				t.Errorf("duplicate id %d", id)
			}
			seen[id] = true
		}
		if got := testutil.ListExpenses(t, store); len(got) != n {
			t.Errorf("expected %d persisted expenses, got %d", n, len(got))
		}
	})

	t.Run("cancelled_context", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := store.Append(ctx, models.Expense{Amount: 1}); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if got := testutil.ListExpenses(t, store); len(got) != 0 {
			t.Errorf("expected nothing persisted, got %d", len(got))
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		orig := testutil.CreateTestExpense(t, store, 10, "food")
		other := testutil.CreateTestExpense(t, store, 20, "transport")

		found, err := store.Update(context.Background(), orig.ID, models.ExpensePatch{Amount: ptr(50.0)})
		testutil.AssertNoError(t, err)
		if !found {
			t.Fatal("expected record to be found")
		}

		got := testutil.ListExpenses(t, store)
		want := orig
		want.Amount = 50
		if got[0] != want {
			t.Errorf("expected %+v, got %+v", want, got[0])
		}
		if got[1] != other {
			t.Errorf("other record changed: %+v", got[1])
		}
	})

	t.Run("all_fields", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		orig := testutil.CreateTestExpense(t, store, 10, "food")

		patch := models.ExpensePatch{
			Description: ptr("Dinner"),
			Amount:      ptr(12.25),
			Category:    ptr("dining"),
			Date:        ptr("2024-12-31"),
		}
		_, err := store.Update(context.Background(), orig.ID, patch)
		testutil.AssertNoError(t, err)

		got := testutil.ListExpenses(t, store)[0]
		want := models.Expense{ID: orig.ID, Description: "Dinner", Amount: 12.25, Category: "dining", Date: "2024-12-31"}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("missing_id_is_noop", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		orig := testutil.CreateTestExpense(t, store, 10, "food")

		found, err := store.Update(context.Background(), 999, models.ExpensePatch{Amount: ptr(1.0)})
		testutil.AssertNoError(t, err)
		if found {
			t.Error("expected no match")
		}

		got := testutil.ListExpenses(t, store)
		if len(got) != 1 || got[0] != orig {
			t.Errorf("collection changed: %+v", got)
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		store := testutil.NewTempLedger(t)

		found, err := store.Update(context.Background(), 1, models.ExpensePatch{Amount: ptr(1.0)})
		testutil.AssertNoError(t, err)
		if found {
			t.Error("expected no match on empty ledger")
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes_record", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		a := testutil.CreateTestExpense(t, store, 1, "a")
		b := testutil.CreateTestExpense(t, store, 2, "b")

		found, err := store.Delete(context.Background(), a.ID)
		testutil.AssertNoError(t, err)
		if !found {
			t.Error("expected match")
		}

		got := testutil.ListExpenses(t, store)
		if len(got) != 1 || got[0] != b {
			t.Errorf("expected only %+v, got %+v", b, got)
		}
	})

	t.Run("missing_id_is_idempotent", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		a := testutil.CreateTestExpense(t, store, 1, "a")

		for i := 0; i < 2; i++ {
			found, err := store.Delete(context.Background(), 42)
			testutil.AssertNoError(t, err)
			if found {
				t.Error("expected no match")
			}
		}

		got := testutil.ListExpenses(t, store)
		if len(got) != 1 || got[0] != a {
			t.Errorf("collection changed: %+v", got)
		}
	})

	t.Run("removes_duplicates", func(t *testing.T) {
		store := testutil.NewTempLedger(t)
		dup := `[
  {"id": 1, "description": "x", "amount": 1, "category": "a", "date": "2024-01-01"},
  {"id": 1, "description": "y", "amount": 2, "category": "a", "date": "2024-01-01"},
  {"id": 2, "description": "z", "amount": 3, "category": "b", "date": "2024-01-01"}
]`
		if err := os.WriteFile(store.Path(), []byte(dup), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := store.Delete(context.Background(), 1)
		testutil.AssertNoError(t, err)

		got := testutil.ListExpenses(t, store)
		if len(got) != 1 || got[0].ID != 2 {
			t.Errorf("expected only id 2, got %+v", got)
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("creates_directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "expenses.json")

		store, err := filestore.New(path)
		testutil.AssertNoError(t, err)
		testutil.CreateTestExpense(t, store, 1, "a")

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected data file to exist: %v", err)
		}
		if _, err := os.Stat(path + ".seq"); err != nil {
			t.Fatalf("expected counter file to exist: %v", err)
		}
	})

	t.Run("empty_path", func(t *testing.T) {
		if _, err := filestore.New(""); err == nil {
			t.Fatal("expected error for empty path")
		}
	})
}
