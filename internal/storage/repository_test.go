package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finpulse/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestCreateAndGetTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Description:        "Coffee shop",
		Amount:             -4.50,
		Date:               time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
		Category:           "Food & Dining",
		CategoryConfidence: 0.85,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if created.ID == 0 {
		t.Error("CreateTransaction() did not assign an ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreateTransaction() did not set CreatedAt")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Description != "Coffee shop" || got.Amount != -4.50 {
		t.Errorf("GetTransaction() = %+v, want description and amount round-tripped", got)
	}
	if !got.Date.Equal(created.Date) {
		t.Errorf("GetTransaction() date = %v, want %v", got.Date, created.Date)
	}
	if got.Category != "Food & Dining" || got.CategoryConfidence != 0.85 {
		t.Errorf("GetTransaction() category = %q (%v), want enrichment persisted", got.Category, got.CategoryConfidence)
	}
}

func TestCreateTransactionDefaultsCategory(t *testing.T) {
	repo := newTestRepo(t)

	created, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Description: "Mystery charge",
		Amount:      -10,
		Date:        time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if created.Category != core.Uncategorized {
		t.Errorf("Category = %q, want %q", created.Category, core.Uncategorized)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, desc := range []string{"oldest", "middle", "newest"} {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			Description: desc,
			Amount:      -1,
			Date:        base.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("CreateTransaction(%q) error = %v", desc, err)
		}
	}

	listed, err := repo.ListTransactions(ctx, 2)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListTransactions() returned %d rows, want 2", len(listed))
	}
	if listed[0].Description != "newest" || listed[1].Description != "middle" {
		t.Errorf("ListTransactions() order = [%s %s], want [newest middle]",
			listed[0].Description, listed[1].Description)
	}

	all, err := repo.AllTransactions(ctx)
	if err != nil {
		t.Fatalf("AllTransactions() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("AllTransactions() returned %d rows, want 3", len(all))
	}
	if all[0].Description != "oldest" {
		t.Errorf("AllTransactions() first = %s, want oldest", all[0].Description)
	}
}

func TestListTransactionsEmpty(t *testing.T) {
	repo := newTestRepo(t)

	listed, err := repo.ListTransactions(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if listed == nil {
		t.Error("ListTransactions() returned nil, want empty slice")
	}
	if len(listed) != 0 {
		t.Errorf("ListTransactions() returned %d rows, want 0", len(listed))
	}
}

func TestExportStateTransitions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.CreateTransaction(ctx, core.Transaction{
		Description: "first", Amount: -5, Date: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	second, err := repo.CreateTransaction(ctx, core.Transaction{
		Description: "second", Amount: -6, Date: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	pending, err := repo.PendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExports() error = %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("PendingExports() = %d rows, want 2", len(pending))
	}
	if pending[0].ID != first.ID {
		t.Errorf("PendingExports() first = %d, want oldest id %d", pending[0].ID, first.ID)
	}

	if err := repo.MarkExported(ctx, first.ID); err != nil {
		t.Fatalf("MarkExported() error = %v", err)
	}
	if err := repo.MarkExportError(ctx, second.ID); err != nil {
		t.Fatalf("MarkExportError() error = %v", err)
	}

	// The exported row drops out; the errored row stays queued for the
	// next sweep to retry.
	pending, err = repo.PendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExports() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("PendingExports() = %d rows after transitions, want 1", len(pending))
	}
	if pending[0].ID != second.ID {
		t.Errorf("PendingExports() retry candidate = %d, want errored id %d", pending[0].ID, second.ID)
	}

	if err := repo.MarkExported(ctx, second.ID); err != nil {
		t.Fatalf("MarkExported() error = %v", err)
	}
	pending, err = repo.PendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExports() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("PendingExports() = %d rows after retry success, want 0", len(pending))
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.LatestSnapshot(ctx); err == nil {
		t.Error("LatestSnapshot() on empty table should return an error")
	}

	want := core.MetricsSnapshot{
		TotalIncome:    3000,
		TotalExpenses:  1200.50,
		NetCashFlow:    1799.50,
		CurrentBalance: 7034.17,
	}
	if err := repo.SaveSnapshot(ctx, want, 14); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if err := repo.SaveSnapshot(ctx, core.MetricsSnapshot{CurrentBalance: 9999}, 15); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	got, err := repo.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if got.CurrentBalance != 9999 {
		t.Errorf("LatestSnapshot() balance = %v, want most recent row", got.CurrentBalance)
	}
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
