package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "expenses.db")
	repo, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func exp(cat, amount, date string) core.Expense {
	return core.Expense{Category: cat, Amount: decimal.RequireFromString(amount), Date: date}
}

func TestSQLiteLoadEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestSQLiteSaveReplacesAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo, path := newTestRepo(t)

	first := []core.Expense{exp("A", "1", "2024-01-01"), exp("B", "2", "2024-01-02")}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := []core.Expense{exp("C", "0.1", "2024-02-01"), exp("A", "1", "2024-01-01"), exp("B", "-2.50", "x")}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	repo.Close()

	reopened, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(second) {
		t.Fatalf("got %d rows, want %d", len(got), len(second))
	}
	for i := range second {
		if !got[i].Equal(second[i]) {
			t.Errorf("row %d: got %v, want %v", i, got[i], second[i])
		}
	}
}

func TestSQLiteAppend(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	if err := repo.Save(ctx, []core.Expense{exp("A", "1", "d")}); err != nil {
		t.Fatal(err)
	}
	ref, err := repo.Append(ctx, exp("B", "2", "d"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "sqlite:2" {
		t.Fatalf("ref = %q", ref)
	}
	got, _ := repo.Load(ctx)
	if len(got) != 2 || got[1].Category != "B" {
		t.Fatalf("unexpected rows: %v", got)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	_, path := newTestRepo(t)
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
}
