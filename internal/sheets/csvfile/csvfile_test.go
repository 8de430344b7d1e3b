package csvfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

func exp(cat, amount, date string) core.Expense {
	return core.Expense{Category: cat, Amount: decimal.RequireFromString(amount), Date: date}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "expenses.csv"), nil)
	got, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "expenses.csv")
	f := New(path, nil)

	in := []core.Expense{
		exp("Food", "12.50", "2024-01-01"),
		exp("Eating, out", "-3", "2024-01-02"),
		exp(`Say "hi"`, "0.01", "2024-01-03"),
	}
	if err := f.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := New(path, nil).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("got %d rows, want %d", len(got), len(in))
	}
	for i := range in {
		if !got[i].Equal(in[i]) {
			t.Errorf("row %d: got %v, want %v", i, got[i], in[i])
		}
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.csv")
	f := New(path, nil)

	if err := f.Save(ctx, []core.Expense{exp("A", "1", "d"), exp("B", "2", "d")}); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty file after saving nothing, got %q", data)
	}
}

func TestEncodeFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []core.Expense{exp("Food", "12.50", "2024-01-01"), exp("a,b", "1", "2024-01-02")}); err != nil {
		t.Fatal(err)
	}
	want := "Food,12.5,2024-01-01\n\"a,b\",1,2024-01-02\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestDecodeBestEffort(t *testing.T) {
	input := "Food,10.0,2024-01-01\nShort\nTaxi,abc,2024-01-02\nBook,5,2024-01-03,extra\n"
	var bad []int
	got, err := Decode(strings.NewReader(input), func(line int, raw string, err error) {
		bad = append(bad, line)
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []core.Expense{
		exp("Food", "10", "2024-01-01"),
		exp("Short", "0", ""),
		exp("Taxi", "0", "2024-01-02"),
		exp("Book", "5", "2024-01-03"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("row %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if len(bad) != 2 || bad[0] != 2 || bad[1] != 3 {
		t.Errorf("bad amount lines = %v, want [2 3]", bad)
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	if _, err := Decode(strings.NewReader("\"unterminated,1,2024-01-01\n"), nil); err == nil {
		t.Fatal("expected csv parse error")
	}
}

func TestLoadUnreadablePath(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened as a CSV file for reading rows.
	f := New(dir, nil)
	if _, err := f.Load(context.Background()); err == nil {
		t.Fatal("expected error reading a directory")
	}
}
