package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-01", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-1-1", false},
		{"01/01/2024", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidateDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
			}
		}
	}
}

func TestNewExpense(t *testing.T) {
	e, err := NewExpense("Food", "12.50", "2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Expense{Category: "Food", Amount: decimal.RequireFromString("12.5"), Date: "2024-01-01"}
	if !e.Equal(want) {
		t.Fatalf("got %v, want %v", e, want)
	}

	if _, err := NewExpense("Food", "twelve", "2024-01-01"); !errors.Is(err, ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
}

func TestExpenseEqualComparesAmountsNumerically(t *testing.T) {
	a := Expense{Category: "Food", Amount: decimal.RequireFromString("12.5"), Date: "2024-01-01"}
	b := Expense{Category: "Food", Amount: decimal.RequireFromString("12.50"), Date: "2024-01-01"}
	if !a.Equal(b) {
		t.Fatalf("expected %v == %v", a, b)
	}
	b.Category = "food"
	if a.Equal(b) {
		t.Fatalf("category comparison must be exact")
	}
}

func TestExpenseDisplay(t *testing.T) {
	tests := []struct {
		e    Expense
		sym  string
		want string
	}{
		{Expense{"Food", decimal.RequireFromString("12.50"), "2024-01-15"}, "£", "Food: £12.5 on 2024-01-15"},
		{Expense{"Refund", decimal.NewFromInt(-3), "2024-01-16"}, "€", "Refund: -€3 on 2024-01-16"},
	}
	for _, tt := range tests {
		if got := tt.e.Display(tt.sym); got != tt.want {
			t.Errorf("Display = %q, want %q", got, tt.want)
		}
	}
}
