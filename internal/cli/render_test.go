package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

func TestBarLength(t *testing.T) {
	tests := []struct {
		name    string
		percent string
		width   int
		want    int
	}{
		{"zero", "0", 40, 0},
		{"full", "100", 40, 40},
		{"half", "50", 40, 20},
		{"tiny share still visible", "0.1", 40, 1},
		{"no width", "50", 0, 0},
		{"rounds", "33.3", 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := barLength(decimal.RequireFromString(tt.percent), tt.width)
			if got != tt.want {
				t.Errorf("barLength(%s, %d) = %d, want %d", tt.percent, tt.width, got, tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 4, false); got != "ab  " {
		t.Errorf("left pad = %q", got)
	}
	if got := pad("ab", 4, true); got != "  ab" {
		t.Errorf("right pad = %q", got)
	}
	if got := pad("abcdef", 4, true); got != "abcdef" {
		t.Errorf("overflow pad = %q", got)
	}
}

func TestRenderChart(t *testing.T) {
	totals := map[string]decimal.Decimal{
		"Food":      decimal.RequireFromString("30"),
		"Transport": decimal.RequireFromString("10"),
	}
	out := RenderChart("£", decimal.RequireFromString("40"), core.Shares(totals), 20)

	for _, want := range []string{"Expenses by category", "Food", "Transport", "£30", "£10", "75.0%", "25.0%", "Total £40"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Food") > strings.Index(out, "Transport") {
		t.Errorf("largest category should come first:\n%s", out)
	}
	if RenderChart("£", decimal.Zero, nil, 20) != "" {
		t.Error("empty chart should render nothing")
	}
}

func TestRenderExpenses(t *testing.T) {
	out := RenderExpenses("All Expenses", "£", []core.Expense{
		{Category: "Food", Amount: decimal.RequireFromString("12.5"), Date: "2024-01-15"},
	})
	for _, want := range []string{"All Expenses", "Category", "Amount", "Date", "Food", "£12.5", "2024-01-15"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q", got)
	}
}
