package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryShare is one slice of the proportional chart.
type CategoryShare struct {
	Category string
	Amount   decimal.Decimal
	Percent  decimal.Decimal // of the absolute total, rounded to one decimal place
}

// SumAmounts returns the total of all expense amounts.
func SumAmounts(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Shares turns category totals into chart slices, largest first.
// An empty map yields nil, meaning there is nothing to visualize.
func Shares(totals map[string]decimal.Decimal) []CategoryShare {
	if len(totals) == 0 {
		return nil
	}
	abs := decimal.Zero
	for _, v := range totals {
		abs = abs.Add(v.Abs())
	}
	out := make([]CategoryShare, 0, len(totals))
	for cat, amt := range totals {
		pct := decimal.Zero
		if !abs.IsZero() {
			pct = amt.Abs().Div(abs).Mul(decimal.NewFromInt(100)).Round(1)
		}
		out = append(out, CategoryShare{Category: cat, Amount: amt, Percent: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
