package google

import (
	"fmt"
	"strings"

	"expensetracker/internal/core"
)

// parseRows converts a values matrix (as returned by Sheets API) into
// expenses. Rows are category, amount, date; missing cells are empty.
// A first row whose amount cell reads "amount" is treated as a header.
// Unreadable amounts become zero and are reported through onBadAmount.
func parseRows(values [][]interface{}, onBadAmount func(row int, raw string, err error)) []core.Expense {
	out := make([]core.Expense, 0, len(values))
	for i, raw := range values {
		row := toStrings(raw)
		if len(row) == 0 || strings.Join(row, "") == "" {
			continue
		}
		category, amount, date := safeGet(row, 0), safeGet(row, 1), safeGet(row, 2)
		if i == 0 && strings.EqualFold(amount, "amount") {
			continue
		}
		amt, err := core.ParseAmount(amount)
		if err != nil && onBadAmount != nil {
			onBadAmount(i+1, amount, err)
		}
		out = append(out, core.Expense{Category: category, Amount: amt, Date: date})
	}
	return out
}

func toRows(expenses []core.Expense) [][]interface{} {
	rows := make([][]interface{}, len(expenses))
	for i, e := range expenses {
		rows[i] = []interface{}{e.Category, e.Amount.String(), e.Date}
	}
	return rows
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
