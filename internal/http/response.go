package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

// expenseJSON is the wire form of an expense. Index is the 1-based display
// position within the returned list, not a stable identifier.
type expenseJSON struct {
	Index    int             `json:"index"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Display  string          `json:"display"`
}

type shareJSON struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"`
}

type summaryJSON struct {
	Total      decimal.Decimal `json:"total"`
	Categories []shareJSON     `json:"categories"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func toExpensesJSON(currency string, expenses []core.Expense) []expenseJSON {
	out := make([]expenseJSON, len(expenses))
	for i, e := range expenses {
		out[i] = expenseJSON{
			Index:    i + 1,
			Category: e.Category,
			Amount:   e.Amount,
			Date:     e.Date,
			Display:  e.Display(currency),
		}
	}
	return out
}

func toSummaryJSON(s services.Summary) summaryJSON {
	out := summaryJSON{Total: s.Total, Categories: make([]shareJSON, len(s.Categories))}
	for i, c := range s.Categories {
		out.Categories[i] = shareJSON{Category: c.Category, Amount: c.Amount, Percent: c.Percent}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Error: msg})
}
