package http

import (
	"errors"
	"net/http"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListExpenses lists expenses, optionally narrowed by category
// (case-insensitive) and then by exact date.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	date := strings.TrimSpace(q.Get("date"))

	s.mu.Lock()
	var items []core.Expense
	if category != "" {
		items = s.svc.FilterByCategory(category)
	} else {
		items = s.svc.List()
	}
	s.mu.Unlock()

	if date != "" {
		kept := items[:0:0]
		for _, e := range items {
			if e.Date == date {
				kept = append(kept, e)
			}
		}
		items = kept
	}

	writeJSON(w, http.StatusOK, toExpensesJSON(s.currency, items))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := sanitizeInput(req.Category)
	date := strings.TrimSpace(req.Date)
	if err := core.ValidateDate(date); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	e, err := s.svc.Add(ctx, category, req.Amount, date)
	n := s.svc.Len()
	s.mu.Unlock()

	switch {
	case errors.Is(err, core.ErrConversion):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		logger.ErrorContext(ctx, "Expense save failed",
			log.NewFields().
				WithOperation(log.OpAdd).
				WithExpense(category, "", date).
				WithError(err).
				ToSlice()...)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	writeJSON(w, http.StatusCreated, expenseJSON{
		Index:    n,
		Category: e.Category,
		Amount:   e.Amount,
		Date:     e.Date,
		Display:  e.Display(s.currency),
	})
}

// handleClearExpenses removes every expense. It requires ?confirm=yes.
func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.URL.Query().Get("confirm") != "yes" {
		writeError(w, http.StatusBadRequest, "clearing all expenses requires confirm=yes")
		return
	}

	s.mu.Lock()
	err := s.svc.Clear(ctx)
	s.mu.Unlock()

	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Clear failed",
			log.FieldOperation, log.OpClear, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to clear expenses")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sum := s.svc.Summary()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, toSummaryJSON(sum))
}
