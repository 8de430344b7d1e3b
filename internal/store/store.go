// Package store owns the in-memory expense sequence and mirrors it to a
// persister after every mutation.
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines (the HTTP server) serialize access themselves. Two stores on
// the same backing file is unsupported: the last writer wins.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/sheets"
	"expensetracker/internal/sheets/csvfile"
)

// Store is the ordered expense sequence and the persister it mirrors to.
type Store struct {
	persister sheets.Persister
	expenses  []core.Expense
	logger    *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load/save events.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store over p and loads whatever p already holds.
func New(ctx context.Context, p sheets.Persister, opts ...Option) (*Store, error) {
	s := newStore(opts)
	s.persister = p
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open creates a store backed by the CSV file at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := newStore(opts)
	s.persister = csvfile.New(path, s.logger)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newStore(opts []Option) *Store {
	s := &Store{logger: log.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentStore)
	return s
}

// Load replaces the in-memory sequence with the persisted one.
func (s *Store) Load(ctx context.Context) error {
	expenses, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	s.expenses = expenses
	s.logger.DebugContext(ctx, "Expenses loaded", log.FieldOperation, log.OpLoad, log.FieldCount, len(expenses))
	return nil
}

// Save writes the whole in-memory sequence to the persister.
func (s *Store) Save(ctx context.Context) error {
	if err := s.persister.Save(ctx, s.expenses); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	s.logger.DebugContext(ctx, "Expenses saved", log.FieldOperation, log.OpSave, log.FieldCount, len(s.expenses))
	return nil
}

// Add converts amount, appends the expense and saves. A non-numeric amount
// returns a *core.ConversionError and leaves memory and storage untouched.
// The date is stored as given; callers validate it with core.ValidateDate.
func (s *Store) Add(ctx context.Context, category string, amount any, date string) (core.Expense, error) {
	e, err := core.NewExpense(category, amount, date)
	if err != nil {
		return core.Expense{}, err
	}
	s.expenses = append(s.expenses, e)
	if err := s.Save(ctx); err != nil {
		return e, err
	}
	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().
			WithOperation(log.OpAdd).
			WithExpense(e.Category, e.Amount.String(), e.Date).
			WithCount(len(s.expenses)).
			ToSlice()...)
	return e, nil
}

// List returns a copy of every expense in insertion order.
func (s *Store) List() []core.Expense {
	return append([]core.Expense(nil), s.expenses...)
}

// Len returns the number of recorded expenses.
func (s *Store) Len() int {
	return len(s.expenses)
}

// FilterByCategory returns expenses whose category equals category,
// ignoring case.
func (s *Store) FilterByCategory(category string) []core.Expense {
	return s.filter(func(e core.Expense) bool {
		return strings.EqualFold(e.Category, category)
	})
}

// FilterByDate returns expenses whose date is exactly date. No parsing
// happens: "2024-1-1" does not match "2024-01-01".
func (s *Store) FilterByDate(date string) []core.Expense {
	return s.filter(func(e core.Expense) bool {
		return e.Date == date
	})
}

func (s *Store) filter(keep func(core.Expense) bool) []core.Expense {
	out := []core.Expense{}
	for _, e := range s.expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// AggregateByCategory sums amounts per category. Keys are exact, so
// "Food" and "food" are separate buckets even though FilterByCategory
// treats them as one.
func (s *Store) AggregateByCategory() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range s.expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// Total returns the sum of every amount.
func (s *Store) Total() decimal.Decimal {
	return core.SumAmounts(s.expenses)
}

// Clear drops every expense and saves the empty sequence. It cannot be
// undone; callers confirm with the user first.
func (s *Store) Clear(ctx context.Context) error {
	n := len(s.expenses)
	s.expenses = []core.Expense{}
	if err := s.Save(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expenses cleared", log.FieldOperation, log.OpClear, "removed", n)
	return nil
}

// Location describes where the expenses are persisted, when known.
func (s *Store) Location() string {
	if l, ok := s.persister.(sheets.Locator); ok {
		return l.Location()
	}
	return ""
}
