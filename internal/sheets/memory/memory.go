package memory

import (
	"context"
	"fmt"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/sheets"
)

var (
	_ sheets.Persister       = (*Store)(nil)
	_ sheets.ExpenseAppender = (*Store)(nil)
	_ sheets.Locator         = (*Store)(nil)
)

// Store keeps the expense sequence in process memory. Nothing survives a
// restart; it backs tests and throwaway sessions.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
	saves int
	// Fail, when set, is returned by every Load and Save.
	Fail error
}

func New(seed ...core.Expense) *Store {
	return &Store{items: append([]core.Expense(nil), seed...)}
}

func (s *Store) Load(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	return append([]core.Expense(nil), s.items...), nil
}

func (s *Store) Save(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.items = append([]core.Expense(nil), expenses...)
	s.saves++
	return nil
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return "", s.Fail
	}
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *Store) Location() string { return "memory" }
