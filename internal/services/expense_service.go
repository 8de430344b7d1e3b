package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/store"
)

// Publisher sends change events. *amqp.Client satisfies it.
type Publisher interface {
	PublishEvent(ctx context.Context, ev *amqp.ExpenseEvent) error
	Close() error
}

// Summary is the aggregate view used by the chart and the API.
type Summary struct {
	Total      decimal.Decimal
	Categories []core.CategoryShare
}

// ExpenseService orchestrates expense operations across the store and AMQP.
// Like the store it wraps, it is not safe for concurrent use.
type ExpenseService struct {
	store     *store.Store
	publisher Publisher
	logger    *log.Logger
}

// NewExpenseService wraps st. publisher may be nil, in which case no
// events are sent.
func NewExpenseService(st *store.Store, publisher Publisher, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExpenseService{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentApp),
	}
}

// Add records an expense and publishes expense.added once it is persisted.
func (s *ExpenseService) Add(ctx context.Context, category string, amount any, date string) (core.Expense, error) {
	e, err := s.store.Add(ctx, category, amount, date)
	if err != nil {
		return e, err
	}
	s.publish(ctx, amqp.NewExpenseAddedEvent(e, s.store.Len()))
	return e, nil
}

// Clear removes every expense and publishes expenses.cleared.
func (s *ExpenseService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewExpensesClearedEvent())
	return nil
}

func (s *ExpenseService) List() []core.Expense { return s.store.List() }

func (s *ExpenseService) Len() int { return s.store.Len() }

func (s *ExpenseService) FilterByCategory(category string) []core.Expense {
	return s.store.FilterByCategory(category)
}

func (s *ExpenseService) FilterByDate(date string) []core.Expense {
	return s.store.FilterByDate(date)
}

func (s *ExpenseService) AggregateByCategory() map[string]decimal.Decimal {
	return s.store.AggregateByCategory()
}

// Summary returns the total and per-category shares, largest first.
func (s *ExpenseService) Summary() Summary {
	return Summary{
		Total:      s.store.Total(),
		Categories: core.Shares(s.store.AggregateByCategory()),
	}
}

func (s *ExpenseService) Location() string { return s.store.Location() }

// publish never fails the caller; the mutation is already persisted.
func (s *ExpenseService) publish(ctx context.Context, ev *amqp.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			log.NewFields().
				WithOperation(log.OpPublish).
				WithError(err).
				ToSlice()...)
	}
}

// Close closes the publisher. The store holds no resources.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
