package worker

import (
	"context"
	"fmt"

	"expensetracker/internal/amqp"
	"expensetracker/internal/log"
	"expensetracker/internal/sheets"
)

// MirrorWorker replays expense events onto a secondary sheet.
type MirrorWorker struct {
	target sheets.ExpenseAppender
	logger *log.Logger
}

func NewMirrorWorker(target sheets.ExpenseAppender, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		target: target,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes a single expense event from AMQP. A returned error
// makes the consumer requeue the message.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	switch ev.Type {
	case amqp.EventExpenseAdded:
		return w.handleAdded(ctx, ev)
	case amqp.EventExpensesCleared:
		return w.handleCleared(ctx)
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event", "type", ev.Type)
		return nil
	}
}

func (w *MirrorWorker) handleAdded(ctx context.Context, ev *amqp.ExpenseEvent) error {
	expense, err := ev.ToExpense()
	if err != nil {
		// Redelivery cannot fix a bad payload.
		w.logger.ErrorContext(ctx, "Dropping expense event with bad payload", log.FieldError, err)
		return nil
	}

	ref, err := w.target.Append(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	w.logger.InfoContext(ctx, "Mirrored expense",
		log.NewFields().
			WithOperation(log.OpMirror).
			WithExpense(expense.Category, expense.Amount.String(), expense.Date).
			ToSlice()...,
	)
	w.logger.DebugContext(ctx, "Mirror reference", "ref", ref)
	return nil
}

func (w *MirrorWorker) handleCleared(ctx context.Context) error {
	p, ok := w.target.(sheets.Persister)
	if !ok {
		w.logger.WarnContext(ctx, "Mirror cannot be cleared, skipping")
		return nil
	}
	if err := p.Save(ctx, nil); err != nil {
		return fmt.Errorf("clear mirror: %w", err)
	}
	w.logger.InfoContext(ctx, "Mirror cleared", log.FieldOperation, log.OpClear)
	return nil
}

// Resync overwrites the mirror with the full sequence held by source. It
// recovers from events missed while the worker was down.
func (w *MirrorWorker) Resync(ctx context.Context, source sheets.Persister) error {
	p, ok := w.target.(sheets.Persister)
	if !ok {
		return fmt.Errorf("mirror target %T does not support full rewrite", w.target)
	}

	expenses, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	if err := p.Save(ctx, expenses); err != nil {
		return fmt.Errorf("write mirror: %w", err)
	}

	w.logger.InfoContext(ctx, "Startup resync completed", log.FieldCount, len(expenses))
	return nil
}
