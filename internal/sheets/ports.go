package sheets

import (
	"context"

	"expensetracker/internal/core"
)

// Ports for outbound adapters. A "sheet" is any tabular home for the
// expense sequence: a CSV file, a SQLite table, a Google Sheet.
type (
	// Persister loads and saves the whole expense sequence at once.
	// Load on a backing store that does not exist yet returns an empty
	// sequence and no error.
	Persister interface {
		Load(ctx context.Context) ([]core.Expense, error)
		Save(ctx context.Context, expenses []core.Expense) error
	}

	// ExpenseAppender adds a single row without rewriting the rest.
	// Used by the mirror worker, never by the store.
	ExpenseAppender interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// Locator is implemented by persisters that can describe where the data
	// lives, for log lines and the serve banner.
	Locator interface {
		Location() string
	}
)
