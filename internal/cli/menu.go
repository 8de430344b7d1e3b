package cli

import (
	"context"
	"errors"
)

const (
	optAdd      = "Add Expense"
	optView     = "View All Expenses"
	optCategory = "Filter by Category"
	optDate     = "Filter by Date"
	optChart    = "Visualize Expenses"
	optClear    = "Clear All Expenses"
	optExit     = "Exit"
)

var menuOptions = []string{optAdd, optView, optCategory, optDate, optChart, optClear, optExit}

// RunMenu runs the interactive loop until the user exits or aborts. Errors
// from individual actions are reported and the menu is shown again; only
// prompt failures end the loop with an error.
func RunMenu(ctx context.Context, app *App, p Prompter) error {
	app.println(RenderTitle("Expense Tracker"))

	for {
		choice, err := p.Select(ctx, "Expense Tracker Menu", menuOptions)
		if errors.Is(err, ErrAborted) {
			choice = optExit
		} else if err != nil {
			return err
		}

		if choice == optExit {
			app.println("Goodbye!")
			return nil
		}

		if err := runMenuChoice(ctx, app, p, choice); err != nil {
			if errors.Is(err, ErrAborted) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			app.println(RenderError(describeError(err)))
		}
	}
}

func runMenuChoice(ctx context.Context, app *App, p Prompter, choice string) error {
	switch choice {
	case optAdd:
		category, err := p.Input(ctx, "Enter category", nil)
		if err != nil {
			return err
		}
		amount, err := p.Input(ctx, "Enter amount", nil)
		if err != nil {
			return err
		}
		date, err := p.Input(ctx, "Enter date (YYYY-MM-DD)", nil)
		if err != nil {
			return err
		}
		return app.Add(ctx, category, amount, date)

	case optView:
		app.List()

	case optCategory:
		category, err := p.Input(ctx, "Enter category to filter by", nil)
		if err != nil {
			return err
		}
		app.FilterByCategory(category)

	case optDate:
		date, err := p.Input(ctx, "Enter date to filter by (YYYY-MM-DD)", nil)
		if err != nil {
			return err
		}
		app.FilterByDate(date)

	case optChart:
		app.Chart()

	case optClear:
		ok, err := p.Confirm(ctx, "Are you sure you want to clear all expenses?")
		if err != nil {
			return err
		}
		return app.Clear(ctx, ok)

	default:
		app.println(RenderWarning("Invalid option. Please try again."))
	}
	return nil
}
