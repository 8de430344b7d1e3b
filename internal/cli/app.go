package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

const (
	msgNoExpenses     = "No expenses recorded yet."
	msgNoMatches      = "No matching expenses found."
	msgNothingToChart = "No expenses to visualize."
	msgCleared        = "All expenses have been cleared."
	msgClearCanceled  = "Clearing of expenses canceled."
	msgInvalidDate    = "Invalid date format. Please use YYYY-MM-DD."
)

// App runs the user-facing expense operations and writes their results.
// Commands and the interactive menu share it.
type App struct {
	svc        *services.ExpenseService
	out        io.Writer
	currency   string
	chartWidth int
	// Table switches listings from display lines to a bordered table.
	Table bool
}

func NewApp(svc *services.ExpenseService, out io.Writer, currency string, chartWidth int) *App {
	if currency == "" {
		currency = "£"
	}
	if chartWidth <= 0 {
		chartWidth = 40
	}
	return &App{svc: svc, out: out, currency: currency, chartWidth: chartWidth}
}

func (a *App) println(s string) { fmt.Fprintln(a.out, s) }

// Add validates the date, records the expense and confirms it.
func (a *App) Add(ctx context.Context, category, amount, date string) error {
	if err := core.ValidateDate(date); err != nil {
		return err
	}
	e, err := a.svc.Add(ctx, category, amount, date)
	if err != nil {
		return err
	}
	a.println(RenderSuccess(fmt.Sprintf("Added expense: %s - %s on %s",
		e.Category, core.FormatAmount(a.currency, e.Amount), e.Date)))
	return nil
}

// List prints every expense in insertion order.
func (a *App) List() {
	expenses := a.svc.List()
	if len(expenses) == 0 {
		a.println(RenderMessage(msgNoExpenses))
		return
	}
	a.printExpenses("All Expenses", expenses)
}

func (a *App) FilterByCategory(category string) {
	a.printFiltered(a.svc.FilterByCategory(category))
}

func (a *App) FilterByDate(date string) {
	a.printFiltered(a.svc.FilterByDate(date))
}

func (a *App) printFiltered(expenses []core.Expense) {
	if len(expenses) == 0 {
		a.println(RenderMessage(msgNoMatches))
		return
	}
	a.printExpenses("Filtered Expenses", expenses)
}

func (a *App) printExpenses(title string, expenses []core.Expense) {
	if a.Table {
		fmt.Fprint(a.out, RenderExpenses(title, a.currency, expenses))
		return
	}
	a.println("")
	a.println(headerStyle.Render(title + ":"))
	for _, e := range expenses {
		a.println(e.Display(a.currency))
	}
}

// Chart prints the per-category bar chart.
func (a *App) Chart() {
	sum := a.svc.Summary()
	if len(sum.Categories) == 0 {
		a.println(RenderMessage(msgNothingToChart))
		return
	}
	fmt.Fprint(a.out, RenderChart(a.currency, sum.Total, sum.Categories, a.chartWidth))
}

// Clear removes every expense once confirmed.
func (a *App) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		a.println(RenderWarning(msgClearCanceled))
		return nil
	}
	if err := a.svc.Clear(ctx); err != nil {
		return err
	}
	a.println(RenderSuccess(msgCleared))
	return nil
}

// describeError turns an operation error into the line shown to the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return msgInvalidDate
	case errors.Is(err, core.ErrConversion):
		return "Invalid amount. Please enter a number."
	default:
		return "Error: " + err.Error()
	}
}
