package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scriptedPrompter answers prompts from a fixed script and records the
// titles it was asked.
type scriptedPrompter struct {
	answers []any // string, bool or error
	asked   []string
}

func (p *scriptedPrompter) next(title string) (any, error) {
	p.asked = append(p.asked, title)
	if len(p.answers) == 0 {
		return nil, ErrAborted
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if err, ok := a.(error); ok {
		return nil, err
	}
	return a, nil
}

func (p *scriptedPrompter) Select(_ context.Context, title string, _ []string) (string, error) {
	a, err := p.next(title)
	if err != nil {
		return "", err
	}
	return a.(string), nil
}

func (p *scriptedPrompter) Input(_ context.Context, title string, _ func(string) error) (string, error) {
	a, err := p.next(title)
	if err != nil {
		return "", err
	}
	return a.(string), nil
}

func (p *scriptedPrompter) Confirm(_ context.Context, title string) (bool, error) {
	a, err := p.next(title)
	if err != nil {
		return false, err
	}
	return a.(bool), nil
}

func TestRunMenuAddListExit(t *testing.T) {
	app, out, _ := newTestApp(t)
	p := &scriptedPrompter{answers: []any{
		optAdd, "Food", "12.50", "2024-01-15",
		optView,
		optExit,
	}}

	if err := RunMenu(context.Background(), app, p); err != nil {
		t.Fatalf("RunMenu: %v", err)
	}

	wantAsked := []string{
		"Expense Tracker Menu", "Enter category", "Enter amount", "Enter date (YYYY-MM-DD)",
		"Expense Tracker Menu",
		"Expense Tracker Menu",
	}
	if diff := cmp.Diff(wantAsked, p.asked); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}

	got := out.String()
	for _, want := range []string{"Expense Tracker", "Added expense: Food - £12.5 on 2024-01-15", "Food: £12.5 on 2024-01-15", "Goodbye!"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunMenuReportsErrorsAndContinues(t *testing.T) {
	app, out, _ := newTestApp(t)
	p := &scriptedPrompter{answers: []any{
		optAdd, "Food", "12.50", "not-a-date",
		optAdd, "Food", "lots", "2024-01-15",
		optExit,
	}}

	if err := RunMenu(context.Background(), app, p); err != nil {
		t.Fatalf("RunMenu: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, msgInvalidDate) {
		t.Errorf("missing invalid date message:\n%s", got)
	}
	if !strings.Contains(got, "Invalid amount. Please enter a number.") {
		t.Errorf("missing invalid amount message:\n%s", got)
	}
	if app.svc.Len() != 0 {
		t.Errorf("len = %d, want 0", app.svc.Len())
	}
}

func TestRunMenuFiltersAndClear(t *testing.T) {
	app, out, _ := newTestApp(t,
		expense(t, "Food", "12.5", "2024-01-15"),
		expense(t, "Rent", "800", "2024-01-01"),
	)
	p := &scriptedPrompter{answers: []any{
		optCategory, "food",
		optDate, "2024-01-01",
		optChart,
		optClear, false,
		optClear, true,
		optView,
	}}

	// Running out of answers aborts the select, which exits.
	if err := RunMenu(context.Background(), app, p); err != nil {
		t.Fatalf("RunMenu: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Filtered Expenses", "Rent: £800 on 2024-01-01", "Expenses by category", msgClearCanceled, msgCleared, msgNoExpenses, "Goodbye!"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if app.svc.Len() != 0 {
		t.Errorf("len = %d, want 0", app.svc.Len())
	}
}

func TestRunMenuAbortedInputReturnsToMenu(t *testing.T) {
	app, out, _ := newTestApp(t)
	p := &scriptedPrompter{answers: []any{
		optAdd, ErrAborted,
		optExit,
	}}
	if err := RunMenu(context.Background(), app, p); err != nil {
		t.Fatalf("RunMenu: %v", err)
	}
	if strings.Contains(out.String(), "Error") {
		t.Errorf("aborted input should not be reported:\n%s", out.String())
	}
}

func TestRunMenuPromptFailure(t *testing.T) {
	app, _, _ := newTestApp(t)
	boom := errors.New("tty gone")
	p := &scriptedPrompter{answers: []any{boom}}
	if err := RunMenu(context.Background(), app, p); !errors.Is(err, boom) {
		t.Fatalf("RunMenu err = %v, want %v", err, boom)
	}
}
