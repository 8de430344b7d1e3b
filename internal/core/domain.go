package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar format expected for expense dates.
const DateLayout = "2006-01-02"

type (
	// Expense is a single recorded transaction. Records carry no identifier;
	// their position in the store's sequence is their identity.
	Expense struct {
		Category string
		Amount   decimal.Decimal
		Date     string
	}
)

var (
	ErrConversion  = errors.New("amount is not numeric")
	ErrInvalidDate = errors.New("invalid date")
)

// NewExpense builds an Expense, converting amount with ParseAmount.
func NewExpense(category string, amount any, date string) (Expense, error) {
	amt, err := ParseAmount(amount)
	if err != nil {
		return Expense{}, err
	}
	return Expense{Category: category, Amount: amt, Date: date}, nil
}

// Equal reports whether two expenses hold the same values. Amounts are
// compared numerically, so 12.5 and 12.50 are equal.
func (e Expense) Equal(o Expense) bool {
	return e.Category == o.Category && e.Date == o.Date && e.Amount.Equal(o.Amount)
}

// Display renders the presentation line, e.g. "Food: £12.5 on 2024-01-15".
func (e Expense) Display(symbol string) string {
	return fmt.Sprintf("%s: %s on %s", e.Category, FormatAmount(symbol, e.Amount), e.Date)
}

func (e Expense) String() string {
	return fmt.Sprintf("%s: %s on %s", e.Category, e.Amount.String(), e.Date)
}

// ValidateDate checks s against the YYYY-MM-DD calendar format.
// The store never calls this; presentation layers do, before Add.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w %q: use YYYY-MM-DD", ErrInvalidDate, s)
	}
	return nil
}
