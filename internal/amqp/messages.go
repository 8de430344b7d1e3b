package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"expensetracker/internal/core"
)

// EventType names a change to the expense sequence.
type EventType string

const (
	EventExpenseAdded    EventType = "expense.added"
	EventExpensesCleared EventType = "expenses.cleared"
)

var ErrUnknownEvent = errors.New("unknown event type")

// ExpensePayload is the wire form of an expense. Amount travels as a
// decimal string so no precision is lost.
type ExpensePayload struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

// ExpenseEvent is published after a successful mutation. Count is the
// length of the sequence after the change.
type ExpenseEvent struct {
	Type      EventType       `json:"type"`
	Expense   *ExpensePayload `json:"expense,omitempty"`
	Count     int             `json:"count"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewExpenseAddedEvent(e core.Expense, count int) *ExpenseEvent {
	return &ExpenseEvent{
		Type: EventExpenseAdded,
		Expense: &ExpensePayload{
			Category: e.Category,
			Amount:   e.Amount.String(),
			Date:     e.Date,
		},
		Count:     count,
		Timestamp: time.Now(),
	}
}

func NewExpensesClearedEvent() *ExpenseEvent {
	return &ExpenseEvent{
		Type:      EventExpensesCleared,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToExpense returns the carried expense. Only expense.added events have one.
func (m *ExpenseEvent) ToExpense() (core.Expense, error) {
	if m.Expense == nil {
		return core.Expense{}, fmt.Errorf("%s event carries no expense", m.Type)
	}
	return core.NewExpense(m.Expense.Category, m.Expense.Amount, m.Expense.Date)
}

// ExpenseEventFromJSON decodes an event and rejects unknown types.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case EventExpenseAdded:
		if msg.Expense == nil {
			return nil, fmt.Errorf("%s event without expense", msg.Type)
		}
	case EventExpensesCleared:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEvent, msg.Type)
	}
	return &msg, nil
}
