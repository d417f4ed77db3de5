// Package events describes expense lifecycle notifications and the
// publishers that deliver them.
package events

import (
	"context"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

// Type names an expense lifecycle event.
type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
)

// Event is the payload published after a successful mutation. Expense holds
// the record as written for creations and is nil otherwise.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	ExpenseID  int64           `json:"expense_id"`
	Expense    *models.Expense `json:"expense,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New builds an event stamped with a fresh ID and the current time.
func New(t Type, expenseID int64, expense *models.Expense) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		ExpenseID:  expenseID,
		Expense:    expense,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events to an external system.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
