// Package storage defines the contract shared by the expense store backends.
package storage

import (
	"context"
	"errors"

	"expensetracker/internal/models"
)

// ErrStorageUnavailable wraps every failure to read, decode or write the
// persisted expense collection.
var ErrStorageUnavailable = errors.New("expense storage unavailable")

// Repository owns the expense collection. Implementations serialize their
// own load/mutate/persist sequences so callers need no extra locking.
type Repository interface {
	// List returns every expense in insertion order.
	List(ctx context.Context) ([]models.Expense, error)
	// Append assigns a fresh ID to e, persists it and returns the stored record.
	Append(ctx context.Context, e models.Expense) (models.Expense, error)
	// Update applies patch to the expense with the given ID. The boolean
	// reports whether a record matched.
	Update(ctx context.Context, id int64, patch models.ExpensePatch) (bool, error)
	// Delete removes the expense with the given ID. The boolean reports
	// whether a record matched.
	Delete(ctx context.Context, id int64) (bool, error)
	Close() error
}
