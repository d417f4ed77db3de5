package services

import (
	"context"

	"expensetracker/internal/events"
	"expensetracker/internal/models"
)

// CreateExpenseInput holds the fields accepted when recording an expense.
// Amount is the raw numeric text from the request; nil means it was absent.
// An empty Date defaults to the current day.
type CreateExpenseInput struct {
	Description string
	Amount      *string
	Category    string
	Date        string
}

// UpdateExpenseInput holds the optional fields of a partial update.
type UpdateExpenseInput struct {
	Description *string
	Amount      *string
	Category    *string
	Date        *string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	CreateExpense(ctx context.Context, input CreateExpenseInput) (*models.Expense, error)
	UpdateExpense(ctx context.Context, id int64, input UpdateExpenseInput) error
	DeleteExpense(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*models.ExpenseStats, error)
}

// AuditServicer defines the contract for recording expense lifecycle events.
type AuditServicer interface {
	Record(ctx context.Context, eventType events.Type, expenseID int64, expense *models.Expense)
}
