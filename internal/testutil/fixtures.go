package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/storage"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestExpense appends an expense with the given amount and category.
func CreateTestExpense(t *testing.T, repo storage.Repository, amount float64, category string) models.Expense {
	t.Helper()

	e, err := repo.Append(context.Background(), models.Expense{
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Amount:      amount,
		Category:    category,
		Date:        "2024-03-15",
	})
	if err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return e
}

// ListExpenses returns the repository contents or fails the test.
func ListExpenses(t *testing.T, repo storage.Repository) []models.Expense {
	t.Helper()

	expenses, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("failed to list expenses: %v", err)
	}
	return expenses
}
