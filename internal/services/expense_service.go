package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/events"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/storage"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	repo  storage.Repository
	audit AuditServicer
	now   func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(repo storage.Repository, audit AuditServicer) ExpenseServicer {
	if audit == nil {
		audit = NewAuditService(nil)
	}
	return &expenseService{repo: repo, audit: audit, now: time.Now}
}

// ListExpenses returns every expense in insertion order.
func (s *expenseService) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return expenses, nil
}

// CreateExpense validates input and appends a new expense.
func (s *expenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*models.Expense, error) {
	if input.Amount == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount is required")
	}
	amount, err := ParseAmount(*input.Amount)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date == "" {
		date = s.now().Format(models.DateLayout)
	} else if err := validateDate(date); err != nil {
		return nil, err
	}

	expense, err := s.repo.Append(ctx, models.Expense{
		Description: input.Description,
		Amount:      amount,
		Category:    input.Category,
		Date:        date,
	})
	if err != nil {
		return nil, storageError(err)
	}

	logger.Get().Infow("expense created", "expense_id", expense.ID, "category", expense.Category)
	s.audit.Record(ctx, events.ExpenseCreated, expense.ID, &expense)
	return &expense, nil
}

// UpdateExpense applies the fields present in input. Updating an unknown ID
// succeeds without changing anything.
func (s *expenseService) UpdateExpense(ctx context.Context, id int64, input UpdateExpenseInput) error {
	patch := models.ExpensePatch{
		Description: input.Description,
		Category:    input.Category,
	}
	if input.Amount != nil {
		amount, err := ParseAmount(*input.Amount)
		if err != nil {
			return err
		}
		patch.Amount = &amount
	}
	if input.Date != nil {
		if err := validateDate(*input.Date); err != nil {
			return err
		}
		patch.Date = input.Date
	}

	found, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return storageError(err)
	}
	if !found {
		logger.Get().Debugw("update matched no expense", "expense_id", id)
		return nil
	}

	s.audit.Record(ctx, events.ExpenseUpdated, id, nil)
	return nil
}

// DeleteExpense removes the expense. Deleting an unknown ID succeeds.
func (s *expenseService) DeleteExpense(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storageError(err)
	}
	if !found {
		logger.Get().Debugw("delete matched no expense", "expense_id", id)
		return nil
	}

	s.audit.Record(ctx, events.ExpenseDeleted, id, nil)
	return nil
}

// GetStats sums amounts overall and per category, in decimal.
func (s *expenseService) GetStats(ctx context.Context) (*models.ExpenseStats, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	total := decimal.Zero
	order := make([]string, 0)
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] = sums[e.Category].Add(amount)
	}

	byCategory := make(models.CategoryTotals, 0, len(order))
	for _, category := range order {
		categoryTotal := sums[category].InexactFloat64()
		if math.IsInf(categoryTotal, 0) {
			return nil, errStatsOverflow
		}
		byCategory = append(byCategory, models.CategoryTotal{
			Category: category,
			Total:    categoryTotal,
		})
	}

	grandTotal := total.InexactFloat64()
	if math.IsInf(grandTotal, 0) {
		return nil, errStatsOverflow
	}

	return &models.ExpenseStats{
		Total:       grandTotal,
		ByCategory:  byCategory,
		RecentCount: len(expenses),
	}, nil
}

// errStatsOverflow is returned when stored amounts sum beyond float64 range,
// which only hand-edited ledgers can reach.
var errStatsOverflow = apperrors.Wrap(apperrors.ErrInternalServer, errors.New("expense totals exceed float64 range"))

// MaxAmount bounds the magnitude of a single amount. Totals over the whole
// ledger must stay representable as a JSON number.
var MaxAmount = decimal.New(1, 15)

// ParseAmount converts raw numeric text to a float64 with magnitude at most
// MaxAmount. Anything else yields ErrInvalidAmount.
func ParseAmount(raw string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.ErrInvalidAmount
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return 0, apperrors.ErrInvalidAmount
	}
	return d.InexactFloat64(), nil
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be formatted as YYYY-MM-DD")
	}
	return nil
}

// storageError maps repository failures onto AppErrors.
func storageError(err error) error {
	if errors.Is(err, storage.ErrStorageUnavailable) {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
