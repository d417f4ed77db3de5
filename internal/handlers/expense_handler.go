package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the request payload for recording an expense
type CreateExpenseRequest struct {
	Description string     `json:"description" binding:"max=500"`
	Amount      *RawAmount `json:"amount" swaggertype:"number"`
	Category    string     `json:"category" binding:"max=100"`
	Date        string     `json:"date" binding:"omitempty,expense_date" example:"2024-05-01"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
// Omitted fields keep their current value.
type UpdateExpenseRequest struct {
	Description *string    `json:"description" binding:"omitempty,max=500"`
	Amount      *RawAmount `json:"amount" swaggertype:"number"`
	Category    *string    `json:"category" binding:"omitempty,max=100"`
	Date        *string    `json:"date" binding:"omitempty,expense_date" example:"2024-05-01"`
}

// ListExpenses returns every recorded expense
// @Summary     List expenses
// @Description Get all expenses in the order they were recorded
// @Tags        expenses
// @Produce     json
// @Success     200 {array}  models.Expense "List of expenses"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.expenseService.ListExpenses(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// CreateExpense handles recording a new expense
// @Summary     Create an expense
// @Description Record a new expense. The date defaults to today.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input or amount"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), services.CreateExpenseInput{
		Description: req.Description,
		Amount:      req.Amount.Text(),
		Category:    req.Category,
		Date:        req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// UpdateExpense handles a partial update of an expense
// @Summary     Update an expense
// @Description Overwrite the supplied fields of an expense. Unknown IDs succeed without changes.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id path int true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} MessageResponse "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input or amount"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	err = h.expenseService.UpdateExpense(c.Request.Context(), id, services.UpdateExpenseInput{
		Description: req.Description,
		Amount:      req.Amount.Text(),
		Category:    req.Category,
		Date:        req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense updated"})
}

// DeleteExpense handles deleting an expense
// @Summary     Delete an expense
// @Description Delete an expense by ID. Unknown IDs succeed.
// @Tags        expenses
// @Produce     json
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted"})
}

// GetStats returns aggregate figures over all expenses
// @Summary     Expense statistics
// @Description Total spent, totals per category and the number of records
// @Tags        stats
// @Produce     json
// @Success     200 {object} models.ExpenseStats "Statistics"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats [get]
func (h *ExpenseHandler) GetStats(c *gin.Context) {
	stats, err := h.expenseService.GetStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
