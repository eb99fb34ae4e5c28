package dto

import (
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to create a new expense.
type CreateExpenseRequest struct {
	Description string          `json:"description" binding:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Status      string          `json:"status"` // Optional, defaults to the catalog default
	ProjectID   string          `json:"projectID" binding:"max=64"`
	Notes       string          `json:"notes" binding:"max=1000"`
}

// UpdateExpenseRequest defines the data allowed for updating an expense.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateExpenseRequest struct {
	Status      *string          `json:"status"`
	Description *string          `json:"description" binding:"omitempty,max=200"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Date        *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	ProjectID   *string          `json:"projectID" binding:"omitempty,max=64"`
	Notes       *string          `json:"notes" binding:"omitempty,max=1000"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse = RecordResponse[domain.ExpenseFields]

// ExpenseSummary is the dashboard view over a filtered set of expenses.
type ExpenseSummary struct {
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	ByStatus   []GroupResponse `json:"byStatus"`
	ByCategory []GroupResponse `json:"byCategory"` // sorted by total, largest first
	ByMonth    []GroupResponse `json:"byMonth"`
}
