package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseFields are the attributes of a project or programme expense.
type ExpenseFields struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	ProjectID   string          `json:"projectID,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// Validate checks field-level invariants of an expense.
func (f ExpenseFields) Validate() error {
	if strings.TrimSpace(f.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if f.Amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}
	if strings.TrimSpace(f.Category) == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}

// ExpensePatch is a partial update of an expense.
type ExpensePatch struct {
	Status      *Status
	Description *string
	Amount      *decimal.Decimal
	Category    *string
	Date        *time.Time
	ProjectID   *string
	Notes       *string
}

func (p ExpensePatch) StatusChange() (Status, bool) {
	if p.Status == nil {
		return "", false
	}
	return *p.Status, true
}

func (p ExpensePatch) ApplyFields(f *ExpenseFields) {
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Amount != nil {
		f.Amount = *p.Amount
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Date != nil {
		f.Date = *p.Date
	}
	if p.ProjectID != nil {
		f.ProjectID = *p.ProjectID
	}
	if p.Notes != nil {
		f.Notes = *p.Notes
	}
}

// ExpenseDescriptor wires expenses into the generic query layer.
var ExpenseDescriptor = Descriptor[ExpenseFields]{
	Kind:     KindExpenses,
	Category: func(f ExpenseFields) string { return f.Category },
	Date:     func(f ExpenseFields) time.Time { return f.Date },
	Amount:   func(f ExpenseFields) decimal.Decimal { return f.Amount },
	Text: []func(ExpenseFields) string{
		func(f ExpenseFields) string { return f.Description },
		func(f ExpenseFields) string { return f.Notes },
	},
}
