package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectFields are the attributes of a community adaptation project.
type ProjectFields struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Location    string          `json:"location,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	Funding     decimal.Decimal `json:"funding"` // secured so far
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
}

// Validate checks field-level invariants of a project.
func (f ProjectFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(f.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if f.Budget.IsNegative() || f.Funding.IsNegative() {
		return fmt.Errorf("budget and funding must not be negative")
	}
	if f.EndDate != nil && !f.StartDate.IsZero() && f.EndDate.Before(f.StartDate) {
		return fmt.Errorf("end date must not be before start date")
	}
	return nil
}

// FundingGap is the part of the budget not yet covered by funding, never negative.
func (f ProjectFields) FundingGap() decimal.Decimal {
	gap := f.Budget.Sub(f.Funding)
	if gap.IsNegative() {
		return decimal.Zero
	}
	return gap
}

// ProjectPatch is a partial update of a project.
type ProjectPatch struct {
	Status      *Status
	Name        *string
	Description *string
	Category    *string
	Location    *string
	Budget      *decimal.Decimal
	Funding     *decimal.Decimal
	StartDate   *time.Time
	EndDate     *time.Time
}

func (p ProjectPatch) StatusChange() (Status, bool) {
	if p.Status == nil {
		return "", false
	}
	return *p.Status, true
}

func (p ProjectPatch) ApplyFields(f *ProjectFields) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.Budget != nil {
		f.Budget = *p.Budget
	}
	if p.Funding != nil {
		f.Funding = *p.Funding
	}
	if p.StartDate != nil {
		f.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		end := *p.EndDate
		f.EndDate = &end
	}
}

// ProjectDescriptor wires projects into the generic query layer. The amount of a project is its budget.
var ProjectDescriptor = Descriptor[ProjectFields]{
	Kind:     KindProjects,
	Category: func(f ProjectFields) string { return f.Category },
	Date:     func(f ProjectFields) time.Time { return f.StartDate },
	Amount:   func(f ProjectFields) decimal.Decimal { return f.Budget },
	Text: []func(ProjectFields) string{
		func(f ProjectFields) string { return f.Name },
		func(f ProjectFields) string { return f.Description },
		func(f ProjectFields) string { return f.Location },
	},
}
