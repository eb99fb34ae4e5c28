package dto

import (
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest defines the data needed to create a new project.
type CreateProjectRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Category    string          `json:"category" binding:"required"`
	Location    string          `json:"location" binding:"max=200"`
	Budget      decimal.Decimal `json:"budget"`
	Funding     decimal.Decimal `json:"funding"`
	StartDate   string          `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     *string         `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Status      string          `json:"status"`
}

// UpdateProjectRequest defines the data allowed for updating a project.
type UpdateProjectRequest struct {
	Status      *string          `json:"status"`
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Category    *string          `json:"category"`
	Location    *string          `json:"location" binding:"omitempty,max=200"`
	Budget      *decimal.Decimal `json:"budget"`
	Funding     *decimal.Decimal `json:"funding"`
	StartDate   *string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string          `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse = RecordResponse[domain.ProjectFields]

// ProjectSummary aggregates budgets and funding over a filtered set of projects.
type ProjectSummary struct {
	Count        int             `json:"count"`
	TotalBudget  decimal.Decimal `json:"totalBudget"`
	TotalFunding decimal.Decimal `json:"totalFunding"`
	FundingGap   decimal.Decimal `json:"fundingGap"`
	ByStatus     []GroupResponse `json:"byStatus"`   // totals are budgets
	ByCategory   []GroupResponse `json:"byCategory"` // sorted by budget, largest first
}
