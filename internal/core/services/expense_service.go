package services

import (
	"context"
	"slices"
	"strings"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portssvc "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/query"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
	"github.com/janezhang99/SEW-v5-sub002/internal/ingest"
)

type expenseService struct {
	*recordService[domain.ExpenseFields, dto.CreateExpenseRequest, dto.UpdateExpenseRequest]
}

// Ensure expenseService implements the ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// NewExpenseService creates the expense service over st.
func NewExpenseService(st *store.Store[domain.ExpenseFields], kc domain.KindCatalog, opts ...ServiceOption) portssvc.ExpenseSvcFacade {
	return &expenseService{newRecordService(st, kc, expenseBinder, opts)}
}

var expenseBinder = binder[domain.ExpenseFields, dto.CreateExpenseRequest, dto.UpdateExpenseRequest]{
	descriptor: domain.ExpenseDescriptor,
	create:     bindCreateExpense,
	update:     bindUpdateExpense,
	parseCSV:   ingest.Expenses,
}

func bindCreateExpense(req dto.CreateExpenseRequest, kc domain.KindCatalog) (domain.Status, domain.ExpenseFields, error) {
	var f domain.ExpenseFields
	status, err := resolveStatus(req.Status, kc)
	if err != nil {
		return "", f, err
	}
	category, err := checkCategory("category", req.Category, kc)
	if err != nil {
		return "", f, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return "", f, err
	}
	f = domain.ExpenseFields{
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Category:    category,
		Date:        date,
		ProjectID:   strings.TrimSpace(req.ProjectID),
		Notes:       req.Notes,
	}
	if err := f.Validate(); err != nil {
		return "", f, invalid(err)
	}
	return status, f, nil
}

func bindUpdateExpense(req dto.UpdateExpenseRequest, kc domain.KindCatalog) (domain.Patch[domain.ExpenseFields], error) {
	status, err := optionalStatus(req.Status, kc)
	if err != nil {
		return nil, err
	}
	category, err := optionalCategory("category", req.Category, kc)
	if err != nil {
		return nil, err
	}
	date, err := optionalDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if err := optionalAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	return domain.ExpensePatch{
		Status:      status,
		Description: trimmed(req.Description),
		Amount:      req.Amount,
		Category:    category,
		Date:        date,
		ProjectID:   trimmed(req.ProjectID),
		Notes:       req.Notes,
	}, nil
}

// Summary totals the filtered expenses overall, per status, per category and per month.
func (s *expenseService) Summary(ctx context.Context, params dto.ListParams) (*dto.ExpenseSummary, error) {
	records, err := s.filtered(params)
	if err != nil {
		return nil, err
	}
	d := domain.ExpenseDescriptor

	byCategory := query.GroupSum(records, query.ByField(d.Category), d.Amount)
	query.SortByTotalDesc(byCategory)

	byMonth := query.GroupSum(records, query.ByMonth(d.Date), d.Amount)
	slices.SortStableFunc(byMonth, func(a, b query.Group) int { return strings.Compare(a.Key, b.Key) })

	summary := &dto.ExpenseSummary{
		Count:      len(records),
		Total:      query.Sum(records, d.Amount),
		ByStatus:   dto.ToGroupResponses(query.GroupSum(records, query.ByStatus[domain.ExpenseFields], d.Amount)),
		ByCategory: dto.ToGroupResponses(byCategory),
		ByMonth:    dto.ToGroupResponses(byMonth),
	}
	s.LogDebug(ctx, "Expense summary computed", s.kind(), "count", summary.Count)
	return summary, nil
}
