package services

import (
	"context"
	"strings"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portssvc "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/query"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
	"github.com/janezhang99/SEW-v5-sub002/internal/ingest"
	"github.com/shopspring/decimal"
)

type projectService struct {
	*recordService[domain.ProjectFields, dto.CreateProjectRequest, dto.UpdateProjectRequest]
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// NewProjectService creates the project service over st.
func NewProjectService(st *store.Store[domain.ProjectFields], kc domain.KindCatalog, opts ...ServiceOption) portssvc.ProjectSvcFacade {
	return &projectService{newRecordService(st, kc, projectBinder, opts)}
}

var projectBinder = binder[domain.ProjectFields, dto.CreateProjectRequest, dto.UpdateProjectRequest]{
	descriptor: domain.ProjectDescriptor,
	create:     bindCreateProject,
	update:     bindUpdateProject,
	parseCSV:   ingest.Projects,
}

func bindCreateProject(req dto.CreateProjectRequest, kc domain.KindCatalog) (domain.Status, domain.ProjectFields, error) {
	var f domain.ProjectFields
	status, err := resolveStatus(req.Status, kc)
	if err != nil {
		return "", f, err
	}
	category, err := checkCategory("category", req.Category, kc)
	if err != nil {
		return "", f, err
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return "", f, err
	}
	end, err := optionalDate("endDate", req.EndDate)
	if err != nil {
		return "", f, err
	}
	f = domain.ProjectFields{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    category,
		Location:    strings.TrimSpace(req.Location),
		Budget:      req.Budget,
		Funding:     req.Funding,
		StartDate:   start,
		EndDate:     end,
	}
	if err := f.Validate(); err != nil {
		return "", f, invalid(err)
	}
	return status, f, nil
}

func bindUpdateProject(req dto.UpdateProjectRequest, kc domain.KindCatalog) (domain.Patch[domain.ProjectFields], error) {
	status, err := optionalStatus(req.Status, kc)
	if err != nil {
		return nil, err
	}
	category, err := optionalCategory("category", req.Category, kc)
	if err != nil {
		return nil, err
	}
	start, err := optionalDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := optionalAmount("budget", req.Budget); err != nil {
		return nil, err
	}
	if err := optionalAmount("funding", req.Funding); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.Validationf("name must not be empty")
	}
	return domain.ProjectPatch{
		Status:      status,
		Name:        trimmed(req.Name),
		Description: req.Description,
		Category:    category,
		Location:    trimmed(req.Location),
		Budget:      req.Budget,
		Funding:     req.Funding,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// Summary totals budgets and funding of the filtered projects.
func (s *projectService) Summary(ctx context.Context, params dto.ListParams) (*dto.ProjectSummary, error) {
	records, err := s.filtered(params)
	if err != nil {
		return nil, err
	}
	d := domain.ProjectDescriptor
	funding := func(f domain.ProjectFields) decimal.Decimal { return f.Funding }

	byCategory := query.GroupSum(records, query.ByField(d.Category), d.Amount)
	query.SortByTotalDesc(byCategory)

	summary := &dto.ProjectSummary{
		Count:        len(records),
		TotalBudget:  query.Sum(records, d.Amount),
		TotalFunding: query.Sum(records, funding),
		FundingGap:   query.Sum(records, domain.ProjectFields.FundingGap),
		ByStatus:     dto.ToGroupResponses(query.GroupSum(records, query.ByStatus[domain.ProjectFields], d.Amount)),
		ByCategory:   dto.ToGroupResponses(byCategory),
	}
	s.LogDebug(ctx, "Project summary computed", s.kind(), "count", summary.Count)
	return summary, nil
}
