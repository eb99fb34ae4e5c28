package services

import (
	"context"
	"slices"
	"strings"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portssvc "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/query"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
	"github.com/janezhang99/SEW-v5-sub002/internal/ingest"
)

type taskService struct {
	*recordService[domain.TaskFields, dto.CreateTaskRequest, dto.UpdateTaskRequest]
}

var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// NewTaskService creates the task service over st. Task priorities are the catalog categories of the tasks kind.
func NewTaskService(st *store.Store[domain.TaskFields], kc domain.KindCatalog, opts ...ServiceOption) portssvc.TaskSvcFacade {
	return &taskService{newRecordService(st, kc, taskBinder, opts)}
}

var taskBinder = binder[domain.TaskFields, dto.CreateTaskRequest, dto.UpdateTaskRequest]{
	descriptor: domain.TaskDescriptor,
	create:     bindCreateTask,
	update:     bindUpdateTask,
	parseCSV:   ingest.Tasks,
}

func bindCreateTask(req dto.CreateTaskRequest, kc domain.KindCatalog) (domain.Status, domain.TaskFields, error) {
	var f domain.TaskFields
	status, err := resolveStatus(req.Status, kc)
	if err != nil {
		return "", f, err
	}
	priority, err := checkCategory("priority", req.Priority, kc)
	if err != nil {
		return "", f, err
	}
	due, err := optionalDate("dueDate", req.DueDate)
	if err != nil {
		return "", f, err
	}
	f = domain.TaskFields{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    priority,
		Assignee:    strings.TrimSpace(req.Assignee),
		ProjectID:   strings.TrimSpace(req.ProjectID),
		DueDate:     due,
	}
	if err := f.Validate(); err != nil {
		return "", f, invalid(err)
	}
	return status, f, nil
}

func bindUpdateTask(req dto.UpdateTaskRequest, kc domain.KindCatalog) (domain.Patch[domain.TaskFields], error) {
	status, err := optionalStatus(req.Status, kc)
	if err != nil {
		return nil, err
	}
	priority, err := optionalCategory("priority", req.Priority, kc)
	if err != nil {
		return nil, err
	}
	due, err := optionalDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperrors.Validationf("title must not be empty")
	}
	return domain.TaskPatch{
		Status:      status,
		Title:       trimmed(req.Title),
		Description: req.Description,
		Priority:    priority,
		Assignee:    trimmed(req.Assignee),
		ProjectID:   trimmed(req.ProjectID),
		DueDate:     due,
	}, nil
}

// Summary counts the filtered tasks and lists the overdue ones, most overdue first.
func (s *taskService) Summary(ctx context.Context, params dto.ListParams) (*dto.TaskSummary, error) {
	records, err := s.filtered(params)
	if err != nil {
		return nil, err
	}
	now := s.now()
	d := domain.TaskDescriptor

	overdue := query.Filter(records, func(t domain.Task) bool { return domain.IsOverdue(t, now) })
	slices.SortStableFunc(overdue, func(a, b domain.Task) int {
		return a.Fields.DueDate.Compare(*b.Fields.DueDate)
	})

	summary := &dto.TaskSummary{
		Count:      len(records),
		ByStatus:   dto.ToGroupResponses(query.GroupSum(records, query.ByStatus[domain.TaskFields], nil)),
		ByPriority: dto.ToGroupResponses(query.GroupSum(records, query.ByField(d.Category), nil)),
		Overdue:    dto.ToListRecordResponse(overdue),
	}
	s.LogDebug(ctx, "Task summary computed", s.kind(), "count", summary.Count, "overdue", len(overdue))
	return summary, nil
}
