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

type eventService struct {
	*recordService[domain.EventFields, dto.CreateEventRequest, dto.UpdateEventRequest]
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

// NewEventService creates the event service over st.
func NewEventService(st *store.Store[domain.EventFields], kc domain.KindCatalog, opts ...ServiceOption) portssvc.EventSvcFacade {
	return &eventService{newRecordService(st, kc, eventBinder, opts)}
}

var eventBinder = binder[domain.EventFields, dto.CreateEventRequest, dto.UpdateEventRequest]{
	descriptor: domain.EventDescriptor,
	create:     bindCreateEvent,
	update:     bindUpdateEvent,
	parseCSV:   ingest.Events,
}

func bindCreateEvent(req dto.CreateEventRequest, kc domain.KindCatalog) (domain.Status, domain.EventFields, error) {
	var f domain.EventFields
	status, err := resolveStatus(req.Status, kc)
	if err != nil {
		return "", f, err
	}
	category, err := checkCategory("category", req.Category, kc)
	if err != nil {
		return "", f, err
	}
	if req.StartsAt == nil {
		return "", f, apperrors.Validationf("startsAt is required")
	}
	f = domain.EventFields{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    category,
		Location:    strings.TrimSpace(req.Location),
		StartsAt:    req.StartsAt.UTC(),
		Capacity:    req.Capacity,
		Registered:  req.Registered,
	}
	if req.EndsAt != nil {
		f.EndsAt = req.EndsAt.UTC()
	}
	if err := f.Validate(); err != nil {
		return "", f, invalid(err)
	}
	return status, f, nil
}

func bindUpdateEvent(req dto.UpdateEventRequest, kc domain.KindCatalog) (domain.Patch[domain.EventFields], error) {
	status, err := optionalStatus(req.Status, kc)
	if err != nil {
		return nil, err
	}
	category, err := optionalCategory("category", req.Category, kc)
	if err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperrors.Validationf("title must not be empty")
	}
	patch := domain.EventPatch{
		Status:      status,
		Title:       trimmed(req.Title),
		Description: req.Description,
		Category:    category,
		Location:    trimmed(req.Location),
		Capacity:    req.Capacity,
		Registered:  req.Registered,
	}
	if req.StartsAt != nil {
		t := req.StartsAt.UTC()
		patch.StartsAt = &t
	}
	if req.EndsAt != nil {
		t := req.EndsAt.UTC()
		patch.EndsAt = &t
	}
	return patch, nil
}

// Summary lists the upcoming events and counts the filtered ones by category and status.
func (s *eventService) Summary(ctx context.Context, params dto.ListParams) (*dto.EventSummary, error) {
	records, err := s.filtered(params)
	if err != nil {
		return nil, err
	}
	now := s.now()
	d := domain.EventDescriptor

	upcoming := query.Filter(records, func(r domain.Event) bool {
		return r.Status != domain.EventCancelled && r.Fields.StartsAt.After(now)
	})
	slices.SortStableFunc(upcoming, func(a, b domain.Event) int {
		return a.Fields.StartsAt.Compare(b.Fields.StartsAt)
	})

	seats := 0
	for _, e := range upcoming {
		if left := e.Fields.SeatsLeft(); left > 0 {
			seats += left
		}
	}

	summary := &dto.EventSummary{
		Count:      len(records),
		Upcoming:   dto.ToListRecordResponse(upcoming),
		SeatsLeft:  seats,
		ByCategory: dto.ToGroupResponses(query.GroupSum(records, query.ByField(d.Category), nil)),
		ByStatus:   dto.ToGroupResponses(query.GroupSum(records, query.ByStatus[domain.EventFields], nil)),
	}
	s.LogDebug(ctx, "Event summary computed", s.kind(), "count", summary.Count, "upcoming", len(upcoming))
	return summary, nil
}
