package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/query"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
	"github.com/janezhang99/SEW-v5-sub002/internal/ingest"
	"github.com/janezhang99/SEW-v5-sub002/internal/utils/pagination"
)

const defaultPageSize = 50

// binder converts the request DTOs of one kind into store inputs.
type binder[F, C, U any] struct {
	descriptor domain.Descriptor[F]
	create     func(req C, kc domain.KindCatalog) (domain.Status, F, error)
	update     func(req U, kc domain.KindCatalog) (domain.Patch[F], error)
	parseCSV   func(r io.Reader, kc domain.KindCatalog) ([]ingest.Result[F], error)
}

// recordService implements the operations shared by every record kind.
type recordService[F, C, U any] struct {
	BaseService
	store   *store.Store[F]
	catalog domain.KindCatalog
	bind    binder[F, C, U]
	now     func() time.Time
}

// ServiceOption is a functional option for configuring record services
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used outside request scope.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(o *serviceOptions) { o.logger = l }
}

// WithClock overrides the time source used for summaries.
func WithClock(now func() time.Time) ServiceOption {
	return func(o *serviceOptions) { o.now = now }
}

func newRecordService[F, C, U any](st *store.Store[F], kc domain.KindCatalog, b binder[F, C, U], opts []ServiceOption) *recordService[F, C, U] {
	o := serviceOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &recordService[F, C, U]{
		BaseService: BaseService{Logger: o.logger},
		store:       st,
		catalog:     kc,
		bind:        b,
		now:         o.now,
	}
}

func (s *recordService[F, C, U]) kind() slog.Attr {
	return slog.String("kind", string(s.store.Kind()))
}

func (s *recordService[F, C, U]) CreateRecord(ctx context.Context, req C, userID string) (*domain.Record[F], error) {
	status, fields, err := s.bind.create(req, s.catalog)
	if err != nil {
		s.LogWarn(ctx, "Rejected new record", s.kind(), slog.String("error", err.Error()))
		return nil, err
	}

	rec := s.store.Create(ctx, status, fields, userID)
	s.LogInfo(ctx, "Record created", s.kind(), slog.String("id", rec.ID))
	return &rec, nil
}

func (s *recordService[F, C, U]) GetRecordByID(ctx context.Context, id string) (*domain.Record[F], error) {
	rec, ok := s.store.GetByID(id)
	if !ok {
		s.LogDebug(ctx, "Record not found", s.kind(), slog.String("id", id))
		return nil, fmt.Errorf("%s %q: %w", s.store.Kind(), id, apperrors.ErrNotFound)
	}
	return &rec, nil
}

func (s *recordService[F, C, U]) ListRecords(ctx context.Context, params dto.ListParams) ([]domain.Record[F], string, error) {
	records, err := s.filtered(params)
	if err != nil {
		s.LogWarn(ctx, "Invalid list filters", s.kind(), slog.String("error", err.Error()))
		return nil, "", err
	}

	start := 0
	if params.NextToken != "" {
		cursor, err := pagination.DecodeCursor(params.NextToken)
		if err != nil {
			return nil, "", err
		}
		start = pagination.ResumeIndex(cursor, len(records),
			func(i int) string { return records[i].ID },
			func(i int) time.Time { return records[i].CreatedAt })
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	page := query.Page(records, start, limit)

	next := ""
	if len(page) > 0 && start+len(page) < len(records) {
		last := page[len(page)-1]
		next = pagination.EncodeCursor(pagination.Cursor{ID: last.ID, CreatedAt: last.CreatedAt})
	}
	return page, next, nil
}

func (s *recordService[F, C, U]) UpdateRecord(ctx context.Context, id string, req U, userID string) (*domain.Record[F], error) {
	patch, err := s.bind.update(req, s.catalog)
	if err != nil {
		s.LogWarn(ctx, "Rejected record update", s.kind(), slog.String("id", id), slog.String("error", err.Error()))
		return nil, err
	}
	return s.apply(ctx, id, patch, userID)
}

func (s *recordService[F, C, U]) UpdateStatus(ctx context.Context, id string, status string, userID string) (*domain.Record[F], error) {
	if strings.TrimSpace(status) == "" {
		return nil, apperrors.Validationf("status is required")
	}
	next, err := resolveStatus(status, s.catalog)
	if err != nil {
		s.LogWarn(ctx, "Rejected status change", s.kind(), slog.String("id", id), slog.String("error", err.Error()))
		return nil, err
	}
	return s.apply(ctx, id, domain.StatusPatch[F]{Status: next}, userID)
}

func (s *recordService[F, C, U]) apply(ctx context.Context, id string, patch domain.Patch[F], userID string) (*domain.Record[F], error) {
	rec, found, err := s.store.Update(ctx, id, patch, userID)
	if err != nil {
		s.LogWarn(ctx, "Record update rejected by store", s.kind(), slog.String("id", id), slog.String("error", err.Error()))
		return nil, err
	}
	if !found {
		s.LogDebug(ctx, "Record to update not found", s.kind(), slog.String("id", id))
		return nil, fmt.Errorf("%s %q: %w", s.store.Kind(), id, apperrors.ErrNotFound)
	}
	s.LogInfo(ctx, "Record updated", s.kind(), slog.String("id", id), slog.String("status", string(rec.Status)))
	return &rec, nil
}

func (s *recordService[F, C, U]) DeleteRecord(ctx context.Context, id string, userID string) error {
	if s.store.Delete(ctx, id, userID) {
		s.LogInfo(ctx, "Record deleted", s.kind(), slog.String("id", id))
	} else {
		s.LogDebug(ctx, "Record already absent", s.kind(), slog.String("id", id))
	}
	return nil
}

func (s *recordService[F, C, U]) ImportCSV(ctx context.Context, r io.Reader, userID string) (*dto.ImportResponse, error) {
	results, err := s.bind.parseCSV(r, s.catalog)
	if err != nil {
		s.LogWarn(ctx, "CSV import rejected", s.kind(), slog.String("error", err.Error()))
		return nil, err
	}

	resp := &dto.ImportResponse{IDs: []string{}, Errors: []dto.ImportRowError{}}
	for _, res := range results {
		if res.Err != nil {
			resp.Errors = append(resp.Errors, dto.ImportRowError{
				Line:   res.Err.Line,
				Field:  res.Err.Field,
				Value:  res.Err.Value,
				Reason: res.Err.Reason,
			})
			continue
		}
		rec := s.store.Create(ctx, res.Row.Status, res.Row.Fields, userID)
		resp.IDs = append(resp.IDs, rec.ID)
	}
	resp.Created = len(resp.IDs)

	s.LogInfo(ctx, "CSV import finished", s.kind(),
		slog.Int("created", resp.Created),
		slog.Int("rejected", len(resp.Errors)))
	return resp, nil
}

func (s *recordService[F, C, U]) Watch(ctx context.Context, buffer int) <-chan store.Change {
	return s.store.Watch(ctx, buffer)
}

// filtered returns the records matching params, ignoring pagination.
func (s *recordService[F, C, U]) filtered(params dto.ListParams) ([]domain.Record[F], error) {
	d := s.bind.descriptor
	var preds []query.Predicate[F]

	if statuses := splitList(params.Status); len(statuses) > 0 {
		set := make([]domain.Status, len(statuses))
		for i, st := range statuses {
			set[i] = domain.Status(strings.ToLower(st))
		}
		preds = append(preds, query.WithStatus[F](set...))
	}
	if c := strings.TrimSpace(params.Category); c != "" {
		preds = append(preds, query.FieldEquals(d.Category, strings.ToLower(c)))
	}
	if params.From != "" || params.To != "" {
		var from, to time.Time
		var err error
		if params.From != "" {
			if from, err = parseDate("from", params.From); err != nil {
				return nil, err
			}
		}
		if params.To != "" {
			if to, err = parseDate("to", params.To); err != nil {
				return nil, err
			}
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		if !from.IsZero() && !to.IsZero() && to.Before(from) {
			return nil, apperrors.Validationf("from must not be after to")
		}
		preds = append(preds, query.Between(d.Date, from, to))
	}
	if q := strings.TrimSpace(params.Q); q != "" {
		preds = append(preds, query.Matches(q, d.Text...))
	}

	return query.Filter(s.store.Snapshot(), preds...), nil
}

// splitList accepts both repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
