package services

import (
	"context"
	"io"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
	"github.com/janezhang99/SEW-v5-sub002/internal/dto"
)

// RecordReaderSvc defines read operations on one record kind.
type RecordReaderSvc[F any] interface {
	// GetRecordByID returns a record, or apperrors.ErrNotFound.
	GetRecordByID(ctx context.Context, id string) (*domain.Record[F], error)

	// ListRecords returns one page of records matching params, in insertion order,
	// and the token for the next page ("" on the last page).
	ListRecords(ctx context.Context, params dto.ListParams) ([]domain.Record[F], string, error)
}

// RecordWriterSvc defines write operations on one record kind. C and U are the
// create and update request DTOs.
type RecordWriterSvc[F, C, U any] interface {
	// CreateRecord validates req against the catalog and stores a new record.
	CreateRecord(ctx context.Context, req C, userID string) (*domain.Record[F], error)

	// UpdateRecord merges req into an existing record. A missing id yields apperrors.ErrNotFound.
	UpdateRecord(ctx context.Context, id string, req U, userID string) (*domain.Record[F], error)

	// UpdateStatus moves a record to another status. A missing id yields apperrors.ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status string, userID string) (*domain.Record[F], error)

	// DeleteRecord removes a record. Deleting a missing id is not an error.
	DeleteRecord(ctx context.Context, id string, userID string) error
}

// RecordImporterSvc bulk-loads records from CSV.
type RecordImporterSvc interface {
	// ImportCSV creates a record for every valid row and reports the rest.
	ImportCSV(ctx context.Context, r io.Reader, userID string) (*dto.ImportResponse, error)
}

// RecordWatcherSvc streams change notifications.
type RecordWatcherSvc interface {
	// Watch delivers changes until ctx is done, then closes the channel.
	Watch(ctx context.Context, buffer int) <-chan store.Change
}

// RecordSummarizerSvc computes the dashboard view S of a record kind.
type RecordSummarizerSvc[S any] interface {
	Summary(ctx context.Context, params dto.ListParams) (*S, error)
}

// RecordSvcFacade combines all operations on one record kind.
type RecordSvcFacade[F, C, U, S any] interface {
	RecordReaderSvc[F]
	RecordWriterSvc[F, C, U]
	RecordImporterSvc
	RecordWatcherSvc
	RecordSummarizerSvc[S]
}

type (
	ExpenseSvcFacade = RecordSvcFacade[domain.ExpenseFields, dto.CreateExpenseRequest, dto.UpdateExpenseRequest, dto.ExpenseSummary]
	ProjectSvcFacade = RecordSvcFacade[domain.ProjectFields, dto.CreateProjectRequest, dto.UpdateProjectRequest, dto.ProjectSummary]
	EventSvcFacade   = RecordSvcFacade[domain.EventFields, dto.CreateEventRequest, dto.UpdateEventRequest, dto.EventSummary]
	TaskSvcFacade    = RecordSvcFacade[domain.TaskFields, dto.CreateTaskRequest, dto.UpdateTaskRequest, dto.TaskSummary]
)
