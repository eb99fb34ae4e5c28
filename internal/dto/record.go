package dto

import (
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/query"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted in requests and list filters.
const DateLayout = "2006-01-02"

// RecordResponse defines the data returned for a record of any kind.
type RecordResponse[F any] struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	Fields        F         `json:"fields"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToRecordResponse converts a domain.Record to a RecordResponse DTO.
func ToRecordResponse[F any](r domain.Record[F]) RecordResponse[F] {
	return RecordResponse[F]{
		ID:            r.ID,
		Status:        string(r.Status),
		Fields:        r.Fields,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
		LastUpdatedAt: r.LastUpdatedAt,
		LastUpdatedBy: r.LastUpdatedBy,
	}
}

// ToListRecordResponse converts records to response DTOs, never returning nil.
func ToListRecordResponse[F any](records []domain.Record[F]) []RecordResponse[F] {
	res := make([]RecordResponse[F], len(records))
	for i, r := range records {
		res[i] = ToRecordResponse(r)
	}
	return res
}

// ListRecordsResponse is one page of records.
type ListRecordsResponse[F any] struct {
	Items     []RecordResponse[F] `json:"items"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// ListParams defines query parameters for listing records and computing summaries.
type ListParams struct {
	Status    []string `form:"status"`
	Category  string   `form:"category"`
	From      string   `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string   `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Q         string   `form:"q"`
	Limit     int      `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string   `form:"nextToken"`
}

// UpdateStatusRequest moves a record to another lifecycle status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GroupResponse is one bucket of an aggregation.
type GroupResponse struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ToGroupResponses converts aggregation groups, never returning nil.
func ToGroupResponses(groups []query.Group) []GroupResponse {
	res := make([]GroupResponse, len(groups))
	for i, g := range groups {
		res[i] = GroupResponse{Key: g.Key, Total: g.Total, Count: g.Count}
	}
	return res
}

// ImportRowError reports one CSV row that was not imported.
type ImportRowError struct {
	Line   int    `json:"line"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// ImportResponse summarizes a CSV import.
type ImportResponse struct {
	Created int              `json:"created"`
	IDs     []string         `json:"ids"`
	Errors  []ImportRowError `json:"errors"`
}
