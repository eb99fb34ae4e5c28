// Package query derives subsets and aggregates from a collection snapshot.
// Every function is pure; nothing is cached between calls.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
)

// Predicate selects records.
type Predicate[F any] func(domain.Record[F]) bool

// Filter returns the records matching every predicate, in collection order.
func Filter[F any](records []domain.Record[F], preds ...Predicate[F]) []domain.Record[F] {
	out := make([]domain.Record[F], 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// WithStatus matches records in any of the given statuses. No statuses matches everything.
func WithStatus[F any](statuses ...domain.Status) Predicate[F] {
	return func(r domain.Record[F]) bool {
		return len(statuses) == 0 || slices.Contains(statuses, r.Status)
	}
}

// FieldEquals matches records whose field, read by get, equals want.
func FieldEquals[F any, V comparable](get func(F) V, want V) Predicate[F] {
	return func(r domain.Record[F]) bool {
		return get(r.Fields) == want
	}
}

// Between matches records whose date lies in [from, to]. A zero bound is open.
// Records with a zero date only match when both bounds are open.
func Between[F any](date func(F) time.Time, from, to time.Time) Predicate[F] {
	return func(r domain.Record[F]) bool {
		if from.IsZero() && to.IsZero() {
			return true
		}
		d := date(r.Fields)
		if d.IsZero() {
			return false
		}
		if !from.IsZero() && d.Before(from) {
			return false
		}
		if !to.IsZero() && d.After(to) {
			return false
		}
		return true
	}
}

// Matches is a case-insensitive substring search over one or more string
// fields. An empty term matches every record.
func Matches[F any](term string, fields ...func(F) string) Predicate[F] {
	needle := strings.ToLower(strings.TrimSpace(term))
	return func(r domain.Record[F]) bool {
		if needle == "" {
			return true
		}
		for _, get := range fields {
			if strings.Contains(strings.ToLower(get(r.Fields)), needle) {
				return true
			}
		}
		return false
	}
}

// Page returns at most limit records starting at offset. A non-positive limit means no limit.
func Page[F any](records []domain.Record[F], offset, limit int) []domain.Record[F] {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []domain.Record[F]{}
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end]
}
