package query

import (
	"slices"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Group is the aggregate of the records sharing one key.
type Group struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Sum adds up amount over records.
func Sum[F any](records []domain.Record[F], amount func(F) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(amount(r.Fields))
	}
	return total
}

// Count returns how many records match every predicate.
func Count[F any](records []domain.Record[F], preds ...Predicate[F]) int {
	return len(Filter(records, preds...))
}

// GroupSum partitions records by key and sums amount per partition. Groups come
// back in the order their key first occurs in records. A nil amount only counts.
func GroupSum[F any](records []domain.Record[F], key func(domain.Record[F]) string, amount func(F) decimal.Decimal) []Group {
	groups := []Group{}
	pos := make(map[string]int)
	for _, r := range records {
		k := key(r)
		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			groups = append(groups, Group{Key: k, Total: decimal.Zero})
		}
		groups[i].Count++
		if amount != nil {
			groups[i].Total = groups[i].Total.Add(amount(r.Fields))
		}
	}
	return groups
}

// ByStatus is a GroupSum key selecting the record status.
func ByStatus[F any](r domain.Record[F]) string {
	return string(r.Status)
}

// ByField builds a GroupSum key from a string field.
func ByField[F any](get func(F) string) func(domain.Record[F]) string {
	return func(r domain.Record[F]) string { return get(r.Fields) }
}

// ByMonth builds a GroupSum key truncating a date field to its month.
func ByMonth[F any](date func(F) time.Time) func(domain.Record[F]) string {
	return func(r domain.Record[F]) string { return MonthKey(date(r.Fields)) }
}

// MonthKey truncates t to a "2006-01" key. The zero time maps to "".
func MonthKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01")
}

// SortByTotalDesc orders groups by total, largest first. Ties keep their order.
func SortByTotalDesc(groups []Group) {
	slices.SortStableFunc(groups, func(a, b Group) int {
		return b.Total.Cmp(a.Total)
	})
}

// Top returns the first n groups, or all of them when n is not positive or exceeds the length.
func Top(groups []Group, n int) []Group {
	if n <= 0 || n >= len(groups) {
		return groups
	}
	return groups[:n]
}
