package query_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/adapters/persistence"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/query"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var amount = domain.ExpenseDescriptor.Amount

func expense(id, desc, amt, category string, status domain.Status, date time.Time) domain.Expense {
	return domain.Expense{
		ID:     id,
		Status: status,
		Fields: domain.ExpenseFields{
			Description: desc,
			Amount:      decimal.RequireFromString(amt),
			Category:    category,
			Date:        date,
		},
	}
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func fixture() []domain.Expense {
	return []domain.Expense{
		expense("1", "Rain gauges", "120.00", "equipment", domain.ExpensePaid, day(time.January, 5)),
		expense("2", "Seed bank visit", "80.25", "travel", domain.ExpensePending, day(time.January, 20)),
		expense("3", "Mangrove saplings", "300.00", "materials", domain.ExpenseApproved, day(time.February, 2)),
		expense("4", "Water pump", "450.00", "equipment", domain.ExpensePending, day(time.March, 11)),
		expense("5", "Bus tickets", "19.75", "travel", domain.ExpensePaid, day(time.March, 12)),
	}
}

func ids(records []domain.Expense) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	records := fixture()
	category := domain.ExpenseDescriptor.Category

	tests := []struct {
		name  string
		preds []query.Predicate[domain.ExpenseFields]
		want  []string
	}{
		{name: "no predicates", want: []string{"1", "2", "3", "4", "5"}},
		{name: "status", preds: []query.Predicate[domain.ExpenseFields]{query.WithStatus[domain.ExpenseFields](domain.ExpensePending)}, want: []string{"2", "4"}},
		{name: "several statuses", preds: []query.Predicate[domain.ExpenseFields]{query.WithStatus[domain.ExpenseFields](domain.ExpensePaid, domain.ExpenseApproved)}, want: []string{"1", "3", "5"}},
		{name: "category", preds: []query.Predicate[domain.ExpenseFields]{query.FieldEquals(category, "travel")}, want: []string{"2", "5"}},
		{name: "date range inclusive", preds: []query.Predicate[domain.ExpenseFields]{query.Between(domain.ExpenseDescriptor.Date, day(time.January, 20), day(time.March, 11))}, want: []string{"2", "3", "4"}},
		{name: "open ended range", preds: []query.Predicate[domain.ExpenseFields]{query.Between(domain.ExpenseDescriptor.Date, day(time.March, 1), time.Time{})}, want: []string{"4", "5"}},
		{name: "text is case-insensitive", preds: []query.Predicate[domain.ExpenseFields]{query.Matches("PUMP", domain.ExpenseDescriptor.Text...)}, want: []string{"4"}},
		{name: "empty text matches all", preds: []query.Predicate[domain.ExpenseFields]{query.Matches("  ", domain.ExpenseDescriptor.Text...)}, want: []string{"1", "2", "3", "4", "5"}},
		{
			name: "predicates combine",
			preds: []query.Predicate[domain.ExpenseFields]{
				query.FieldEquals(category, "equipment"),
				query.WithStatus[domain.ExpenseFields](domain.ExpensePending),
			},
			want: []string{"4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(query.Filter(records, tt.preds...)))
		})
	}
}

func TestBetween_ZeroDateOnlyMatchesOpenRange(t *testing.T) {
	rec := []domain.Expense{expense("z", "undated", "1", "other", domain.ExpensePlanned, time.Time{})}

	assert.Len(t, query.Filter(rec, query.Between(domain.ExpenseDescriptor.Date, time.Time{}, time.Time{})), 1)
	assert.Empty(t, query.Filter(rec, query.Between(domain.ExpenseDescriptor.Date, day(time.January, 1), time.Time{})))
}

func TestSumAndCount(t *testing.T) {
	records := fixture()

	assert.Equal(t, "970", query.Sum(records, amount).String())
	assert.Equal(t, "0", query.Sum([]domain.Expense{}, amount).String())
	assert.Equal(t, 2, query.Count(records, query.WithStatus[domain.ExpenseFields](domain.ExpensePaid)))
}

func TestGroupSum_FirstOccurrenceOrder(t *testing.T) {
	groups := query.GroupSum(fixture(), query.ByField(domain.ExpenseDescriptor.Category), amount)

	require.Len(t, groups, 3)
	assert.Equal(t, "equipment", groups[0].Key)
	assert.Equal(t, "570", groups[0].Total.String())
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "travel", groups[1].Key)
	assert.Equal(t, "100", groups[1].Total.String())
	assert.Equal(t, "materials", groups[2].Key)
}

func TestGroupSum_CountOnly(t *testing.T) {
	groups := query.GroupSum(fixture(), query.ByStatus[domain.ExpenseFields], nil)

	require.Len(t, groups, 3)
	assert.Equal(t, "paid", groups[0].Key)
	assert.Equal(t, 2, groups[0].Count)
	assert.True(t, groups[0].Total.IsZero())
}

func TestGroupSum_ByMonth(t *testing.T) {
	groups := query.GroupSum(fixture(), query.ByMonth(domain.ExpenseDescriptor.Date), amount)

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, []string{groups[0].Key, groups[1].Key, groups[2].Key})
	assert.Equal(t, "200.25", groups[0].Total.String())
	assert.Equal(t, "469.75", groups[2].Total.String())
}

func TestGroupSum_TotalsMatchFilteredSums(t *testing.T) {
	records := fixture()
	for i := 0; i < 40; i++ {
		cat := []string{"equipment", "travel", "materials", "personnel"}[i%4]
		records = append(records, expense(fmt.Sprintf("g%d", i), "generated", fmt.Sprintf("%d.%02d", i*3, i), cat, domain.ExpensePlanned, day(time.April, 1+i%28)))
	}
	category := domain.ExpenseDescriptor.Category

	groups := query.GroupSum(records, query.ByField(category), amount)
	for _, g := range groups {
		want := query.Sum(query.Filter(records, query.FieldEquals(category, g.Key)), amount)
		assert.True(t, want.Equal(g.Total), "category %s: want %s got %s", g.Key, want, g.Total)
	}

	grand := decimal.Zero
	for _, g := range groups {
		grand = grand.Add(g.Total)
	}
	assert.True(t, grand.Equal(query.Sum(records, amount)))
}

func TestSortByTotalDescAndTop(t *testing.T) {
	groups := query.GroupSum(fixture(), query.ByField(domain.ExpenseDescriptor.Category), amount)
	query.SortByTotalDesc(groups)

	assert.Equal(t, "equipment", groups[0].Key)
	assert.Equal(t, "materials", groups[1].Key)
	assert.Equal(t, "travel", groups[2].Key)

	top := query.Top(groups, 2)
	assert.Len(t, top, 2)
	assert.Len(t, query.Top(groups, 0), 3)
	assert.Len(t, query.Top(groups, 10), 3)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-12", query.MonthKey(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "", query.MonthKey(time.Time{}))
}

func TestPage(t *testing.T) {
	records := fixture()

	assert.Equal(t, []string{"1", "2"}, ids(query.Page(records, 0, 2)))
	assert.Equal(t, []string{"5"}, ids(query.Page(records, 4, 2)))
	assert.Empty(t, query.Page(records, 9, 2))
	assert.Len(t, query.Page(records, -1, 0), 5)
}

// The totals a dashboard shows follow the store through creates and deletes.
func TestStoreScenario_ExpenseTotals(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := persistence.NewAdapter[domain.ExpenseFields](memory.New(), persistence.WithLogger(logger))
	s := store.Open(ctx, domain.KindExpenses, adapter, nil, store.WithLogger(logger))

	first := s.Create(ctx, domain.ExpensePaid, domain.ExpenseFields{
		Description: "Laptop", Amount: decimal.RequireFromString("899.99"), Category: "equipment",
	}, "")
	s.Create(ctx, domain.ExpensePending, domain.ExpenseFields{
		Description: "Workshop supplies", Amount: decimal.RequireFromString("245.50"), Category: "materials",
	}, "")

	assert.Equal(t, "1145.49", query.Sum(s.Snapshot(), amount).StringFixed(2))
	pending := query.Filter(s.Snapshot(), query.WithStatus[domain.ExpenseFields](domain.ExpensePending))
	assert.Equal(t, "245.50", query.Sum(pending, amount).StringFixed(2))

	s.Delete(ctx, first.ID, "")
	assert.Equal(t, "245.50", query.Sum(s.Snapshot(), amount).StringFixed(2))
}
