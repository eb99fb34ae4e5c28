package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/adapters/persistence"
	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// recordingPersister keeps every saved snapshot.
type recordingPersister[F any] struct {
	stored         []domain.Record[F]
	saves          int
	cancelledSaves int
}

func (p *recordingPersister[F]) Load(_ context.Context, _ string, def []domain.Record[F]) []domain.Record[F] {
	if p.stored == nil {
		return def
	}
	return p.stored
}

func (p *recordingPersister[F]) Save(ctx context.Context, _ string, records []domain.Record[F]) {
	p.saves++
	if ctx.Err() != nil {
		p.cancelledSaves++
	}
	p.stored = append([]domain.Record[F](nil), records...)
}

// fakeClock advances one second per call unless frozen.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type StoreTestSuite struct {
	suite.Suite
	ctx       context.Context
	clock     *fakeClock
	persister *recordingPersister[domain.ExpenseFields]
	store     *store.Store[domain.ExpenseFields]
	logger    *slog.Logger
}

func (suite *StoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = &fakeClock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), step: time.Second}
	suite.persister = &recordingPersister[domain.ExpenseFields]{}
	suite.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.store = store.Open(suite.ctx, domain.KindExpenses, suite.persister, nil,
		store.WithClock(suite.clock.Now), store.WithLogger(suite.logger))
}

func laptop() domain.ExpenseFields {
	return domain.ExpenseFields{Description: "Laptop", Amount: decimal.RequireFromString("899.99"), Category: "equipment"}
}

func supplies() domain.ExpenseFields {
	return domain.ExpenseFields{Description: "Workshop supplies", Amount: decimal.RequireFromString("245.50"), Category: "materials"}
}

func (suite *StoreTestSuite) TestCreate_SetsIdentityAndTimestamps() {
	rec := suite.store.Create(suite.ctx, domain.ExpensePaid, laptop(), "user-1")

	suite.NotEmpty(rec.ID)
	suite.Equal(domain.ExpensePaid, rec.Status)
	suite.Equal(rec.CreatedAt, rec.LastUpdatedAt)
	suite.Equal("user-1", rec.CreatedBy)
	suite.Equal(1, suite.persister.saves, "create writes through")

	got, ok := suite.store.GetByID(rec.ID)
	suite.Require().True(ok)
	suite.Equal(rec, got)
}

func (suite *StoreTestSuite) TestMutations_SaveWithCancelledCallerContext() {
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	rec := suite.store.Create(ctx, domain.ExpensePending, laptop(), "user-1")
	_, ok, err := suite.store.Update(ctx, rec.ID, domain.StatusPatch[domain.ExpenseFields]{Status: domain.ExpensePaid}, "user-1")
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.True(suite.store.Delete(ctx, rec.ID, "user-1"))

	suite.Equal(3, suite.persister.saves)
	suite.Zero(suite.persister.cancelledSaves, "saves must not inherit the caller's cancellation")
}

func (suite *StoreTestSuite) TestCreate_IDsAreUnique() {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		rec := suite.store.Create(suite.ctx, domain.ExpensePending, laptop(), "")
		suite.False(seen[rec.ID], "duplicate id %s", rec.ID)
		seen[rec.ID] = true
	}
	suite.Equal(200, suite.store.Len())
}

func (suite *StoreTestSuite) TestCreate_RedrawsCollidingIDs() {
	ids := []string{"a", "a", "", "b"}
	s := store.Open(suite.ctx, domain.KindExpenses, &recordingPersister[domain.ExpenseFields]{}, nil,
		store.WithLogger(suite.logger),
		store.WithIDGenerator(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}))

	first := s.Create(suite.ctx, domain.ExpensePending, laptop(), "")
	second := s.Create(suite.ctx, domain.ExpensePending, laptop(), "")

	suite.Equal("a", first.ID)
	suite.Equal("b", second.ID)
}

func (suite *StoreTestSuite) TestCreate_PreservesInsertionOrder() {
	a := suite.store.Create(suite.ctx, domain.ExpensePaid, laptop(), "")
	b := suite.store.Create(suite.ctx, domain.ExpensePending, supplies(), "")

	snap := suite.store.Snapshot()
	suite.Require().Len(snap, 2)
	suite.Equal(a.ID, snap[0].ID)
	suite.Equal(b.ID, snap[1].ID)
}

func (suite *StoreTestSuite) TestUpdate_MergesOnlyCarriedFields() {
	target := suite.store.Create(suite.ctx, domain.ExpensePending, laptop(), "user-1")
	other := suite.store.Create(suite.ctx, domain.ExpensePending, supplies(), "user-1")

	updated, found, err := suite.store.Update(suite.ctx, target.ID,
		domain.StatusPatch[domain.ExpenseFields]{Status: domain.ExpenseApproved}, "user-2")

	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Equal(domain.ExpenseApproved, updated.Status)
	suite.True(updated.LastUpdatedAt.After(target.LastUpdatedAt))
	suite.Equal("user-2", updated.LastUpdatedBy)

	// everything else is untouched
	suite.Equal(target.ID, updated.ID)
	suite.Equal(target.Fields, updated.Fields)
	suite.Equal(target.CreatedAt, updated.CreatedAt)
	suite.Equal(target.CreatedBy, updated.CreatedBy)
	stillOther, _ := suite.store.GetByID(other.ID)
	suite.Equal(other, stillOther)
}

func (suite *StoreTestSuite) TestUpdate_FieldPatch() {
	rec := suite.store.Create(suite.ctx, domain.ExpensePending, laptop(), "")
	notes := "refurbished"
	amount := decimal.RequireFromString("799.00")

	updated, found, err := suite.store.Update(suite.ctx, rec.ID, domain.ExpensePatch{Notes: &notes, Amount: &amount}, "")

	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Equal(domain.ExpensePending, updated.Status)
	suite.Equal("Laptop", updated.Fields.Description)
	suite.Equal("refurbished", updated.Fields.Notes)
	suite.True(amount.Equal(updated.Fields.Amount))
}

func (suite *StoreTestSuite) TestUpdate_MissingIDIsNoOp() {
	suite.store.Create(suite.ctx, domain.ExpensePending, laptop(), "")
	before := suite.store.Snapshot()
	saves := suite.persister.saves
	notified := 0
	suite.store.Subscribe(func(store.Change) { notified++ })

	_, found, err := suite.store.Update(suite.ctx, "missing",
		domain.StatusPatch[domain.ExpenseFields]{Status: domain.ExpensePaid}, "")

	suite.NoError(err)
	suite.False(found)
	suite.Equal(before, suite.store.Snapshot())
	suite.Equal(saves, suite.persister.saves)
	suite.Zero(notified)
}

func (suite *StoreTestSuite) TestUpdate_OpenTransitionsByDefault() {
	rec := suite.store.Create(suite.ctx, domain.ExpensePaid, laptop(), "")

	updated, found, err := suite.store.Update(suite.ctx, rec.ID,
		domain.StatusPatch[domain.ExpenseFields]{Status: domain.ExpensePlanned}, "")

	suite.NoError(err)
	suite.True(found)
	suite.Equal(domain.ExpensePlanned, updated.Status)
}

func (suite *StoreTestSuite) TestUpdate_TransitionPolicyRejects() {
	s := store.Open(suite.ctx, domain.KindExpenses, &recordingPersister[domain.ExpenseFields]{}, nil,
		store.WithLogger(suite.logger),
		store.WithTransitions(domain.DefaultCatalog().For(domain.KindExpenses).Workflow))
	rec := s.Create(suite.ctx, domain.ExpensePaid, laptop(), "")

	_, found, err := s.Update(suite.ctx, rec.ID, domain.StatusPatch[domain.ExpenseFields]{Status: domain.ExpensePlanned}, "")

	suite.False(found)
	suite.ErrorIs(err, store.ErrInvalidTransition)
	suite.ErrorIs(err, apperrors.ErrValidation)
	unchanged, _ := s.GetByID(rec.ID)
	suite.Equal(rec, unchanged)
}

func (suite *StoreTestSuite) TestUpdate_RejectsInvalidMergedFields() {
	rec := suite.store.Create(suite.ctx, domain.ExpensePending, laptop(), "")
	saves := suite.persister.saves
	empty := ""

	_, found, err := suite.store.Update(suite.ctx, rec.ID, domain.ExpensePatch{Description: &empty}, "")

	suite.False(found)
	suite.ErrorIs(err, apperrors.ErrValidation)
	unchanged, _ := suite.store.GetByID(rec.ID)
	suite.Equal(rec, unchanged)
	suite.Equal(saves, suite.persister.saves)
}

func (suite *StoreTestSuite) TestUpdate_ClampsBackwardsClock() {
	rec := suite.store.Create(suite.ctx, domain.ExpensePending, laptop(), "")
	suite.clock.t = rec.CreatedAt.Add(-time.Hour)

	updated, _, err := suite.store.Update(suite.ctx, rec.ID,
		domain.StatusPatch[domain.ExpenseFields]{Status: domain.ExpensePaid}, "")

	suite.Require().NoError(err)
	suite.False(updated.LastUpdatedAt.Before(updated.CreatedAt))
}

func (suite *StoreTestSuite) TestDelete_IsIdempotent() {
	a := suite.store.Create(suite.ctx, domain.ExpensePaid, laptop(), "")
	b := suite.store.Create(suite.ctx, domain.ExpensePending, supplies(), "")

	suite.True(suite.store.Delete(suite.ctx, a.ID, ""))
	once := suite.store.Snapshot()
	saves := suite.persister.saves

	suite.False(suite.store.Delete(suite.ctx, a.ID, ""))
	suite.Equal(once, suite.store.Snapshot())
	suite.Equal(saves, suite.persister.saves, "second delete does not persist")

	_, ok := suite.store.GetByID(a.ID)
	suite.False(ok)
	got, ok := suite.store.GetByID(b.ID)
	suite.True(ok, "index is rebuilt after removal")
	suite.Equal(b, got)
}

func (suite *StoreTestSuite) TestOpen_UsesSeedWhenNothingStored() {
	seed := []domain.Expense{{ID: "seed-1", Status: domain.ExpensePlanned, Fields: laptop()}}

	s := store.Open(suite.ctx, domain.KindExpenses, &recordingPersister[domain.ExpenseFields]{}, seed,
		store.WithLogger(suite.logger))

	suite.Equal(1, s.Len())
	_, ok := s.GetByID("seed-1")
	suite.True(ok)
}

func (suite *StoreTestSuite) TestOpen_DropsDuplicateAndEmptyIDs() {
	p := &recordingPersister[domain.ExpenseFields]{stored: []domain.Expense{
		{ID: "x", Status: domain.ExpensePaid, Fields: laptop()},
		{ID: "", Status: domain.ExpensePaid, Fields: laptop()},
		{ID: "x", Status: domain.ExpensePending, Fields: supplies()},
	}}

	s := store.Open(suite.ctx, domain.KindExpenses, p, nil, store.WithLogger(suite.logger))

	suite.Equal(1, s.Len())
	got, _ := s.GetByID("x")
	suite.Equal(domain.ExpensePaid, got.Status, "first occurrence wins")
}

func (suite *StoreTestSuite) TestWriteThrough_SurvivesReopen() {
	slots := memory.New()
	adapter := persistence.NewAdapter[domain.ExpenseFields](slots, persistence.WithLogger(suite.logger))
	s := store.Open(suite.ctx, domain.KindExpenses, adapter, nil, store.WithLogger(suite.logger))

	a := s.Create(suite.ctx, domain.ExpensePaid, laptop(), "")
	s.Create(suite.ctx, domain.ExpensePending, supplies(), "")
	s.Delete(suite.ctx, a.ID, "")

	reopened := store.Open(suite.ctx, domain.KindExpenses, adapter, nil, store.WithLogger(suite.logger))
	suite.Require().Equal(1, reopened.Len())
	suite.Equal("Workshop supplies", reopened.Snapshot()[0].Fields.Description)
}

type countingObserver struct {
	ops  map[store.ChangeType]int
	size int
}

func (c *countingObserver) Mutated(_ domain.Kind, op store.ChangeType) { c.ops[op]++ }
func (c *countingObserver) Size(_ domain.Kind, n int)                   { c.size = n }

func (suite *StoreTestSuite) TestObserver() {
	obs := &countingObserver{ops: map[store.ChangeType]int{}}
	s := store.Open(suite.ctx, domain.KindExpenses, &recordingPersister[domain.ExpenseFields]{}, nil,
		store.WithLogger(suite.logger), store.WithObserver(obs))

	rec := s.Create(suite.ctx, domain.ExpensePending, laptop(), "")
	s.Create(suite.ctx, domain.ExpensePending, supplies(), "")
	_, _, _ = s.Update(suite.ctx, rec.ID, domain.StatusPatch[domain.ExpenseFields]{Status: domain.ExpensePaid}, "")
	s.Delete(suite.ctx, rec.ID, "")
	s.Delete(suite.ctx, rec.ID, "")

	suite.Equal(map[store.ChangeType]int{
		store.ChangeCreated: 2,
		store.ChangeUpdated: 1,
		store.ChangeDeleted: 1,
	}, obs.ops)
	suite.Equal(1, obs.size)
}

func (suite *StoreTestSuite) TestKind() {
	suite.Equal(domain.KindExpenses, suite.store.Kind())
}

func TestStore(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
