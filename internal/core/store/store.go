// Package store owns the in-memory collection of one record kind.
//
// A Store is the only writer of its collection. Every successful mutation is
// written through to the persister before the store lock is released and is
// then announced to subscribers. Derived values are never kept here; readers
// take a Snapshot and compute them with the query package.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
)

// ErrInvalidTransition is returned by Update when a transition policy rejects a status change.
var ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", apperrors.ErrValidation)

// validator is implemented by field sets that can check their own invariants.
type validator interface {
	Validate() error
}

// Persister loads and saves collection snapshots. Implementations never fail
// towards the store: a bad load yields def and a bad save is dropped.
type Persister[F any] interface {
	Load(ctx context.Context, key string, def []domain.Record[F]) []domain.Record[F]
	Save(ctx context.Context, key string, records []domain.Record[F])
}

// Observer receives a call after every applied mutation.
type Observer interface {
	Mutated(kind domain.Kind, op ChangeType)
	Size(kind domain.Kind, n int)
}

// Store holds the records of one kind in insertion order.
//
// Records are handed out by value. Pointer-typed fields inside F are shared
// with the stored copy and must not be modified in place; use Update.
type Store[F any] struct {
	mu      sync.RWMutex
	kind    domain.Kind
	records []domain.Record[F]
	index   map[string]int

	persister Persister[F]
	notifier  notifier
	settings
}

type settings struct {
	now         func() time.Time
	newID       func() string
	transitions domain.Transitions
	logger      *slog.Logger
	observer    Observer
}

// Option configures a Store.
type Option func(*settings)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *settings) { s.newID = newID }
}

// WithTransitions enforces a status allow-list on Update. Without it every move is allowed.
func WithTransitions(t domain.Transitions) Option {
	return func(s *settings) { s.transitions = t }
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithObserver registers a mutation observer, typically metrics.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// Open rehydrates the collection of kind from p, falling back to seed when
// nothing usable is stored.
func Open[F any](ctx context.Context, kind domain.Kind, p Persister[F], seed []domain.Record[F], opts ...Option) *Store[F] {
	st := settings{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&st)
	}

	s := &Store[F]{
		kind:      kind,
		persister: p,
		settings:  st,
	}
	s.logger = s.logger.With(slog.String("kind", string(kind)))

	loaded := p.Load(ctx, string(kind), seed)
	s.records = make([]domain.Record[F], 0, len(loaded))
	s.index = make(map[string]int, len(loaded))
	for _, rec := range loaded {
		if rec.ID == "" {
			s.logger.Warn("Dropping stored record without id")
			continue
		}
		if _, dup := s.index[rec.ID]; dup {
			s.logger.Warn("Dropping stored record with duplicate id", slog.String("id", rec.ID))
			continue
		}
		s.index[rec.ID] = len(s.records)
		s.records = append(s.records, rec)
	}

	s.logger.Info("Collection loaded", slog.Int("count", len(s.records)))
	if s.observer != nil {
		s.observer.Size(kind, len(s.records))
	}
	return s
}

// Kind returns the record kind held by the store.
func (s *Store[F]) Kind() domain.Kind {
	return s.kind
}

// Create appends a new record with a fresh id and returns it. It always succeeds.
func (s *Store[F]) Create(ctx context.Context, status domain.Status, fields F, actor string) domain.Record[F] {
	s.mu.Lock()
	now := s.now()
	rec := domain.Record[F]{
		ID:     s.freshIDLocked(),
		Status: status,
		Fields: fields,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	s.save(ctx)
	n := len(s.records)
	s.mu.Unlock()

	s.logger.Debug("Record created", slog.String("id", rec.ID))
	s.publish(ChangeCreated, rec.ID, now, n)
	return rec
}

// Update merges patch into the record with the given id.
//
// A missing id is a silent no-op reported only through the boolean. An error
// is returned when a transition policy rejects the status change or when the
// merged fields fail their own Validate method; the record is then left untouched.
func (s *Store[F]) Update(ctx context.Context, id string, patch domain.Patch[F], actor string) (domain.Record[F], bool, error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return domain.Record[F]{}, false, nil
	}

	rec := s.records[i]
	if next, changed := patch.StatusChange(); changed {
		if !s.transitions.Allows(rec.Status, next) {
			s.mu.Unlock()
			return domain.Record[F]{}, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, next)
		}
		rec.Status = next
	}
	patch.ApplyFields(&rec.Fields)
	if v, ok := any(rec.Fields).(validator); ok {
		if err := v.Validate(); err != nil {
			s.mu.Unlock()
			return domain.Record[F]{}, false, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	now := s.now()
	if now.Before(rec.CreatedAt) {
		now = rec.CreatedAt
	}
	rec.LastUpdatedAt = now
	rec.LastUpdatedBy = actor
	s.records[i] = rec

	s.save(ctx)
	n := len(s.records)
	s.mu.Unlock()

	s.logger.Debug("Record updated", slog.String("id", id))
	s.publish(ChangeUpdated, id, now, n)
	return rec, true, nil
}

// Delete removes the record with the given id. Deleting a missing id is a no-op.
func (s *Store[F]) Delete(ctx context.Context, id string, actor string) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}

	s.records = slices.Delete(s.records, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	s.save(ctx)
	n := len(s.records)
	now := s.now()
	s.mu.Unlock()

	s.logger.Debug("Record deleted", slog.String("id", id), slog.String("actor", actor))
	s.publish(ChangeDeleted, id, now, n)
	return true
}

// save writes the collection through. An applied mutation is persisted even
// when the caller's context has been cancelled. Callers hold s.mu.
func (s *Store[F]) save(ctx context.Context) {
	s.persister.Save(context.WithoutCancel(ctx), string(s.kind), s.records)
}

// GetByID returns the record with the given id.
func (s *Store[F]) GetByID(id string) (domain.Record[F], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Record[F]{}, false
	}
	return s.records[i], true
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store[F]) Snapshot() []domain.Record[F] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of records.
func (s *Store[F]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// freshIDLocked draws ids until one is unused. It MUST be called while holding s.mu.
func (s *Store[F]) freshIDLocked() string {
	for {
		id := s.newID()
		if _, taken := s.index[id]; !taken && id != "" {
			return id
		}
	}
}

func (s *Store[F]) publish(op ChangeType, id string, at time.Time, size int) {
	if s.observer != nil {
		s.observer.Mutated(s.kind, op)
		s.observer.Size(s.kind, size)
	}
	s.notifier.publish(Change{Type: op, Kind: s.kind, ID: id, At: at})
}
