// Package persistence loads and saves record collections through a slot repository.
//
// The adapter is a convenience cache in front of the slot: a failed load falls
// back to the caller's default collection and a failed save is only logged.
// Neither ever reaches the caller as an error.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portsrepo "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/repositories"
)

// Observer is told about swallowed persistence failures.
type Observer interface {
	LoadFailed(key string)
	SaveFailed(key string)
}

// Adapter serializes collections of one record kind as JSON arrays.
type Adapter[F any] struct {
	slots    portsrepo.SlotRepository
	logger   *slog.Logger
	observer Observer
}

// Option configures an Adapter.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
}

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver registers an observer for swallowed failures.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// NewAdapter creates an adapter over slots.
func NewAdapter[F any](slots portsrepo.SlotRepository, opts ...Option) *Adapter[F] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Adapter[F]{slots: slots, logger: o.logger, observer: o.observer}
}

// Load returns the collection stored under key. When the slot is empty,
// unreadable or holds something that does not decode, def is returned instead.
func (a *Adapter[F]) Load(ctx context.Context, key string, def []domain.Record[F]) []domain.Record[F] {
	payload, err := a.slots.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			a.logger.Debug("Slot empty, using default collection", slog.String("slot", key))
			return def
		}
		a.logger.Warn("Failed to read slot, using default collection",
			slog.String("slot", key), slog.String("error", err.Error()))
		a.loadFailed(key)
		return def
	}

	var records []domain.Record[F]
	if err := json.Unmarshal(payload, &records); err != nil {
		a.logger.Warn("Failed to decode slot, using default collection",
			slog.String("slot", key), slog.String("error", err.Error()))
		a.loadFailed(key)
		return def
	}
	if records == nil {
		records = []domain.Record[F]{}
	}
	return records
}

// Save writes records under key. Failures are logged and dropped.
func (a *Adapter[F]) Save(ctx context.Context, key string, records []domain.Record[F]) {
	if records == nil {
		records = []domain.Record[F]{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		a.logger.Error("Failed to encode collection", slog.String("slot", key), slog.String("error", err.Error()))
		a.saveFailed(key)
		return
	}
	if err := a.slots.Put(ctx, key, payload); err != nil {
		a.logger.Error("Failed to write slot", slog.String("slot", key), slog.String("error", err.Error()))
		a.saveFailed(key)
	}
}

func (a *Adapter[F]) loadFailed(key string) {
	if a.observer != nil {
		a.observer.LoadFailed(key)
	}
}

func (a *Adapter[F]) saveFailed(key string) {
	if a.observer != nil {
		a.observer.SaveFailed(key)
	}
}
