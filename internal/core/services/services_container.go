package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/janezhang99/SEW-v5-sub002/internal/adapters/persistence"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portsrepo "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/repositories"
	portssvc "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
)

// Observer receives store mutations and swallowed persistence failures, typically metrics.
type Observer interface {
	store.Observer
	persistence.Observer
}

// ContainerOption configures NewServiceContainer.
type ContainerOption func(*containerOptions)

type containerOptions struct {
	logger         *slog.Logger
	observer       Observer
	strictWorkflow bool
	now            func() time.Time
}

// WithContainerLogger sets the base logger handed to stores and services.
func WithContainerLogger(l *slog.Logger) ContainerOption {
	return func(o *containerOptions) { o.logger = l }
}

// WithObserver registers an observer on every store and persistence adapter.
func WithObserver(obs Observer) ContainerOption {
	return func(o *containerOptions) { o.observer = obs }
}

// WithStrictWorkflow enforces the catalog status workflow of each kind.
func WithStrictWorkflow(strict bool) ContainerOption {
	return func(o *containerOptions) { o.strictWorkflow = strict }
}

// WithContainerClock overrides the clock of every store and service.
func WithContainerClock(now func() time.Time) ContainerOption {
	return func(o *containerOptions) { o.now = now }
}

// NewServiceContainer opens one store per record kind over slots, loading them
// concurrently, and wires the services on top.
func NewServiceContainer(ctx context.Context, slots portsrepo.SlotRepository, catalog domain.Catalog, opts ...ContainerOption) (*portssvc.ServiceContainer, error) {
	o := containerOptions{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	container := &portssvc.ServiceContainer{Catalog: catalog}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st, err := openStore[domain.ExpenseFields](gctx, domain.KindExpenses, slots, catalog, o)
		if err != nil {
			return err
		}
		container.Expense = NewExpenseService(st, catalog.For(domain.KindExpenses), o.serviceOptions(domain.KindExpenses)...)
		return nil
	})
	g.Go(func() error {
		st, err := openStore[domain.ProjectFields](gctx, domain.KindProjects, slots, catalog, o)
		if err != nil {
			return err
		}
		container.Project = NewProjectService(st, catalog.For(domain.KindProjects), o.serviceOptions(domain.KindProjects)...)
		return nil
	})
	g.Go(func() error {
		st, err := openStore[domain.EventFields](gctx, domain.KindEvents, slots, catalog, o)
		if err != nil {
			return err
		}
		container.Event = NewEventService(st, catalog.For(domain.KindEvents), o.serviceOptions(domain.KindEvents)...)
		return nil
	})
	g.Go(func() error {
		st, err := openStore[domain.TaskFields](gctx, domain.KindTasks, slots, catalog, o)
		if err != nil {
			return err
		}
		container.Task = NewTaskService(st, catalog.For(domain.KindTasks), o.serviceOptions(domain.KindTasks)...)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to open record stores: %w", err)
	}
	return container, nil
}

func (o containerOptions) serviceOptions(kind domain.Kind) []ServiceOption {
	return []ServiceOption{
		WithLogger(o.logger.With(slog.String("kind", string(kind)))),
		WithClock(o.now),
	}
}

func openStore[F any](ctx context.Context, kind domain.Kind, slots portsrepo.SlotRepository, catalog domain.Catalog, o containerOptions) (*store.Store[F], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := o.logger.With(slog.String("kind", string(kind)))

	adapterOpts := []persistence.Option{persistence.WithLogger(logger)}
	storeOpts := []store.Option{store.WithLogger(logger), store.WithClock(o.now)}
	if o.observer != nil {
		adapterOpts = append(adapterOpts, persistence.WithObserver(o.observer))
		storeOpts = append(storeOpts, store.WithObserver(o.observer))
	}
	if o.strictWorkflow {
		storeOpts = append(storeOpts, store.WithTransitions(catalog.For(kind).Workflow))
	}

	st := store.Open[F](ctx, kind, persistence.NewAdapter[F](slots, adapterOpts...), nil, storeOpts...)
	logger.Info("Record store opened", slog.Int("records", st.Len()))
	return st, nil
}
