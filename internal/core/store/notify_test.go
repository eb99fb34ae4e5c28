package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTaskStore(t *testing.T) *store.Store[domain.TaskFields] {
	t.Helper()
	return store.Open(context.Background(), domain.KindTasks, &recordingPersister[domain.TaskFields]{}, nil,
		store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func task(title string) domain.TaskFields {
	return domain.TaskFields{Title: title, Priority: "medium"}
}

func TestSubscribe_NotifiesInOrder(t *testing.T) {
	ctx := context.Background()
	s := newTaskStore(t)

	var calls []string
	s.Subscribe(func(c store.Change) { calls = append(calls, "first:"+string(c.Type)) })
	s.Subscribe(func(c store.Change) { calls = append(calls, "second:"+string(c.Type)) })

	rec := s.Create(ctx, domain.TaskTodo, task("Map flood zones"), "")
	_, _, err := s.Update(ctx, rec.ID, domain.StatusPatch[domain.TaskFields]{Status: domain.TaskDone}, "")
	require.NoError(t, err)
	s.Delete(ctx, rec.ID, "")

	assert.Equal(t, []string{
		"first:created", "second:created",
		"first:updated", "second:updated",
		"first:deleted", "second:deleted",
	}, calls)
}

func TestSubscribe_ChangeCarriesIdentity(t *testing.T) {
	s := newTaskStore(t)
	var got store.Change
	s.Subscribe(func(c store.Change) { got = c })

	rec := s.Create(context.Background(), domain.TaskTodo, task("Survey wells"), "")

	assert.Equal(t, store.ChangeCreated, got.Type)
	assert.Equal(t, domain.KindTasks, got.Kind)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.CreatedAt, got.At)
}

func TestSubscribe_ListenerSeesCommittedState(t *testing.T) {
	s := newTaskStore(t)
	var lenAtNotify int
	s.Subscribe(func(store.Change) { lenAtNotify = s.Len() })

	s.Create(context.Background(), domain.TaskTodo, task("Install rain gauge"), "")

	assert.Equal(t, 1, lenAtNotify)
}

func TestUnsubscribe_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTaskStore(t)

	count := 0
	unsubscribe := s.Subscribe(func(store.Change) { count++ })
	other := 0
	s.Subscribe(func(store.Change) { other++ })

	s.Create(ctx, domain.TaskTodo, task("a"), "")
	unsubscribe()
	unsubscribe()
	s.Create(ctx, domain.TaskTodo, task("b"), "")

	assert.Equal(t, 1, count)
	assert.Equal(t, 2, other)
}

func TestWatch_StreamsAndClosesOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newTaskStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	changes := s.Watch(ctx, 4)

	rec := s.Create(context.Background(), domain.TaskTodo, task("Clean drains"), "")

	select {
	case c := <-changes:
		assert.Equal(t, rec.ID, c.ID)
		assert.Equal(t, store.ChangeCreated, c.Type)
	case <-time.After(time.Second):
		t.Fatal("no change received")
	}

	cancel()
	select {
	case _, open := <-changes:
		assert.False(t, open, "channel closes after cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	// Mutations after the watcher is gone must not block or panic.
	s.Create(context.Background(), domain.TaskTodo, task("After cancel"), "")
}

func TestWatch_SlowConsumerDoesNotBlockStore(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newTaskStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	changes := s.Watch(ctx, 1)

	for i := 0; i < 5; i++ {
		s.Create(context.Background(), domain.TaskTodo, task("burst"), "")
	}
	assert.Equal(t, 5, s.Len())
	assert.Len(t, changes, 1)

	cancel()
	for range changes {
	}
}
