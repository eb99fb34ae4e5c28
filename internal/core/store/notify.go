package store

import (
	"context"
	"sync"
	"time"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
)

// ChangeType names the mutation that produced a Change.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change describes one applied mutation.
type Change struct {
	Type ChangeType  `json:"type"`
	Kind domain.Kind `json:"kind"`
	ID   string      `json:"id"`
	At   time.Time   `json:"at"`
}

// Listener is called synchronously after a mutation, outside the store lock.
type Listener func(Change)

type notifier struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []subscription
}

type subscription struct {
	id uint64
	fn Listener
}

func (n *notifier) subscribe(fn Listener) func() {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, subscription{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, sub := range n.listeners {
				if sub.id == id {
					n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (n *notifier) publish(c Change) {
	n.mu.Lock()
	subs := make([]subscription, len(n.listeners))
	copy(subs, n.listeners)
	n.mu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}

// Subscribe registers fn for every future mutation, in subscription order.
// The returned function unsubscribes; calling it more than once is harmless.
func (s *Store[F]) Subscribe(fn Listener) (unsubscribe func()) {
	return s.notifier.subscribe(fn)
}

// Watch streams changes until ctx is done, then closes the channel.
// A consumer that falls more than buffer changes behind misses changes
// instead of blocking the store.
func (s *Store[F]) Watch(ctx context.Context, buffer int) <-chan Change {
	ch := make(chan Change, buffer)

	var (
		mu     sync.Mutex
		closed bool
	)
	unsubscribe := s.Subscribe(func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- c:
		default:
			s.logger.Warn("Dropping change for slow watcher", "id", c.ID, "type", string(c.Type))
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return ch
}
