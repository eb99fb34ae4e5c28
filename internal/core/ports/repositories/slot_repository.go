package repositories

import "context"

// SlotReader reads serialized collection snapshots.
type SlotReader interface {
	// Get returns the payload stored under key, or apperrors.ErrNotFound when the slot is empty.
	Get(ctx context.Context, key string) ([]byte, error)
}

// SlotWriter writes serialized collection snapshots.
type SlotWriter interface {
	// Put replaces the payload stored under key.
	Put(ctx context.Context, key string, payload []byte) error
}

// SlotRepository is a durable key-value slot per record kind.
type SlotRepository interface {
	SlotReader
	SlotWriter
	// Close releases connections held by the backend.
	Close() error
}
