package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots/slottest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "hub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	slottest.Run(t, s)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hub.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "expenses", []byte(`[{"id":"x"}]`)))
	require.NoError(t, s.Close())

	reopened, err := New(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, string(got))
}
