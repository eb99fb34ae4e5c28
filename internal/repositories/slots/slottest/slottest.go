// Package slottest holds the behaviour every slot backend must share.
package slottest

import (
	"context"
	"testing"

	"github.com/janezhang99/SEW-v5-sub002/internal/apperrors"
	portsrepo "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises repo against the slot contract.
func Run(t *testing.T, repo portsrepo.SlotRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing slot is not found", func(t *testing.T) {
		_, err := repo.Get(ctx, "expenses")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, "tasks", []byte(`[{"id":"a"}]`)))

		got, err := repo.Get(ctx, "tasks")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"a"}]`, string(got))
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, "events", []byte(`[1]`)))
		require.NoError(t, repo.Put(ctx, "events", []byte(`[2]`)))

		got, err := repo.Get(ctx, "events")
		require.NoError(t, err)
		assert.Equal(t, `[2]`, string(got))
	})

	t.Run("keys do not collide", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, "projects", []byte(`["p"]`)))
		require.NoError(t, repo.Put(ctx, "projects-archive", []byte(`["q"]`)))

		got, err := repo.Get(ctx, "projects")
		require.NoError(t, err)
		assert.Equal(t, `["p"]`, string(got))
	})
}
