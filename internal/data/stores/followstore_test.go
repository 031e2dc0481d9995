package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mingle/internal/core/directory"
)

func TestFollowStore(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *FollowStore {
		database := newTestDB(t)
		dir := NewDirectoryStore(database)
		require.NoError(t, dir.Upsert(ctx, directory.Participant{ID: "u1", DisplayName: "Ana"}))
		require.NoError(t, dir.Upsert(ctx, directory.Participant{ID: "u2", DisplayName: "Beto"}))
		return NewFollowStore(database)
	}

	t.Run("follow and list", func(t *testing.T) {
		store := setup(t)

		require.NoError(t, store.Follow(ctx, "u1"))

		following, err := store.Following(ctx)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, "u1", following[0].ID)
	})

	t.Run("double follow is a no-op", func(t *testing.T) {
		store := setup(t)

		require.NoError(t, store.Follow(ctx, "u1"))
		require.NoError(t, store.Follow(ctx, "u1"))

		following, err := store.Following(ctx)
		require.NoError(t, err)
		assert.Len(t, following, 1)
	})

	t.Run("is following", func(t *testing.T) {
		store := setup(t)
		require.NoError(t, store.Follow(ctx, "u1"))

		ok, err := store.IsFollowing(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.IsFollowing(ctx, "u2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unfollow", func(t *testing.T) {
		store := setup(t)
		require.NoError(t, store.Follow(ctx, "u1"))

		require.NoError(t, store.Unfollow(ctx, "u1"))

		ok, err := store.IsFollowing(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.ErrorIs(t, store.Unfollow(ctx, "u1"), ErrNotFound)
	})
}
