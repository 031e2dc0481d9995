package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mingle/internal/core/kv"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		store := NewKVStore(newTestDB(t))

		require.NoError(t, store.Set(ctx, "recent", []string{"u1", "u2"}))

		var got []string
		require.NoError(t, store.Get(ctx, "recent", &got))
		assert.Equal(t, []string{"u1", "u2"}, got)
	})

	t.Run("get missing key", func(t *testing.T) {
		store := NewKVStore(newTestDB(t))

		var got string
		err := store.Get(ctx, "nope", &got)
		assert.True(t, IsNotFoundError(err), "got %v, want not-found", err)
	})

	t.Run("set overwrites", func(t *testing.T) {
		store := NewKVStore(newTestDB(t))

		require.NoError(t, store.Set(ctx, "k", "a"))
		require.NoError(t, store.Set(ctx, "k", "b"))

		var got string
		require.NoError(t, store.Get(ctx, "k", &got))
		assert.Equal(t, "b", got)
	})

	t.Run("expired key is missing", func(t *testing.T) {
		store := NewKVStore(newTestDB(t))

		require.NoError(t, store.SetTTL(ctx, "flash", "x", -time.Second))

		var got string
		err := store.Get(ctx, "flash", &got)
		assert.True(t, IsNotFoundError(err), "got %v, want not-found", err)

		ok, err := store.Has(ctx, "flash")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("has and delete", func(t *testing.T) {
		store := NewKVStore(newTestDB(t))
		require.NoError(t, store.Set(ctx, "k", 1))

		ok, err := store.Has(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, store.Delete(ctx, "k"))
		require.NoError(t, store.Delete(ctx, "k")) // idempotent

		ok, err = store.Has(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("list keys skips expired", func(t *testing.T) {
		store := NewKVStore(newTestDB(t))
		require.NoError(t, store.Set(ctx, "alive", 1))
		require.NoError(t, store.SetTTL(ctx, "dead", 1, -time.Second))

		keys, err := store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alive"}, keys)
	})

	t.Run("sweep removes expired rows", func(t *testing.T) {
		store := NewKVStore(newTestDB(t))
		require.NoError(t, store.SetTTL(ctx, "dead", 1, -time.Second))
		require.NoError(t, store.Set(ctx, "alive", 1))

		n, err := store.Sweep(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("typed wrapper scopes keys", func(t *testing.T) {
		store := NewKVStore(newTestDB(t))
		typed := kv.NewBucket[[]string](store, "mentions")

		require.NoError(t, typed.Set(ctx, "recent", []string{"u1"}))

		got, err := typed.Get(ctx, "recent")
		require.NoError(t, err)
		assert.Equal(t, []string{"u1"}, got)

		keys, err := store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"mentions:recent"}, keys)
	})
}
