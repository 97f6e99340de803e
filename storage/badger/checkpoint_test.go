package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/seedsearch/core"
	"github.com/poiesic/seedsearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRepository_SaveLoad(t *testing.T) {
	repo, err := NewMemoryCheckpointRepository()
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	key := core.IDFromContent("find_seeds_with_joker_X")

	t.Run("missing checkpoint", func(t *testing.T) {
		got, err := repo.LoadCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("save then load", func(t *testing.T) {
		before := time.Now().UTC().Add(-time.Second)
		checkpoint := &core.Checkpoint{QueryKey: key, NextOffset: 5000, SeedsSearched: 5000}
		require.NoError(t, repo.SaveCheckpoint(ctx, checkpoint))
		assert.True(t, checkpoint.UpdatedAt.After(before), "UpdatedAt should be set on save")

		got, err := repo.LoadCheckpoint(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(5000), got.NextOffset)
		assert.Equal(t, uint64(5000), got.SeedsSearched)
		assert.Equal(t, checkpoint.UpdatedAt.UnixMicro(), got.UpdatedAt.UnixMicro())
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{QueryKey: key, NextOffset: 9000, SeedsSearched: 9000}))

		got, err := repo.LoadCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(9000), got.NextOffset)
	})

	t.Run("checkpoints are per query", func(t *testing.T) {
		got, err := repo.LoadCheckpoint(ctx, core.IDFromContent("another query"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteCheckpoint(ctx, key))
		got, err := repo.LoadCheckpoint(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, got)

		// Deleting again is fine.
		require.NoError(t, repo.DeleteCheckpoint(ctx, key))
	})
}

func TestCheckpointRepository_InvalidCheckpoint(t *testing.T) {
	repo, err := NewMemoryCheckpointRepository()
	require.NoError(t, err)
	defer repo.Close()

	err = repo.SaveCheckpoint(context.Background(), &core.Checkpoint{NextOffset: 1})
	assert.ErrorIs(t, err, core.ErrInvalidCheckpoint)
}

func TestCheckpointRepository_Closed(t *testing.T) {
	repo, err := NewMemoryCheckpointRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	// Closing twice is a no-op.
	require.NoError(t, repo.Close())

	ctx := context.Background()
	key := core.IDFromContent("q")
	_, err = repo.LoadCheckpoint(ctx, key)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{QueryKey: key}), storage.ErrStorageClosed)
	assert.ErrorIs(t, repo.DeleteCheckpoint(ctx, key), storage.ErrStorageClosed)
}

func TestCheckpointRepository_SharedBackend(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	repo := NewCheckpointRepository(backend)
	require.NoError(t, repo.Close())
	assert.False(t, backend.IsClosed(), "shared backend must stay open")
}

func TestOpenCheckpointRepository_Persists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkpoints")
	ctx := context.Background()
	key := core.IDFromContent("persisted query")

	repo, err := OpenCheckpointRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{QueryKey: key, NextOffset: 77}))
	require.NoError(t, repo.Close())

	reopened, err := OpenCheckpointRepository(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.LoadCheckpoint(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(77), got.NextOffset)
}
