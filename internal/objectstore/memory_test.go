package objectstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotKey = "models/default.hal"

func TestMemoryStorePutAndGetRoundTripsSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	snapshot := []byte("MEGAHAL8fake-snapshot-bytes")

	etag, err := store.Put(ctx, snapshotKey, bytes.NewReader(snapshot), PutOptions{
		ContentType: "application/octet-stream",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, etag)

	reader, attrs, err := store.Get(ctx, snapshotKey)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, snapshot, data)
	assert.Equal(t, snapshotKey, attrs.Key)
	assert.Equal(t, int64(len(snapshot)), attrs.Size)
	assert.Equal(t, "application/octet-stream", attrs.ContentType)
}

func TestMemoryStoreGetMissingSnapshotReturnsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	_, _, err := store.Get(ctx, snapshotKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExistsReflectsWhetherSnapshotWasSaved(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	exists, err := store.Exists(ctx, snapshotKey)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Put(ctx, snapshotKey, bytes.NewReader([]byte("snapshot")), PutOptions{})
	require.NoError(t, err)

	exists, err = store.Exists(ctx, snapshotKey)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStorePutOverwritesPriorCheckpointAtSameKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Put(ctx, snapshotKey, bytes.NewReader([]byte("checkpoint v1")), PutOptions{})
	require.NoError(t, err)
	_, err = store.Put(ctx, snapshotKey, bytes.NewReader([]byte("checkpoint v2")), PutOptions{})
	require.NoError(t, err)

	reader, _, err := store.Get(ctx, snapshotKey)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("checkpoint v2"), data)
}

func TestMemoryStoreIsolatesDistinctModelNames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Put(ctx, "models/alice.hal", bytes.NewReader([]byte("alice")), PutOptions{})
	require.NoError(t, err)

	exists, err := store.Exists(ctx, "models/bob.hal")
	require.NoError(t, err)
	assert.False(t, exists)
}
