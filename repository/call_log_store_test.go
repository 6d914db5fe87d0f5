package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sequipment/outreach-hub/models"
)

// failingBackend rejects every operation, standing in for an unreachable
// shared workbook.
type failingBackend struct{}

func (failingBackend) Connect(ctx context.Context) error { return errors.New("workbook offline") }

func (failingBackend) LoadAll(ctx context.Context) (map[models.LogKey]models.CallEntry, error) {
	return nil, errors.New("workbook offline")
}

func (failingBackend) UpsertRow(ctx context.Context, key models.LogKey, entry models.CallEntry) error {
	return errors.New("workbook offline")
}

func (failingBackend) DeleteRow(ctx context.Context, key models.LogKey) error {
	return errors.New("workbook offline")
}

// readOnlyBackend connects and loads but rejects writes, like a workbook
// that turned read-only mid-session.
type readOnlyBackend struct{}

func (readOnlyBackend) Connect(ctx context.Context) error { return nil }

func (readOnlyBackend) LoadAll(ctx context.Context) (map[models.LogKey]models.CallEntry, error) {
	return map[models.LogKey]models.CallEntry{}, nil
}

func (readOnlyBackend) UpsertRow(ctx context.Context, key models.LogKey, entry models.CallEntry) error {
	return errors.New("workbook is read-only")
}

func (readOnlyBackend) DeleteRow(ctx context.Context, key models.LogKey) error {
	return errors.New("workbook is read-only")
}

func newTestStore(t *testing.T, remote CallLogBackend) (*CallLogStore, *LocalBackend) {
	t.Helper()
	local := NewLocalBackend(filepath.Join(t.TempDir(), "call_log_local.json"), zap.NewNop())
	return NewCallLogStore(remote, local, zap.NewNop()), local
}

func TestCallLogStoreInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("PrefersRemote", func(t *testing.T) {
		remote := NewSheetBackend(filepath.Join(t.TempDir(), "call_log.xlsx"), "call_log", time.Minute, zap.NewNop())
		key := models.LogKey("recovery_ACME")
		require.NoError(t, remote.Connect(ctx))
		require.NoError(t, remote.UpsertRow(ctx, key, models.CallEntry{Called: true, User: "jdoe"}))

		store, _ := newTestStore(t, remote)
		store.Initialize(ctx)

		assert.True(t, store.RemoteActive())
		assert.Equal(t, 1, store.Len())
		entry, ok := store.Get(key)
		require.True(t, ok)
		assert.Equal(t, "jdoe", entry.User)
	})

	t.Run("FallsBackToLocal", func(t *testing.T) {
		store, local := newTestStore(t, failingBackend{})
		key := models.LogKey("parts_5001")
		require.NoError(t, local.UpsertRow(ctx, key, models.CallEntry{Followup: true}))

		store.Initialize(ctx)

		assert.False(t, store.RemoteActive())
		_, ok := store.Get(key)
		assert.True(t, ok)
	})

	t.Run("NoRemoteConfigured", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		store.Initialize(ctx)

		assert.False(t, store.RemoteActive())
		assert.Equal(t, 0, store.Len())
	})
}

func TestCallLogStoreWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("UpsertWritesThroughLocal", func(t *testing.T) {
		store, local := newTestStore(t, nil)
		store.Initialize(ctx)

		key := models.LogKey("recovery_ACME")
		require.NoError(t, store.Upsert(ctx, key, models.CallEntry{Called: true}))

		persisted, err := local.LoadAll(ctx)
		require.NoError(t, err)
		assert.Contains(t, persisted, key)
	})

	t.Run("RemoteWriteFailureSurfacesAndKeepsRemoteActive", func(t *testing.T) {
		store, local := newTestStore(t, readOnlyBackend{})
		store.Initialize(ctx)
		require.True(t, store.RemoteActive())

		key := models.LogKey("recovery_ACME")
		err := store.Upsert(ctx, key, models.CallEntry{Called: true})
		require.ErrorIs(t, err, ErrWriteThrough)

		// the failed write is non-fatal in memory but never rewires the
		// session: the backend choice belongs to Initialize and Refresh
		assert.True(t, store.RemoteActive())
		entry, ok := store.Get(key)
		require.True(t, ok)
		assert.True(t, entry.Called)

		// the local fallback is not written behind the caller's back
		persisted, lerr := local.LoadAll(ctx)
		require.NoError(t, lerr)
		assert.NotContains(t, persisted, key)
	})

	t.Run("RemoteDeleteFailureSurfacesAndKeepsRemoteActive", func(t *testing.T) {
		store, _ := newTestStore(t, readOnlyBackend{})
		store.Initialize(ctx)

		key := models.LogKey("recovery_ACME")
		err := store.Delete(ctx, key)
		require.ErrorIs(t, err, ErrWriteThrough)
		assert.True(t, store.RemoteActive())

		_, ok := store.Get(key)
		assert.False(t, ok)
	})

	t.Run("KeepsEntryInMemoryWhenAllBackendsFail", func(t *testing.T) {
		store := NewCallLogStore(nil, failingBackend{}, zap.NewNop())
		store.Initialize(ctx)

		key := models.LogKey("recovery_ACME")
		err := store.Upsert(ctx, key, models.CallEntry{Called: true})
		require.ErrorIs(t, err, ErrWriteThrough)

		_, ok := store.Get(key)
		assert.True(t, ok)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		store.Initialize(ctx)

		key := models.LogKey("recovery_ACME")
		require.NoError(t, store.Upsert(ctx, key, models.CallEntry{Called: true}))
		require.NoError(t, store.Delete(ctx, key))
		require.NoError(t, store.Delete(ctx, key))

		_, ok := store.Get(key)
		assert.False(t, ok)
	})

	t.Run("SnapshotIsACopy", func(t *testing.T) {
		store, _ := newTestStore(t, nil)
		store.Initialize(ctx)

		key := models.LogKey("recovery_ACME")
		require.NoError(t, store.Upsert(ctx, key, models.CallEntry{Called: true}))

		snap := store.Snapshot()
		delete(snap, key)

		_, ok := store.Get(key)
		assert.True(t, ok)
	})
}

func TestCallLogStoreRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("ReactivatesRemote", func(t *testing.T) {
		remote := NewSheetBackend(filepath.Join(t.TempDir(), "call_log.xlsx"), "call_log", time.Minute, zap.NewNop())
		key := models.LogKey("recovery_ACME")
		require.NoError(t, remote.Connect(ctx))
		require.NoError(t, remote.UpsertRow(ctx, key, models.CallEntry{Called: true}))

		store, _ := newTestStore(t, remote)
		store.Initialize(ctx)
		store.mu.Lock()
		store.setRemoteLocked(false)
		store.mu.Unlock()

		active, err := store.Refresh(ctx)
		require.NoError(t, err)
		assert.True(t, active)
		assert.True(t, store.RemoteActive())
		assert.Equal(t, 1, store.Len())
	})

	t.Run("FailureDeactivatesRemote", func(t *testing.T) {
		store, _ := newTestStore(t, failingBackend{})
		store.Initialize(ctx)

		active, err := store.Refresh(ctx)
		assert.Error(t, err)
		assert.False(t, active)
		assert.False(t, store.RemoteActive())
	})
}
