package persist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	s := state.New()
	s.Qi = 88
	s.Realm = "foundation"
	s.RealmStage = 4

	receipt, err := store.Put(ctx, "hero", s)
	require.NoError(t, err)
	assert.False(t, receipt.SavedAt.IsZero())

	got, err := store.Get(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, 88.0, got.Qi)
	assert.Equal(t, s.Realm, got.Realm)
	assert.Equal(t, 4, got.RealmStage)
}

func TestSQLiteStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	first := state.New()
	first.Qi = 10
	_, err := store.Put(ctx, "hero", first)
	require.NoError(t, err)

	second := state.New()
	second.Qi = 99
	_, err = store.Put(ctx, "hero", second)
	require.NoError(t, err)

	got, err := store.Get(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, 99.0, got.Qi)
}

func TestSQLiteStore_MissingSlot(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_PutRejectsInvalidState(t *testing.T) {
	store := newTestSQLiteStore(t)

	s := state.New()
	s.RealmStage = 0

	_, err := store.Put(context.Background(), "hero", s)
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestSQLiteStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	_, err := store.Put(ctx, "hero", state.New())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "hero"))
	_, err = store.Get(ctx, "hero")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "hero"), ErrNotFound)
}
