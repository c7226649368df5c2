package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/storage"
	"github.com/utafrali/RestaurantGo/internal/storage/storagetest"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return openMemory(t) })
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, storage.KeyCart, `[{"menuItemId":"5","quantity":1}]`))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, v, `"menuItemId":"5"`)
}

func TestStore_SetManyUpserts(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, storage.KeyToken, "old"))
	require.NoError(t, s.SetMany(ctx, map[string]string{storage.KeyToken: "new", storage.KeyUser: "{}"}))

	v, _, err := s.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	var count int64
	require.NoError(t, s.db.Model(&Entry{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
