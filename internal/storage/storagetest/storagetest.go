// Package storagetest holds the behaviour every storage.Store backend must
// share, run from each backend's tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/storage"
)

// Run exercises a fresh store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.Get(ctx, storage.KeyToken)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, storage.KeyLanguage, "en"))
		v, ok, err := s.Get(ctx, storage.KeyLanguage)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "en", v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, storage.KeyLanguage, "en"))
		require.NoError(t, s.Set(ctx, storage.KeyLanguage, "de"))
		v, _, err := s.Get(ctx, storage.KeyLanguage)
		require.NoError(t, err)
		assert.Equal(t, "de", v)
	})

	t.Run("set many and remove many", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetMany(ctx, map[string]string{
			storage.KeyToken:        "tok",
			storage.KeyRefreshToken: "ref",
			storage.KeyUser:         `{"email":"a@b.de"}`,
		}))
		for _, k := range storage.SessionKeys {
			_, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			assert.True(t, ok, k)
		}

		require.NoError(t, s.RemoveMany(ctx, storage.SessionKeys...))
		for _, k := range storage.SessionKeys {
			_, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			assert.False(t, ok, k)
		}
	})

	t.Run("remove missing key", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Remove(ctx, storage.KeyCart))
		assert.NoError(t, s.RemoveMany(ctx))
	})

	t.Run("json helpers", func(t *testing.T) {
		s := newStore(t)
		type consent struct {
			Necessary bool `json:"necessary"`
			Analytics bool `json:"analytics"`
		}
		require.NoError(t, storage.SetJSON(ctx, s, storage.KeyCookieConsent, consent{Necessary: true, Analytics: true}))

		var got consent
		ok, err := storage.GetJSON(ctx, s, storage.KeyCookieConsent, &got)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, got.Analytics)

		require.NoError(t, s.Set(ctx, storage.KeyUser, "{not json"))
		ok, err = storage.GetJSON(ctx, s, storage.KeyUser, &got)
		assert.True(t, ok)
		assert.Error(t, err)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}
