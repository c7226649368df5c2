package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/storage"
	"github.com/utafrali/RestaurantGo/internal/storage/storagetest"
)

func setupTestRedis(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "device-1"), mr
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, _ := setupTestRedis(t)
		return s
	})
}

func TestStore_KeysAreNamespaced(t *testing.T) {
	s, mr := setupTestRedis(t)

	require.NoError(t, s.Set(context.Background(), storage.KeyToken, "abc"))

	got, err := mr.Get("restaurant:device-1:token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
	assert.False(t, mr.Exists("token"))
}

func TestStore_NoExpiry(t *testing.T) {
	s, mr := setupTestRedis(t)

	require.NoError(t, s.SetMany(context.Background(), map[string]string{storage.KeyToken: "abc"}))
	assert.Zero(t, mr.TTL("restaurant:device-1:token"))
}

func TestStore_ConnectionError(t *testing.T) {
	s, mr := setupTestRedis(t)
	mr.Close()

	_, _, err := s.Get(context.Background(), storage.KeyToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get token")
	assert.Error(t, s.Ping(context.Background()))
}
