package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/RestaurantGo/internal/config"
	"github.com/utafrali/RestaurantGo/internal/storage"
	"github.com/utafrali/RestaurantGo/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:          "test",
		HTTPHost:             "127.0.0.1",
		HTTPPort:             0,
		RateLimitRPS:         50,
		RateLimitBurst:       100,
		APIBaseURL:           "http://127.0.0.1:1",
		APITimeout:           time.Second,
		APIRetryWaitMin:      10 * time.Millisecond,
		APIRetryWaitMax:      20 * time.Millisecond,
		CBMaxRequests:        1,
		CBInterval:           60,
		CBTimeout:            15,
		CBFailureRatio:       0.6,
		CBMinRequests:        5,
		StorageDriver:        config.StorageMemory,
		DeviceID:             "test-device",
		DeviceLocale:         "de_DE.UTF-8",
		TrackingPollInterval: time.Minute,
		AnalyticsTopic:       "restaurant.analytics",
		AnalyticsSource:      "restaurant-client",
	}
}

func TestOpenStore_Memory(t *testing.T) {
	store, closeFn, err := openStore(context.Background(), testConfig(), prometheus.NewRegistry(), testLogger())
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, closeFn())
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.StorageDriver = config.StorageSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "device.db")

	store, closeFn, err := openStore(context.Background(), cfg, prometheus.NewRegistry(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyLanguage, "de"))
	v, ok, err := store.Get(ctx, storage.KeyLanguage)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "de", v)
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.StorageDriver = config.StorageRedis
	cfg.RedisHost = "127.0.0.1"
	cfg.RedisPort = 1

	_, _, err := openStore(context.Background(), cfg, prometheus.NewRegistry(), testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}

func TestApp_RunRestoresAndStops(t *testing.T) {
	a, err := NewApp(testConfig(), testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	assert.Eventually(t, func() bool { return a.services.Language.Current() == "de" }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
