package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8090, cfg.HTTPPort)
	assert.Equal(t, "127.0.0.1:8090", cfg.HTTPAddr())
	assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 2, cfg.APIMaxRetries)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, 60*time.Second, cfg.TrackingPollInterval)
	assert.False(t, cfg.AnalyticsEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DEVICE_LOCALE", "de-DE")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, StorageRedis, cfg.StorageDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "de-DE", cfg.DeviceLocale)
	assert.True(t, cfg.AnalyticsEnabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"port too high", "COMPANION_HTTP_PORT", "70000", "invalid HTTP port"},
		{"relative base url", "API_BASE_URL", "api.example.com", "invalid API_BASE_URL"},
		{"zero timeout", "API_TIMEOUT", "0s", "API_TIMEOUT must be positive"},
		{"negative retries", "API_MAX_RETRIES", "-1", "API_MAX_RETRIES"},
		{"unknown driver", "STORAGE_DRIVER", "postgres", "unknown STORAGE_DRIVER"},
		{"fast polling", "TRACKING_POLL_INTERVAL", "100ms", "TRACKING_POLL_INTERVAL"},
		{"sample rate", "OTEL_SAMPLE_RATE", "1.5", "OTEL_SAMPLE_RATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RetryWaitOrder(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.APIRetryWaitMin = 5 * time.Second
	cfg.APIRetryWaitMax = time.Second

	err = cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_RETRY_WAIT_MIN")
}
