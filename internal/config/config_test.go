package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"API_BASE_URL": "http://localhost:4000",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "http://localhost:4000", cfg.APIBaseURL)
	require.Equal(t, "dietetica", cfg.StateNamespace)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 4*time.Second, cfg.NotificationTTL)
	require.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "storefront", cfg.MetricsNamespace)
	require.False(t, cfg.TracingEnabled)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":                    "production",
		"API_BASE_URL":               "https://api.dietetica.example/",
		"REDIS_URL":                  "redis://cache:6379/1",
		"STATE_NAMESPACE":            "storefront-prod",
		"HTTP_TIMEOUT":               "3s",
		"NOTIFICATION_TTL":           "2s",
		"OBS_LOG_FORMAT":             "console",
		"OBS_ENABLE_TRACING":         "true",
		"OBS_OTLP_ENDPOINT":          "collector:4318",
		"OBS_TRACING_SAMPLING_RATIO": "0.25",
	})
	require.NoError(t, err)

	require.Equal(t, "production", cfg.AppEnv)
	// Trailing slash is stripped so path joins stay predictable.
	require.Equal(t, "https://api.dietetica.example", cfg.APIBaseURL)
	require.Equal(t, "storefront-prod", cfg.StateNamespace)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 2*time.Second, cfg.NotificationTTL)
	require.Equal(t, "console", cfg.LogFormat)
	require.True(t, cfg.TracingEnabled)
	require.Equal(t, "collector:4318", cfg.TracingEndpoint)
	require.Equal(t, 0.25, cfg.SamplingRatio)
}

func TestLoadRequiredValues(t *testing.T) {
	t.Run("missing api base url", func(t *testing.T) {
		_, err := LoadForTests(map[string]string{
			"API_BASE_URL": "",
			"REDIS_URL":    "redis://localhost:6379/0",
		})
		require.ErrorContains(t, err, "API_BASE_URL")
	})

	t.Run("missing redis url", func(t *testing.T) {
		_, err := LoadForTests(map[string]string{
			"API_BASE_URL": "http://localhost:4000",
			"REDIS_URL":    "",
		})
		require.ErrorContains(t, err, "REDIS_URL")
	})
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"API_BASE_URL": "http://localhost:4000",
		"REDIS_URL":    "redis://localhost:6379/0",
		"HTTP_TIMEOUT": "soon",
	})
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}
