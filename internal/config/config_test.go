package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWeatherKey = "vc-test-key"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.WeatherEnabled)
	assert.Empty(t, cfg.WeatherAPIKey)
	assert.Equal(t, DefaultWeatherBaseURL, cfg.WeatherBaseURL)
	assert.Equal(t, 5*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 256, cfg.WeatherCacheSize)
	assert.Equal(t, 30*time.Minute, cfg.WeatherCacheTTL)
	assert.False(t, cfg.RedisEnabled())
	assert.Zero(t, cfg.RedisDB)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "event-plans", cfg.KafkaPlanTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("WEATHER_API_KEY", testWeatherKey)
	t.Setenv("WEATHER_BASE_URL", "http://localhost:9999/timeline")
	t.Setenv("WEATHER_TIMEOUT", "10s")
	t.Setenv("WEATHER_CACHE_SIZE", "50")
	t.Setenv("WEATHER_CACHE_TTL", "5m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_PLAN_TOPIC", "custom-plans")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.WeatherEnabled)
	assert.Equal(t, testWeatherKey, cfg.WeatherAPIKey)
	assert.Equal(t, "http://localhost:9999/timeline", cfg.WeatherBaseURL)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 50, cfg.WeatherCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.WeatherCacheTTL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-plans", cfg.KafkaPlanTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"WEATHER_TIMEOUT", "WEATHER_CACHE_TTL", "SESSION_TTL"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "-1s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestLoad_BadCacheSizeFallsBack(t *testing.T) {
	t.Setenv("WEATHER_CACHE_SIZE", "-4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.WeatherCacheSize)
}

func TestLoad_WeatherEnabledWithoutKey(t *testing.T) {
	t.Setenv("WEATHER_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_API_KEY")
}

func TestLoad_WeatherKeyImpliesEnabled(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testWeatherKey)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.WeatherEnabled)
}

func TestLoad_WeatherExplicitlyDisabled(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testWeatherKey)
	t.Setenv("WEATHER_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.WeatherEnabled)
}
