package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10.0, cfg.HTTP.RateLimit)
	assert.Equal(t, 20, cfg.HTTP.RateBurst)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "http://exam-api-courses.std-900.ist.mospolytech.ru/api", cfg.OrderAPI.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Pricing.CacheTTL)
	assert.Equal(t, "Europe/Moscow", cfg.Pricing.Timezone)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LINGUA_ENV", "production")
	t.Setenv("LINGUA_HTTP_ADDR", ":9090")
	t.Setenv("LINGUA_HTTP_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("LINGUA_REDIS_DB", "3")
	t.Setenv("LINGUA_PRICING_CACHE_TTL", "90s")
	t.Setenv("LINGUA_DB_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 90*time.Second, cfg.Pricing.CacheTTL)
	assert.False(t, cfg.DB.Migrate)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LINGUA_PRICING_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LINGUA_HTTP_RATE_LIMIT", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	var cfg Config
	cfg.Pricing.Timezone = "Europe/Moscow"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoadEmptyDSNDisablesQuoteHistory(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LINGUA_DB_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.DB.DSN)
}
