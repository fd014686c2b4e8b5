package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function which reads from environment variables.
func TestLoad(t *testing.T) {
	// Clear existing env vars that might interfere
	os.Clearenv()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "", cfg.HTTPBindAddr)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "info", cfg.LoggingConfig.Level)
		assert.Equal(t, "json", cfg.LoggingConfig.Format)

		assert.Equal(t, DataSourceFile, cfg.DataConfig.Source)
		assert.Equal(t, "./data/airports.dat", cfg.DataConfig.AirportsPath)
		assert.Equal(t, "./data/routes.dat", cfg.DataConfig.RoutesPath)
		assert.Equal(t, 30*time.Second, cfg.DataConfig.DownloadTimeout)

		assert.Equal(t, 4, cfg.RouteConfig.MaxFlights)
		assert.Equal(t, 15*time.Minute, cfg.RouteConfig.CacheTTL)
		assert.Equal(t, CacheBackendMemory, cfg.RouteConfig.CacheBackend)
		assert.Equal(t, "@every 5m", cfg.RouteConfig.CacheSweep)
		assert.Equal(t, 10*time.Second, cfg.RouteConfig.SearchTimeout)

		assert.Equal(t, "postgres", cfg.PostgresConfig.Host)
		assert.Equal(t, "5432", cfg.PostgresConfig.Port)
		assert.Equal(t, "verify-full", cfg.PostgresConfig.SSLMode)
		assert.True(t, cfg.PostgresConfig.RequireSSL)
		assert.Equal(t, "bolt://neo4j:7687", cfg.Neo4jConfig.URI)
		assert.Equal(t, "neo4j", cfg.Neo4jConfig.User)
		assert.Equal(t, "redis", cfg.RedisConfig.Host)
		assert.Equal(t, "6379", cfg.RedisConfig.Port)
		assert.Equal(t, "redis:6379", cfg.RedisConfig.Addr())
		assert.Equal(t, 0, cfg.RedisConfig.DB)
		assert.Equal(t, "routes", cfg.RedisConfig.CachePrefix)
	})

	t.Run("environment variable override", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATA_SOURCE", "Postgres")
		t.Setenv("DATA_AIRPORTS_PATH", "https://example.com/airports.dat")
		t.Setenv("ROUTE_MAX_FLIGHTS", "6")
		t.Setenv("ROUTE_CACHE_TTL", "1h")
		t.Setenv("ROUTE_CACHE_BACKEND", "redis")
		t.Setenv("ROUTE_SEARCH_TIMEOUT", "2s")
		t.Setenv("DB_SSLMODE", "disable")
		t.Setenv("DB_REQUIRE_SSL", "false")
		t.Setenv("REDIS_HOST", "cache.example.com")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("REDIS_CACHE_PREFIX", "  shortest  ")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, DataSourcePostgres, cfg.DataConfig.Source)
		assert.Equal(t, "https://example.com/airports.dat", cfg.DataConfig.AirportsPath)
		assert.Equal(t, 6, cfg.RouteConfig.MaxFlights)
		assert.Equal(t, time.Hour, cfg.RouteConfig.CacheTTL)
		assert.Equal(t, CacheBackendRedis, cfg.RouteConfig.CacheBackend)
		assert.Equal(t, 2*time.Second, cfg.RouteConfig.SearchTimeout)
		assert.Equal(t, "disable", cfg.PostgresConfig.SSLMode)
		assert.False(t, cfg.PostgresConfig.RequireSSL)
		assert.Equal(t, "cache.example.com", cfg.RedisConfig.Host)
		assert.Equal(t, 3, cfg.RedisConfig.DB)
		assert.Equal(t, "shortest", cfg.RedisConfig.CachePrefix)
	})

	t.Run("invalid values fall back to defaults", func(t *testing.T) {
		t.Setenv("ROUTE_MAX_FLIGHTS", "many")
		t.Setenv("ROUTE_CACHE_TTL", "soon")
		t.Setenv("DATA_DOWNLOAD_TIMEOUT", "-5s")
		t.Setenv("REDIS_DB", "x")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 4, cfg.RouteConfig.MaxFlights)
		assert.Equal(t, 15*time.Minute, cfg.RouteConfig.CacheTTL)
		assert.Equal(t, 30*time.Second, cfg.DataConfig.DownloadTimeout)
		assert.Equal(t, 0, cfg.RedisConfig.DB)
	})

	t.Run("non-positive max flights", func(t *testing.T) {
		t.Setenv("ROUTE_MAX_FLIGHTS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.RouteConfig.MaxFlights)
	})
}

// TestLoadTestConfig tests the LoadTestConfig helper function
func TestLoadTestConfig(t *testing.T) {
	os.Clearenv()
	cfg := LoadTestConfig()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "localhost", cfg.PostgresConfig.Host)
	assert.Equal(t, "routes_test", cfg.PostgresConfig.DBName)
	assert.Equal(t, "disable", cfg.PostgresConfig.SSLMode)
	assert.Equal(t, "localhost", cfg.RedisConfig.Host)
	assert.Equal(t, "routes_test", cfg.RedisConfig.CachePrefix)
	assert.Equal(t, DataSourceFile, cfg.DataConfig.Source)
	assert.Equal(t, 4, cfg.RouteConfig.MaxFlights)
}

// TestTestConfig tests the TestConfig helper function
func TestTestConfig(t *testing.T) {
	os.Clearenv()
	cfg := TestConfig()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, CacheBackendMemory, cfg.RouteConfig.CacheBackend)
	assert.Equal(t, "localhost", cfg.RedisConfig.Host)
}
