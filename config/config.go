package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port           string
	HTTPBindAddr   string
	Environment    string
	LoggingConfig  LoggingConfig
	DataConfig     DataConfig
	RouteConfig    RouteConfig
	PostgresConfig PostgresConfig
	Neo4jConfig    Neo4jConfig
	RedisConfig    RedisConfig
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Data source kinds.
const (
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"
	DataSourceNeo4j    = "neo4j"
)

// DataConfig selects where airports and routes are loaded from.
type DataConfig struct {
	Source          string
	AirportsPath    string // local path or http(s) URL
	RoutesPath      string
	DownloadTimeout time.Duration
}

// Route cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// RouteConfig holds shortest route search configuration
type RouteConfig struct {
	MaxFlights    int
	CacheTTL      time.Duration
	CacheBackend  string
	CacheSweep    string // cron spec for purging expired in-memory results
	SearchTimeout time.Duration
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLCert     string
	SSLKey      string
	SSLRootCert string
	RequireSSL  bool
}

// Neo4jConfig holds Neo4j connection configuration
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	CachePrefix string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	loggingConfig := LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	dataConfig := DataConfig{
		Source:          strings.ToLower(getEnv("DATA_SOURCE", DataSourceFile)),
		AirportsPath:    getEnv("DATA_AIRPORTS_PATH", "./data/airports.dat"),
		RoutesPath:      getEnv("DATA_ROUTES_PATH", "./data/routes.dat"),
		DownloadTimeout: getDuration("DATA_DOWNLOAD_TIMEOUT", 30*time.Second),
	}

	routeConfig := RouteConfig{
		MaxFlights:    getInt("ROUTE_MAX_FLIGHTS", 4),
		CacheTTL:      getDuration("ROUTE_CACHE_TTL", 15*time.Minute),
		CacheBackend:  strings.ToLower(getEnv("ROUTE_CACHE_BACKEND", CacheBackendMemory)),
		CacheSweep:    getEnv("ROUTE_CACHE_SWEEP", "@every 5m"),
		SearchTimeout: getDuration("ROUTE_SEARCH_TIMEOUT", 10*time.Second),
	}
	if routeConfig.MaxFlights < 1 {
		routeConfig.MaxFlights = 4
	}

	postgresConfig := PostgresConfig{
		Host:        getEnv("DB_HOST", "postgres"),
		Port:        getEnv("DB_PORT", "5432"),
		User:        getEnv("DB_USER", "routes"),
		Password:    getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "routes"),
		SSLMode:     getEnv("DB_SSLMODE", "verify-full"),
		SSLCert:     getEnv("DB_SSL_CERT", ""),
		SSLKey:      getEnv("DB_SSL_KEY", ""),
		SSLRootCert: getEnv("DB_SSL_ROOT_CERT", ""),
		RequireSSL:  getEnv("DB_REQUIRE_SSL", "true") == "true",
	}

	neo4jConfig := Neo4jConfig{
		URI:      getEnv("NEO4J_URI", "bolt://neo4j:7687"),
		User:     getEnv("NEO4J_USER", "neo4j"),
		Password: getEnv("NEO4J_PASSWORD", ""),
	}

	redisConfig := RedisConfig{
		Host:        getEnv("REDIS_HOST", "redis"),
		Port:        getEnv("REDIS_PORT", "6379"),
		Password:    getEnv("REDIS_PASSWORD", ""),
		DB:          getInt("REDIS_DB", 0),
		CachePrefix: getEnv("REDIS_CACHE_PREFIX", "routes"),
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		HTTPBindAddr:   getEnv("HTTP_BIND_ADDR", ""),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LoggingConfig:  loggingConfig,
		DataConfig:     dataConfig,
		RouteConfig:    routeConfig,
		PostgresConfig: postgresConfig,
		Neo4jConfig:    neo4jConfig,
		RedisConfig:    redisConfig,
	}, nil
}

// LoadTestConfig loads test configuration
func LoadTestConfig() *Config {
	return &Config{
		Port:          "8080",
		LoggingConfig: LoggingConfig{Level: "debug", Format: "text"},
		DataConfig: DataConfig{
			Source:          DataSourceFile,
			AirportsPath:    getEnv("DATA_AIRPORTS_PATH", "./testdata/airports.dat"),
			RoutesPath:      getEnv("DATA_ROUTES_PATH", "./testdata/routes.dat"),
			DownloadTimeout: 5 * time.Second,
		},
		RouteConfig: RouteConfig{
			MaxFlights:    4,
			CacheTTL:      15 * time.Minute,
			CacheBackend:  CacheBackendMemory,
			CacheSweep:    "@every 1m",
			SearchTimeout: 10 * time.Second,
		},
		PostgresConfig: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "routes"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME_TEST", "routes_test"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisConfig: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			CachePrefix: "routes_test",
		},
		Neo4jConfig: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
		},
		Environment: "test",
	}
}

// TestConfig returns a default test configuration
func TestConfig() *Config {
	cfg := LoadTestConfig()
	cfg.RouteConfig.CacheBackend = CacheBackendMemory
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
