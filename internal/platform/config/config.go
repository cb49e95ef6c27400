package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr string

	Divisions  ProviderConfig
	OpenStates ProviderConfig
	Geocoder   ProviderConfig

	Redis    RedisConfig
	Postgres PostgresConfig

	// DivisionsTTL is long-lived: electoral boundaries rarely change.
	DivisionsTTL time.Duration
	// RepresentativesTTL is medium-lived: rosters change between sessions.
	RepresentativesTTL time.Duration

	// LookupTimeout bounds a whole aggregation; in-flight provider calls past
	// the deadline become warnings, not errors.
	LookupTimeout time.Duration

	// RateLimitPerMinute caps lookup requests per client IP. Zero disables
	// inbound rate limiting.
	RateLimitPerMinute int
}

// ProviderConfig holds the endpoint and credentials for one external data
// provider. An empty BaseURL leaves the provider unconfigured.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RedisConfig holds Redis connection settings. An empty URL means the service
// falls back to the in-process cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds the curated officials database settings. An empty URL
// disables the local-officials store.
type PostgresConfig struct {
	URL string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr: envOr("REPRESENT_ADDR", ":8080"),
		Divisions: ProviderConfig{
			BaseURL: envOr("DIVISIONS_BASE_URL", "https://www.googleapis.com/civicinfo/v2"),
			APIKey:  os.Getenv("DIVISIONS_API_KEY"),
			Timeout: durationOr("DIVISIONS_TIMEOUT", 10*time.Second),
		},
		OpenStates: ProviderConfig{
			BaseURL: envOr("OPENSTATES_BASE_URL", "https://v3.openstates.org"),
			APIKey:  os.Getenv("OPENSTATES_API_KEY"),
			Timeout: durationOr("OPENSTATES_TIMEOUT", 10*time.Second),
		},
		Geocoder: ProviderConfig{
			BaseURL: os.Getenv("GEOCODER_BASE_URL"),
			APIKey:  os.Getenv("GEOCODER_API_KEY"),
			Timeout: durationOr("GEOCODER_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		DivisionsTTL:       durationOr("DIVISIONS_CACHE_TTL", 7*24*time.Hour),
		RepresentativesTTL: durationOr("REPRESENTATIVES_CACHE_TTL", 6*time.Hour),
		LookupTimeout:      durationOr("LOOKUP_TIMEOUT", 3*time.Second),
		RateLimitPerMinute: intOr("RATE_LIMIT_PER_MINUTE", 120),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
