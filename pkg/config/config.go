package config

import (
	"os"
	"strconv"
	"time"
)

// Application settings
type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	Aggregator AggregatorConfig
	Meta       MetaConfig
}

// Server settings
type ServerConfig struct {
	Port string
}

// Aggregator settings
type AggregatorConfig struct {
	// per-provider deadline for a single fan-out call; a provider that
	// exceeds it degrades to its empty/worst-case default
	ProviderTimeout time.Duration
}

// Meta provider settings
type MetaConfig struct {
	APIURL             string
	APIToken           string
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Aggregator: AggregatorConfig{
			ProviderTimeout: getDurationEnv("PROVIDER_TIMEOUT", "15s"),
		},
		Meta: MetaConfig{
			APIURL:             getEnv("META_API_URL", ""),
			APIToken:           getEnv("META_API_TOKEN", ""),
			RequestTimeout:     getDurationEnv("META_REQUEST_TIMEOUT", "30s"),
			RateLimitPerSecond: getIntEnv("META_RATE_LIMIT_PER_SECOND", 100),
			RateLimitBurst:     getIntEnv("META_RATE_LIMIT_BURST", 10),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
