// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DBPath string

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP ledger events; disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string

	// Balance cache; in-memory when RedisURL is empty
	RedisURL        string
	BalanceCacheTTL time.Duration

	// Group expiry
	GroupTTL      time.Duration
	PruneInterval time.Duration

	MaxGroupsPerCreator int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first if present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/fairshare.db"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fairshare"),

		RedisURL:        getEnv("REDIS_URL", ""),
		BalanceCacheTTL: getEnvDuration("BALANCE_CACHE_TTL", 5*time.Minute),

		GroupTTL:      getEnvDuration("GROUP_TTL", 14*24*time.Hour),
		PruneInterval: getEnvDuration("PRUNE_INTERVAL", time.Hour),

		MaxGroupsPerCreator: getEnvInt("MAX_GROUPS_PER_CREATOR", 3),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RedisURL != "" {
		if parsedURL, err := url.Parse(c.RedisURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Redis URL '%s': %v", c.RedisURL, err))
		} else if parsedURL.Scheme != "redis" && parsedURL.Scheme != "rediss" {
			errors = append(errors, fmt.Sprintf("invalid Redis URL scheme '%s': must be 'redis' or 'rediss'", parsedURL.Scheme))
		}
	}

	if c.BalanceCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid balance cache TTL %v: must be positive", c.BalanceCacheTTL))
	}

	if c.GroupTTL < time.Hour {
		errors = append(errors, fmt.Sprintf("invalid group TTL %v: must be at least 1 hour", c.GroupTTL))
	}

	if c.PruneInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid prune interval %v: must be at least 1 second", c.PruneInterval))
	} else if c.PruneInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid prune interval %v: must be at most 24 hours", c.PruneInterval))
	}

	if c.MaxGroupsPerCreator < 0 {
		errors = append(errors, fmt.Sprintf("invalid max groups per creator %d: must not be negative", c.MaxGroupsPerCreator))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
