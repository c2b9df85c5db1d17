package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spetersoncode/chop"
)

// Config holds the demo configuration loaded from environment variables.
type Config struct {
	LogLevel   slog.Level // debug, info, warn, error
	IDSource   string     // sequence, uuid
	SilentInit bool
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	level, err := parseLevel(getEnvOrDefault("CHOP_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:   level,
		IDSource:   getEnvOrDefault("CHOP_ID_SOURCE", "sequence"),
		SilentInit: getEnvBoolOrDefault("CHOP_SILENT_INIT", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configured values are known.
func (c *Config) Validate() error {
	switch c.IDSource {
	case "sequence", "uuid":
	default:
		return fmt.Errorf("unknown id source: %s (must be sequence or uuid)", c.IDSource)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid CHOP_LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// IDGenerator returns the model id generator for IDSource.
func (c *Config) IDGenerator() func() string {
	if c.IDSource == "uuid" {
		return chop.UUID
	}
	return chop.NextID
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
