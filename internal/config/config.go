package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds run defaults that flags may override
type Config struct {
	Runner RunnerConfig
}

// RunnerConfig holds test-runner settings
type RunnerConfig struct {
	Reps    int   // permutation count for resampling-based tests
	Seed    int64 // base seed for deterministic permutation output
	Workers int   // parallel row workers; 1 disables fan-out
}

// Load reads configuration from the environment, with a local .env
// file taken into account when present.
func Load() *Config {
	// Missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	return &Config{
		Runner: RunnerConfig{
			Reps:    getEnvIntOrDefault("OTUSIG_REPS", 1000),
			Seed:    getEnvInt64OrDefault("OTUSIG_SEED", 0),
			Workers: getEnvIntOrDefault("OTUSIG_WORKERS", 1),
		},
	}
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
