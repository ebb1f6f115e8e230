package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string
	// Redis listing cache; empty RedisAddr disables caching
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Tuning knobs, overridable via the optional JOTION_CONFIG YAML file
	MaxTraversalDepth int
	CacheTTL          time.Duration
}

// tuning is the shape of the optional YAML config file.
type tuning struct {
	MaxTraversalDepth int `yaml:"max_traversal_depth"`
	CacheTTLSeconds   int `yaml:"cache_ttl_seconds"`
}

func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       env,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWKSURL:           getEnv("JWKS_URL", ""),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:       getTablePrefix(env),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		MaxTraversalDepth: DefaultMaxTraversalDepth,
		CacheTTL:          DefaultCacheTTL,
	}

	if path := os.Getenv("JOTION_CONFIG"); path != "" {
		if err := cfg.applyTuningFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyTuningFile overlays values from a YAML tuning file onto the config.
// Zero values in the file leave the defaults in place.
func (c *Config) applyTuningFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var t tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if t.MaxTraversalDepth > 0 {
		c.MaxTraversalDepth = t.MaxTraversalDepth
	}
	if t.CacheTTLSeconds > 0 {
		c.CacheTTL = time.Duration(t.CacheTTLSeconds) * time.Second
	}

	return nil
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
