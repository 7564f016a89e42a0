package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	cfg.applyEnvOverrides()

	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides lets the fetch tunables be overridden per-run from the
// environment, taking precedence over the YAML file.
func (c *Config) applyEnvOverrides() {
	if v, ok := envInt("FETCH_BATCH_SIZE"); ok {
		c.Fetch.BatchSize = v
	}
	if v, ok := envDuration("FETCH_INTERVAL"); ok {
		c.Fetch.Interval = v
	}
	if v, ok := envDuration("FETCH_SLOW_INTERVAL"); ok {
		c.Fetch.SlowInterval = v
	}
	if v, ok := envInt("FETCH_MAX_RETRIES"); ok {
		c.Provider.MaxRetries = v
	}
	if v, ok := envFloat("FETCH_BACKOFF_FACTOR"); ok {
		c.Provider.BackoffFactor = v
	}
	if v, ok := envInt("FETCH_LOOKBACK_DAYS"); ok {
		c.Fetch.LookbackDays = v
	}
	if v, ok := os.LookupEnv("FETCH_PARALLEL"); ok {
		c.Fetch.Parallel = v == "1" || v == "true" || v == "yes"
	}
}

func envInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// envDuration accepts either a Go duration string ("1.5s") or a bare number
// of seconds ("1.5").
func envDuration(key string) (time.Duration, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, true
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(f * float64(time.Second)), true
	}
	return 0, false
}
