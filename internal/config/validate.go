package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Provider.BaseURL == "" {
		return errors.New("provider.base_url is required")
	}
	if c.Provider.MaxRetries < 0 {
		return errors.New("provider.max_retries must be >= 0")
	}
	if c.Provider.BackoffFactor < 1 {
		return fmt.Errorf("provider.backoff_factor must be >= 1, got %g", c.Provider.BackoffFactor)
	}

	if c.Fetch.BatchSize < 1 {
		return errors.New("fetch.batch_size must be >= 1")
	}
	if c.Fetch.Interval <= 0 {
		return errors.New("fetch.interval must be > 0")
	}
	if c.Fetch.SlowInterval < c.Fetch.Interval {
		return fmt.Errorf("fetch.slow_interval (%v) cannot be shorter than fetch.interval (%v)",
			c.Fetch.SlowInterval, c.Fetch.Interval)
	}
	if c.Fetch.LookbackDays < 1 {
		return errors.New("fetch.lookback_days must be >= 1")
	}
	if c.Fetch.Parallel && c.Fetch.Concurrency < 1 {
		return errors.New("fetch.concurrency must be >= 1 when fetch.parallel is set")
	}

	if c.Index.TopN < 1 {
		return errors.New("index.top_n must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
