package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultProviderTimeout  = 30 * time.Second
	DefaultMaxRetries       = 6
	DefaultRetryBackoff     = 1 * time.Second
	DefaultBackoffFactor    = 1.5
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultBatchSize        = 25
	DefaultInterval         = 1500 * time.Millisecond
	DefaultSlowInterval     = 6 * time.Second
	DefaultJitterMax        = 400 * time.Millisecond
	DefaultThrottleCooldown = 3 * time.Minute
	DefaultSplitCooldown    = 2 * time.Minute
	DefaultLookbackDays     = 365
	DefaultConcurrency      = 4
	DefaultIndexSlug        = "momentum-10"
	DefaultIndexName        = "Momentum 10"
	DefaultIndexTopN        = 10
	DefaultIndexBaseLevel   = 1000.0
)

func (c *Config) applyDefaults() {
	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Provider defaults
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = DefaultProviderTimeout
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = DefaultMaxRetries
	}
	if c.Provider.RetryBackoff == 0 {
		c.Provider.RetryBackoff = DefaultRetryBackoff
	}
	if c.Provider.BackoffFactor == 0 {
		c.Provider.BackoffFactor = DefaultBackoffFactor
	}

	// Fetch defaults
	if c.Fetch.BatchSize == 0 {
		c.Fetch.BatchSize = DefaultBatchSize
	}
	if c.Fetch.Interval == 0 {
		c.Fetch.Interval = DefaultInterval
	}
	if c.Fetch.SlowInterval == 0 {
		c.Fetch.SlowInterval = DefaultSlowInterval
	}
	if c.Fetch.JitterMax == 0 {
		c.Fetch.JitterMax = DefaultJitterMax
	}
	if c.Fetch.ThrottleCooldown == 0 {
		c.Fetch.ThrottleCooldown = DefaultThrottleCooldown
	}
	if c.Fetch.SplitCooldown == 0 {
		c.Fetch.SplitCooldown = DefaultSplitCooldown
	}
	if c.Fetch.LookbackDays == 0 {
		c.Fetch.LookbackDays = DefaultLookbackDays
	}
	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = DefaultConcurrency
	}

	// Index defaults
	if c.Index.Slug == "" {
		c.Index.Slug = DefaultIndexSlug
	}
	if c.Index.Name == "" {
		c.Index.Name = DefaultIndexName
	}
	if c.Index.TopN == 0 {
		c.Index.TopN = DefaultIndexTopN
	}
	if c.Index.BaseLevel == 0 {
		c.Index.BaseLevel = DefaultIndexBaseLevel
	}
}
