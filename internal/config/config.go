package config

import "time"

// Config is the root configuration for an ETL run.
type Config struct {
	Database DBConfig       `yaml:"database"`
	Provider ProviderConfig `yaml:"provider"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Universe UniverseConfig `yaml:"universe"`
	Index    IndexConfig    `yaml:"index"`
}

// DBConfig holds the PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ProviderConfig holds upstream market-data provider settings.
type ProviderConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
	BackoffFactor float64       `yaml:"backoff_factor"`
}

// FetchConfig holds the ingestion pipeline tunables.
type FetchConfig struct {
	BatchSize        int           `yaml:"batch_size"`        // Tickers per provider request
	Interval         time.Duration `yaml:"interval"`          // Base pacing interval between requests
	SlowInterval     time.Duration `yaml:"slow_interval"`     // Pacing interval while a cool-down is active
	JitterMax        time.Duration `yaml:"jitter_max"`        // Upper bound of the random pacing jitter
	ThrottleCooldown time.Duration `yaml:"throttle_cooldown"` // Cool-down after a provider throttling signal
	SplitCooldown    time.Duration `yaml:"split_cooldown"`    // Cool-down before splitting a failed batch
	LookbackDays     int           `yaml:"lookback_days"`     // Initial backfill window length
	Parallel         bool          `yaml:"parallel"`          // Fetch batches concurrently
	Concurrency      int           `yaml:"concurrency"`       // Max in-flight batches when parallel
}

// UniverseConfig holds the ticker universe source.
type UniverseConfig struct {
	// File is an optional tickers file (.txt, .csv, .yaml). When empty the
	// universe is loaded from the tickers table instead.
	File string `yaml:"file"`
}

// IndexConfig holds the default index definition.
type IndexConfig struct {
	Slug      string  `yaml:"slug"`
	Name      string  `yaml:"name"`
	TopN      int     `yaml:"top_n"`
	BaseLevel float64 `yaml:"base_level"`
}
