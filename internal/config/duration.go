package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// duration decodes YAML values like "1.5s", "400ms", or a bare number of
// seconds into a time.Duration.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	s := value.Value
	if s == "" {
		*d = 0
		return nil
	}
	if parsed, err := time.ParseDuration(s); err == nil {
		*d = duration(parsed)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*d = duration(f * float64(time.Second))
		return nil
	}
	return fmt.Errorf("invalid duration %q", s)
}

func (p *ProviderConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL       string   `yaml:"base_url"`
		Timeout       duration `yaml:"timeout"`
		MaxRetries    int      `yaml:"max_retries"`
		RetryBackoff  duration `yaml:"retry_backoff"`
		BackoffFactor float64  `yaml:"backoff_factor"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	p.BaseURL = raw.BaseURL
	p.Timeout = time.Duration(raw.Timeout)
	p.MaxRetries = raw.MaxRetries
	p.RetryBackoff = time.Duration(raw.RetryBackoff)
	p.BackoffFactor = raw.BackoffFactor
	return nil
}

func (f *FetchConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BatchSize        int      `yaml:"batch_size"`
		Interval         duration `yaml:"interval"`
		SlowInterval     duration `yaml:"slow_interval"`
		JitterMax        duration `yaml:"jitter_max"`
		ThrottleCooldown duration `yaml:"throttle_cooldown"`
		SplitCooldown    duration `yaml:"split_cooldown"`
		LookbackDays     int      `yaml:"lookback_days"`
		Parallel         bool     `yaml:"parallel"`
		Concurrency      int      `yaml:"concurrency"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	f.BatchSize = raw.BatchSize
	f.Interval = time.Duration(raw.Interval)
	f.SlowInterval = time.Duration(raw.SlowInterval)
	f.JitterMax = time.Duration(raw.JitterMax)
	f.ThrottleCooldown = time.Duration(raw.ThrottleCooldown)
	f.SplitCooldown = time.Duration(raw.SplitCooldown)
	f.LookbackDays = raw.LookbackDays
	f.Parallel = raw.Parallel
	f.Concurrency = raw.Concurrency
	return nil
}
