// Package config loads the ETL configuration from a YAML file.
//
// ${VAR} references in the file are expanded from the environment, and the
// fetch tunables can additionally be overridden per-run with environment
// variables (FETCH_BATCH_SIZE, FETCH_INTERVAL, FETCH_SLOW_INTERVAL,
// FETCH_MAX_RETRIES, FETCH_BACKOFF_FACTOR, FETCH_LOOKBACK_DAYS,
// FETCH_PARALLEL).
package config
