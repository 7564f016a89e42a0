// Package model defines shared data types used across the ETL pipeline.
//
// Conventions:
//   - Dates: calendar days carried as time.Time truncated to midnight UTC
//   - Symbols: uppercase, provider-normalized (class suffixes use dash notation)
//   - Optional OHLCV fields: pointers, nil when the provider omitted them
package model
