// Package universe loads the set of tickers to ingest from plain-text,
// CSV, or YAML files. Symbols are normalized to the provider's notation
// and deduplicated before use.
package universe
