// Package provider implements the HTTP client for the upstream daily-bars
// provider.
//
// The provider returns a split-orient tabular JSON payload whose column labels
// are schema-inconsistent: flat field names for a single symbol, two-level
// (ticker, field) or (field, ticker) pairs for a batch. The client decodes the
// payload into a model.RawResponse tagged with its shape and axis order, and
// retries retryable HTTP failures (429, 5xx) with exponential backoff.
package provider
