// Package pacer enforces the outbound request rate toward the market-data
// provider.
//
// The provider's rate limit is undocumented, so pacing is conservative: a
// fixed base interval between requests, an adaptive slower interval while a
// provider-signaled cool-down is active, and bounded random jitter. State is
// in-memory only and discarded at process exit.
package pacer
