package ingest

import "fmt"

// FailureKind classifies a fetch failure.
type FailureKind int

const (
	// Transient is a network or parse failure not identified as throttling.
	Transient FailureKind = iota
	// Throttled means the provider signaled rate limiting; an extended
	// cool-down has already been applied to the pacer.
	Throttled
)

func (k FailureKind) String() string {
	if k == Throttled {
		return "throttled"
	}
	return "transient"
}

// FetchError is a classified failure of one batch fetch. Both kinds are
// retried by the split cascade and never surface to the pipeline caller.
type FetchError struct {
	Kind FailureKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
