package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Canonical Price Types
// -----------------------------------------------------------------------------

// PriceRow is one day of prices for one ticker in the canonical tidy schema.
// Close is required downstream; Open/High/Low/Volume are optional and nil when
// the provider response did not carry them.
type PriceRow struct {
	Ticker string    // Symbol, uppercase (e.g., "BRK-B")
	Date   time.Time // Calendar day, midnight UTC
	Open   *float64  // Opening price
	High   *float64  // Intraday high
	Low    *float64  // Intraday low
	Close  float64   // Closing price (adjusted close when close is absent)
	Volume *int64    // Share volume
}

// FetchWindow is the inclusive-start, exclusive-end date range requested from
// the provider. Computed per run, never persisted.
type FetchWindow struct {
	Start time.Time
	End   time.Time
}

// -----------------------------------------------------------------------------
// Raw Provider Response
// -----------------------------------------------------------------------------

// ResponseKind tags the structural shape of a provider response.
type ResponseKind int

const (
	// ResponseEmpty is a structurally empty payload: no rows, no columns.
	// Valid for a ticker with no new data in the window, not an error.
	ResponseEmpty ResponseKind = iota

	// ResponseSingleTicker has flat, one-level field columns.
	ResponseSingleTicker

	// ResponseMultiTicker has two-level columns pairing a ticker axis and a
	// field axis, in either order.
	ResponseMultiTicker
)

// AxisOrder records which level of a multi-ticker column pair holds the ticker.
// Decided once at the provider boundary so the normalizer dispatches on a tag
// instead of probing column contents.
type AxisOrder int

const (
	// AxisTickerField means column keys are (ticker, field).
	AxisTickerField AxisOrder = iota
	// AxisFieldTicker means column keys are (field, ticker).
	AxisFieldTicker
)

// ColumnKey labels one column of a raw table. Single-ticker responses use only
// A; multi-ticker responses use both levels.
type ColumnKey struct {
	A string
	B string
}

// Table is a column-oriented frame as decoded from the provider payload.
// Values is indexed [column][row]; nil cells are missing observations.
type Table struct {
	Index   []time.Time
	Columns []ColumnKey
	Values  [][]*float64
}

// Rows returns the number of rows in the table.
func (t Table) Rows() int { return len(t.Index) }

// RawResponse is one batch response from the upstream provider, tagged with
// the structural shape detected at decode time.
type RawResponse struct {
	Kind  ResponseKind
	Axis  AxisOrder // Meaningful only when Kind == ResponseMultiTicker
	Table Table
}

// Fields is the known field vocabulary of provider columns, lowercase.
// Membership in this set is how the provider tells the field axis from the
// ticker axis of a two-level response.
var Fields = map[string]bool{
	"open":      true,
	"high":      true,
	"low":       true,
	"close":     true,
	"adj close": true,
	"volume":    true,
}

// IsField reports whether name is a known price field, case-insensitively.
func IsField(name string) bool {
	return Fields[strings.ToLower(name)]
}

// -----------------------------------------------------------------------------
// Run Reporting
// -----------------------------------------------------------------------------

// RunReport summarizes one completed ingestion pass.
type RunReport struct {
	RunID        uuid.UUID
	Window       FetchWindow
	StartedAt    time.Time
	FinishedAt   time.Time
	RowsIngested int
	Skipped      []string // Tickers dropped after singleton retries failed
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// NormalizeSymbol uppercases a raw symbol and rewrites a trailing class suffix
// from dot to dash notation ("brk.b" -> "BRK-B").
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if i := strings.LastIndex(s, "."); i > 0 && i == len(s)-2 {
		s = s[:i] + "-" + s[i+1:]
	}
	return s
}

// Day truncates t to midnight UTC, discarding any time-of-day component.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
