package ingest

import (
	"time"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// PlanWindow computes the date window to request. With no stored data the
// window reaches back lookbackDays from today; otherwise it starts the day
// after the most recent stored date. The end is always tomorrow so a
// same-day close is captured once the provider publishes it.
func PlanWindow(maxDate time.Time, haveData bool, today time.Time, lookbackDays int) model.FetchWindow {
	today = model.Day(today)

	start := today.AddDate(0, 0, -lookbackDays)
	if haveData {
		start = model.Day(maxDate).AddDate(0, 0, 1)
	}

	return model.FetchWindow{
		Start: start,
		End:   today.AddDate(0, 0, 1),
	}
}

// Chunk partitions tickers into batches of at most size, preserving input
// order. An empty universe yields no batches.
func Chunk(tickers []string, size int) [][]string {
	if size < 1 || len(tickers) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(tickers)+size-1)/size)
	for i := 0; i < len(tickers); i += size {
		end := min(i+size, len(tickers))
		batches = append(batches, tickers[i:end])
	}
	return batches
}
