package model

import "time"

// SignalRow is one day of derived metrics for one ticker, keyed like prices
// by (ticker, date).
type SignalRow struct {
	Ticker   string
	Date     time.Time
	Ret1M    float64 // 21-day return
	Ret3M    float64 // 63-day return
	Ret6M    float64 // 126-day return
	RSI14    float64
	ATR14    float64
	SMA50    float64
	SMA200   float64
	VolSurge float64 // Volume over its 20-day mean
	MScore   float64 // Composite momentum score
	Breakout bool
}

// PricePoint is the minimal per-day input the signal computation consumes.
type PricePoint struct {
	Date   time.Time
	Close  float64
	Volume *int64
}

// Constituent is one ticker's membership in an index as of a rebalance date.
type Constituent struct {
	Ticker string
	Weight float64
}
