package signals

import (
	"math"
	"testing"
	"time"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

func TestPctChange(t *testing.T) {
	x := []float64{100, 110, 121}
	got := pctChange(x, 1)

	if !math.IsNaN(got[0]) {
		t.Errorf("got[0] = %v, want NaN warm-up", got[0])
	}
	if math.Abs(got[1]-0.10) > 1e-9 {
		t.Errorf("got[1] = %v, want 0.10", got[1])
	}
	if math.Abs(got[2]-0.10) > 1e-9 {
		t.Errorf("got[2] = %v, want 0.10", got[2])
	}
}

func TestRollingMean(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	got := rollingMean(x, 3)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("got[%d] = %v, want NaN before window fills", i, got[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(got[i+2]-w) > 1e-9 {
			t.Errorf("got[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestRSI_Bounds(t *testing.T) {
	// A mixed up/down series keeps RSI strictly inside (0, 100).
	closes := make([]float64, 100)
	price := 100.0
	for i := range closes {
		if i%3 == 0 {
			price -= 1.5
		} else {
			price += 1.0
		}
		closes[i] = price
	}

	got := rsi(closes, 14)
	for i := 20; i < len(got); i++ {
		if math.IsNaN(got[i]) {
			t.Fatalf("rsi[%d] is NaN for a mixed series", i)
		}
		if got[i] <= 0 || got[i] >= 100 {
			t.Errorf("rsi[%d] = %v, want in (0, 100)", i, got[i])
		}
	}
}

func TestRSI_UptrendAboveDowntrend(t *testing.T) {
	up := make([]float64, 60)
	down := make([]float64, 60)
	for i := range up {
		// Mostly rising vs mostly falling, with enough of the other
		// direction that RS stays defined.
		if i%5 == 0 {
			up[i] = 100 + float64(i) - 0.5
			down[i] = 100 - float64(i) + 0.5
		} else {
			up[i] = 100 + float64(i)
			down[i] = 100 - float64(i)
		}
	}

	rsiUp := rsi(up, 14)
	rsiDown := rsi(down, 14)
	last := len(up) - 1
	if !(rsiUp[last] > rsiDown[last]) {
		t.Errorf("rsi(up) = %v, rsi(down) = %v, want uptrend higher", rsiUp[last], rsiDown[last])
	}
	if rsiUp[last] < 50 {
		t.Errorf("rsi(up) = %v, want > 50", rsiUp[last])
	}
}

func TestRankPct(t *testing.T) {
	x := []float64{math.NaN(), 10, 30, 20}
	got := rankPct(x)

	if !math.IsNaN(got[0]) {
		t.Errorf("got[0] = %v, want NaN preserved", got[0])
	}
	checks := map[int]float64{1: 1.0 / 3, 2: 1.0, 3: 2.0 / 3}
	for i, want := range checks {
		if math.Abs(got[i]-want) > 1e-9 {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestRankPct_Ties(t *testing.T) {
	x := []float64{5, 5, 10}
	got := rankPct(x)

	// Tied values share the average rank (1+2)/2 = 1.5 of 3.
	if math.Abs(got[0]-0.5) > 1e-9 || math.Abs(got[1]-0.5) > 1e-9 {
		t.Errorf("tied ranks = %v, %v, want 0.5 each", got[0], got[1])
	}
	if math.Abs(got[2]-1.0) > 1e-9 {
		t.Errorf("got[2] = %v, want 1.0", got[2])
	}
}

func TestCompute_ShortSeriesYieldsNothing(t *testing.T) {
	series := makeSeries(59)
	if rows := Compute("AAPL", series); rows != nil {
		t.Errorf("rows = %v, want nil for short series", rows)
	}
}

func TestCompute_WarmupRespected(t *testing.T) {
	series := makeSeries(250)
	rows := Compute("AAPL", series)

	// sma200 is the longest warm-up: first complete day is index 199.
	want := 250 - 199
	if len(rows) != want {
		t.Fatalf("rows = %d, want %d", len(rows), want)
	}
	if !rows[0].Date.Equal(series[199].Date) {
		t.Errorf("first row date = %v, want %v", rows[0].Date, series[199].Date)
	}
	for _, r := range rows {
		if r.Ticker != "AAPL" {
			t.Errorf("Ticker = %q, want AAPL", r.Ticker)
		}
		if math.IsNaN(r.MScore) || math.IsNaN(r.RSI14) {
			t.Errorf("row %v carries NaN metrics", r.Date)
		}
	}
}

// makeSeries builds a zig-zag price walk with volume, long enough for every
// warm-up window and with both gains and losses so RSI stays defined.
func makeSeries(n int) []model.PricePoint {
	series := make([]model.PricePoint, n)
	price := 100.0
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		if i%4 == 0 {
			price -= 1.0
		} else {
			price += 0.8
		}
		vol := int64(1_000_000 + 10_000*(i%7))
		series[i] = model.PricePoint{Date: day, Close: price, Volume: &vol}
		day = day.AddDate(0, 0, 1)
	}
	return series
}
