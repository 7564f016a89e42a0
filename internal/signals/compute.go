package signals

import (
	"math"
	"sort"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// minHistory is the shortest price series worth computing signals for.
const minHistory = 60

// Compute derives signal rows for one ticker's price series, which must be in
// ascending date order. Days where any metric's warm-up window is not yet
// filled are omitted; a series shorter than minHistory yields nothing.
func Compute(ticker string, series []model.PricePoint) []model.SignalRow {
	n := len(series)
	if n < minHistory {
		return nil
	}

	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, p := range series {
		closes[i] = p.Close
		volumes[i] = math.NaN()
		if p.Volume != nil {
			volumes[i] = float64(*p.Volume)
		}
	}

	ret1 := pctChange(closes, 1)
	ret1m := pctChange(closes, 21)
	ret3m := pctChange(closes, 63)
	ret6m := pctChange(closes, 126)
	sma50 := rollingMean(closes, 50)
	sma200 := rollingMean(closes, 200)
	rsi14 := rsi(closes, 14)

	absRet := make([]float64, n)
	for i, r := range ret1 {
		absRet[i] = math.Abs(r)
	}
	atr14 := rollingMean(absRet, 14)
	for i := range atr14 {
		atr14[i] *= closes[i]
	}

	volMean20 := rollingMean(volumes, 20)
	volSurge := make([]float64, n)
	for i := range volSurge {
		volSurge[i] = volumes[i] / volMean20[i]
	}

	rank3 := rankPct(ret3m)
	rank6 := rankPct(ret6m)
	rankATR := rankPct(atr14)
	mScore := make([]float64, n)
	for i := range mScore {
		mScore[i] = rank3[i]*0.6 + rank6[i]*0.4 - rankATR[i]*0.2
	}

	var rows []model.SignalRow
	for i := 0; i < n; i++ {
		vals := []float64{ret1m[i], ret3m[i], ret6m[i], rsi14[i], atr14[i],
			sma50[i], sma200[i], volSurge[i], mScore[i]}
		if anyNaN(vals) {
			continue
		}
		rows = append(rows, model.SignalRow{
			Ticker:   ticker,
			Date:     series[i].Date,
			Ret1M:    ret1m[i],
			Ret3M:    ret3m[i],
			Ret6M:    ret6m[i],
			RSI14:    rsi14[i],
			ATR14:    atr14[i],
			SMA50:    sma50[i],
			SMA200:   sma200[i],
			VolSurge: volSurge[i],
			MScore:   mScore[i],
			Breakout: closes[i] > sma50[i] && sma50[i] > sma200[i] &&
				rsi14[i] > 60 && volSurge[i] > 1.2,
		})
	}
	return rows
}

// pctChange returns x[i]/x[i-period] - 1, NaN for the warm-up prefix.
func pctChange(x []float64, period int) []float64 {
	out := nanSlice(len(x))
	for i := period; i < len(x); i++ {
		if x[i-period] != 0 {
			out[i] = x[i]/x[i-period] - 1
		}
	}
	return out
}

// rollingMean returns the trailing window mean, NaN until the window fills or
// when the window contains a NaN.
func rollingMean(x []float64, window int) []float64 {
	out := nanSlice(len(x))
	for i := window - 1; i < len(x); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(x[j]) {
				ok = false
				break
			}
			sum += x[j]
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rsi computes Wilder's relative strength index: exponentially weighted means
// of gains and losses with alpha = 1/period. A series with no losses in
// memory has an undefined RS and yields NaN, matching the convention of
// treating a zero loss average as missing.
func rsi(closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if n < 2 {
		return out
	}

	alpha := 1.0 / float64(period)
	var upEMA, downEMA float64
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		up := math.Max(delta, 0)
		down := math.Max(-delta, 0)

		if i == 1 {
			upEMA, downEMA = up, down
		} else {
			upEMA = alpha*up + (1-alpha)*upEMA
			downEMA = alpha*down + (1-alpha)*downEMA
		}

		if downEMA == 0 {
			continue
		}
		rs := upEMA / downEMA
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// rankPct assigns each non-NaN value its average-rank percentile within the
// whole series, NaN positions stay NaN.
func rankPct(x []float64) []float64 {
	out := nanSlice(len(x))

	var idx []int
	for i, v := range x {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return out
	}

	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	total := float64(len(idx))
	for i := 0; i < len(idx); {
		// Ties share the average of their rank positions.
		j := i
		for j+1 < len(idx) && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avgRank := float64(i+j+2) / 2 // 1-based average of positions i..j
		for k := i; k <= j; k++ {
			out[idx[k]] = avgRank / total
		}
		i = j + 1
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func anyNaN(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
