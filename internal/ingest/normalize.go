package ingest

import (
	"strings"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// Normalize converts one raw batch response into canonical tidy rows, one per
// (ticker, date). It is pure and never fails on malformed-but-parseable
// input: rows it cannot reconcile are dropped. A row needs a close (falling
// back to adjusted close) to be usable downstream; rows without one are
// dropped.
func Normalize(raw model.RawResponse, requested []string) []model.PriceRow {
	switch raw.Kind {
	case model.ResponseSingleTicker:
		if len(requested) == 0 {
			return nil
		}
		return normalizeSingle(raw.Table, requested[0])
	case model.ResponseMultiTicker:
		return normalizeMulti(raw, requested)
	default:
		return nil
	}
}

// fieldColumns maps lowercase field name to column position for one ticker.
type fieldColumns map[string]int

// normalizeSingle handles the flat, one-level column shape: the whole table
// belongs to the single requested ticker.
func normalizeSingle(table model.Table, ticker string) []model.PriceRow {
	cols := make(fieldColumns, len(table.Columns))
	for i, key := range table.Columns {
		cols[strings.ToLower(key.A)] = i
	}
	return extractRows(table, ticker, cols)
}

// normalizeMulti handles the two-level column shape. The axis tag set at the
// provider boundary says which level is the ticker, so the keys are reordered
// to (ticker, field) canonically before reshaping.
func normalizeMulti(raw model.RawResponse, requested []string) []model.PriceRow {
	perTicker := make(map[string]fieldColumns)
	for i, key := range raw.Table.Columns {
		ticker, field := key.A, key.B
		if raw.Axis == model.AxisFieldTicker {
			ticker, field = key.B, key.A
		}
		cols := perTicker[ticker]
		if cols == nil {
			cols = make(fieldColumns)
			perTicker[ticker] = cols
		}
		cols[strings.ToLower(field)] = i
	}

	// Requested order drives output order; tickers absent from the response
	// are silently missing (the provider had nothing for them).
	var rows []model.PriceRow
	for _, ticker := range requested {
		cols, ok := perTicker[ticker]
		if !ok {
			continue
		}
		rows = append(rows, extractRows(raw.Table, ticker, cols)...)
	}
	return rows
}

// extractRows builds tidy rows for one ticker from its field columns.
func extractRows(table model.Table, ticker string, cols fieldColumns) []model.PriceRow {
	cell := func(field string, row int) *float64 {
		ci, ok := cols[field]
		if !ok {
			return nil
		}
		return table.Values[ci][row]
	}

	var rows []model.PriceRow
	for ri, date := range table.Index {
		closeVal := cell("close", ri)
		if closeVal == nil {
			closeVal = cell("adj close", ri)
		}
		if closeVal == nil {
			continue
		}

		row := model.PriceRow{
			Ticker: ticker,
			Date:   model.Day(date),
			Open:   cell("open", ri),
			High:   cell("high", ri),
			Low:    cell("low", ri),
			Close:  *closeVal,
		}
		if v := cell("volume", ri); v != nil {
			vol := int64(*v)
			row.Volume = &vol
		}
		rows = append(rows, row)
	}
	return rows
}
