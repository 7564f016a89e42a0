package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// historyPayload is the provider's tabular wire format: a split-orient frame
// with a date index, column labels, and row-major data. Column labels are
// plain strings for a single-symbol request and two-element arrays for a
// multi-symbol request, with the level order not guaranteed.
type historyPayload struct {
	Columns []json.RawMessage `json:"columns"`
	Index   []string          `json:"index"`
	Data    [][]*float64      `json:"data"`
}

// Download fetches daily bars for the given symbols over [start, end) and
// returns the decoded response tagged with its structural shape. A payload
// with no rows or no columns decodes to an empty response, not an error.
func (c *Client) Download(ctx context.Context, symbols []string, start, end time.Time) (model.RawResponse, error) {
	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))
	query.Set("start", start.Format("2006-01-02"))
	query.Set("end", end.Format("2006-01-02"))
	query.Set("interval", "1d")

	body, err := c.doWithRetry(ctx, "/v8/finance/download", query)
	if err != nil {
		return model.RawResponse{}, err
	}

	var payload historyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.RawResponse{}, fmt.Errorf("unmarshal history payload: %w", err)
	}

	return decodePayload(payload)
}

// decodePayload converts the wire frame into a tagged RawResponse. The shape
// and, for multi-symbol frames, the axis order are decided here once so the
// normalizer never has to probe column contents.
func decodePayload(p historyPayload) (model.RawResponse, error) {
	if len(p.Index) == 0 || len(p.Columns) == 0 {
		return model.RawResponse{Kind: model.ResponseEmpty}, nil
	}

	index := make([]time.Time, len(p.Index))
	for i, s := range p.Index {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			// Some responses carry a timestamp; keep the calendar day.
			d, err = time.Parse(time.RFC3339, s)
			if err != nil {
				return model.RawResponse{}, fmt.Errorf("parse index date %q: %w", s, err)
			}
		}
		index[i] = model.Day(d)
	}

	columns := make([]model.ColumnKey, len(p.Columns))
	multi := false
	for i, raw := range p.Columns {
		key, isPair, err := decodeColumnKey(raw)
		if err != nil {
			return model.RawResponse{}, err
		}
		columns[i] = key
		if isPair {
			multi = true
		}
	}

	// Transpose row-major wire data into column-major values, tolerating
	// ragged rows by treating missing cells as nil.
	values := make([][]*float64, len(columns))
	for ci := range columns {
		col := make([]*float64, len(index))
		for ri := range index {
			if ri < len(p.Data) && ci < len(p.Data[ri]) {
				col[ri] = p.Data[ri][ci]
			}
		}
		values[ci] = col
	}

	table := model.Table{Index: index, Columns: columns, Values: values}

	if !multi {
		return model.RawResponse{Kind: model.ResponseSingleTicker, Table: table}, nil
	}

	return model.RawResponse{
		Kind:  model.ResponseMultiTicker,
		Axis:  detectAxis(columns),
		Table: table,
	}, nil
}

func decodeColumnKey(raw json.RawMessage) (model.ColumnKey, bool, error) {
	var pair []string
	if err := json.Unmarshal(raw, &pair); err == nil {
		switch len(pair) {
		case 2:
			return model.ColumnKey{A: pair[0], B: pair[1]}, true, nil
		case 1:
			return model.ColumnKey{A: pair[0]}, false, nil
		default:
			return model.ColumnKey{}, false, fmt.Errorf("column key has %d levels, want 1 or 2", len(pair))
		}
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return model.ColumnKey{}, false, fmt.Errorf("decode column key %s: %w", raw, err)
	}
	return model.ColumnKey{A: name}, false, nil
}

// detectAxis decides which level of the two-level column keys holds the field
// names, by majority membership in the known field vocabulary.
func detectAxis(columns []model.ColumnKey) model.AxisOrder {
	var fieldsInA, fieldsInB int
	for _, key := range columns {
		if model.IsField(key.A) {
			fieldsInA++
		}
		if model.IsField(key.B) {
			fieldsInB++
		}
	}
	if fieldsInA > fieldsInB {
		return model.AxisFieldTicker
	}
	return model.AxisTickerField
}
