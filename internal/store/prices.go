package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// MaxPriceDate returns the most recent date in the prices table. The second
// return is false when the table is empty.
func (s *Store) MaxPriceDate(ctx context.Context) (time.Time, bool, error) {
	// MAX over an empty table yields NULL; scan through a pointer.
	var d *time.Time
	err := s.db.QueryRow(ctx, `SELECT MAX(date)::date FROM prices`).Scan(&d)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("select max price date: %w", err)
	}
	if d == nil {
		return time.Time{}, false, nil
	}
	return model.Day(*d), true, nil
}

// EnsureTickers registers symbols insert-if-absent; already-known tickers are
// untouched.
func (s *Store) EnsureTickers(ctx context.Context, tickers []string) error {
	if len(tickers) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO tickers (ticker)
		SELECT UNNEST($1::text[])
		ON CONFLICT (ticker) DO NOTHING
	`, tickers)
	if err != nil {
		return fmt.Errorf("ensure tickers: %w", err)
	}
	return nil
}

// UpsertPrices merges rows into the prices table keyed by (ticker, date),
// last write wins. Rows are committed in bounded chunks, each in its own
// transaction: calling this twice with the same rows yields the same end
// state as calling it once.
func (s *Store) UpsertPrices(ctx context.Context, rows []model.PriceRow) error {
	for offset := 0; offset < len(rows); offset += upsertChunkSize {
		end := min(offset+upsertChunkSize, len(rows))
		if err := s.upsertPriceChunk(ctx, rows[offset:end]); err != nil {
			return fmt.Errorf("upsert price chunk at offset %d: %w", offset, err)
		}
		s.logger.Debug("upserted price chunk", "rows", end-offset, "offset", offset)
	}
	return nil
}

func (s *Store) upsertPriceChunk(ctx context.Context, rows []model.PriceRow) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO prices (ticker, date, open, high, low, close, volume)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (ticker, date) DO UPDATE SET
				open = EXCLUDED.open,
				high = EXCLUDED.high,
				low = EXCLUDED.low,
				close = EXCLUDED.close,
				volume = EXCLUDED.volume
		`, r.Ticker, r.Date, r.Open, r.High, r.Low, r.Close, r.Volume)
	}

	results := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("exec upsert: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// PriceSeries returns a ticker's daily closes and volumes in date order.
func (s *Store) PriceSeries(ctx context.Context, ticker string) ([]model.PricePoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT date, close, volume
		FROM prices
		WHERE ticker = $1
		ORDER BY date
	`, ticker)
	if err != nil {
		return nil, fmt.Errorf("query price series: %w", err)
	}
	defer rows.Close()

	var series []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.Date, &p.Close, &p.Volume); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.Date = model.Day(p.Date)
		series = append(series, p)
	}
	return series, rows.Err()
}
