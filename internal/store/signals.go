package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// UpsertSignals merges derived metric rows keyed by (ticker, date), in the
// same chunked transactional discipline as prices.
func (s *Store) UpsertSignals(ctx context.Context, rows []model.SignalRow) error {
	for offset := 0; offset < len(rows); offset += upsertChunkSize {
		end := min(offset+upsertChunkSize, len(rows))
		if err := s.upsertSignalChunk(ctx, rows[offset:end]); err != nil {
			return fmt.Errorf("upsert signal chunk at offset %d: %w", offset, err)
		}
	}
	return nil
}

func (s *Store) upsertSignalChunk(ctx context.Context, rows []model.SignalRow) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO signals (ticker, date, ret_1m, ret_3m, ret_6m, rsi_14, atr_14, sma50, sma200, vol_surge, m_score, breakout)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (ticker, date) DO UPDATE SET
				ret_1m = EXCLUDED.ret_1m,
				ret_3m = EXCLUDED.ret_3m,
				ret_6m = EXCLUDED.ret_6m,
				rsi_14 = EXCLUDED.rsi_14,
				atr_14 = EXCLUDED.atr_14,
				sma50 = EXCLUDED.sma50,
				sma200 = EXCLUDED.sma200,
				vol_surge = EXCLUDED.vol_surge,
				m_score = EXCLUDED.m_score,
				breakout = EXCLUDED.breakout
		`, r.Ticker, r.Date, r.Ret1M, r.Ret3M, r.Ret6M, r.RSI14, r.ATR14,
			r.SMA50, r.SMA200, r.VolSurge, r.MScore, r.Breakout)
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
