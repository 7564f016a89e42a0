package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// EnsureIndexDefinition inserts the index definition if it does not exist and
// returns its id. Rules are stored as JSONB.
func (s *Store) EnsureIndexDefinition(ctx context.Context, slug, name, description string, rules map[string]any) (int, error) {
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return 0, fmt.Errorf("marshal index rules: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO index_definitions (slug, name, description, rules, rebalance_freq, reconst_freq)
		VALUES ($1, $2, $3, $4, 'monthly', 'monthly')
		ON CONFLICT (slug) DO NOTHING
	`, slug, name, description, rulesJSON)
	if err != nil {
		return 0, fmt.Errorf("ensure index definition: %w", err)
	}

	var id int
	err = s.db.QueryRow(ctx, `SELECT id FROM index_definitions WHERE slug = $1`, slug).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("select index id: %w", err)
	}
	return id, nil
}

// TopByScore returns the n tickers with the highest latest momentum score.
func (s *Store) TopByScore(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		WITH latest AS (
			SELECT ticker, m_score,
			       ROW_NUMBER() OVER (PARTITION BY ticker ORDER BY date DESC) AS rn
			FROM signals
		)
		SELECT ticker
		FROM latest
		WHERE rn = 1 AND m_score IS NOT NULL
		ORDER BY m_score DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query top tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// ReplaceConstituents resets the constituent set for one rebalance date.
func (s *Store) ReplaceConstituents(ctx context.Context, indexID int, asof time.Time, members []model.Constituent) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM index_constituents WHERE index_id = $1 AND asof = $2
	`, indexID, asof); err != nil {
		return fmt.Errorf("delete constituents: %w", err)
	}

	for _, m := range members {
		if _, err := tx.Exec(ctx, `
			INSERT INTO index_constituents (index_id, asof, ticker, weight)
			VALUES ($1, $2, $3, $4)
		`, indexID, asof, m.Ticker, m.Weight); err != nil {
			return fmt.Errorf("insert constituent %s: %w", m.Ticker, err)
		}
	}

	return tx.Commit(ctx)
}

// LastLevel returns the most recent recorded index level, or false when the
// history is empty.
func (s *Store) LastLevel(ctx context.Context, indexID int) (decimal.Decimal, bool, error) {
	var level decimal.Decimal
	err := s.db.QueryRow(ctx, `
		SELECT level
		FROM index_history
		WHERE index_id = $1
		ORDER BY date DESC
		LIMIT 1
	`, indexID).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("select last level: %w", err)
	}
	return level, true, nil
}

// ConstituentDailyReturn computes the equal-weighted average close-over-close
// return on the asof date of the most recent constituent set recorded at or
// before that date. On a rebalance day that is the basket actually held, not
// the incoming one.
func (s *Store) ConstituentDailyReturn(ctx context.Context, indexID int, asof time.Time) (float64, error) {
	var ret *float64
	err := s.db.QueryRow(ctx, `
		WITH p AS (
			SELECT ticker, date, close,
			       LAG(close) OVER (PARTITION BY ticker ORDER BY date) AS prev_close
			FROM prices
			WHERE date <= $2
		)
		SELECT AVG((close - prev_close) / NULLIF(prev_close, 0))
		FROM p
		WHERE date = $2
		  AND prev_close IS NOT NULL
		  AND ticker IN (
		      SELECT ticker FROM index_constituents
		      WHERE index_id = $1
		        AND asof = (
		            SELECT MAX(asof) FROM index_constituents
		            WHERE index_id = $1 AND asof <= $2
		        )
		  )
	`, indexID, asof).Scan(&ret)
	if err != nil {
		return 0, fmt.Errorf("compute constituent return: %w", err)
	}
	if ret == nil {
		return 0, nil
	}
	return *ret, nil
}

// UpsertLevel records one day of index history, overwriting a recomputed day.
func (s *Store) UpsertLevel(ctx context.Context, indexID int, date time.Time, level decimal.Decimal, retDaily float64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO index_history (index_id, date, level, ret_daily)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (index_id, date) DO UPDATE SET
			level = EXCLUDED.level,
			ret_daily = EXCLUDED.ret_daily
	`, indexID, date, level, retDaily)
	if err != nil {
		return fmt.Errorf("upsert index level: %w", err)
	}
	return nil
}
