package store

import (
	"context"
	"fmt"
)

// LoadUniverse returns the active ticker symbols in alphabetical order.
func (s *Store) LoadUniverse(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ticker
		FROM tickers
		WHERE COALESCE(is_active, true)
		ORDER BY ticker
	`)
	if err != nil {
		return nil, fmt.Errorf("query ticker universe: %w", err)
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

// AllTickers returns every registered ticker, active or not.
func (s *Store) AllTickers(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT ticker FROM tickers ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query tickers: %w", err)
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
