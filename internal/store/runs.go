package store

import (
	"context"
	"fmt"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// RecordRun persists the audit record of one completed ingestion pass.
func (s *Store) RecordRun(ctx context.Context, report model.RunReport) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO etl_runs (run_id, started_at, finished_at, window_start, window_end, rows_ingested, tickers_skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		report.RunID,
		report.StartedAt,
		report.FinishedAt,
		report.Window.Start,
		report.Window.End,
		report.RowsIngested,
		report.Skipped,
	)
	if err != nil {
		return fmt.Errorf("insert etl run: %w", err)
	}
	return nil
}
