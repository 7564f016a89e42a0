package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/justin-napolitano/finance-index-dashboard/internal/config"
	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// Store is the persistence surface the pipeline writes through. Every price
// write goes through the keyed-merge upsert; store errors are fatal to the
// run.
type Store interface {
	MaxPriceDate(ctx context.Context) (time.Time, bool, error)
	EnsureTickers(ctx context.Context, tickers []string) error
	UpsertPrices(ctx context.Context, rows []model.PriceRow) error
	RecordRun(ctx context.Context, report model.RunReport) error
}

// Pipeline runs one full ingestion pass over a ticker universe.
type Pipeline struct {
	cfg      config.FetchConfig
	splitter *Splitter
	store    Store
	logger   *slog.Logger

	// Injectable for tests.
	now func() time.Time
}

// NewPipeline creates a Pipeline.
func NewPipeline(cfg config.FetchConfig, splitter *Splitter, store Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		splitter: splitter,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Run fetches, normalizes, and upserts the incremental window for the given
// universe. Fetch failures degrade to the skip list in the report; any store
// failure aborts and propagates, since silently dropping one would make the
// idempotence guarantee useless.
func (p *Pipeline) Run(ctx context.Context, universe []string) (model.RunReport, error) {
	report := model.RunReport{
		RunID:     uuid.New(),
		StartedAt: p.now(),
	}

	if len(universe) == 0 {
		p.logger.Info("empty ticker universe, nothing to ingest")
		report.FinishedAt = p.now()
		return report, nil
	}

	maxDate, haveData, err := p.store.MaxPriceDate(ctx)
	if err != nil {
		return report, fmt.Errorf("query max price date: %w", err)
	}
	window := PlanWindow(maxDate, haveData, p.now(), p.cfg.LookbackDays)
	report.Window = window

	batches := Chunk(universe, p.cfg.BatchSize)
	p.logger.Info("starting ingestion run",
		"run_id", report.RunID,
		"tickers", len(universe),
		"batches", len(batches),
		"start", window.Start.Format("2006-01-02"),
		"end", window.End.Format("2006-01-02"),
		"parallel", p.cfg.Parallel,
	)

	var rows []model.PriceRow
	var skipped []string

	if p.cfg.Parallel {
		rows, skipped = p.fetchParallel(ctx, batches, window)
	} else {
		rows, skipped = p.fetchSequential(ctx, batches, window)
	}

	report.Skipped = skipped
	report.RowsIngested = len(rows)

	if len(rows) > 0 {
		if err := p.store.EnsureTickers(ctx, distinctTickers(rows)); err != nil {
			return report, fmt.Errorf("ensure tickers: %w", err)
		}
		if err := p.store.UpsertPrices(ctx, rows); err != nil {
			return report, fmt.Errorf("upsert prices: %w", err)
		}
	} else {
		p.logger.Info("no rows downloaded, nothing to upsert")
	}

	report.FinishedAt = p.now()
	if err := p.store.RecordRun(ctx, report); err != nil {
		return report, fmt.Errorf("record run: %w", err)
	}

	p.logger.Info("ingestion run complete",
		"run_id", report.RunID,
		"rows", report.RowsIngested,
		"skipped", len(report.Skipped),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	return report, nil
}

// fetchSequential processes batches one at a time, the default: the pacer
// state is observed in strict order and bursts are impossible.
func (p *Pipeline) fetchSequential(ctx context.Context, batches [][]string, window model.FetchWindow) ([]model.PriceRow, []string) {
	var rows []model.PriceRow
	var skipped []string

	for _, batch := range batches {
		results, dropped := p.splitter.FetchWithRetry(ctx, batch, window)
		skipped = append(skipped, dropped...)
		for _, res := range results {
			rows = append(rows, Normalize(res.Response, res.Tickers)...)
		}
	}
	return rows, skipped
}

// fetchParallel fetches batches concurrently. The pacer serializes the actual
// outbound calls, so the interval guarantee holds; only the waiting overlaps.
func (p *Pipeline) fetchParallel(ctx context.Context, batches [][]string, window model.FetchWindow) ([]model.PriceRow, []string) {
	var mu sync.Mutex
	var rows []model.PriceRow
	var skipped []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			results, dropped := p.splitter.FetchWithRetry(gctx, batch, window)

			var batchRows []model.PriceRow
			for _, res := range results {
				batchRows = append(batchRows, Normalize(res.Response, res.Tickers)...)
			}

			mu.Lock()
			rows = append(rows, batchRows...)
			skipped = append(skipped, dropped...)
			mu.Unlock()
			return nil
		})
	}

	// FetchWithRetry never errors, so Wait only synchronizes.
	_ = g.Wait()
	return rows, skipped
}

func distinctTickers(rows []model.PriceRow) []string {
	seen := make(map[string]bool, len(rows))
	var tickers []string
	for _, r := range rows {
		if !seen[r.Ticker] {
			seen[r.Ticker] = true
			tickers = append(tickers, r.Ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}
