package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/justin-napolitano/finance-index-dashboard/internal/config"
	"github.com/justin-napolitano/finance-index-dashboard/internal/database"
	"github.com/justin-napolitano/finance-index-dashboard/internal/index"
	"github.com/justin-napolitano/finance-index-dashboard/internal/ingest"
	"github.com/justin-napolitano/finance-index-dashboard/internal/pacer"
	"github.com/justin-napolitano/finance-index-dashboard/internal/provider"
	"github.com/justin-napolitano/finance-index-dashboard/internal/signals"
	"github.com/justin-napolitano/finance-index-dashboard/internal/store"
	"github.com/justin-napolitano/finance-index-dashboard/internal/universe"
	"github.com/justin-napolitano/finance-index-dashboard/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/etl.local.yaml", "path to config file")
	skipSignals := flag.Bool("skip-signals", false, "skip signal computation and index rebalance")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting etl",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"provider_url", cfg.Provider.BaseURL,
		"batch_size", cfg.Fetch.BatchSize,
		"lookback_days", cfg.Fetch.LookbackDays,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	st := store.New(pool, logger)

	// Resolve the ticker universe
	var tickers []string
	if cfg.Universe.File != "" {
		tickers, err = universe.LoadFile(cfg.Universe.File)
	} else {
		tickers, err = st.LoadUniverse(ctx)
	}
	if err != nil {
		logger.Error("failed to load ticker universe", "error", err)
		os.Exit(1)
	}
	logger.Info("universe loaded", "tickers", len(tickers))

	// Assemble the fetch pipeline
	client := provider.NewClient(
		cfg.Provider.BaseURL,
		provider.WithLogger(logger),
		provider.WithTimeout(cfg.Provider.Timeout),
		provider.WithRetries(cfg.Provider.MaxRetries, cfg.Provider.RetryBackoff, cfg.Provider.BackoffFactor),
	)
	pace := pacer.New(pacer.Config{
		Interval:     cfg.Fetch.Interval,
		SlowInterval: cfg.Fetch.SlowInterval,
		JitterMax:    cfg.Fetch.JitterMax,
	})
	executor := ingest.NewExecutor(client, pace, cfg.Fetch.ThrottleCooldown, logger)
	splitter := ingest.NewSplitter(executor, pace, cfg.Fetch.SplitCooldown, logger)
	pipeline := ingest.NewPipeline(cfg.Fetch, splitter, st, logger)

	report, err := pipeline.Run(ctx, tickers)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
	logger.Info("ingestion complete",
		"run_id", report.RunID,
		"rows", report.RowsIngested,
		"skipped", len(report.Skipped),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	if *skipSignals {
		logger.Info("etl finished (signals skipped)")
		return
	}

	// Recompute signals over full price history
	all, err := st.AllTickers(ctx)
	if err != nil {
		logger.Error("failed to list tickers for signals", "error", err)
		os.Exit(1)
	}
	var signalRows int
	for _, ticker := range all {
		if ctx.Err() != nil {
			logger.Info("signal computation interrupted")
			break
		}
		series, err := st.PriceSeries(ctx, ticker)
		if err != nil {
			logger.Error("failed to load price series", "ticker", ticker, "error", err)
			os.Exit(1)
		}
		rows := signals.Compute(ticker, series)
		if len(rows) == 0 {
			continue
		}
		if err := st.UpsertSignals(ctx, rows); err != nil {
			logger.Error("failed to upsert signals", "ticker", ticker, "error", err)
			os.Exit(1)
		}
		signalRows += len(rows)
	}
	logger.Info("signals computed", "tickers", len(all), "rows", signalRows)

	// Rebalance the momentum index
	rebalancer := index.New(cfg.Index, st, logger)
	if err := rebalancer.Rebalance(ctx); err != nil {
		logger.Error("index rebalance failed", "error", err)
		os.Exit(1)
	}

	logger.Info("etl finished")
}
