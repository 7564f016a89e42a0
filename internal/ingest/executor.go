package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
	"github.com/justin-napolitano/finance-index-dashboard/internal/pacer"
	"github.com/justin-napolitano/finance-index-dashboard/internal/provider"
)

// Downloader is the provider boundary consumed by the executor.
type Downloader interface {
	Download(ctx context.Context, symbols []string, start, end time.Time) (model.RawResponse, error)
}

// Executor issues one paced batch request and classifies the outcome.
type Executor struct {
	client           Downloader
	pacer            *pacer.Pacer
	throttleCooldown time.Duration
	logger           *slog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(client Downloader, p *pacer.Pacer, throttleCooldown time.Duration, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		client:           client,
		pacer:            p,
		throttleCooldown: throttleCooldown,
		logger:           logger,
	}
}

// Fetch requests one batch over the window. Throttling signals extend the
// shared cool-down before the classified error is returned. An empty response
// is a success: a ticker may simply have no new data in the window.
func (e *Executor) Fetch(ctx context.Context, batch []string, window model.FetchWindow) (model.RawResponse, error) {
	e.pacer.Wait()

	e.logger.Debug("fetching batch",
		"size", len(batch),
		"start", window.Start.Format("2006-01-02"),
		"end", window.End.Format("2006-01-02"),
	)

	resp, err := e.client.Download(ctx, batch, window.Start, window.End)
	if err != nil {
		if provider.IsThrottled(err) {
			e.logger.Warn("provider throttling detected, entering cool-down",
				"cooldown", e.throttleCooldown,
				"error", err,
			)
			e.pacer.Slowdown(e.throttleCooldown)
			return model.RawResponse{}, &FetchError{Kind: Throttled, Err: err}
		}
		return model.RawResponse{}, &FetchError{Kind: Transient, Err: err}
	}

	return resp, nil
}
