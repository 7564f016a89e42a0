package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
	"github.com/justin-napolitano/finance-index-dashboard/internal/pacer"
)

// BatchResult pairs a successful raw response with the tickers that were
// requested for it, which the normalizer needs to attach row identity.
type BatchResult struct {
	Tickers  []string
	Response model.RawResponse
}

// batchFetcher is the executor surface the splitter drives.
type batchFetcher interface {
	Fetch(ctx context.Context, batch []string, window model.FetchWindow) (model.RawResponse, error)
}

// Splitter retries failed batch fetches by splitting them in half down to
// singletons, bounding the blast radius of a bad ticker to itself.
type Splitter struct {
	exec          batchFetcher
	pacer         *pacer.Pacer
	splitCooldown time.Duration
	logger        *slog.Logger

	// Injectable for tests; the pause after a dropped singleton.
	sleep func(time.Duration)
}

// NewSplitter creates a Splitter.
func NewSplitter(exec batchFetcher, p *pacer.Pacer, splitCooldown time.Duration, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{
		exec:          exec,
		pacer:         p,
		splitCooldown: splitCooldown,
		logger:        logger,
		sleep:         time.Sleep,
	}
}

// FetchWithRetry fetches a batch, degrading gracefully to partial results.
// It never returns an error: failed batches are halved and each half retried
// independently, and a ticker that still fails alone is dropped into the skip
// list for this run. The cascade is an explicit worklist, not recursion, so
// depth is bounded and every attempt is loggable.
func (s *Splitter) FetchWithRetry(ctx context.Context, batch []string, window model.FetchWindow) ([]BatchResult, []string) {
	var results []BatchResult
	var skipped []string

	stack := [][]string{batch}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if ctx.Err() != nil {
			// Run is being torn down; everything unattempted is skipped.
			skipped = append(skipped, cur...)
			continue
		}

		resp, err := s.exec.Fetch(ctx, cur, window)
		if err == nil {
			results = append(results, BatchResult{Tickers: cur, Response: resp})
			continue
		}

		if len(cur) == 1 {
			s.logger.Warn("ticker failed at singleton granularity, dropping for this run",
				"ticker", cur[0],
				"error", err,
			)
			skipped = append(skipped, cur[0])
			s.sleep(s.pacer.SlowInterval())
			continue
		}

		s.logger.Warn("batch failed, splitting",
			"size", len(cur),
			"error", err,
		)
		s.pacer.Slowdown(s.splitCooldown)

		// First half gets the smaller share on odd sizes. Push the second
		// half first so the halves are attempted in input order.
		mid := len(cur) / 2
		stack = append(stack, cur[mid:], cur[:mid])
	}

	return results, skipped
}
