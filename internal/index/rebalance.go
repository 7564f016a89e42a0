package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/justin-napolitano/finance-index-dashboard/internal/config"
	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

// Store is the persistence surface the rebalancer needs.
type Store interface {
	EnsureIndexDefinition(ctx context.Context, slug, name, description string, rules map[string]any) (int, error)
	TopByScore(ctx context.Context, n int) ([]string, error)
	ReplaceConstituents(ctx context.Context, indexID int, asof time.Time, members []model.Constituent) error
	LastLevel(ctx context.Context, indexID int) (decimal.Decimal, bool, error)
	ConstituentDailyReturn(ctx context.Context, indexID int, asof time.Time) (float64, error)
	UpsertLevel(ctx context.Context, indexID int, date time.Time, level decimal.Decimal, retDaily float64) error
}

// Rebalancer refreshes the momentum index membership and extends its
// level history by one observation.
type Rebalancer struct {
	cfg    config.IndexConfig
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func New(cfg config.IndexConfig, store Store, logger *slog.Logger) *Rebalancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebalancer{cfg: cfg, store: store, logger: logger, now: time.Now}
}

// Rebalance selects the top-N tickers by momentum score, replaces the index
// membership as of today, and chains a new level off the previous one (or the
// base level on the first observation) using the equal-weight daily return of
// the new basket. With no scored tickers yet the day is skipped entirely.
func (r *Rebalancer) Rebalance(ctx context.Context) error {
	asof := model.Day(r.now().UTC())

	rules := map[string]any{
		"rank_by": "m_score",
		"top_n":   r.cfg.TopN,
		"weights": "equal",
	}
	indexID, err := r.store.EnsureIndexDefinition(ctx, r.cfg.Slug, r.cfg.Name,
		fmt.Sprintf("Top %d tickers by momentum score, equal weighted", r.cfg.TopN), rules)
	if err != nil {
		return fmt.Errorf("ensure index definition: %w", err)
	}

	top, err := r.store.TopByScore(ctx, r.cfg.TopN)
	if err != nil {
		return fmt.Errorf("top by score: %w", err)
	}
	if len(top) == 0 {
		r.logger.Warn("no scored tickers yet, skipping rebalance", "index", r.cfg.Slug)
		return nil
	}

	weight := 1.0 / float64(len(top))
	members := make([]model.Constituent, len(top))
	for i, ticker := range top {
		members[i] = model.Constituent{Ticker: ticker, Weight: weight}
	}
	if err := r.store.ReplaceConstituents(ctx, indexID, asof, members); err != nil {
		return fmt.Errorf("replace constituents: %w", err)
	}

	ret, err := r.store.ConstituentDailyReturn(ctx, indexID, asof)
	if err != nil {
		return fmt.Errorf("constituent daily return: %w", err)
	}

	prev, ok, err := r.store.LastLevel(ctx, indexID)
	if err != nil {
		return fmt.Errorf("last level: %w", err)
	}
	if !ok {
		prev = decimal.NewFromFloat(r.cfg.BaseLevel)
	}
	level := prev.Mul(decimal.NewFromFloat(1 + ret))
	if err := r.store.UpsertLevel(ctx, indexID, asof, level, ret); err != nil {
		return fmt.Errorf("upsert level: %w", err)
	}

	r.logger.Info("index rebalanced",
		"index", r.cfg.Slug,
		"asof", asof.Format("2006-01-02"),
		"constituents", len(members),
		"level", level.StringFixed(4),
		"ret_daily", ret,
	)
	return nil
}
