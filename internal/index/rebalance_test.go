package index

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/justin-napolitano/finance-index-dashboard/internal/config"
	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
)

type memIndexStore struct {
	top []string

	lastLevel    decimal.Decimal
	hasLevel     bool
	dailyReturn  float64
	levelWritten decimal.Decimal
	retWritten   float64
	members      []model.Constituent
	memberAsof   time.Time
}

func (m *memIndexStore) EnsureIndexDefinition(ctx context.Context, slug, name, description string, rules map[string]any) (int, error) {
	return 1, nil
}

func (m *memIndexStore) TopByScore(ctx context.Context, n int) ([]string, error) {
	if n < len(m.top) {
		return m.top[:n], nil
	}
	return m.top, nil
}

func (m *memIndexStore) ReplaceConstituents(ctx context.Context, indexID int, asof time.Time, members []model.Constituent) error {
	m.memberAsof = asof
	m.members = members
	return nil
}

func (m *memIndexStore) LastLevel(ctx context.Context, indexID int) (decimal.Decimal, bool, error) {
	return m.lastLevel, m.hasLevel, nil
}

func (m *memIndexStore) ConstituentDailyReturn(ctx context.Context, indexID int, asof time.Time) (float64, error) {
	return m.dailyReturn, nil
}

func (m *memIndexStore) UpsertLevel(ctx context.Context, indexID int, date time.Time, level decimal.Decimal, retDaily float64) error {
	m.levelWritten = level
	m.retWritten = retDaily
	return nil
}

func testConfig() config.IndexConfig {
	return config.IndexConfig{Slug: "momentum-10", Name: "Momentum 10", TopN: 10, BaseLevel: 1000}
}

func TestRebalance_FirstRunChainsOffBaseLevel(t *testing.T) {
	store := &memIndexStore{top: []string{"AAPL", "MSFT"}, dailyReturn: 0.05}
	r := New(testConfig(), store, nil)

	if err := r.Rebalance(context.Background()); err != nil {
		t.Fatalf("Rebalance: %v", err)
	}
	want := decimal.NewFromInt(1050)
	if !store.levelWritten.Equal(want) {
		t.Errorf("first level = %s, want %s", store.levelWritten, want)
	}
	if store.retWritten != 0.05 {
		t.Errorf("first return = %v, want 0.05", store.retWritten)
	}
}

func TestRebalance_ChainsLevelFromPrevious(t *testing.T) {
	store := &memIndexStore{
		top:         []string{"AAPL", "MSFT", "NVDA"},
		hasLevel:    true,
		lastLevel:   decimal.NewFromInt(1000),
		dailyReturn: 0.02,
	}
	r := New(testConfig(), store, nil)

	if err := r.Rebalance(context.Background()); err != nil {
		t.Fatalf("Rebalance: %v", err)
	}
	want := decimal.NewFromInt(1020)
	if !store.levelWritten.Equal(want) {
		t.Errorf("level = %s, want %s", store.levelWritten, want)
	}
	if store.retWritten != 0.02 {
		t.Errorf("ret_daily = %v, want 0.02", store.retWritten)
	}
}

func TestRebalance_EqualWeights(t *testing.T) {
	store := &memIndexStore{top: []string{"AAPL", "MSFT", "NVDA", "AMD"}}
	r := New(testConfig(), store, nil)

	if err := r.Rebalance(context.Background()); err != nil {
		t.Fatalf("Rebalance: %v", err)
	}
	if len(store.members) != 4 {
		t.Fatalf("got %d members, want 4", len(store.members))
	}
	var total float64
	for _, c := range store.members {
		if math.Abs(c.Weight-0.25) > 1e-12 {
			t.Errorf("%s weight = %v, want 0.25", c.Ticker, c.Weight)
		}
		total += c.Weight
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", total)
	}
}

func TestRebalance_NoScoresSkipsDay(t *testing.T) {
	store := &memIndexStore{top: nil, hasLevel: true, lastLevel: decimal.NewFromInt(1100)}
	r := New(testConfig(), store, nil)

	if err := r.Rebalance(context.Background()); err != nil {
		t.Fatalf("Rebalance: %v", err)
	}
	if store.members != nil {
		t.Errorf("membership replaced with %v, want untouched", store.members)
	}
	if !store.levelWritten.IsZero() {
		t.Errorf("level written (%s), want day skipped", store.levelWritten)
	}
}
