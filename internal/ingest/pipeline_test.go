package ingest

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/justin-napolitano/finance-index-dashboard/internal/config"
	"github.com/justin-napolitano/finance-index-dashboard/internal/model"
	"github.com/justin-napolitano/finance-index-dashboard/internal/pacer"
)

// fakeProvider serves one day of closes for every requested symbol, in
// multi-ticker (ticker, field) shape, and fails any request containing a bad
// symbol.
type fakeProvider struct {
	bad map[string]bool
}

func (f *fakeProvider) Download(ctx context.Context, symbols []string, start, end time.Time) (model.RawResponse, error) {
	for _, s := range symbols {
		if f.bad[s] {
			return model.RawResponse{}, errors.New("upstream choked on symbol")
		}
	}

	table := model.Table{Index: []time.Time{start}}
	for i, s := range symbols {
		table.Columns = append(table.Columns, model.ColumnKey{A: s, B: "Close"})
		v := 100.0 + float64(i)
		table.Values = append(table.Values, []*float64{&v})
	}
	return model.RawResponse{Kind: model.ResponseMultiTicker, Axis: model.AxisTickerField, Table: table}, nil
}

// memStore is an in-memory Store keyed by (ticker, date).
type memStore struct {
	rows        map[string]model.PriceRow
	maxDate     time.Time
	haveData    bool
	tickers     map[string]bool
	runs        []model.RunReport
	failUpsert  bool
	upsertCalls int
}

func newMemStore() *memStore {
	return &memStore{
		rows:    make(map[string]model.PriceRow),
		tickers: make(map[string]bool),
	}
}

func (s *memStore) MaxPriceDate(ctx context.Context) (time.Time, bool, error) {
	return s.maxDate, s.haveData, nil
}

func (s *memStore) EnsureTickers(ctx context.Context, tickers []string) error {
	for _, t := range tickers {
		s.tickers[t] = true
	}
	return nil
}

func (s *memStore) UpsertPrices(ctx context.Context, rows []model.PriceRow) error {
	s.upsertCalls++
	if s.failUpsert {
		return errors.New("constraint violation")
	}
	for _, r := range rows {
		s.rows[r.Ticker+"|"+r.Date.Format("2006-01-02")] = r
	}
	return nil
}

func (s *memStore) RecordRun(ctx context.Context, report model.RunReport) error {
	s.runs = append(s.runs, report)
	return nil
}

func newTestPipeline(client Downloader, store Store, cfg config.FetchConfig) *Pipeline {
	clock := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	p := pacer.NewWithClock(
		pacer.Config{Interval: time.Second, SlowInterval: 6 * time.Second},
		func() time.Time { return clock },
		func(time.Duration) {},
	)
	exec := NewExecutor(client, p, cfg.ThrottleCooldown, nil)
	split := NewSplitter(exec, p, cfg.SplitCooldown, nil)
	split.sleep = func(time.Duration) {}

	pipe := NewPipeline(cfg, split, store, nil)
	pipe.now = func() time.Time { return clock }
	return pipe
}

func testFetchConfig() config.FetchConfig {
	return config.FetchConfig{
		BatchSize:        25,
		Interval:         time.Second,
		SlowInterval:     6 * time.Second,
		ThrottleCooldown: 3 * time.Minute,
		SplitCooldown:    2 * time.Minute,
		LookbackDays:     365,
		Concurrency:      4,
	}
}

func TestPipeline_EmptyUniverseIsNoOp(t *testing.T) {
	store := newMemStore()
	pipe := newTestPipeline(&fakeProvider{}, store, testFetchConfig())

	report, err := pipe.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.RowsIngested != 0 {
		t.Errorf("RowsIngested = %d, want 0", report.RowsIngested)
	}
	if store.upsertCalls != 0 {
		t.Errorf("upsertCalls = %d, want 0", store.upsertCalls)
	}
}

func TestPipeline_IngestsAllTickers(t *testing.T) {
	store := newMemStore()
	pipe := newTestPipeline(&fakeProvider{}, store, testFetchConfig())

	universe := []string{"AAPL", "MSFT", "GOOG"}
	report, err := pipe.Run(context.Background(), universe)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.RowsIngested != 3 {
		t.Errorf("RowsIngested = %d, want 3", report.RowsIngested)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", report.Skipped)
	}
	for _, ticker := range universe {
		if !store.tickers[ticker] {
			t.Errorf("ticker %s not ensured in registry", ticker)
		}
	}
	if len(store.runs) != 1 {
		t.Errorf("recorded runs = %d, want 1", len(store.runs))
	}
}

// Partial-failure containment: one persistently bad ticker in a batch of ten
// must not prevent the other nine from landing.
func TestPipeline_OneBadTickerOfTen(t *testing.T) {
	store := newMemStore()
	pipe := newTestPipeline(&fakeProvider{bad: map[string]bool{"BAD": true}}, store, testFetchConfig())

	universe := []string{"A", "B", "C", "D", "BAD", "F", "G", "H", "I", "J"}
	report, err := pipe.Run(context.Background(), universe)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := report.Skipped; len(got) != 1 || got[0] != "BAD" {
		t.Errorf("Skipped = %v, want [BAD]", got)
	}
	if report.RowsIngested != 9 {
		t.Errorf("RowsIngested = %d, want 9", report.RowsIngested)
	}

	var stored []string
	for key := range store.rows {
		stored = append(stored, key[:1])
	}
	sort.Strings(stored)
	if len(stored) != 9 {
		t.Errorf("stored rows = %d, want 9", len(stored))
	}
}

func TestPipeline_StoreFailureIsFatal(t *testing.T) {
	store := newMemStore()
	store.failUpsert = true
	pipe := newTestPipeline(&fakeProvider{}, store, testFetchConfig())

	_, err := pipe.Run(context.Background(), []string{"AAPL"})
	if err == nil {
		t.Fatal("Run succeeded, want store failure to propagate")
	}
}

func TestPipeline_IncrementalWindowFromStore(t *testing.T) {
	store := newMemStore()
	store.haveData = true
	store.maxDate = time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	pipe := newTestPipeline(&fakeProvider{}, store, testFetchConfig())

	report, err := pipe.Run(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantStart := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	if !report.Window.Start.Equal(wantStart) {
		t.Errorf("Window.Start = %v, want %v", report.Window.Start, wantStart)
	}
	if !report.Window.End.Equal(wantEnd) {
		t.Errorf("Window.End = %v, want %v", report.Window.End, wantEnd)
	}
}

func TestPipeline_ParallelMatchesSequential(t *testing.T) {
	universe := []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	cfg := testFetchConfig()
	cfg.BatchSize = 2

	seqStore := newMemStore()
	seq := newTestPipeline(&fakeProvider{}, seqStore, cfg)
	if _, err := seq.Run(context.Background(), universe); err != nil {
		t.Fatalf("sequential Run failed: %v", err)
	}

	cfg.Parallel = true
	parStore := newMemStore()
	par := newTestPipeline(&fakeProvider{}, parStore, cfg)
	if _, err := par.Run(context.Background(), universe); err != nil {
		t.Fatalf("parallel Run failed: %v", err)
	}

	if len(parStore.rows) != len(seqStore.rows) {
		t.Fatalf("parallel stored %d rows, sequential %d", len(parStore.rows), len(seqStore.rows))
	}
	for key := range seqStore.rows {
		if _, ok := parStore.rows[key]; !ok {
			t.Errorf("parallel run missing row %s", key)
		}
	}
}
