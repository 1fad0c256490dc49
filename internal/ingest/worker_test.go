package ingest

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-pipeline/internal/batch"
	"github.com/rickgao/market-pipeline/internal/loader"
	"github.com/rickgao/market-pipeline/internal/model"
	"github.com/rickgao/market-pipeline/internal/yahoo"
)

type insertCall struct {
	table   string
	columns []string
	rows    [][]any
}

type fakeStore struct {
	inserts []insertCall
}

func (f *fakeStore) Exec(ctx context.Context, query string, args ...any) error { return nil }
func (f *fakeStore) Select(ctx context.Context, dest any, query string, args ...any) error {
	return nil
}

func (f *fakeStore) BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) error {
	f.inserts = append(f.inserts, insertCall{table: table, columns: columns, rows: rows})
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

type fakeMarket struct {
	bars       []yahoo.Bar
	barsErr    error
	summary    *yahoo.Summary
	summaryErr error

	gotStart time.Time
	barCalls int
}

func (f *fakeMarket) GetDailyBars(ctx context.Context, symbol string, start time.Time) ([]yahoo.Bar, error) {
	f.barCalls++
	f.gotStart = start
	return f.bars, f.barsErr
}

func (f *fakeMarket) GetSummary(ctx context.Context, symbol string) (*yahoo.Summary, error) {
	return f.summary, f.summaryErr
}

type identityCall struct {
	assetClass model.AssetClass
	symbol     string
	mic        string
	exchange   string
	shortName  string
}

type fakeIdentities struct {
	id        uuid.UUID
	idErr     error
	cursor    time.Time
	hasCursor bool
	cursorErr error

	idCalls   []identityCall
	metaCalls []model.InstrumentMeta
}

func (f *fakeIdentities) GetOrCreateInstrumentID(ctx context.Context, assetClass model.AssetClass, symbol, mic, exchange, shortName, source string) (uuid.UUID, error) {
	f.idCalls = append(f.idCalls, identityCall{
		assetClass: assetClass, symbol: symbol, mic: mic,
		exchange: exchange, shortName: shortName,
	})
	return f.id, f.idErr
}

func (f *fakeIdentities) UpsertMetadata(ctx context.Context, meta model.InstrumentMeta) error {
	f.metaCalls = append(f.metaCalls, meta)
	return nil
}

func (f *fakeIdentities) MaxLoadedDate(ctx context.Context, instrumentID uuid.UUID, source string) (time.Time, bool, error) {
	return f.cursor, f.hasCursor, f.cursorErr
}

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestWorker(market MarketData, ids Identities, st *fakeStore, backfill bool) *Worker {
	w := NewWorker(market, ids, loader.New(st, slog.Default()),
		batch.FixedGenerator("batch-1"), "yfinance", backfill, nil)
	w.now = func() time.Time { return testNow }
	return w
}

func TestCleanBars(t *testing.T) {
	id := uuid.New()
	at := testNow

	bars := []yahoo.Bar{
		{Timestamp: time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, AdjClose: 1.4, Volume: 100},
		{Timestamp: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 2, Volume: -5},
		{Timestamp: time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC), Close: 3},
		{Timestamp: time.Date(2150, 1, 1, 0, 0, 0, 0, time.UTC), Close: 4},
		{},
	}

	out := CleanBars(id, "yfinance", "b1", at, bars)

	if len(out) != 2 {
		t.Fatalf("got %d bars, want 2", len(out))
	}
	if want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC); !out[0].Date.Equal(want) {
		t.Errorf("date = %v, want UTC midnight %v", out[0].Date, want)
	}
	if out[1].Volume != 0 {
		t.Errorf("negative volume clamped to %d, want 0", out[1].Volume)
	}
}

func TestIngestSymbolFullHistory(t *testing.T) {
	id := uuid.New()
	market := &fakeMarket{
		bars: []yahoo.Bar{
			{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, AdjClose: 1.4, Volume: 100},
			{Timestamp: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 1.5, High: 2.5, Low: 1, Close: 2, AdjClose: 1.9, Volume: 200},
		},
		summary: &yahoo.Summary{
			QuoteType: "ETF", ShortName: "Test Fund", Exchange: "NYQ",
			Currency: "USD", ISIN: "US0000000000",
		},
	}
	ids := &fakeIdentities{id: id}
	st := &fakeStore{}
	w := newTestWorker(market, ids, st, false)

	n, err := w.IngestSymbol(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("IngestSymbol: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d rows, want 2", n)
	}

	if !market.gotStart.IsZero() {
		t.Errorf("start = %v, want zero (full history)", market.gotStart)
	}

	call := ids.idCalls[0]
	if call.assetClass != model.AssetETF {
		t.Errorf("asset class = %s, want etf", call.assetClass)
	}
	if call.mic != "XNYS" {
		t.Errorf("mic = %s, want XNYS (provider code NYQ)", call.mic)
	}
	if call.shortName != "Test Fund" {
		t.Errorf("short name = %s", call.shortName)
	}

	if len(ids.metaCalls) != 1 || ids.metaCalls[0].ISIN != "US0000000000" {
		t.Errorf("metadata calls = %+v", ids.metaCalls)
	}

	if st.inserts[0].table != dailyPricesTable {
		t.Errorf("table = %s", st.inserts[0].table)
	}
}

func TestIngestSymbolIncrementalWindow(t *testing.T) {
	market := &fakeMarket{
		bars:    []yahoo.Bar{{Timestamp: time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), Close: 1}},
		summary: &yahoo.Summary{QuoteType: "EQUITY"},
	}
	ids := &fakeIdentities{
		id:        uuid.New(),
		cursor:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		hasCursor: true,
	}
	w := newTestWorker(market, ids, &fakeStore{}, false)

	if _, err := w.IngestSymbol(context.Background(), "AAPL"); err != nil {
		t.Fatalf("IngestSymbol: %v", err)
	}

	want := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	if !market.gotStart.Equal(want) {
		t.Errorf("start = %v, want cursor+1d %v", market.gotStart, want)
	}
}

func TestIngestSymbolUpToDate(t *testing.T) {
	market := &fakeMarket{summary: &yahoo.Summary{QuoteType: "EQUITY"}}
	ids := &fakeIdentities{
		id:        uuid.New(),
		cursor:    model.Day(testNow), // cursor already at today
		hasCursor: true,
	}
	st := &fakeStore{}
	w := newTestWorker(market, ids, st, false)

	n, err := w.IngestSymbol(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("IngestSymbol: %v", err)
	}
	if n != 0 {
		t.Errorf("wrote %d rows, want 0", n)
	}
	if market.barCalls != 0 {
		t.Errorf("provider saw %d bar calls, want 0", market.barCalls)
	}
	if len(st.inserts) != 0 {
		t.Errorf("store saw %d inserts, want 0", len(st.inserts))
	}
}

func TestIngestSymbolBackfillIgnoresCursor(t *testing.T) {
	market := &fakeMarket{
		bars:    []yahoo.Bar{{Timestamp: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), Close: 1}},
		summary: &yahoo.Summary{QuoteType: "EQUITY"},
	}
	ids := &fakeIdentities{
		id:        uuid.New(),
		cursor:    model.Day(testNow),
		hasCursor: true,
	}
	w := newTestWorker(market, ids, &fakeStore{}, true)

	if _, err := w.IngestSymbol(context.Background(), "AAPL"); err != nil {
		t.Fatalf("IngestSymbol: %v", err)
	}
	if !market.gotStart.IsZero() {
		t.Errorf("start = %v, want zero in backfill mode", market.gotStart)
	}
}

func TestIngestSymbolNoData(t *testing.T) {
	market := &fakeMarket{summary: &yahoo.Summary{QuoteType: "EQUITY"}}
	ids := &fakeIdentities{id: uuid.New()}
	w := newTestWorker(market, ids, &fakeStore{}, false)

	_, err := w.IngestSymbol(context.Background(), "GONE")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestIngestSymbolSummaryFailureFallsBack(t *testing.T) {
	market := &fakeMarket{
		bars:       []yahoo.Bar{{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 1}},
		summaryErr: errors.New("quote summary down"),
	}
	ids := &fakeIdentities{id: uuid.New()}
	w := newTestWorker(market, ids, &fakeStore{}, false)

	n, err := w.IngestSymbol(context.Background(), "NESN.SW")
	if err != nil {
		t.Fatalf("IngestSymbol: %v", err)
	}
	if n != 1 {
		t.Errorf("wrote %d rows, want 1", n)
	}

	// Venue falls back to the symbol suffix; no metadata is written.
	call := ids.idCalls[0]
	if call.mic != "XSWX" {
		t.Errorf("mic = %s, want XSWX", call.mic)
	}
	if call.assetClass != model.AssetEquity {
		t.Errorf("asset class = %s, want equity", call.assetClass)
	}
	if len(ids.metaCalls) != 0 {
		t.Errorf("metadata calls = %d, want 0", len(ids.metaCalls))
	}
}

type fakeApplier struct {
	bars []model.DailyBar
	err  error
}

func (f *fakeApplier) Apply(ctx context.Context, bars []model.DailyBar) (int, error) {
	f.bars = append(f.bars, bars...)
	return len(bars), f.err
}

type fakeStatements struct {
	symbols    []string
	currencies []string
}

func (f *fakeStatements) IngestSymbol(ctx context.Context, symbol, currency string) (int, error) {
	f.symbols = append(f.symbols, symbol)
	f.currencies = append(f.currencies, currency)
	return 1, nil
}

func TestIngestSymbolDerivesRollups(t *testing.T) {
	market := &fakeMarket{
		bars: []yahoo.Bar{
			{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 1, Volume: 10},
			{Timestamp: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 2, Volume: 20},
		},
		summary: &yahoo.Summary{QuoteType: "EQUITY", Currency: "USD"},
	}
	ids := &fakeIdentities{id: uuid.New()}
	applier := &fakeApplier{}
	stmts := &fakeStatements{}

	w := NewWorker(market, ids, loader.New(&fakeStore{}, slog.Default()),
		batch.FixedGenerator("batch-1"), "yfinance", false, nil,
		WithRollups(applier), WithFundamentals(stmts))
	w.now = func() time.Time { return testNow }

	if _, err := w.IngestSymbol(context.Background(), "AAPL"); err != nil {
		t.Fatalf("IngestSymbol: %v", err)
	}

	if len(applier.bars) != 2 {
		t.Errorf("rollup applier saw %d bars, want 2", len(applier.bars))
	}
	if len(stmts.symbols) != 1 || stmts.symbols[0] != "AAPL" {
		t.Errorf("statement ingestor saw %v", stmts.symbols)
	}
	if stmts.currencies[0] != "USD" {
		t.Errorf("currency = %s, want USD from summary", stmts.currencies[0])
	}
}

func TestIngestSymbolRollupFailureIsFatal(t *testing.T) {
	market := &fakeMarket{
		bars:    []yahoo.Bar{{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 1}},
		summary: &yahoo.Summary{QuoteType: "EQUITY"},
	}
	ids := &fakeIdentities{id: uuid.New()}
	applier := &fakeApplier{err: errors.New("store down")}

	w := NewWorker(market, ids, loader.New(&fakeStore{}, slog.Default()),
		batch.FixedGenerator("batch-1"), "yfinance", false, nil,
		WithRollups(applier))
	w.now = func() time.Time { return testNow }

	if _, err := w.IngestSymbol(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error when rollup derivation fails")
	}
}

func TestIngestSymbolIdentityFailureIsFatal(t *testing.T) {
	market := &fakeMarket{summary: &yahoo.Summary{QuoteType: "EQUITY"}}
	ids := &fakeIdentities{idErr: errors.New("store down")}
	w := newTestWorker(market, ids, &fakeStore{}, false)

	if _, err := w.IngestSymbol(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error")
	}
}
