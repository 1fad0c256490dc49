package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-pipeline/internal/model"
)

// fakeStore scripts Select responses and records writes.
type fakeStore struct {
	// ids is consumed one element per lookup; nil elements mean "not found".
	ids     []*uuid.UUID
	cursors []cursorRow

	execs     []string
	execArgs  [][]any
	execErr   error
	selectErr error
}

func (f *fakeStore) Exec(ctx context.Context, query string, args ...any) error {
	f.execs = append(f.execs, query)
	f.execArgs = append(f.execArgs, args)
	return f.execErr
}

func (f *fakeStore) Select(ctx context.Context, dest any, query string, args ...any) error {
	if f.selectErr != nil {
		return f.selectErr
	}
	switch d := dest.(type) {
	case *[]idRow:
		if len(f.ids) == 0 {
			return errors.New("fakeStore: no scripted lookup result")
		}
		next := f.ids[0]
		f.ids = f.ids[1:]
		if next != nil {
			*d = []idRow{{InstrumentID: *next}}
		}
	case *[]cursorRow:
		*d = f.cursors
	default:
		return errors.New("fakeStore: unexpected dest type")
	}
	return nil
}

func (f *fakeStore) BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) error {
	return nil
}
func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

func (f *fakeStore) insertCount() int {
	n := 0
	for _, q := range f.execs {
		if strings.Contains(q, "INSERT INTO meta_data.instruments") {
			n++
		}
	}
	return n
}

func TestGetOrCreateInstrumentID_Existing(t *testing.T) {
	want := uuid.New()
	f := &fakeStore{ids: []*uuid.UUID{&want}}
	r := NewResolver(f, nil)

	got, err := r.GetOrCreateInstrumentID(context.Background(),
		model.AssetEquity, "AAPL", "XNAS", "NASDAQ", "Apple Inc.", "yfinance")
	if err != nil {
		t.Fatalf("GetOrCreateInstrumentID: %v", err)
	}
	if got != want {
		t.Errorf("id = %s, want %s", got, want)
	}
	if n := f.insertCount(); n != 0 {
		t.Errorf("inserts = %d, want 0 for existing instrument", n)
	}
}

func TestGetOrCreateInstrumentID_CreatesOnce(t *testing.T) {
	created := uuid.New()
	// First lookup misses, post-insert re-read finds the generated id.
	f := &fakeStore{ids: []*uuid.UUID{nil, &created}}
	r := NewResolver(f, nil)

	got, err := r.GetOrCreateInstrumentID(context.Background(),
		model.AssetETF, "SPY", "US__", "USA", "SPDR S&P 500", "yfinance")
	if err != nil {
		t.Fatalf("GetOrCreateInstrumentID: %v", err)
	}
	if got != created {
		t.Errorf("id = %s, want %s", got, created)
	}
	if n := f.insertCount(); n != 1 {
		t.Errorf("inserts = %d, want exactly 1", n)
	}

	// The insert carries the symbol/venue fields, never an id: the store
	// generates identifiers.
	args := f.execArgs[0]
	if len(args) != 6 {
		t.Fatalf("insert args = %d, want 6", len(args))
	}
	if args[0] != "etf" || args[1] != "SPY" || args[2] != "US__" {
		t.Errorf("insert args = %v", args)
	}
}

func TestGetOrCreateInstrumentID_ReReadFailureIsFatal(t *testing.T) {
	// Insert succeeds but the re-read still finds nothing.
	f := &fakeStore{ids: []*uuid.UUID{nil, nil}}
	r := NewResolver(f, nil)

	_, err := r.GetOrCreateInstrumentID(context.Background(),
		model.AssetEquity, "GHOST", "US__", "USA", "", "yfinance")
	if !errors.Is(err, ErrNotPersisted) {
		t.Errorf("err = %v, want ErrNotPersisted", err)
	}
}

func TestGetOrCreateInstrumentID_InsertError(t *testing.T) {
	f := &fakeStore{ids: []*uuid.UUID{nil}, execErr: errors.New("write refused")}
	r := NewResolver(f, nil)

	_, err := r.GetOrCreateInstrumentID(context.Background(),
		model.AssetEquity, "AAPL", "XNAS", "NASDAQ", "", "yfinance")
	if err == nil {
		t.Fatal("err = nil, want insert failure")
	}
	if errors.Is(err, ErrNotPersisted) {
		t.Error("insert failure must not be reported as a re-read miss")
	}
}

func TestUpsertMetadata(t *testing.T) {
	f := &fakeStore{}
	r := NewResolver(f, nil)

	meta := model.InstrumentMeta{
		InstrumentID: uuid.New(),
		ISIN:         "US0378331005",
		Currency:     "USD",
		Country:      "United States",
		Sector:       "Technology",
		Source:       "yfinance",
	}
	if err := r.UpsertMetadata(context.Background(), meta); err != nil {
		t.Fatalf("UpsertMetadata: %v", err)
	}
	if len(f.execs) != 1 || !strings.Contains(f.execs[0], "meta_data.equities_etfs") {
		t.Errorf("execs = %v, want one metadata insert", f.execs)
	}
}

func TestMaxLoadedDate(t *testing.T) {
	id := uuid.New()

	t.Run("cursor present", func(t *testing.T) {
		f := &fakeStore{cursors: []cursorRow{{
			MaxDate: time.Date(2024, 1, 3, 14, 30, 0, 0, time.UTC), // store may return a datetime
			N:       3,
		}}}
		r := NewResolver(f, nil)

		got, ok, err := r.MaxLoadedDate(context.Background(), id, "yfinance")
		if err != nil {
			t.Fatalf("MaxLoadedDate: %v", err)
		}
		if !ok {
			t.Fatal("ok = false, want cursor")
		}
		want := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("cursor = %v, want %v (normalized to midnight)", got, want)
		}
	})

	t.Run("no history", func(t *testing.T) {
		// Aggregation over zero rows: count()==0 means the max is meaningless.
		f := &fakeStore{cursors: []cursorRow{{N: 0}}}
		r := NewResolver(f, nil)

		_, ok, err := r.MaxLoadedDate(context.Background(), id, "yfinance")
		if err != nil {
			t.Fatalf("MaxLoadedDate: %v", err)
		}
		if ok {
			t.Error("ok = true, want false with no rows")
		}
	})

	t.Run("query error", func(t *testing.T) {
		f := &fakeStore{selectErr: errors.New("store down")}
		r := NewResolver(f, nil)

		if _, _, err := r.MaxLoadedDate(context.Background(), id, "yfinance"); err == nil {
			t.Error("err = nil, want store error")
		}
	})
}
