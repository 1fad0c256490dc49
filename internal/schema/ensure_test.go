package schema

import (
	"context"
	"strings"
	"testing"
)

// fakeStore records executed statements.
type fakeStore struct {
	execs []string
}

func (f *fakeStore) Exec(ctx context.Context, query string, args ...any) error {
	f.execs = append(f.execs, query)
	return nil
}

func (f *fakeStore) Select(ctx context.Context, dest any, query string, args ...any) error {
	return nil
}

func (f *fakeStore) BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) error {
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

func TestStatements(t *testing.T) {
	script := `
CREATE DATABASE IF NOT EXISTS a;

CREATE TABLE IF NOT EXISTS a.t (x UInt8) ENGINE = Memory;
`
	stmts := Statements(script)
	if len(stmts) != 2 {
		t.Fatalf("Statements returned %d statements, want 2: %v", len(stmts), stmts)
	}
	if !strings.HasPrefix(stmts[0], "CREATE DATABASE") {
		t.Errorf("first statement = %q", stmts[0])
	}
	for _, s := range stmts {
		if strings.Contains(s, ";") {
			t.Errorf("statement still contains ';': %q", s)
		}
		if strings.TrimSpace(s) == "" {
			t.Error("blank statement not dropped")
		}
	}
}

func TestEnsureAll(t *testing.T) {
	f := &fakeStore{}
	if err := EnsureAll(context.Background(), f); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	if len(f.execs) == 0 {
		t.Fatal("no statements executed")
	}

	var daily, obs, weekly bool
	for _, s := range f.execs {
		if strings.Contains(s, "market_data.daily_prices") {
			daily = true
		}
		if strings.Contains(s, "economic_data.fred_observations") {
			obs = true
		}
		if strings.Contains(s, "market_data.weekly_prices") {
			weekly = true
		}
	}
	if !daily || !obs || !weekly {
		t.Errorf("missing expected tables: daily=%v obs=%v weekly=%v", daily, obs, weekly)
	}
}

func TestDDLInvariants(t *testing.T) {
	// Every time-series table must carry merge-time dedup and month partitioning.
	for _, script := range []string{MarketDDL, EconomicDDL, FundamentalDDL, RollupDDL} {
		for _, stmt := range Statements(script) {
			if !strings.Contains(stmt, "CREATE TABLE") {
				continue
			}
			if !strings.Contains(stmt, "ReplacingMergeTree") {
				t.Errorf("table without merge-time dedup:\n%s", stmt)
			}
			if strings.Contains(stmt, "Date,") && !strings.Contains(stmt, "PARTITION BY toYYYYMM") {
				t.Errorf("dated table without month partitioning:\n%s", stmt)
			}
		}
	}
}
