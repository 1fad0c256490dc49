package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {"symbol": "NESN.SW", "exchangeName": "EBS", "currency": "CHF"},
			"timestamp": [1704153600, 1704240000, 1704326400],
			"indicators": {
				"quote": [{
					"open":   [100.0, 101.5, null],
					"high":   [102.0, 103.0, null],
					"low":    [99.5,  100.5, null],
					"close":  [101.0, 102.5, null],
					"volume": [1000000, 1200000, null]
				}],
				"adjclose": [{"adjclose": [99.0, 100.4, null]}]
			}
		}],
		"error": null
	}
}`

func TestGetDailyBars(t *testing.T) {
	var gotPath, gotRange string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, WithRetries(1, time.Millisecond))
	bars, err := client.GetDailyBars(context.Background(), "NESN.SW", time.Time{})
	if err != nil {
		t.Fatalf("GetDailyBars: %v", err)
	}

	if gotPath != "/v8/finance/chart/NESN.SW" {
		t.Errorf("path = %s", gotPath)
	}
	if gotRange != "max" {
		t.Errorf("range = %s, want max", gotRange)
	}

	// The third row has a null close and must be dropped.
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[0].Open != 100.0 || bars[0].Close != 101.0 {
		t.Errorf("bar[0] = %+v", bars[0])
	}
	if bars[0].AdjClose != 99.0 {
		t.Errorf("AdjClose = %v, want 99.0", bars[0].AdjClose)
	}
	if bars[0].Volume != 1000000 {
		t.Errorf("Volume = %d", bars[0].Volume)
	}
	if !bars[1].Timestamp.Equal(time.Unix(1704240000, 0).UTC()) {
		t.Errorf("Timestamp = %v", bars[1].Timestamp)
	}
}

func TestGetDailyBarsSinceDate(t *testing.T) {
	var gotPeriod1 string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPeriod1 = r.URL.Query().Get("period1")
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	client := NewClient(server.URL, nil, WithRetries(1, time.Millisecond))
	if _, err := client.GetDailyBars(context.Background(), "AAPL", start); err != nil {
		t.Fatalf("GetDailyBars: %v", err)
	}

	if want := "1704153600"; gotPeriod1 != want {
		t.Errorf("period1 = %s, want %s", gotPeriod1, want)
	}
}

func TestGetDailyBarsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, WithRetries(1, time.Millisecond))
	if _, err := client.GetDailyBars(context.Background(), "GONE", time.Time{}); err == nil {
		t.Fatal("expected error from chart error payload")
	}
}

func TestGetSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"price": {"symbol": "NESN.SW", "quoteType": "EQUITY", "shortName": "Nestle SA", "exchange": "EBS", "currency": "CHF"},
					"assetProfile": {"country": "Switzerland", "sector": "Consumer Defensive", "industry": "Packaged Foods"},
					"quoteType": {"isin": "CH0038863350"}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, WithRetries(1, time.Millisecond))
	sum, err := client.GetSummary(context.Background(), "NESN.SW")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if sum.QuoteType != "EQUITY" {
		t.Errorf("QuoteType = %s", sum.QuoteType)
	}
	if sum.ShortName != "Nestle SA" {
		t.Errorf("ShortName = %s", sum.ShortName)
	}
	if sum.Country != "Switzerland" {
		t.Errorf("Country = %s", sum.Country)
	}
	if sum.ISIN != "CH0038863350" {
		t.Errorf("ISIN = %s", sum.ISIN)
	}
}

func TestGetStatements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("modules"); got != ModuleBalanceAnnual {
			t.Errorf("modules = %s", got)
		}
		w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"balanceSheetHistory": {
						"balanceSheetStatements": [
							{
								"endDate": {"raw": 1703980800, "fmt": "2023-12-31"},
								"totalAssets": {"raw": 352583000000},
								"totalLiab": {"raw": 290437000000},
								"maxAge": 1
							},
							{
								"endDate": {"raw": 1672444800, "fmt": "2022-12-31"},
								"totalAssets": {"raw": 352755000000}
							}
						],
						"maxAge": 86400
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, WithRetries(1, time.Millisecond))
	rows, err := client.GetStatements(context.Background(), "AAPL", ModuleBalanceAnnual)
	if err != nil {
		t.Fatalf("GetStatements: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if want := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC); !rows[0].EndDate.Equal(want) {
		t.Errorf("EndDate = %v, want %v", rows[0].EndDate, want)
	}
	if rows[0].Metrics["totalAssets"] != 352583000000 {
		t.Errorf("totalAssets = %v", rows[0].Metrics["totalAssets"])
	}
	// Sparse bag: metrics the provider omitted stay absent.
	if _, ok := rows[1].Metrics["totalLiab"]; ok {
		t.Error("totalLiab should be absent from 2022 row")
	}
}

func TestChartRetryOn429(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, WithRetries(2, time.Millisecond))
	bars, err := client.GetDailyBars(context.Background(), "AAPL", time.Time{})
	if err != nil {
		t.Fatalf("GetDailyBars: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("got %d bars", len(bars))
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want 2", got)
	}
}

func TestChartNotFoundNoRetry(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, WithRetries(5, time.Millisecond))
	if _, err := client.GetDailyBars(context.Background(), "GONE", time.Time{}); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1", got)
	}
}
