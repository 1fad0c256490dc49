package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Bar is one raw daily candle from the chart endpoint. Timestamps are the
// provider's trading-day epochs; callers normalize to UTC dates.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	AdjClose  float64
	Volume    int64
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol           string `json:"symbol"`
		ExchangeName     string `json:"exchangeName"`
		FullExchangeName string `json:"fullExchangeName"`
		InstrumentType   string `json:"instrumentType"`
		Currency         string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// GetDailyBars fetches daily candles for symbol. A zero start requests the
// provider's full history; otherwise the window is [start, now]. Rows with a
// null close are dropped (non-trading placeholders).
func (c *Client) GetDailyBars(ctx context.Context, symbol string, start time.Time) ([]Bar, error) {
	query := url.Values{}
	query.Set("interval", "1d")
	query.Set("events", "div,splits")
	if start.IsZero() {
		query.Set("range", "max")
	} else {
		query.Set("period1", strconv.FormatInt(start.Unix(), 10))
		query.Set("period2", strconv.FormatInt(time.Now().Unix(), 10))
	}

	var resp chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), query, &resp); err != nil {
		return nil, fmt.Errorf("get chart %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("get chart %s: %s: %s",
			symbol, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("get chart %s: empty result", symbol)
	}

	return flattenChart(&resp.Chart.Result[0]), nil
}

func flattenChart(res *chartResult) []Bar {
	if len(res.Indicators.Quote) == 0 {
		return nil
	}
	quote := res.Indicators.Quote[0]

	var adj []*float64
	if len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		bar := Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *quote.Close[i],
			AdjClose:  *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		if i < len(adj) && adj[i] != nil {
			bar.AdjClose = *adj[i]
		}

		bars = append(bars, bar)
	}

	return bars
}
