package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Summary is the subset of quote-summary fields the pipeline consumes.
type Summary struct {
	Symbol    string
	QuoteType string // EQUITY | ETF | ...
	ShortName string
	Exchange  string // Provider exchange code (NMS, NYQ, PNK, ...)
	Currency  string
	Country   string
	Sector    string
	Industry  string
	ISIN      string
	FIGI      string
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *chartError          `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price struct {
		Symbol       string `json:"symbol"`
		QuoteType    string `json:"quoteType"`
		ShortName    string `json:"shortName"`
		LongName     string `json:"longName"`
		Exchange     string `json:"exchange"`
		ExchangeName string `json:"exchangeName"`
		Currency     string `json:"currency"`
	} `json:"price"`
	AssetProfile struct {
		Country  string `json:"country"`
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"assetProfile"`
	QuoteType struct {
		Isin string `json:"isin"`
		Figi string `json:"figi"`
	} `json:"quoteType"`
}

// GetSummary fetches reference metadata for one symbol.
func (c *Client) GetSummary(ctx context.Context, symbol string) (*Summary, error) {
	query := url.Values{}
	query.Set("modules", strings.Join([]string{"price", "assetProfile", "quoteType"}, ","))

	var resp quoteSummaryResponse
	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("get summary %s: %w", symbol, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("get summary %s: %s: %s",
			symbol, resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("get summary %s: empty result", symbol)
	}

	res := resp.QuoteSummary.Result[0]
	name := res.Price.ShortName
	if name == "" {
		name = res.Price.LongName
	}

	return &Summary{
		Symbol:    res.Price.Symbol,
		QuoteType: res.Price.QuoteType,
		ShortName: name,
		Exchange:  res.Price.Exchange,
		Currency:  res.Price.Currency,
		Country:   res.AssetProfile.Country,
		Sector:    res.AssetProfile.Sector,
		Industry:  res.AssetProfile.Industry,
		ISIN:      res.QuoteType.Isin,
		FIGI:      res.QuoteType.Figi,
	}, nil
}
