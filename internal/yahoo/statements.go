package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// Statement modules exposed by the quote-summary endpoint.
const (
	ModuleIncomeAnnual      = "incomeStatementHistory"
	ModuleIncomeQuarterly   = "incomeStatementHistoryQuarterly"
	ModuleBalanceAnnual     = "balanceSheetHistory"
	ModuleBalanceQuarterly  = "balanceSheetHistoryQuarterly"
	ModuleCashflowAnnual    = "cashflowStatementHistory"
	ModuleCashflowQuarterly = "cashflowStatementHistoryQuarterly"
)

// StatementRow is one fiscal period of a statement as a sparse metric bag.
// Metric names are the provider's camelCase keys; only numeric fields the
// provider actually reported are present.
type StatementRow struct {
	EndDate time.Time
	Metrics map[string]float64
}

// rawValue is the provider's {"raw": n, "fmt": "..."} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type statementResponse struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *chartError                  `json:"error"`
	} `json:"quoteSummary"`
}

// GetStatements fetches one statement module for a symbol and flattens each
// fiscal period into a metric bag.
func (c *Client) GetStatements(ctx context.Context, symbol, module string) ([]StatementRow, error) {
	query := url.Values{}
	query.Set("modules", module)

	var resp statementResponse
	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("get %s %s: %w", module, symbol, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("get %s %s: %s: %s",
			module, symbol, resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	raw, ok := resp.QuoteSummary.Result[0][module]
	if !ok {
		return nil, nil
	}

	return parseStatementModule(raw)
}

// parseStatementModule digs the period array out of a module payload. The
// inner list key varies by module (e.g. balanceSheetHistory wraps
// "balanceSheetStatements"), so we take the first array-valued field.
func parseStatementModule(raw json.RawMessage) ([]StatementRow, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal statement module: %w", err)
	}

	var periods []map[string]json.RawMessage
	for _, v := range wrapper {
		if len(v) > 0 && v[0] == '[' {
			if err := json.Unmarshal(v, &periods); err != nil {
				return nil, fmt.Errorf("unmarshal statement periods: %w", err)
			}
			break
		}
	}

	rows := make([]StatementRow, 0, len(periods))
	for _, period := range periods {
		row := StatementRow{Metrics: make(map[string]float64)}

		for key, val := range period {
			var rv rawValue
			if err := json.Unmarshal(val, &rv); err != nil || rv.Raw == nil {
				continue
			}
			if key == "endDate" {
				row.EndDate = time.Unix(int64(*rv.Raw), 0).UTC()
				continue
			}
			row.Metrics[key] = *rv.Raw
		}

		if row.EndDate.IsZero() || len(row.Metrics) == 0 {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
