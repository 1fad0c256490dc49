package fundamental

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/market-pipeline/internal/batch"
	"github.com/rickgao/market-pipeline/internal/loader"
	"github.com/rickgao/market-pipeline/internal/model"
	"github.com/rickgao/market-pipeline/internal/yahoo"
)

var lineItemColumns = []string{
	"ticker", "fiscal_date", "period", "metric", "value",
	"currency", "source", "loaded_at", "batch_id",
}

// statementModule binds one statement table to one provider module.
type statementModule struct {
	kind   model.StatementKind
	period model.PeriodKind
	module string
}

var statementModules = []statementModule{
	{model.StatementIncome, model.PeriodAnnual, yahoo.ModuleIncomeAnnual},
	{model.StatementIncome, model.PeriodQuarterly, yahoo.ModuleIncomeQuarterly},
	{model.StatementBalance, model.PeriodAnnual, yahoo.ModuleBalanceAnnual},
	{model.StatementBalance, model.PeriodQuarterly, yahoo.ModuleBalanceQuarterly},
	{model.StatementCashflow, model.PeriodAnnual, yahoo.ModuleCashflowAnnual},
	{model.StatementCashflow, model.PeriodQuarterly, yahoo.ModuleCashflowQuarterly},
}

// Table returns the store table for a statement kind.
func Table(kind model.StatementKind) string {
	return "fundamental_data." + string(kind)
}

// StatementProvider is the slice of the provider API this package consumes.
type StatementProvider interface {
	GetStatements(ctx context.Context, symbol, module string) ([]yahoo.StatementRow, error)
}

// Ingestor pulls financial statements for symbols.
type Ingestor struct {
	provider StatementProvider
	loader   *loader.Loader
	source   string
	logger   *slog.Logger

	now func() time.Time
}

// NewIngestor creates an Ingestor.
func NewIngestor(provider StatementProvider, ld *loader.Loader, source string, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		provider: provider,
		loader:   ld,
		source:   source,
		logger:   logger,
		now:      time.Now,
	}
}

// IngestSymbol fetches every statement kind and period for one symbol and
// returns the number of line items written. Currency tags the written rows
// (statements carry no currency of their own).
func (ing *Ingestor) IngestSymbol(ctx context.Context, symbol, currency string) (int, error) {
	runAt := ing.now().UTC()
	batchID := batch.SeriesID("fundamentals", symbol, runAt)

	byKind := make(map[model.StatementKind][]loader.Row)

	for _, sm := range statementModules {
		stmts, err := ing.provider.GetStatements(ctx, symbol, sm.module)
		if err != nil {
			ing.logger.Warn("statement fetch failed",
				"symbol", symbol,
				"module", sm.module,
				"error", err,
			)
			continue
		}

		items := Flatten(symbol, currency, ing.source, sm.period, batchID, runAt, stmts)
		for _, item := range items {
			byKind[sm.kind] = append(byKind[sm.kind], toRow(item))
		}
	}

	total := 0
	for _, sm := range []model.StatementKind{model.StatementIncome, model.StatementBalance, model.StatementCashflow} {
		rows := byKind[sm]
		if len(rows) == 0 {
			continue
		}

		n, err := ing.loader.Load(ctx, Table(sm), lineItemColumns, rows)
		total += n
		if err != nil {
			return total, fmt.Errorf("load %s for %s: %w", sm, symbol, err)
		}
	}

	ing.logger.Info("statements ingested",
		"symbol", symbol,
		"line_items", total,
		"batch_id", batchID,
	)
	return total, nil
}

// Flatten converts per-period metric bags into long-form line items. Fiscal
// dates are normalized to UTC midnight; periods without a usable date were
// already dropped by the provider layer.
func Flatten(ticker, currency, source string, period model.PeriodKind, batchID string, loadedAt time.Time, stmts []yahoo.StatementRow) []model.LineItem {
	var items []model.LineItem

	for _, stmt := range stmts {
		fiscal := model.Day(stmt.EndDate)
		for metric, value := range stmt.Metrics {
			items = append(items, model.LineItem{
				Ticker:     ticker,
				FiscalDate: fiscal,
				Period:     period,
				Metric:     metric,
				Value:      value,
				Currency:   currency,
				Source:     source,
				LoadedAt:   loadedAt,
				BatchID:    batchID,
			})
		}
	}

	return items
}

func toRow(item model.LineItem) loader.Row {
	return loader.Row{
		Key: fmt.Sprintf("%s|%s|%s|%s",
			item.Ticker, item.FiscalDate.Format("2006-01-02"), item.Period, item.Metric),
		Date:       item.FiscalDate,
		IngestedAt: item.LoadedAt,
		Values: []any{
			item.Ticker, item.FiscalDate, string(item.Period), item.Metric,
			item.Value, item.Currency, item.Source, item.LoadedAt, item.BatchID,
		},
	}
}
