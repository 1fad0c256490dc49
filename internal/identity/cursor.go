package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-pipeline/internal/model"
)

type cursorRow struct {
	MaxDate time.Time `ch:"max_date"`
	N       uint64    `ch:"n"`
}

// MaxLoadedDate returns the latest canonical daily-bar date already stored
// for (instrument, source), or ok=false when no history exists yet. This is
// the sole input to the incremental-vs-full-history decision.
func (r *Resolver) MaxLoadedDate(ctx context.Context, instrumentID uuid.UUID, source string) (time.Time, bool, error) {
	var rows []cursorRow
	err := r.st.Select(ctx, &rows, `
		SELECT max(date) AS max_date, count() AS n
		FROM market_data.daily_prices
		WHERE instrument_id = ? AND source = ?`,
		instrumentID, source,
	)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query cursor for %s: %w", instrumentID, err)
	}
	if len(rows) == 0 || rows[0].N == 0 {
		return time.Time{}, false, nil
	}
	return model.Day(rows[0].MaxDate), true, nil
}
