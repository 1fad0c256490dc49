package macro

import (
	"context"
	"fmt"

	"github.com/rickgao/market-pipeline/internal/store"
)

type universeRow struct {
	SeriesID string `ch:"series_id"`
}

// ListActiveSeries returns the active series ids from the universe table,
// ordered by priority then id. An empty result is not an error; callers fall
// back to their configured list.
func ListActiveSeries(ctx context.Context, st store.Store) ([]string, error) {
	var rows []universeRow
	err := st.Select(ctx, &rows, `
		SELECT series_id
		FROM economic_data.v_fred_series_universe_current
		WHERE is_active = 1
		ORDER BY priority, series_id`)
	if err != nil {
		return nil, fmt.Errorf("list active series: %w", err)
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.SeriesID
	}
	return ids, nil
}
