package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-pipeline/internal/model"
	"github.com/rickgao/market-pipeline/internal/yahoo"
)

// CleanBars converts raw provider candles into canonical daily bars.
// Dates are normalized to UTC midnight; rows with a zero date or a date
// outside the store's accepted window are dropped, and negative volumes are
// clamped to zero.
func CleanBars(instrumentID uuid.UUID, source, batchID string, ingestedAt time.Time, bars []yahoo.Bar) []model.DailyBar {
	out := make([]model.DailyBar, 0, len(bars))

	for _, b := range bars {
		if b.Timestamp.IsZero() {
			continue
		}
		date := model.Day(b.Timestamp)
		if date.Before(model.MinDate) || date.After(model.MaxDate) {
			continue
		}

		volume := b.Volume
		if volume < 0 {
			volume = 0
		}

		out = append(out, model.DailyBar{
			InstrumentID: instrumentID,
			Date:         date,
			Open:         b.Open,
			High:         b.High,
			Low:          b.Low,
			Close:        b.Close,
			AdjClose:     b.AdjClose,
			Volume:       uint64(volume),
			Source:       source,
			IngestedAt:   ingestedAt,
			BatchID:      batchID,
		})
	}

	return out
}
