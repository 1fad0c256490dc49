package rollup

import (
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-pipeline/internal/model"
)

// State accumulates daily bars into one bucket aggregate. Merge is
// commutative and associative, so bars may arrive in any order and partial
// states may be combined freely.
type State struct {
	seen bool

	firstDate time.Time
	lastDate  time.Time

	open     float64
	close    float64
	high     float64
	low      float64
	adjClose float64
	volume   uint64
}

// Add folds one daily bar into the state.
func (s *State) Add(bar model.DailyBar) {
	if !s.seen {
		s.seen = true
		s.firstDate = bar.Date
		s.lastDate = bar.Date
		s.open = bar.Open
		s.close = bar.Close
		s.high = bar.High
		s.low = bar.Low
		s.adjClose = bar.AdjClose
		s.volume = bar.Volume
		return
	}

	if bar.Date.Before(s.firstDate) {
		s.firstDate = bar.Date
		s.open = bar.Open
	}
	if bar.Date.After(s.lastDate) {
		s.lastDate = bar.Date
		s.close = bar.Close
		s.adjClose = bar.AdjClose
	}
	if bar.High > s.high {
		s.high = bar.High
	}
	if bar.Low < s.low {
		s.low = bar.Low
	}
	s.volume += bar.Volume
}

// Merge folds another state into this one.
func (s *State) Merge(o State) {
	if !o.seen {
		return
	}
	if !s.seen {
		*s = o
		return
	}

	if o.firstDate.Before(s.firstDate) {
		s.firstDate = o.firstDate
		s.open = o.open
	}
	if o.lastDate.After(s.lastDate) {
		s.lastDate = o.lastDate
		s.close = o.close
		s.adjClose = o.adjClose
	}
	if o.high > s.high {
		s.high = o.high
	}
	if o.low < s.low {
		s.low = o.low
	}
	s.volume += o.volume
}

// Empty reports whether no bar has been added.
func (s State) Empty() bool { return !s.seen }

// Bar finalizes the state into a rollup row. BucketEnd is the last observed
// date, not the calendar boundary.
func (s State) Bar(instrumentID uuid.UUID, source string, bucketStart, builtAt time.Time) model.RollupBar {
	return model.RollupBar{
		InstrumentID: instrumentID,
		Source:       source,
		BucketStart:  bucketStart,
		BucketEnd:    s.lastDate,
		Open:         s.open,
		Close:        s.close,
		High:         s.high,
		Low:          s.low,
		AdjClose:     s.adjClose,
		Volume:       s.volume,
		BuiltAt:      builtAt,
	}
}
