package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/rickgao/market-pipeline/internal/store"
)

// Row is one loadable row. Values must align with the column list passed to
// Load; Key, Date, and IngestedAt duplicate the identity/partition/version
// columns so the loader never inspects Values.
type Row struct {
	Key        string    // Logical identity key (dedup key within the target table)
	Date       time.Time // Drives the partition key
	IngestedAt time.Time // Version; the newest wins on dedup
	Values     []any
}

// PartitionKey derives the year-month partition key for a date, matching the
// store's PARTITION BY toYYYYMM layout.
func PartitionKey(d time.Time) string {
	return d.UTC().Format("200601")
}

// Loader performs partition-grouped bulk writes.
type Loader struct {
	st     store.Store
	logger *slog.Logger
}

// New creates a Loader.
func New(st store.Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{st: st, logger: logger}
}

// Load writes rows into table. Rows are sorted, grouped by partition key, and
// deduplicated per group before one bulk insert per group. Returns the number
// of rows written. Empty input is a no-op returning zero.
func (l *Loader) Load(ctx context.Context, table string, columns []string, rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	// Deterministic dedup: same-key rows become adjacent, oldest first.
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Key != sorted[j].Key {
			return sorted[i].Key < sorted[j].Key
		}
		pi, pj := PartitionKey(sorted[i].Date), PartitionKey(sorted[j].Date)
		if pi != pj {
			return pi < pj
		}
		return sorted[i].IngestedAt.Before(sorted[j].IngestedAt)
	})

	groups := make(map[string][]Row)
	for _, r := range sorted {
		p := PartitionKey(r.Date)
		groups[p] = append(groups[p], r)
	}

	partitions := make([]string, 0, len(groups))
	for p := range groups {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)

	total := 0
	for _, p := range partitions {
		group := dedupe(groups[p])

		values := make([][]any, len(group))
		for i, r := range group {
			values[i] = r.Values
		}

		if err := l.st.BulkInsert(ctx, table, columns, values); err != nil {
			return total, fmt.Errorf("insert partition %s into %s: %w", p, table, err)
		}
		total += len(group)

		l.logger.Debug("partition written",
			"table", table,
			"partition", p,
			"rows", len(group),
		)
	}

	return total, nil
}

// dedupe collapses same-key runs to their last element. Input must be sorted
// by (key, ingested_at ascending), so the survivor carries the newest
// ingestion timestamp.
func dedupe(rows []Row) []Row {
	out := rows[:0:len(rows)]
	for i, r := range rows {
		if i+1 < len(rows) && rows[i+1].Key == r.Key {
			continue
		}
		out = append(out, r)
	}
	return out
}
