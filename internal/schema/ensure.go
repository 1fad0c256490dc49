package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/rickgao/market-pipeline/internal/store"
)

// Statements splits a multi-statement DDL script on ';', dropping blanks.
// The driver executes one statement at a time.
func Statements(script string) []string {
	parts := strings.Split(script, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Apply executes every statement of one script in order.
func Apply(ctx context.Context, st store.Store, script string) error {
	for _, stmt := range Statements(script) {
		if err := st.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

// EnsureAll provisions every database and table the pipeline writes to.
func EnsureAll(ctx context.Context, st store.Store) error {
	for _, script := range []string{MetaDDL, MarketDDL, EconomicDDL, FundamentalDDL, RollupDDL} {
		if err := Apply(ctx, st, script); err != nil {
			return err
		}
	}
	return nil
}
