package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rickgao/market-pipeline/internal/model"
	"github.com/rickgao/market-pipeline/internal/store"
)

// ErrNotPersisted reports that an instrument insert appeared to succeed but
// the immediate re-read found nothing. Callers must not proceed without an
// identity, so this is fatal for the unit of work.
var ErrNotPersisted = errors.New("created instrument not found on re-read")

// Resolver owns instrument identity and metadata writes.
type Resolver struct {
	st     store.Store
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(st store.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{st: st, logger: logger}
}

type idRow struct {
	InstrumentID uuid.UUID `ch:"instrument_id"`
}

// GetOrCreateInstrumentID returns the stable identifier for
// (assetClass, mic, symbol), creating the instrument on first sight.
// Exactly one insert happens per genuinely new instrument; thereafter the
// call is read-only.
func (r *Resolver) GetOrCreateInstrumentID(
	ctx context.Context,
	assetClass model.AssetClass,
	symbol, mic, exchange, shortName, source string,
) (uuid.UUID, error) {
	id, ok, err := r.lookup(ctx, assetClass, symbol, mic)
	if err != nil {
		return uuid.Nil, fmt.Errorf("look up instrument %s/%s/%s: %w", assetClass, mic, symbol, err)
	}
	if ok {
		return id, nil
	}

	err = r.st.Exec(ctx, `
		INSERT INTO meta_data.instruments
		(asset_class, symbol, mic, exchange, short_name, is_active, updated_at, source)
		VALUES (?, ?, ?, ?, ?, 1, now64(3, 'UTC'), ?)`,
		string(assetClass), symbol, mic, exchange, shortName, source,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create instrument %s/%s/%s: %w", assetClass, mic, symbol, err)
	}

	id, ok, err = r.lookup(ctx, assetClass, symbol, mic)
	if err != nil {
		return uuid.Nil, fmt.Errorf("re-read instrument %s/%s/%s: %w", assetClass, mic, symbol, err)
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("instrument %s/%s/%s: %w", assetClass, mic, symbol, ErrNotPersisted)
	}

	r.logger.Info("instrument created",
		"symbol", symbol,
		"asset_class", assetClass,
		"mic", mic,
		"instrument_id", id,
	)
	return id, nil
}

// lookup returns the most recently updated instrument id for the key.
func (r *Resolver) lookup(ctx context.Context, assetClass model.AssetClass, symbol, mic string) (uuid.UUID, bool, error) {
	var rows []idRow
	err := r.st.Select(ctx, &rows, `
		SELECT instrument_id
		FROM meta_data.instruments
		WHERE asset_class = ? AND mic = ? AND symbol = ?
		ORDER BY updated_at DESC
		LIMIT 1`,
		string(assetClass), mic, symbol,
	)
	if err != nil {
		return uuid.Nil, false, err
	}
	if len(rows) == 0 {
		return uuid.Nil, false, nil
	}
	return rows[0].InstrumentID, true, nil
}

// UpsertMetadata inserts a fresh metadata version row for the instrument.
// Called on every ingestion run; readers resolve the current version by the
// newest updated_at.
func (r *Resolver) UpsertMetadata(ctx context.Context, meta model.InstrumentMeta) error {
	err := r.st.Exec(ctx, `
		INSERT INTO meta_data.equities_etfs
		(instrument_id, isin, figi, currency, country, sector, industry, updated_at, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, now64(3, 'UTC'), ?)`,
		meta.InstrumentID, meta.ISIN, meta.FIGI, meta.Currency,
		meta.Country, meta.Sector, meta.Industry, meta.Source,
	)
	if err != nil {
		return fmt.Errorf("upsert metadata for %s: %w", meta.InstrumentID, err)
	}
	return nil
}
