package schema

// Reference data: instruments and their provider-reported metadata.
const MetaDDL = `
CREATE DATABASE IF NOT EXISTS meta_data;

CREATE TABLE IF NOT EXISTS meta_data.instruments
(
    instrument_id UUID DEFAULT generateUUIDv4(),
    asset_class   LowCardinality(String),
    symbol        String,
    mic           LowCardinality(String),
    exchange      LowCardinality(String),
    short_name    String,
    is_active     UInt8 DEFAULT 1,
    updated_at    DateTime64(3, 'UTC') DEFAULT now64(3, 'UTC'),
    source        LowCardinality(String)
)
ENGINE = ReplacingMergeTree(updated_at)
ORDER BY (asset_class, mic, symbol);

CREATE VIEW IF NOT EXISTS meta_data.v_instruments_current AS
SELECT *
FROM meta_data.instruments
FINAL;

CREATE TABLE IF NOT EXISTS meta_data.equities_etfs
(
    instrument_id UUID,
    isin          String,
    figi          String,
    currency      LowCardinality(String),
    country       LowCardinality(String),
    sector        LowCardinality(String),
    industry      LowCardinality(String),
    updated_at    DateTime64(3, 'UTC') DEFAULT now64(3, 'UTC'),
    source        LowCardinality(String)
)
ENGINE = ReplacingMergeTree(updated_at)
ORDER BY (instrument_id, source);
`

// Canonical daily OHLCV series.
const MarketDDL = `
CREATE DATABASE IF NOT EXISTS market_data;

CREATE TABLE IF NOT EXISTS market_data.daily_prices
(
    instrument_id UUID,
    date          Date,
    open          Float64,
    high          Float64,
    low           Float64,
    close         Float64,
    adj_close     Float64,
    volume        UInt64,
    source        LowCardinality(String),
    ingested_at   DateTime64(3, 'UTC'),
    batch_id      String
)
ENGINE = ReplacingMergeTree(ingested_at)
PARTITION BY toYYYYMM(date)
ORDER BY (instrument_id, date, source);
`

// Macro series universe, metadata, and observations.
const EconomicDDL = `
CREATE DATABASE IF NOT EXISTS economic_data;

CREATE TABLE IF NOT EXISTS economic_data.fred_series_universe
(
    series_id       String,
    is_active       UInt8 DEFAULT 1,
    macro_series_id Nullable(UUID),
    priority        UInt8 DEFAULT 5,
    created_at      DateTime64(3, 'UTC') DEFAULT now64(3, 'UTC'),
    updated_at      DateTime64(3, 'UTC') DEFAULT now64(3, 'UTC'),
    source          LowCardinality(String)
)
ENGINE = ReplacingMergeTree(updated_at)
ORDER BY (is_active, priority, series_id);

CREATE VIEW IF NOT EXISTS economic_data.v_fred_series_universe_current AS
SELECT *
FROM economic_data.fred_series_universe
FINAL;

CREATE TABLE IF NOT EXISTS economic_data.fred_series_meta
(
    series_id                 String,
    title                     String,
    units                     LowCardinality(String),
    units_short               LowCardinality(String),
    frequency                 LowCardinality(String),
    frequency_short           LowCardinality(String),
    seasonal_adjustment       LowCardinality(String),
    seasonal_adjustment_short LowCardinality(String),
    observation_start         Nullable(Date32),
    observation_end           Nullable(Date32),
    last_updated              DateTime64(3, 'UTC'),
    popularity                Int32,
    notes                     String,
    source                    LowCardinality(String) DEFAULT 'fred_api',
    built_at                  DateTime64(3, 'UTC') DEFAULT now64(3, 'UTC'),
    batch_id                  String
)
ENGINE = ReplacingMergeTree(built_at)
ORDER BY (series_id);

CREATE TABLE IF NOT EXISTS economic_data.fred_observations
(
    series_id      String,
    date           Date,
    value          Float64,
    is_missing     UInt8,
    realtime_start Date,
    realtime_end   Date,
    source         LowCardinality(String),
    ingested_at    DateTime64(3, 'UTC'),
    batch_id       String
)
ENGINE = ReplacingMergeTree(ingested_at)
PARTITION BY toYYYYMM(date)
ORDER BY (series_id, date, source);
`

// Financial statement line items, one table per statement.
const FundamentalDDL = `
CREATE DATABASE IF NOT EXISTS fundamental_data;

CREATE TABLE IF NOT EXISTS fundamental_data.income_statement
(
    ticker      String,
    fiscal_date Date,
    period      LowCardinality(String),
    metric      LowCardinality(String),
    value       Float64,
    currency    LowCardinality(String),
    source      LowCardinality(String) DEFAULT 'yfinance',
    loaded_at   DateTime64(3, 'UTC') DEFAULT now64(3, 'UTC'),
    batch_id    String
)
ENGINE = ReplacingMergeTree(loaded_at)
PARTITION BY toYYYYMM(fiscal_date)
ORDER BY (ticker, fiscal_date, period, metric);

CREATE TABLE IF NOT EXISTS fundamental_data.balance_sheet
(
    ticker      String,
    fiscal_date Date,
    period      LowCardinality(String),
    metric      LowCardinality(String),
    value       Float64,
    currency    LowCardinality(String),
    source      LowCardinality(String) DEFAULT 'yfinance',
    loaded_at   DateTime64(3, 'UTC') DEFAULT now64(3, 'UTC'),
    batch_id    String
)
ENGINE = ReplacingMergeTree(loaded_at)
PARTITION BY toYYYYMM(fiscal_date)
ORDER BY (ticker, fiscal_date, period, metric);

CREATE TABLE IF NOT EXISTS fundamental_data.cashflow_statement
(
    ticker      String,
    fiscal_date Date,
    period      LowCardinality(String),
    metric      LowCardinality(String),
    value       Float64,
    currency    LowCardinality(String),
    source      LowCardinality(String) DEFAULT 'yfinance',
    loaded_at   DateTime64(3, 'UTC') DEFAULT now64(3, 'UTC'),
    batch_id    String
)
ENGINE = ReplacingMergeTree(loaded_at)
PARTITION BY toYYYYMM(fiscal_date)
ORDER BY (ticker, fiscal_date, period, metric);
`

// Derived weekly/quarterly/yearly bars. Re-derivation inserts a newer built_at
// version; the merge keeps the latest.
const RollupDDL = `
CREATE TABLE IF NOT EXISTS market_data.weekly_prices
(
    instrument_id UUID,
    source        LowCardinality(String),
    bucket_start  Date,
    bucket_end    Date,
    open          Float64,
    close         Float64,
    high          Float64,
    low           Float64,
    adj_close     Float64,
    volume        UInt64,
    built_at      DateTime64(3, 'UTC')
)
ENGINE = ReplacingMergeTree(built_at)
PARTITION BY toYYYYMM(bucket_start)
ORDER BY (instrument_id, source, bucket_start);

CREATE TABLE IF NOT EXISTS market_data.quarterly_prices
(
    instrument_id UUID,
    source        LowCardinality(String),
    bucket_start  Date,
    bucket_end    Date,
    open          Float64,
    close         Float64,
    high          Float64,
    low           Float64,
    adj_close     Float64,
    volume        UInt64,
    built_at      DateTime64(3, 'UTC')
)
ENGINE = ReplacingMergeTree(built_at)
PARTITION BY toYYYYMM(bucket_start)
ORDER BY (instrument_id, source, bucket_start);

CREATE TABLE IF NOT EXISTS market_data.yearly_prices
(
    instrument_id UUID,
    source        LowCardinality(String),
    bucket_start  Date,
    bucket_end    Date,
    open          Float64,
    close         Float64,
    high          Float64,
    low           Float64,
    adj_close     Float64,
    volume        UInt64,
    built_at      DateTime64(3, 'UTC')
)
ENGINE = ReplacingMergeTree(built_at)
PARTITION BY toYYYYMM(bucket_start)
ORDER BY (instrument_id, source, bucket_start);
`
