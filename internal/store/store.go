package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/rickgao/market-pipeline/internal/config"
)

// Store is the capability surface the pipeline needs from the column store.
type Store interface {
	// Exec runs a single statement (DDL or INSERT ... SELECT).
	Exec(ctx context.Context, query string, args ...any) error

	// Select scans query results into dest, a pointer to a slice of structs
	// with ch tags.
	Select(ctx context.Context, dest any, query string, args ...any) error

	// BulkInsert writes rows into table as one atomic insert block.
	// Every row must align with columns.
	BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) error

	// Ping verifies the connection is healthy.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close() error
}

// Conn is the ClickHouse-backed Store.
type Conn struct {
	conn driver.Conn
}

var _ Store = (*Conn)(nil)

// Connect opens a connection described by cfg and pings it.
func Connect(ctx context.Context, cfg config.StoreConfig) (*Conn, error) {
	conn, err := clickhouse.Open(BuildOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	return &Conn{conn: conn}, nil
}

// BuildOptions builds driver options from config.
func BuildOptions(cfg config.StoreConfig) *clickhouse.Options {
	return &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		DialTimeout:  cfg.DialTimeout,
		MaxOpenConns: cfg.MaxConns,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) error {
	return c.conn.Exec(ctx, query, args...)
}

func (c *Conn) Select(ctx context.Context, dest any, query string, args ...any) error {
	return c.conn.Select(ctx, dest, query, args...)
}

func (c *Conn) BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s)", table, strings.Join(columns, ", "))

	batch, err := c.conn.PrepareBatch(ctx, stmt)
	if err != nil {
		return fmt.Errorf("prepare batch for %s: %w", table, err)
	}

	for _, row := range rows {
		if err := batch.Append(row...); err != nil {
			batch.Abort()
			return fmt.Errorf("append row to %s: %w", table, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch to %s: %w", table, err)
	}
	return nil
}

func (c *Conn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
