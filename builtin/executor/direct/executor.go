// Package direct implements the executor over a plain MySQL-protocol
// connection. This is the default path; the bridge executor covers the same
// interface over MCP.
package direct

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/types"
)

// Executor runs SQL over a pooled connection.
type Executor struct {
	db *sqlx.DB
}

// New connects with bounded retries and configures the pool.
func New(cfg provider.ExecutorConfig) (*Executor, error) {
	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.ConnectBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	var db *sqlx.DB
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err = sqlx.Connect("mysql", cfg.DSN)
		if err == nil {
			break
		}
		if attempt < attempts {
			slog.Warn("database connection failed, retrying",
				"attempt", attempt,
				"backoff", backoff.String(),
				"error", err)
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", types.ErrConnectionFailed, attempts, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Executor{db: db}, nil
}

// Name returns the executor name.
func (e *Executor) Name() string {
	return "direct"
}

// Query runs a statement and materializes all rows.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (*types.ResultSet, error) {
	rows, err := e.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrQueryFailed, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	rs := &types.ResultSet{Columns: cols}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rs.Rows = append(rs.Rows, normalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return rs, nil
}

// Exec runs a statement that returns no rows.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", types.ErrQueryFailed, err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (e *Executor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// Close releases the pool.
func (e *Executor) Close() error {
	return e.db.Close()
}

// normalizeRow converts driver []byte values to strings so rows look the
// same over the direct connection and the bridge.
func normalizeRow(in map[string]interface{}) types.Row {
	row := make(types.Row, len(in))
	for k, v := range in {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		} else {
			row[k] = v
		}
	}
	return row
}

var _ provider.Executor = (*Executor)(nil)
