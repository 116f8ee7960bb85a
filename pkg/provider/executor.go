package provider

import (
	"context"
	"time"

	"github.com/spetr/homequery/pkg/types"
)

// Executor runs SQL against the property database. The direct connection,
// the MCP bridge and the simulated backend all implement it, so everything
// above the executor is transport-agnostic.
type Executor interface {
	// Name returns the executor name (e.g., "direct", "mcpbridge").
	Name() string

	// Query runs a statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (*types.ResultSet, error)

	// Exec runs a statement that returns no rows (DDL, INSERT).
	Exec(ctx context.Context, query string, args ...any) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources.
	Close() error
}

// ExecutorConfig contains configuration for executor providers.
type ExecutorConfig struct {
	// Direct connection settings.
	DSN             string // MySQL-protocol DSN
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectAttempts int
	ConnectBackoff  time.Duration

	// Bridge settings.
	ServerName string        // Logical MCP server name (e.g., "oceanbase")
	Tool       string        // Tool to call (e.g., "execute_sql")
	Command    string        // Command spawning the MCP server over stdio
	Args       []string      // Command arguments
	Env        []string      // Extra environment in KEY=VALUE form
	Timeout    time.Duration // Per-call timeout
}
