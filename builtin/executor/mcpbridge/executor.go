// Package mcpbridge implements the executor over an MCP stdio server. SQL
// travels as the single string argument of the server's execute tool and
// results come back as a JSON envelope.
package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/sqltext"
	"github.com/spetr/homequery/pkg/types"
)

// toolCaller is the slice of the MCP client the executor needs.
type toolCaller interface {
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// Executor forwards SQL to an MCP server's execute tool.
type Executor struct {
	caller  toolCaller
	tool    string
	timeout time.Duration
}

// New spawns the bridge process and runs the MCP handshake.
func New(cfg provider.ExecutorConfig) (*Executor, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("%w: bridge command not configured", types.ErrInvalidConfig)
	}

	c, err := client.NewStdioMCPClient(cfg.Command, cfg.Env, cfg.Args...)
	if err != nil {
		return nil, fmt.Errorf("%w: starting %q: %v", types.ErrBridgeUnavailable, cfg.Command, err)
	}

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "homequery",
		Version: "1.0.0",
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: initialize: %v", types.ErrBridgeUnavailable, err)
	}

	slog.Info("bridge connected", "server", cfg.ServerName, "tool", cfg.Tool)

	return &Executor{caller: c, tool: cfg.Tool, timeout: cfg.Timeout}, nil
}

// Name returns the executor name.
func (e *Executor) Name() string {
	return "mcpbridge"
}

// Query interpolates args into the statement, sends it through the tool and
// decodes the envelope.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (*types.ResultSet, error) {
	text, err := e.call(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(text)
}

// Exec sends a statement that returns no rows. The envelope status is still
// checked so DDL failures surface.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) error {
	text, err := e.call(ctx, query, args...)
	if err != nil {
		return err
	}
	_, err = parseEnvelope(text)
	return err
}

// Ping round-trips a trivial query through the bridge.
func (e *Executor) Ping(ctx context.Context) error {
	_, err := e.Query(ctx, "SELECT 1")
	return err
}

// Close terminates the bridge process.
func (e *Executor) Close() error {
	return e.caller.Close()
}

func (e *Executor) call(ctx context.Context, query string, args ...any) (string, error) {
	sql, err := sqltext.Interpolate(query, args...)
	if err != nil {
		return "", fmt.Errorf("preparing bridge statement: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = e.tool
	req.Params.Arguments = map[string]any{"query": sql}

	res, err := e.caller.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrBridgeUnavailable, err)
	}

	text := contentText(res)
	if res.IsError {
		return "", fmt.Errorf("%w: %s", types.ErrQueryFailed, strings.TrimSpace(text))
	}
	return text, nil
}

// contentText concatenates the text parts of a tool result.
func contentText(res *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// envelope is the bridge wire format.
type envelope struct {
	Status  string           `json:"status"`
	Data    []map[string]any `json:"data"`
	Message string           `json:"message"`
}

// parseEnvelope decodes the bridge response into a result set. Column order
// is not carried by the wire format, so columns come back sorted.
func parseEnvelope(text string) (*types.ResultSet, error) {
	var env envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, fmt.Errorf("%w: decoding bridge response: %v", types.ErrBridgeUnavailable, err)
	}
	if env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = "bridge reported " + env.Status
		}
		return nil, fmt.Errorf("%w: %s", types.ErrQueryFailed, msg)
	}

	rs := &types.ResultSet{}
	for _, raw := range env.Data {
		rs.Rows = append(rs.Rows, types.Row(raw))
	}
	if len(env.Data) > 0 {
		for col := range env.Data[0] {
			rs.Columns = append(rs.Columns, col)
		}
		sort.Strings(rs.Columns)
	}
	return rs, nil
}

var _ provider.Executor = (*Executor)(nil)
