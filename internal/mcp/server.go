// Package mcp implements the MCP server side of homequery: the same SQL and
// agent operations the CLI offers, exposed as tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetr/homequery/internal/agent"
	"github.com/spetr/homequery/internal/schema"
	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/types"
)

// Server implements the MCP server.
type Server struct {
	mcpServer *server.MCPServer
	exec      provider.Executor
	agent     *agent.Agent
	table     string
}

// Config contains server configuration.
type Config struct {
	Version  string
	Executor provider.Executor
	Table    string
	Limit    int
}

// New creates a new MCP server.
func New(cfg Config) (*Server, error) {
	if cfg.Executor == nil {
		return nil, fmt.Errorf("%w: server needs an executor", types.ErrInvalidConfig)
	}
	if cfg.Table == "" {
		return nil, fmt.Errorf("%w: server needs a table name", types.ErrInvalidConfig)
	}

	s := &Server{
		exec:  cfg.Executor,
		agent: agent.New(cfg.Executor, cfg.Table, cfg.Limit),
		table: cfg.Table,
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	mcpServer := server.NewMCPServer(
		"homequery",
		version,
		server.WithLogging(),
	)
	s.registerTools(mcpServer)
	s.mcpServer = mcpServer
	return s, nil
}

// registerTools registers all MCP tools.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	// execute_sql - Run a SQL statement against the property database
	mcpServer.AddTool(mcp.NewTool("execute_sql",
		mcp.WithDescription("Execute a SQL statement against the property database and return rows as JSON"),
		mcp.WithString("query", mcp.Required(), mcp.Description("SQL statement to execute")),
	), s.handleExecuteSQL)

	// list_tables - List the tables the demo serves
	mcpServer.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List the property tables this server answers for"),
	), s.handleListTables)

	// describe_table - Describe the property table columns
	mcpServer.AddTool(mcp.NewTool("describe_table",
		mcp.WithDescription("Describe the columns of the property table and what each one stores"),
		mcp.WithString("table", mcp.Description("Table name (defaults to the configured property table)")),
	), s.handleDescribeTable)

	// search_properties - Natural-language property search
	mcpServer.AddTool(mcp.NewTool("search_properties",
		mcp.WithDescription("Answer a natural-language property question: similarity, city or bedroom filters"),
		mcp.WithString("question", mcp.Required(), mcp.Description("Question, e.g. 'Find 3 bedroom properties'")),
	), s.handleSearchProperties)
}

// Tool handlers

func (s *Server) handleExecuteSQL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	// SELECT statements return rows; anything else goes through Exec.
	if isSelect(query) {
		rs, err := s.exec.Query(ctx, query)
		if err != nil {
			return mcp.NewToolResultText(errorEnvelope(err)), nil
		}
		return mcp.NewToolResultText(successEnvelope(rs)), nil
	}

	if err := s.exec.Exec(ctx, query); err != nil {
		return mcp.NewToolResultText(errorEnvelope(err)), nil
	}
	return mcp.NewToolResultText(messageEnvelope("statement executed successfully")), nil
}

func (s *Server) handleListTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := map[string]any{
		"status": "success",
		"data": []map[string]any{
			{"table": s.table, "description": "denormalized property listings with JSON, spatial, full-text and vector columns"},
		},
	}
	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleDescribeTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", s.table)
	if table != s.table {
		return mcp.NewToolResultError(fmt.Sprintf("unknown table %q", table)), nil
	}

	var cols []map[string]any
	for _, col := range schema.DataMap() {
		cols = append(cols, map[string]any{
			"column":  col.Name,
			"type":    col.Type,
			"purpose": col.Purpose,
		})
	}
	result := map[string]any{
		"status": "success",
		"table":  table,
		"data":   cols,
	}
	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleSearchProperties(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question := req.GetString("question", "")
	if question == "" {
		return mcp.NewToolResultError("question is required"), nil
	}

	ans, err := s.agent.Answer(ctx, question)
	if err != nil {
		return mcp.NewToolResultText(errorEnvelope(err)), nil
	}

	result := map[string]any{
		"status":   "success",
		"question": ans.Question,
		"intent":   string(ans.Intent.Kind),
		"sql":      ans.SQL,
		"data":     rowsFor(ans.Results),
	}
	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Envelope rendering. The format matches what the bridge executor parses, so
// one homequery process can serve as the database bridge for another.

func successEnvelope(rs *types.ResultSet) string {
	result := map[string]any{
		"status": "success",
		"data":   rowsFor(rs),
	}
	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return string(jsonResult)
}

func messageEnvelope(msg string) string {
	result := map[string]any{
		"status":  "success",
		"message": msg,
	}
	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return string(jsonResult)
}

func errorEnvelope(err error) string {
	result := map[string]any{
		"status":  "error",
		"message": err.Error(),
	}
	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return string(jsonResult)
}

func rowsFor(rs *types.ResultSet) []map[string]any {
	rows := make([]map[string]any, 0, rs.Len())
	if rs == nil {
		return rows
	}
	for _, row := range rs.Rows {
		rows = append(rows, map[string]any(row))
	}
	return rows
}

func isSelect(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "SHOW")
}
