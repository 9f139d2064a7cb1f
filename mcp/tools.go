package mcp

// In this file: MCP tool definitions and handler implementations.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// ─── execute_query ────────────────────────────────────────────────────────────

func (s *Server) toolExecuteQuery() mcpsrv.ServerTool {
	tool := mcplib.NewTool("execute_query",
		mcplib.WithDescription(`Execute a SQL query on a configured database.

The result is a JSON payload with a "success" flag. Read queries (fetch=true,
the default) return rows and column names; mutations (fetch=false) return the
affected-row count and the last generated identifier. Failures of any kind
(unknown database, malformed SQL, unreachable remote backend) come back as
success=false with an error message, never as a protocol error.`),
		mcplib.WithString("database",
			mcplib.Description("Database name from the registry (default: \"default\")"),
		),
		mcplib.WithString("query",
			mcplib.Description("SQL statement to execute"),
			mcplib.Required(),
		),
		mcplib.WithArray("params",
			mcplib.Description("Positional query parameters (optional)"),
			mcplib.WithStringItems(),
		),
		mcplib.WithBoolean("fetch",
			mcplib.Description("Whether to fetch result rows (default: true); use false for mutations"),
		),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleExecuteQuery}
}

func (s *Server) handleExecuteQuery(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	query, ok := stringArg(req, "query")
	if !ok || query == "" {
		return resultErr(errors.New("execute_query: query is required")), nil
	}

	database := databaseArg(req)
	params := stringSliceArg(req, "params")
	fetch := boolArg(req, "fetch", true)

	res := s.svc.ExecuteQuery(ctx, database, query, params, fetch)

	result, err := resultJSON(res)
	if err != nil {
		return resultErr(fmt.Errorf("execute_query: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── get_table_info ───────────────────────────────────────────────────────────

func (s *Server) toolGetTableInfo() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_table_info",
		mcplib.WithDescription("Get the column layout of a table: name, type, nullability, primary key flag, and default value."),
		mcplib.WithString("database",
			mcplib.Description("Database name from the registry (default: \"default\")"),
		),
		mcplib.WithString("table",
			mcplib.Description("Table name"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetTableInfo}
}

func (s *Server) handleGetTableInfo(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	table, ok := stringArg(req, "table")
	if !ok || table == "" {
		return resultErr(errors.New("get_table_info: table is required")), nil
	}

	database := databaseArg(req)
	columns, err := s.svc.TableInfo(ctx, database, table)
	if err != nil {
		return resultJSONError(err)
	}

	result, err := resultJSON(map[string]any{
		"success": true,
		"table":   table,
		"columns": columns,
	})
	if err != nil {
		return resultErr(fmt.Errorf("get_table_info: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── list_tables ──────────────────────────────────────────────────────────────

func (s *Server) toolListTables() mcpsrv.ServerTool {
	tool := mcplib.NewTool("list_tables",
		mcplib.WithDescription("List all tables in a configured database."),
		mcplib.WithString("database",
			mcplib.Description("Database name from the registry (default: \"default\")"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListTables}
}

func (s *Server) handleListTables(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	database := databaseArg(req)

	tables, err := s.svc.ListTables(ctx, database)
	if err != nil {
		return resultJSONError(err)
	}

	result, err := resultJSON(map[string]any{
		"success": true,
		"tables":  tables,
	})
	if err != nil {
		return resultErr(fmt.Errorf("list_tables: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── create_table ─────────────────────────────────────────────────────────────

func (s *Server) toolCreateTable() mcpsrv.ServerTool {
	tool := mcplib.NewTool("create_table",
		mcplib.WithDescription(`Create a new table from an ordered column list.

Each column spec is an object {name, type, nullable?, primary_key?, default?};
nullable defaults to true. The generated statement is deterministic: columns
render in the order given as "<name> <type>[ NOT NULL][ PRIMARY KEY][ DEFAULT <value>]".`),
		mcplib.WithString("database",
			mcplib.Description("Database name from the registry (default: \"default\")"),
		),
		mcplib.WithString("table",
			mcplib.Description("Table name"),
			mcplib.Required(),
		),
		mcplib.WithArray("columns",
			mcplib.Description("Ordered column definitions"),
			mcplib.Required(),
		),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleCreateTable}
}

func (s *Server) handleCreateTable(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	table, ok := stringArg(req, "table")
	if !ok || table == "" {
		return resultErr(errors.New("create_table: table is required")), nil
	}

	columns, err := columnSpecsArg(req)
	if err != nil {
		return resultErr(fmt.Errorf("create_table: %w", err)), nil
	}

	database := databaseArg(req)
	s.logger.InfoContext(ctx, "mcp: create_table", "database", database, "table", table)

	res := s.svc.CreateTable(ctx, database, table, columns)

	result, err := resultJSON(res)
	if err != nil {
		return resultErr(fmt.Errorf("create_table: serialise: %w", err)), nil
	}
	return result, nil
}

// columnSpecsArg decodes the columns argument through JSON so the wire
// shape and the ColumnSpec tags stay in lockstep.
func columnSpecsArg(req mcplib.CallToolRequest) ([]types.ColumnSpec, error) {
	args := req.GetArguments()
	raw, ok := args["columns"]
	if !ok {
		return nil, errors.New("columns is required")
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var columns []types.ColumnSpec
	if err := json.Unmarshal(encoded, &columns); err != nil {
		return nil, fmt.Errorf("columns must be an array of column specs: %w", err)
	}
	if len(columns) == 0 {
		return nil, errors.New("at least one column required")
	}
	return columns, nil
}

// resultJSONError reports an application-level failure as a JSON payload
// with success=false, keeping the tool boundary free of raised faults.
func resultJSONError(err error) (*mcplib.CallToolResult, error) {
	result, jerr := resultJSON(map[string]any{
		"success": false,
		"error":   err.Error(),
	})
	if jerr != nil {
		return resultErr(err), nil
	}
	return result, nil
}
