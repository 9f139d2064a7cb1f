package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// stubService is a hand-rolled ports.Service that records calls and replays
// canned answers.
type stubService struct {
	execResult   types.QueryResult
	tables       []string
	tablesErr    error
	columns      []types.ColumnInfo
	columnsErr   error
	createResult types.QueryResult
	schema       []types.SchemaObject
	schemaErr    error
	registry     types.Registry
	handles      []string
	cacheEntries int

	gotDatabase string
	gotQuery    string
	gotParams   []string
	gotFetch    bool
	gotTable    string
	gotColumns  []types.ColumnSpec
}

func (s *stubService) ExecuteQuery(ctx context.Context, database, query string, params []string, fetch bool) types.QueryResult {
	s.gotDatabase = database
	s.gotQuery = query
	s.gotParams = params
	s.gotFetch = fetch
	return s.execResult
}

func (s *stubService) ListTables(ctx context.Context, database string) ([]string, error) {
	s.gotDatabase = database
	return s.tables, s.tablesErr
}

func (s *stubService) TableInfo(ctx context.Context, database, table string) ([]types.ColumnInfo, error) {
	s.gotDatabase = database
	s.gotTable = table
	return s.columns, s.columnsErr
}

func (s *stubService) CreateTable(ctx context.Context, database, table string, columns []types.ColumnSpec) types.QueryResult {
	s.gotDatabase = database
	s.gotTable = table
	s.gotColumns = columns
	return s.createResult
}

func (s *stubService) Schema(ctx context.Context, database string) ([]types.SchemaObject, error) {
	s.gotDatabase = database
	return s.schema, s.schemaErr
}

func (s *stubService) SanitizedConfig() types.Registry { return s.registry }

func (s *stubService) Status() ([]string, int) { return s.handles, s.cacheEntries }

func newTestServer(t *testing.T) (*Server, *stubService) {
	t.Helper()
	svc := &stubService{}
	srv := New(svc, nil)
	require.NotNil(t, srv)
	require.NotNil(t, srv.mcp)
	return srv, svc
}

// toolReq builds a CallToolRequest with the given argument map.
func toolReq(args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// firstText returns the text of the first TextContent in the result.
func firstText(t *testing.T, r *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, r.Content, "result has no content")
	txt, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok, "first content item is not TextContent")
	return txt.Text
}

// decodePayload unmarshals the first text content as JSON.
func decodePayload(t *testing.T, r *mcplib.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(firstText(t, r)), &payload))
	return payload
}

// ─── handleExecuteQuery ───────────────────────────────────────────────────────

func TestHandleExecuteQuery(t *testing.T) {
	t.Run("fetch returns rows as JSON", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.execResult = types.QueryResult{
			Success: true,
			Rows:    []map[string]any{{"id": 1}},
			Columns: []string{"id"},
			Count:   1,
		}

		result, err := srv.handleExecuteQuery(context.Background(), toolReq(map[string]any{
			"query":    "SELECT id FROM t WHERE x = ?",
			"database": "analytics",
			"params":   []any{"7"},
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		payload := decodePayload(t, result)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, float64(1), payload["count"])

		assert.Equal(t, "analytics", svc.gotDatabase)
		assert.Equal(t, []string{"7"}, svc.gotParams)
		assert.True(t, svc.gotFetch)
	})

	t.Run("database defaults to default", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.execResult = types.QueryResult{Success: true}

		_, err := srv.handleExecuteQuery(context.Background(), toolReq(map[string]any{
			"query": "SELECT 1",
		}))
		require.NoError(t, err)
		assert.Equal(t, "default", svc.gotDatabase)
	})

	t.Run("fetch=false is passed through", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.execResult = types.QueryResult{Success: true, AffectedRows: 2}

		_, err := srv.handleExecuteQuery(context.Background(), toolReq(map[string]any{
			"query": "DELETE FROM t",
			"fetch": false,
		}))
		require.NoError(t, err)
		assert.False(t, svc.gotFetch)
	})

	t.Run("query failure stays a JSON payload", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.execResult = types.QueryResult{Success: false, Error: "no such table: t"}

		result, err := srv.handleExecuteQuery(context.Background(), toolReq(map[string]any{
			"query": "SELECT * FROM t",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, "application failures are payloads, not protocol errors")

		payload := decodePayload(t, result)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "no such table: t", payload["error"])
	})

	t.Run("missing query is a tool error", func(t *testing.T) {
		srv, _ := newTestServer(t)

		result, err := srv.handleExecuteQuery(context.Background(), toolReq(nil))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, firstText(t, result), "query is required")
	})
}

// ─── handleListTables ─────────────────────────────────────────────────────────

func TestHandleListTables(t *testing.T) {
	t.Run("returns table names", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.tables = []string{"orders", "users"}

		result, err := srv.handleListTables(context.Background(), toolReq(map[string]any{
			"database": "analytics",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		payload := decodePayload(t, result)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, []any{"orders", "users"}, payload["tables"])
	})

	t.Run("listing error becomes success=false payload", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.tablesErr = errors.New("configuration error: database \"nope\": not configured")

		result, err := srv.handleListTables(context.Background(), toolReq(map[string]any{
			"database": "nope",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		payload := decodePayload(t, result)
		assert.Equal(t, false, payload["success"])
		assert.Contains(t, payload["error"], "not configured")
	})
}

// ─── handleGetTableInfo ───────────────────────────────────────────────────────

func TestHandleGetTableInfo(t *testing.T) {
	t.Run("returns column layout", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.columns = []types.ColumnInfo{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "name", Type: "TEXT", Nullable: true},
		}

		result, err := srv.handleGetTableInfo(context.Background(), toolReq(map[string]any{
			"table": "users",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		payload := decodePayload(t, result)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "users", payload["table"])
		require.Len(t, payload["columns"], 2)
		assert.Equal(t, "users", svc.gotTable)
	})

	t.Run("missing table is a tool error", func(t *testing.T) {
		srv, _ := newTestServer(t)

		result, err := srv.handleGetTableInfo(context.Background(), toolReq(nil))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, firstText(t, result), "table is required")
	})

	t.Run("introspection error becomes success=false payload", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.columnsErr = errors.New("invalid table name")

		result, err := srv.handleGetTableInfo(context.Background(), toolReq(map[string]any{
			"table": "users",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		payload := decodePayload(t, result)
		assert.Equal(t, false, payload["success"])
	})
}

// ─── handleCreateTable ────────────────────────────────────────────────────────

func TestHandleCreateTable(t *testing.T) {
	t.Run("decodes column specs and reports the statement", func(t *testing.T) {
		srv, svc := newTestServer(t)
		svc.createResult = types.QueryResult{
			Success: true,
			Meta:    map[string]any{"sql": "CREATE TABLE users (id INTEGER PRIMARY KEY)"},
		}

		result, err := srv.handleCreateTable(context.Background(), toolReq(map[string]any{
			"table": "users",
			"columns": []any{
				map[string]any{"name": "id", "type": "INTEGER", "primary_key": true},
			},
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		payload := decodePayload(t, result)
		assert.Equal(t, true, payload["success"])

		require.Len(t, svc.gotColumns, 1)
		assert.Equal(t, "id", svc.gotColumns[0].Name)
		assert.True(t, svc.gotColumns[0].PrimaryKey)
	})

	t.Run("missing columns is a tool error", func(t *testing.T) {
		srv, _ := newTestServer(t)

		result, err := srv.handleCreateTable(context.Background(), toolReq(map[string]any{
			"table": "users",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, firstText(t, result), "columns")
	})

	t.Run("empty column list is a tool error", func(t *testing.T) {
		srv, _ := newTestServer(t)

		result, err := srv.handleCreateTable(context.Background(), toolReq(map[string]any{
			"table":   "users",
			"columns": []any{},
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, firstText(t, result), "at least one column")
	})
}
