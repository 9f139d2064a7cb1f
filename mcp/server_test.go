package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

func readReq(uri string) mcplib.ReadResourceRequest {
	req := mcplib.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func textOf(t *testing.T, contents []mcplib.ResourceContents) string {
	t.Helper()
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)
	return text.Text
}

func TestReadConfig(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.registry = types.Registry{
		Databases: map[string]types.DatabaseProfile{
			"default": {Type: types.BackendLocal, Path: "/tmp/default.db"},
		},
		Settings: types.Settings{CacheTTL: 300},
	}

	contents, err := srv.readConfig(context.Background(), readReq("db://config"))
	require.NoError(t, err)

	var reg types.Registry
	require.NoError(t, json.Unmarshal([]byte(textOf(t, contents)), &reg))
	assert.Contains(t, reg.Databases, "default")
	assert.Equal(t, 300, reg.Settings.CacheTTL)
}

func TestReadConnections(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.handles = []string{"default", "prod"}
	svc.cacheEntries = 5

	contents, err := srv.readConnections(context.Background(), readReq("db://connections"))
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, contents)), &payload))
	assert.Equal(t, []any{"default", "prod"}, payload["active_connections"])
	assert.Equal(t, float64(5), payload["cache_entries"])
}

func TestReadSchema(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.schema = []types.SchemaObject{
		{Name: "users", Kind: "table", Definition: "CREATE TABLE users (id INTEGER)"},
	}

	contents, err := srv.readSchema(context.Background(), readReq("db://analytics/schema"))
	require.NoError(t, err)
	assert.Equal(t, "analytics", svc.gotDatabase)

	var objects []types.SchemaObject
	require.NoError(t, json.Unmarshal([]byte(textOf(t, contents)), &objects))
	require.Len(t, objects, 1)
	assert.Equal(t, "users", objects[0].Name)
}

func TestReadTables(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.tables = []string{"users"}

	contents, err := srv.readTables(context.Background(), readReq("db://analytics/tables"))
	require.NoError(t, err)
	assert.Equal(t, "analytics", svc.gotDatabase)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, contents)), &payload))
	assert.Equal(t, []any{"users"}, payload["tables"])
}

func TestDatabaseFromURI(t *testing.T) {
	tests := []struct {
		uri     string
		suffix  string
		want    string
		wantErr bool
	}{
		{uri: "db://analytics/schema", suffix: "/schema", want: "analytics"},
		{uri: "db://prod/tables", suffix: "/tables", want: "prod"},
		{uri: "db:///schema", suffix: "/schema", wantErr: true},
		{uri: "db://a/b/schema", suffix: "/schema", wantErr: true},
		{uri: "file://x/schema", suffix: "/schema", wantErr: true},
		{uri: "db://analytics", suffix: "/schema", wantErr: true},
	}
	for _, tt := range tests {
		got, err := databaseFromURI(tt.uri, tt.suffix)
		if tt.wantErr {
			assert.Error(t, err, tt.uri)
			continue
		}
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.want, got)
	}
}
