package sqlbridge

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// seedSQLite creates a database file with a known schema outside the bridge,
// so introspection is tested against state the bridge did not write itself.
func seedSQLite(t *testing.T, statements ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func introspectorFor(t *testing.T, path string) *SchemaIntrospector {
	t.Helper()
	reg := types.Registry{
		Databases: map[string]types.DatabaseProfile{
			"seed": {Type: types.BackendLocal, Path: path},
		},
		Settings: types.Settings{MaxConnections: 2},
	}
	conns := NewConnectionManager(storeWithRegistry(t, reg), nil)
	t.Cleanup(func() { conns.Close() })
	return NewSchemaIntrospector(conns)
}

func TestSchemaIntrospector_ListTables(t *testing.T) {
	path := seedSQLite(t,
		"CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)",
		"CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER)",
		"CREATE VIEW user_names AS SELECT name FROM users",
		"CREATE INDEX idx_orders_user ON orders (user_id)",
	)
	introspector := introspectorFor(t, path)

	tables, err := introspector.ListTables(context.Background(), "seed")
	require.NoError(t, err)

	// AUTOINCREMENT creates sqlite_sequence; engine-internal tables,
	// views and indexes must all be filtered out.
	assert.Equal(t, []string{"orders", "users"}, tables)
}

func TestSchemaIntrospector_TableInfo(t *testing.T) {
	path := seedSQLite(t,
		"CREATE TABLE users (id INTEGER NOT NULL PRIMARY KEY, name TEXT, age INTEGER DEFAULT 21)",
	)
	introspector := introspectorFor(t, path)

	cols, err := introspector.TableInfo(context.Background(), "seed", "users")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "INTEGER", cols[0].Type)
	assert.False(t, cols[0].Nullable)
	assert.True(t, cols[0].PrimaryKey)

	assert.Equal(t, "name", cols[1].Name)
	assert.True(t, cols[1].Nullable)
	assert.False(t, cols[1].PrimaryKey)

	assert.Equal(t, "age", cols[2].Name)
	assert.Equal(t, "21", stringValue(cols[2].Default))
}

func TestSchemaIntrospector_TableInfoRejectsBadIdent(t *testing.T) {
	path := seedSQLite(t, "CREATE TABLE t (x INTEGER)")
	introspector := introspectorFor(t, path)

	_, err := introspector.TableInfo(context.Background(), "seed", "t; DROP TABLE t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}

func TestSchemaIntrospector_UnknownDatabase(t *testing.T) {
	path := seedSQLite(t, "CREATE TABLE t (x INTEGER)")
	introspector := introspectorFor(t, path)

	_, err := introspector.ListTables(context.Background(), "nope")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestColumnsFromInfoRows(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		row     map[string]any
		want    types.ColumnInfo
	}{
		{
			name:    "postgres primary key column",
			dialect: "postgres",
			row: map[string]any{
				"column_name": "id", "data_type": "integer",
				"is_nullable": "NO", "column_default": nil, "column_key": "PRI",
			},
			want: types.ColumnInfo{Name: "id", Type: "integer", Nullable: false, PrimaryKey: true},
		},
		{
			name:    "postgres plain column",
			dialect: "postgres",
			row: map[string]any{
				"column_name": "name", "data_type": "text",
				"is_nullable": "YES", "column_default": nil, "column_key": "",
			},
			want: types.ColumnInfo{Name: "name", Type: "text", Nullable: true, PrimaryKey: false},
		},
		{
			name:    "sqlserver primary key column",
			dialect: "sqlserver",
			row: map[string]any{
				"column_name": "id", "data_type": "int",
				"is_nullable": "NO", "column_default": nil, "column_key": "PRI",
			},
			want: types.ColumnInfo{Name: "id", Type: "int", Nullable: false, PrimaryKey: true},
		},
		{
			name:    "mysql primary key column",
			dialect: "mysql",
			row: map[string]any{
				"column_name": "id", "data_type": "bigint",
				"is_nullable": "NO", "column_default": nil, "column_key": "PRI",
			},
			want: types.ColumnInfo{Name: "id", Type: "bigint", Nullable: false, PrimaryKey: true},
		},
		{
			name:    "sqlite primary key column",
			dialect: "sqlite",
			row: map[string]any{
				"name": "id", "type": "INTEGER",
				"notnull": int64(1), "pk": int64(1), "dflt_value": nil,
			},
			want: types.ColumnInfo{Name: "id", Type: "INTEGER", Nullable: false, PrimaryKey: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := columnsFromInfoRows(tt.dialect, []map[string]any{tt.row})
			require.Len(t, cols, 1)
			assert.Equal(t, tt.want.Name, cols[0].Name)
			assert.Equal(t, tt.want.Type, cols[0].Type)
			assert.Equal(t, tt.want.Nullable, cols[0].Nullable)
			assert.Equal(t, tt.want.PrimaryKey, cols[0].PrimaryKey)
		})
	}
}

func TestColumnQuery_CarriesKeyIndicator(t *testing.T) {
	// Every non-sqlite dialect must select a column_key alias, or the
	// mapping could never report a primary key.
	for _, dialect := range []string{"postgres", "mysql", "sqlserver"} {
		query, params := columnQuery(dialect, "users")
		assert.Contains(t, query, "column_key", dialect)
		assert.Equal(t, []string{"users"}, params, dialect)
	}
}

func TestValidIdent(t *testing.T) {
	assert.True(t, validIdent("users"))
	assert.True(t, validIdent("user_names2"))
	assert.False(t, validIdent(""))
	assert.False(t, validIdent("users; DROP"))
	assert.False(t, validIdent(`users"`))
	assert.False(t, validIdent("users(1)"))
}
