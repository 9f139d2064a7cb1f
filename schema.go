package sqlbridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// SchemaIntrospector lists tables and columns on top of Backend.Schema and
// the backend's column-introspection query. None of its operations touch
// the query cache.
type SchemaIntrospector struct {
	conns HandleResolver
}

// NewSchemaIntrospector creates an introspector over the handle resolver.
func NewSchemaIntrospector(conns HandleResolver) *SchemaIntrospector {
	return &SchemaIntrospector{conns: conns}
}

// Schema returns the raw catalog listing for the database.
func (s *SchemaIntrospector) Schema(ctx context.Context, database string) ([]types.SchemaObject, error) {
	backend, err := s.conns.Get(database)
	if err != nil {
		return nil, err
	}
	return backend.Schema(ctx)
}

// ListTables filters the catalog listing to tables, hiding engine-internal
// sqlite_% entries.
func (s *SchemaIntrospector) ListTables(ctx context.Context, database string) ([]string, error) {
	objects, err := s.Schema(ctx, database)
	if err != nil {
		return nil, err
	}
	tables := []string{}
	for _, obj := range objects {
		if obj.Kind != "table" || strings.HasPrefix(obj.Name, "sqlite_") {
			continue
		}
		tables = append(tables, obj.Name)
	}
	return tables, nil
}

// TableInfo issues the backend's column-introspection query and maps its
// rows onto ColumnInfo values.
func (s *SchemaIntrospector) TableInfo(ctx context.Context, database, table string) ([]types.ColumnInfo, error) {
	if !validIdent(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	backend, err := s.conns.Get(database)
	if err != nil {
		return nil, err
	}

	query, params := columnQuery(backend.Dialect(), table)
	res, err := backend.Execute(ctx, query, params, true)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("%s", res.Error)
	}

	return columnsFromInfoRows(backend.Dialect(), res.Rows), nil
}

// columnQuery returns the dialect's column-introspection query for table.
// Table identifiers cannot be bound in sqlite PRAGMA statements; the name
// is validated before interpolation.
func columnQuery(dialect, table string) (string, []string) {
	switch dialect {
	case "postgres":
		return `
			SELECT c.column_name, c.data_type, c.is_nullable, c.column_default,
			       CASE WHEN kcu.column_name IS NOT NULL THEN 'PRI' ELSE '' END AS column_key
			FROM information_schema.columns c
			LEFT JOIN information_schema.table_constraints tc
			  ON tc.table_schema = c.table_schema
			 AND tc.table_name = c.table_name
			 AND tc.constraint_type = 'PRIMARY KEY'
			LEFT JOIN information_schema.key_column_usage kcu
			  ON kcu.constraint_name = tc.constraint_name
			 AND kcu.table_schema = c.table_schema
			 AND kcu.table_name = c.table_name
			 AND kcu.column_name = c.column_name
			WHERE c.table_schema = 'public' AND c.table_name = $1
			ORDER BY c.ordinal_position`, []string{table}
	case "mysql":
		return `
			SELECT column_name, data_type, is_nullable, column_default, column_key
			FROM information_schema.columns
			WHERE table_schema = DATABASE() AND table_name = ?
			ORDER BY ordinal_position`, []string{table}
	case "sqlserver":
		return `
			SELECT c.column_name, c.data_type, c.is_nullable, c.column_default,
			       CASE WHEN kcu.column_name IS NOT NULL THEN 'PRI' ELSE '' END AS column_key
			FROM information_schema.columns c
			LEFT JOIN information_schema.table_constraints tc
			  ON tc.table_name = c.table_name
			 AND tc.constraint_type = 'PRIMARY KEY'
			LEFT JOIN information_schema.key_column_usage kcu
			  ON kcu.constraint_name = tc.constraint_name
			 AND kcu.table_name = c.table_name
			 AND kcu.column_name = c.column_name
			WHERE c.table_name = @p1
			ORDER BY c.ordinal_position`, []string{table}
	default: // sqlite
		return fmt.Sprintf("PRAGMA table_info(%s)", table), nil
	}
}

// columnsFromInfoRows maps introspection rows to ColumnInfo per dialect.
// Every non-sqlite introspection query aliases its primary-key indicator
// as column_key, with 'PRI' marking key columns.
func columnsFromInfoRows(dialect string, rows []map[string]any) []types.ColumnInfo {
	cols := make([]types.ColumnInfo, 0, len(rows))
	for _, row := range rows {
		var col types.ColumnInfo
		if dialect == "sqlite" {
			col = types.ColumnInfo{
				Name:       stringValue(row["name"]),
				Type:       stringValue(row["type"]),
				Nullable:   !truthy(row["notnull"]),
				PrimaryKey: truthy(row["pk"]),
				Default:    row["dflt_value"],
			}
		} else {
			col = types.ColumnInfo{
				Name:       stringValue(row["column_name"]),
				Type:       stringValue(row["data_type"]),
				Nullable:   strings.EqualFold(stringValue(row["is_nullable"]), "YES"),
				PrimaryKey: strings.EqualFold(stringValue(row["column_key"]), "PRI"),
				Default:    row["column_default"],
			}
		}
		cols = append(cols, col)
	}
	return cols
}

// truthy interprets engine-specific flag columns (0/1, int64, bool).
func truthy(v any) bool {
	switch n := v.(type) {
	case bool:
		return n
	case int64:
		return n != 0
	case float64:
		return n != 0
	case string:
		return n == "1" || strings.EqualFold(n, "true")
	}
	return false
}

// validIdent rejects identifiers that could smuggle statement text into an
// interpolated catalog query.
func validIdent(s string) bool {
	return s != "" && !strings.ContainsAny(s, " ;'\"`()")
}
