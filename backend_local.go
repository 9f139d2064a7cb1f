package sqlbridge

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// LocalBackend executes statements directly against an embedded engine
// through GORM. SQLite is the default engine; postgres, mysql and sqlserver
// profiles are opened through the same multi-driver path.
type LocalBackend struct {
	db       *gorm.DB
	dialect  string
	readOnly bool
}

// NewLocalBackend opens the engine described by the profile. For sqlite the
// parent directory of the database file is created on first use.
func NewLocalBackend(profile types.DatabaseProfile, maxConns int) (*LocalBackend, error) {
	dialect := normalizeDriver(profile.Driver)
	switch dialect {
	case "sqlite", "postgres", "mysql", "sqlserver":
	default:
		return nil, &ConfigurationError{Database: profile.Name, Reason: "unsupported driver: " + profile.Driver}
	}

	dsn := profile.DSN
	if dialect == "sqlite" {
		path := expandHome(profile.Path)
		if path == "" {
			return nil, &ConfigurationError{Database: profile.Name, Reason: "sqlite profile requires a path"}
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		dsn = path
	} else if dsn == "" {
		return nil, &ConfigurationError{Database: profile.Name, Reason: "local profile requires a dsn"}
	}

	db, err := openGORM(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil && maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}

	return &LocalBackend{db: db, dialect: dialect, readOnly: profile.ReadOnly}, nil
}

// Dialect implements Backend.
func (b *LocalBackend) Dialect() string { return b.dialect }

// Close releases the underlying engine connection.
func (b *LocalBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Execute implements Backend. Fetches return all matching rows eagerly with
// column names from the result descriptor; mutations commit and report the
// affected-row count and last generated identifier.
func (b *LocalBackend) Execute(ctx context.Context, query string, params []string, fetch bool) (types.QueryResult, error) {
	if b.readOnly && !isReadQuery(query) {
		return types.QueryResult{}, fmt.Errorf("database is read-only")
	}

	args := paramsToArgs(params)

	if fetch {
		rows, err := b.db.WithContext(ctx).Raw(query, args...).Rows()
		if err != nil {
			return types.QueryResult{}, err
		}
		defer rows.Close()
		return scanRows(rows)
	}

	sqlDB, err := b.db.DB()
	if err != nil {
		return types.QueryResult{}, err
	}
	res, err := sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		return types.QueryResult{}, err
	}
	affected, _ := res.RowsAffected()
	lastID, _ := res.LastInsertId()
	return types.QueryResult{
		Success:      true,
		AffectedRows: affected,
		LastInsertID: lastID,
	}, nil
}

// Schema implements Backend: catalog listing ordered by (kind, name).
func (b *LocalBackend) Schema(ctx context.Context) ([]types.SchemaObject, error) {
	res, err := b.Execute(ctx, catalogQuery(b.dialect), nil, true)
	if err != nil {
		return nil, err
	}
	return schemaFromRows(res.Rows), nil
}

// catalogQuery returns the dialect's catalog listing for tables, indexes
// and views, ordered by (kind, name).
func catalogQuery(dialect string) string {
	switch dialect {
	case "postgres":
		return `
			SELECT table_name AS name,
			       CASE table_type WHEN 'VIEW' THEN 'view' ELSE 'table' END AS type,
			       '' AS sql
			FROM information_schema.tables
			WHERE table_schema = 'public'
			ORDER BY type, name`
	case "mysql":
		return `
			SELECT table_name AS name,
			       CASE table_type WHEN 'VIEW' THEN 'view' ELSE 'table' END AS type,
			       '' AS ` + "`sql`" + `
			FROM information_schema.tables
			WHERE table_schema = DATABASE()
			ORDER BY type, name`
	case "sqlserver":
		return `
			SELECT table_name AS name,
			       CASE table_type WHEN 'VIEW' THEN 'view' ELSE 'table' END AS type,
			       '' AS [sql]
			FROM information_schema.tables
			ORDER BY type, name`
	default: // sqlite
		return `
			SELECT name, type, sql
			FROM sqlite_master
			WHERE type IN ('table', 'index', 'view')
			ORDER BY type, name`
	}
}

// schemaFromRows maps catalog rows onto SchemaObject values.
func schemaFromRows(rows []map[string]any) []types.SchemaObject {
	objects := make([]types.SchemaObject, 0, len(rows))
	for _, row := range rows {
		obj := types.SchemaObject{
			Name: stringValue(row["name"]),
			Kind: stringValue(row["type"]),
		}
		if def, ok := row["sql"]; ok {
			obj.Definition = stringValue(def)
		}
		objects = append(objects, obj)
	}
	return objects
}

// scanRows drains sql.Rows into ordered row-maps plus column names.
// Byte slices are surfaced as strings for JSON friendliness.
func scanRows(rows *sql.Rows) (types.QueryResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return types.QueryResult{}, err
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		pointers := make([]any, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return types.QueryResult{}, err
		}

		row := make(map[string]any, len(cols))
		for i, name := range cols {
			switch v := values[i].(type) {
			case []byte:
				row[name] = string(v)
			default:
				row[name] = v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return types.QueryResult{}, err
	}

	return types.QueryResult{
		Success: true,
		Rows:    out,
		Columns: cols,
		Count:   len(out),
	}, nil
}

// isReadQuery reports whether the statement is SELECT-like.
func isReadQuery(query string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "select", "with", "show", "pragma", "explain":
		return true
	}
	return false
}

// stringValue renders a scanned catalog value as a string.
func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// expandHome resolves a leading ~/ against the user home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
