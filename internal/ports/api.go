// Package ports defines the service surface that host packages (the JSON
// API handlers and the MCP server) consume without depending on the bridge
// internals.
package ports

import (
	"context"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// Service is the stable request/response boundary of the database bridge.
// Query-shaped operations report failure inside the returned QueryResult;
// listing operations return an error for the caller to surface.
type Service interface {
	// ExecuteQuery runs a statement on the named database. It never raises
	// application faults: failures come back as QueryResult{Success: false}.
	ExecuteQuery(ctx context.Context, database, query string, params []string, fetch bool) types.QueryResult

	// ListTables names the tables of the database.
	ListTables(ctx context.Context, database string) ([]string, error)

	// TableInfo describes the columns of one table.
	TableInfo(ctx context.Context, database, table string) ([]types.ColumnInfo, error)

	// CreateTable builds a deterministic CREATE TABLE statement from the
	// ordered column specs and submits it as a mutation.
	CreateTable(ctx context.Context, database, table string, columns []types.ColumnSpec) types.QueryResult

	// Schema returns the raw catalog listing of the database.
	Schema(ctx context.Context, database string) ([]types.SchemaObject, error)

	// SanitizedConfig is the registry with credentials stripped.
	SanitizedConfig() types.Registry

	// Status reports the active handle names and the cache entry count.
	Status() (handles []string, cacheEntries int)
}
