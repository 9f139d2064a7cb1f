// Package sqlbridge provides a universal database-access layer: one
// execution contract (execute, schema, table info) over heterogeneous
// backends, a local embedded relational engine and a remote HTTP-accessible
// SQL service, with connection lifecycle management, result caching, and
// credential resolution.
package sqlbridge

import (
	"context"
	"net/http"
	"time"

	"github.com/sqlbridge/sqlbridge/api/api_databases_list"
	"github.com/sqlbridge/sqlbridge/api/api_query_execute"
	"github.com/sqlbridge/sqlbridge/api/api_schema_list"
	"github.com/sqlbridge/sqlbridge/api/api_table_create"
	"github.com/sqlbridge/sqlbridge/api/api_table_info"
	"github.com/sqlbridge/sqlbridge/api/api_tables_list"
	"github.com/sqlbridge/sqlbridge/internal/ports"
	"github.com/sqlbridge/sqlbridge/shared/types"
)

// Action names for the single-endpoint router.
const (
	ActionQueryExecute  = "query_execute"
	ActionTablesList    = "tables_list"
	ActionTableInfo     = "table_info"
	ActionTableCreate   = "table_create"
	ActionDatabasesList = "databases_list"
	ActionSchemaList    = "schema_list"
)

// Bridge owns the config store, connection manager, query cache, executor
// and introspector. It is constructed once at process start and passed by
// reference to every component that needs it; tests build a fresh one each.
type Bridge struct {
	opts   Options
	store  *ConfigStore
	conns  *ConnectionManager
	cache  *QueryCache
	exec   *QueryExecutor
	schema *SchemaIntrospector
}

var _ ports.Service = (*Bridge)(nil)

// New loads the registry and wires the bridge components.
func New(options ...Option) (*Bridge, error) {
	var opts Options
	for _, option := range options {
		option(&opts)
	}
	opts = opts.withDefaults()

	store := NewConfigStore(opts.ConfigPath)
	if err := store.Load(); err != nil {
		return nil, err
	}

	settings := store.Settings()
	conns := NewConnectionManager(store, opts.HTTPClient)
	cache := NewQueryCache(time.Duration(settings.CacheTTL)*time.Second, opts.CacheCapacity)

	return &Bridge{
		opts:   opts,
		store:  store,
		conns:  conns,
		cache:  cache,
		exec:   NewQueryExecutor(conns, cache, settings, opts.Logger),
		schema: NewSchemaIntrospector(conns),
	}, nil
}

// Close releases every live backend handle and drops cached results.
func (b *Bridge) Close() error {
	b.cache.Purge()
	return b.conns.Close()
}

// ExecuteQuery implements ports.Service through the query executor.
func (b *Bridge) ExecuteQuery(ctx context.Context, database, query string, params []string, fetch bool) types.QueryResult {
	if database == "" {
		database = "default"
	}
	return b.exec.ExecuteQuery(ctx, database, query, params, fetch)
}

// ListTables implements ports.Service.
func (b *Bridge) ListTables(ctx context.Context, database string) ([]string, error) {
	if database == "" {
		database = "default"
	}
	return b.schema.ListTables(ctx, database)
}

// TableInfo implements ports.Service.
func (b *Bridge) TableInfo(ctx context.Context, database, table string) ([]types.ColumnInfo, error) {
	if database == "" {
		database = "default"
	}
	return b.schema.TableInfo(ctx, database, table)
}

// CreateTable implements ports.Service: DDL generation bypasses the cache
// and the statement is submitted as a mutation through the executor.
func (b *Bridge) CreateTable(ctx context.Context, database, table string, columns []types.ColumnSpec) types.QueryResult {
	stmt, err := BuildCreateTable(table, columns)
	if err != nil {
		return types.QueryResult{Success: false, Error: err.Error()}
	}
	res := b.ExecuteQuery(ctx, database, stmt, nil, false)
	if res.Meta == nil {
		res.Meta = map[string]any{}
	}
	res.Meta["sql"] = stmt
	return res
}

// Schema implements ports.Service.
func (b *Bridge) Schema(ctx context.Context, database string) ([]types.SchemaObject, error) {
	if database == "" {
		database = "default"
	}
	return b.schema.Schema(ctx, database)
}

// SanitizedConfig implements ports.Service.
func (b *Bridge) SanitizedConfig() types.Registry {
	return b.store.Sanitized()
}

// Status implements ports.Service.
func (b *Bridge) Status() ([]string, int) {
	return b.conns.Handles(), b.cache.Len()
}

// Handler returns the JSON API surface as a single-endpoint router keyed
// by the "action" query parameter.
func (b *Bridge) Handler() http.Handler {
	queryExecute := api_query_execute.New(b)
	tablesList := api_tables_list.New(b)
	tableInfo := api_table_info.New(b)
	tableCreate := api_table_create.New(b)
	databasesList := api_databases_list.New(b)
	schemaList := api_schema_list.New(b)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case ActionQueryExecute:
			queryExecute.Handle(w, r)
		case ActionTablesList:
			tablesList.Handle(w, r)
		case ActionTableInfo:
			tableInfo.Handle(w, r)
		case ActionTableCreate:
			tableCreate.Handle(w, r)
		case ActionDatabasesList:
			databasesList.Handle(w, r)
		case ActionSchemaList:
			schemaList.Handle(w, r)
		default:
			WriteError(w, r, "unknown action")
		}
	})
}
