package sqlbridge

import (
	"context"
	"log/slog"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// HandleResolver yields a live backend for a database name.
// *ConnectionManager is the production implementation.
type HandleResolver interface {
	Get(name string) (Backend, error)
}

// QueryExecutor is the single entry point for all query traffic and the
// error boundary: every fault below it, of any kind, is converted into a
// failed QueryResult before returning. Nothing throws past it.
type QueryExecutor struct {
	conns    HandleResolver
	cache    *QueryCache
	settings types.Settings
	logger   *slog.Logger
}

// NewQueryExecutor wires the executor over its collaborators.
func NewQueryExecutor(conns HandleResolver, cache *QueryCache, settings types.Settings, logger *slog.Logger) *QueryExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryExecutor{conns: conns, cache: cache, settings: settings, logger: logger}
}

// ExecuteQuery orchestrates cache lookup, connection acquisition, backend
// dispatch and cache population. Mutation results are never cached; cache
// hits are returned unchanged with no backend call.
func (e *QueryExecutor) ExecuteQuery(ctx context.Context, database, query string, params []string, fetch bool) types.QueryResult {
	cacheable := fetch && e.settings.CacheEnabled && e.cache != nil

	var key string
	if cacheable {
		key = Fingerprint(database, query, params)
		if res, ok := e.cache.Get(key); ok {
			e.logger.DebugContext(ctx, "cache hit", "database", database, "query", truncateQuery(query))
			return res
		}
	}

	backend, err := e.conns.Get(database)
	if err != nil {
		e.logger.WarnContext(ctx, "connection acquisition failed", "database", database, "error", err)
		return types.QueryResult{Success: false, Error: err.Error()}
	}

	if e.settings.LogQueries {
		e.logger.InfoContext(ctx, "executing query", "database", database, "query", truncateQuery(query), "fetch", fetch)
	}

	res, err := backend.Execute(ctx, query, params, fetch)
	if err != nil {
		qerr := &QueryError{Database: database, Err: err}
		e.logger.WarnContext(ctx, "query failed", "database", database, "error", err)
		return types.QueryResult{Success: false, Error: qerr.Error()}
	}

	if cacheable && res.Success {
		e.cache.Put(key, res)
	}
	return res
}

// truncateQuery shortens query text for log lines.
func truncateQuery(query string) string {
	const max = 50
	if len(query) <= max {
		return query
	}
	return query[:max] + "..."
}
