package sqlbridge

import (
	"context"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// Backend is the capability set shared by every database variant. The
// executor and introspector depend only on this interface; only the
// variants know transport details.
type Backend interface {
	// Execute runs a single statement. With fetch=true all matching rows
	// are returned eagerly with their column names; with fetch=false the
	// mutation is committed and affected-row metadata is returned.
	// A non-nil error covers mechanical faults (bad SQL, transport); the
	// executor converts it into a failed QueryResult.
	Execute(ctx context.Context, query string, params []string, fetch bool) (types.QueryResult, error)

	// Schema lists tables, indexes and views ordered by (kind, name).
	Schema(ctx context.Context) ([]types.SchemaObject, error)

	// Dialect names the SQL dialect spoken by the backend, used to pick
	// catalog and column-introspection queries.
	Dialect() string
}

// paramsToArgs widens string parameters for the database/sql layer.
func paramsToArgs(params []string) []any {
	if len(params) == 0 {
		return nil
	}
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return args
}
