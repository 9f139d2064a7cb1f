package sqlbridge

import "fmt"

// ConfigurationError reports an unusable or missing database configuration:
// an unknown database name, an unsupported backend type, or a missing
// required connection parameter. It is fatal to the single call only.
type ConfigurationError struct {
	Database string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Database != "" {
		return fmt.Sprintf("configuration error: database %q: %s", e.Database, e.Reason)
	}
	return "configuration error: " + e.Reason
}

// ConnectionError reports a transport-level failure reaching a backend:
// DNS failure, refused connection, or timeout. It is reported, never
// retried automatically.
type ConnectionError struct {
	Database string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: database %q: %v", e.Database, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a backend-level query failure: malformed SQL, a
// constraint violation, or a remote application-level error. It surfaces
// inside QueryResult, never as a raised fault past the executor.
type QueryError struct {
	Database string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: database %q: %v", e.Database, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
