package types

// QueryResult is the structured outcome of a single query execution.
// Exactly one of the row fields (fetch path) or the affected-row fields
// (mutation path) is meaningful per call.
type QueryResult struct {
	Success bool `json:"success"`

	// Fetch path
	Rows    []map[string]any `json:"rows,omitempty"`
	Columns []string         `json:"columns,omitempty"`
	Count   int              `json:"count,omitempty"`

	// Mutation path
	AffectedRows int64 `json:"affected_rows,omitempty"`
	LastInsertID int64 `json:"last_insert_id,omitempty"`

	// Remote backends may report per-call metadata and timing.
	Meta     map[string]any `json:"meta,omitempty"`
	Duration float64        `json:"duration,omitempty"`

	Error string `json:"error,omitempty"`
}

// SchemaObject is a single entry from a backend catalog listing.
type SchemaObject struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"` // table, index or view
	Definition string `json:"definition,omitempty"`
}

// ColumnInfo describes one column of an existing table.
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
	Default    any    `json:"default,omitempty"`
}

// ColumnSpec describes one column of a table to be created.
// Nullable defaults to true when omitted.
type ColumnSpec struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   *bool  `json:"nullable,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Default    string `json:"default,omitempty"`
}

// IsNullable reports whether the column allows NULL values.
func (c ColumnSpec) IsNullable() bool {
	return c.Nullable == nil || *c.Nullable
}
