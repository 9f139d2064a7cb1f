package api_table_info

import (
	"net/http"
	"strings"

	"github.com/dracory/api"

	"github.com/sqlbridge/sqlbridge/internal/ports"
)

// TableInfo handles column introspection for one table.
type TableInfo struct {
	svc ports.Service
}

// New creates a new TableInfo handler.
func New(svc ports.Service) *TableInfo {
	return &TableInfo{svc: svc}
}

// Handle processes the request for table information.
func (h *TableInfo) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	database := strings.TrimSpace(r.URL.Query().Get("database"))
	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if table == "" {
		api.Respond(w, r, api.Error("table name is required"))
		return
	}

	columns, err := h.svc.TableInfo(r.Context(), database, table)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("table info", map[string]any{
		"columns":  columns,
		"table":    table,
		"database": database,
	}))
}
