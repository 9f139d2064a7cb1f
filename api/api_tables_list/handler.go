package api_tables_list

import (
	"net/http"
	"strings"

	"github.com/dracory/api"

	"github.com/sqlbridge/sqlbridge/internal/ports"
)

// TablesList handles table listing for one configured database.
type TablesList struct {
	svc ports.Service
}

// New creates a new TablesList handler.
func New(svc ports.Service) *TablesList {
	return &TablesList{svc: svc}
}

// Handle processes the request to list database tables.
func (h *TablesList) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	database := strings.TrimSpace(r.URL.Query().Get("database"))

	tables, err := h.svc.ListTables(r.Context(), database)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("tables listed", map[string]any{
		"tables":   tables,
		"count":    len(tables),
		"database": database,
	}))
}
