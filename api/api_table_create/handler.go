package api_table_create

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dracory/api"

	"github.com/sqlbridge/sqlbridge/internal/ports"
	"github.com/sqlbridge/sqlbridge/shared/types"
)

// TableCreate handles deterministic table creation.
type TableCreate struct {
	svc ports.Service
}

// New creates a new TableCreate handler.
func New(svc ports.Service) *TableCreate {
	return &TableCreate{svc: svc}
}

// Handle validates input, delegates DDL generation and execution to the
// service, and reports the generated statement back to the caller.
func (h *TableCreate) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	database := strings.TrimSpace(r.Form.Get("database"))
	table := strings.TrimSpace(r.Form.Get("table"))
	if table == "" {
		api.Respond(w, r, api.Error("table required"))
		return
	}

	var columns []types.ColumnSpec
	if err := json.Unmarshal([]byte(r.Form.Get("columns")), &columns); err != nil {
		api.Respond(w, r, api.Error("columns must be a JSON array of column specs"))
		return
	}

	res := h.svc.CreateTable(r.Context(), database, table, columns)
	if !res.Success {
		api.Respond(w, r, api.Error(res.Error))
		return
	}

	api.Respond(w, r, api.SuccessWithData("created", map[string]any{
		"result": res,
		"sql":    res.Meta["sql"],
	}))
}
