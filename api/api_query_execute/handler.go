package api_query_execute

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dracory/api"

	"github.com/sqlbridge/sqlbridge/internal/ports"
)

// QueryExecute handles SQL statement execution over the bridge service.
type QueryExecute struct {
	svc ports.Service
}

// New creates a new QueryExecute handler.
func New(svc ports.Service) *QueryExecute {
	return &QueryExecute{svc: svc}
}

// Handle processes the request. Parameters arrive as repeated params[]
// form values; fetch defaults to true.
func (h *QueryExecute) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("query_execute must be POST"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	query := strings.TrimSpace(r.Form.Get("query"))
	if query == "" {
		api.Respond(w, r, api.Error("query is required"))
		return
	}

	database := strings.TrimSpace(r.Form.Get("database"))
	params := r.Form["params[]"]

	fetch := true
	if raw := strings.TrimSpace(r.Form.Get("fetch")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			api.Respond(w, r, api.Error("fetch must be a boolean"))
			return
		}
		fetch = parsed
	}

	res := h.svc.ExecuteQuery(r.Context(), database, query, params, fetch)
	if !res.Success {
		api.Respond(w, r, api.Error(res.Error))
		return
	}

	api.Respond(w, r, api.SuccessWithData("query executed", map[string]any{
		"result": res,
	}))
}
