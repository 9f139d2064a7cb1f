package api_schema_list

import (
	"net/http"
	"strings"

	"github.com/dracory/api"

	"github.com/sqlbridge/sqlbridge/internal/ports"
)

// SchemaList returns the raw catalog listing for one database.
type SchemaList struct {
	svc ports.Service
}

// New creates a new SchemaList handler.
func New(svc ports.Service) *SchemaList {
	return &SchemaList{svc: svc}
}

// Handle processes the request.
func (h *SchemaList) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	database := strings.TrimSpace(r.URL.Query().Get("database"))

	objects, err := h.svc.Schema(r.Context(), database)
	if err != nil {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData("schema listed", map[string]any{
		"objects":  objects,
		"count":    len(objects),
		"database": database,
	}))
}
