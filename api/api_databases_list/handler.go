package api_databases_list

import (
	"net/http"

	"github.com/dracory/api"

	"github.com/sqlbridge/sqlbridge/internal/ports"
)

// DatabasesList exposes the sanitized registry and connection status.
// Credentials never leave the process through this surface.
type DatabasesList struct {
	svc ports.Service
}

// New creates a new DatabasesList handler.
func New(svc ports.Service) *DatabasesList {
	return &DatabasesList{svc: svc}
}

// Handle processes the request.
func (h *DatabasesList) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	reg := h.svc.SanitizedConfig()
	handles, cacheEntries := h.svc.Status()

	api.Respond(w, r, api.SuccessWithData("databases listed", map[string]any{
		"databases":          reg.Databases,
		"settings":           reg.Settings,
		"active_connections": handles,
		"cache_entries":      cacheEntries,
	}))
}
