package sqlbridge

import (
	"net/http"

	api "github.com/dracory/api"
)

// WriteSuccessWithData writes a success envelope with message and data.
func WriteSuccessWithData(w http.ResponseWriter, r *http.Request, msg string, data map[string]any) {
	api.Respond(w, r, api.SuccessWithData(msg, data))
}

// WriteError writes an error envelope with the given message.
func WriteError(w http.ResponseWriter, r *http.Request, msg string) {
	api.Respond(w, r, api.Error(msg))
}
