// Package httpapi exposes the JSON endpoints of the journal server and of
// the smaller daily-notes server. Every response carries a {success: bool}
// envelope; failures add an error message and a non-2xx status.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/stockjournal/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSuccess sends {success:true} merged with the given payload.
func writeSuccess(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeError sends {success:false, error} with a status derived from the
// error kind: validation problems are the caller's fault, everything else
// is a server-side failure.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, common.ErrValidation) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": msg})
}
