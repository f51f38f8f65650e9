// SPDX-License-Identifier: MIT

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/m3ucat/internal/log"
)

type errorBody struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	RequestID string `json:"requestId,omitempty"`
}

// writeError emits the same JSON error shape the API handlers use.
func writeError(w http.ResponseWriter, r *http.Request, code int, kind, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:     kind,
		Detail:    detail,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}
