// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/source"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, code int, kind, detail string) {
	writeJSON(w, code, errorBody{Error: kind, Detail: detail})
}

// writeNotFound writes a 404 Not Found response
func writeNotFound(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusNotFound, "not_found", detail)
}

// writeBadRequest writes a 400 Bad Request response
func writeBadRequest(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusBadRequest, "bad_request", detail)
}

// writeLoadError maps the load error taxonomy to HTTP statuses.
func writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		code int
		kind string
	)
	switch {
	case errors.Is(err, source.ErrSourceLimit):
		code, kind = http.StatusConflict, "source_limit_reached"
	case errors.Is(err, source.ErrFormat):
		code, kind = http.StatusUnsupportedMediaType, "unsupported_format"
	case errors.Is(err, source.ErrRetrieval):
		code, kind = http.StatusBadGateway, "retrieval_failed"
	case errors.Is(err, source.ErrRead):
		code, kind = http.StatusBadRequest, "read_failed"
	case errors.Is(err, context.DeadlineExceeded):
		code, kind = http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		// Client went away; the status is never seen.
		code, kind = 499, "canceled"
	default:
		code, kind = http.StatusInternalServerError, "internal_error"
	}

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Warn().
		Err(err).
		Str(log.FieldEvent, "api.load_failed").
		Int(log.FieldStatus, code).
		Msg("playlist load request failed")

	writeProblem(w, code, kind, err.Error())
}
