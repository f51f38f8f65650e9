// SPDX-License-Identifier: MIT

package log

import (
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Middleware logs one "request.handled" event per HTTP request, tagged with
// the request id stored in the context by the request-id middleware.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger := WithComponentFromContext(r.Context(), "http")
			ev := logger.Info()
			if rec.status >= http.StatusInternalServerError {
				ev = logger.Error()
			}
			ev.Str(FieldEvent, "request.handled").
				Str(FieldMethod, r.Method).
				Str(FieldPath, r.URL.Path).
				Int(FieldStatus, rec.status).
				Int("bytes", rec.bytes).
				Str(FieldRemoteAddr, r.RemoteAddr).
				Int64(FieldDurationMS, time.Since(start).Milliseconds()).
				Msg("request handled")
		})
	}
}
