// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_ServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "svc", Version: "v9"})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("parser")
	l.Debug().Str(FieldEvent, "test.event").Msg("debug line")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "svc", entry[FieldService])
	assert.Equal(t, "v9", entry[FieldVersion])
	assert.Equal(t, "parser", entry[FieldComponent])
	assert.Equal(t, "test.event", entry[FieldEvent])
}

func TestMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "rid-7"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request.handled", entry[FieldEvent])
	assert.Equal(t, "/api/sources", entry[FieldPath])
	assert.EqualValues(t, http.StatusTeapot, entry[FieldStatus])
	assert.Equal(t, "rid-7", entry[FieldRequestID])
}
