// SPDX-License-Identifier: MIT

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getGaugeVecValue(t *testing.T, vec *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(metric))
	return metric.GetGauge().GetValue()
}

func getCounterVecValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(metric))
	return metric.GetCounter().GetValue()
}

func TestRecordLoad(t *testing.T) {
	before := getCounterVecValue(t, loadsTotal, KindRemote, OutcomeRetrievalError)
	RecordLoad(KindRemote, OutcomeRetrievalError, 0.25)
	after := getCounterVecValue(t, loadsTotal, KindRemote, OutcomeRetrievalError)
	assert.Equal(t, before+1, after)
}

func TestRecordCatalog(t *testing.T) {
	RecordCatalog("test-src", 12, 3)
	assert.Equal(t, 12.0, getGaugeVecValue(t, catalogChannels, "test-src"))
	assert.Equal(t, 3.0, getGaugeVecValue(t, catalogCategories, "test-src"))

	RecordChannelTypeCounts("test-src", 4, 8, 1)
	assert.Equal(t, 4.0, getGaugeVecValue(t, channelTypes, "test-src", "hd"))
	assert.Equal(t, 8.0, getGaugeVecValue(t, channelTypes, "test-src", "sd"))
	assert.Equal(t, 1.0, getGaugeVecValue(t, channelTypes, "test-src", "radio"))
}

func TestIncExportWrite(t *testing.T) {
	before := getCounterVecValue(t, exportWritesTotal, "success")
	IncExportWrite("success")
	assert.Equal(t, before+1, getCounterVecValue(t, exportWritesTotal, "success"))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/sources/{source}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sources/main", nil))
	require.Equal(t, http.StatusAccepted, rr.Code)

	hist, err := httpRequestDuration.GetMetricWithLabelValues(http.MethodGet, "/api/sources/{source}", "202")
	require.NoError(t, err)
	metric := &dto.Metric{}
	require.NoError(t, hist.(prometheus.Histogram).Write(metric))
	assert.GreaterOrEqual(t, metric.GetHistogram().GetSampleCount(), uint64(1))
}
