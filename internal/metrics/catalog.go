// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus metrics for playlist loading and the
// catalog it produces.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load kinds.
const (
	KindRemote = "remote"
	KindLocal  = "local"
	KindWatch  = "watch"
)

// Load outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeRetrievalError = "retrieval_error"
	OutcomeReadError      = "read_error"
	OutcomeFormatError    = "format_error"
	OutcomeCanceled       = "canceled"
)

var (
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3ucat_loads_total",
		Help: "Playlist load attempts by kind and outcome",
	}, []string{"kind", "outcome"}) // kind=remote|local|watch

	loadDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "m3ucat_load_duration_seconds",
		Help:    "Time spent retrieving and parsing a playlist",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	loadBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "m3ucat_load_bytes",
		Help:    "Size of retrieved playlist text after decoding",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	}, []string{"kind"})

	catalogChannels = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "m3ucat_catalog_channels",
		Help: "Channels in the current catalog per source",
	}, []string{"source"})

	catalogCategories = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "m3ucat_catalog_categories",
		Help: "Distinct categories in the current catalog per source (excluding the aggregate)",
	}, []string{"source"})

	channelTypes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "m3ucat_channel_types",
		Help: "Channels by type in the current catalog",
	}, []string{"source", "type"}) // type=hd|sd|radio

	exportWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3ucat_export_writes_total",
		Help: "M3U export writes by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

// RecordLoad counts one load attempt and its duration.
func RecordLoad(kind, outcome string, seconds float64) {
	loadsTotal.WithLabelValues(kind, outcome).Inc()
	loadDurationSeconds.WithLabelValues(kind).Observe(seconds)
}

// RecordLoadBytes observes the decoded size of a retrieved playlist.
func RecordLoadBytes(kind string, n int) {
	loadBytes.WithLabelValues(kind).Observe(float64(n))
}

// RecordCatalog publishes the size of a source's current catalog.
func RecordCatalog(source string, channels, categories int) {
	catalogChannels.WithLabelValues(source).Set(float64(channels))
	catalogCategories.WithLabelValues(source).Set(float64(categories))
}

// RecordChannelTypeCounts publishes channel type counts for a source.
func RecordChannelTypeCounts(source string, hd, sd, radio int) {
	channelTypes.WithLabelValues(source, "hd").Set(float64(hd))
	channelTypes.WithLabelValues(source, "sd").Set(float64(sd))
	channelTypes.WithLabelValues(source, "radio").Set(float64(radio))
}

// IncExportWrite counts one export attempt.
func IncExportWrite(outcome string) { exportWritesTotal.WithLabelValues(outcome).Inc() }
