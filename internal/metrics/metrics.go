// Package metrics exposes Prometheus counters for conversions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConversionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kmlsheet_conversions_total",
		Help: "Conversions by direction and outcome",
	}, []string{"direction", "outcome"})
	ConversionDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kmlsheet_conversion_duration_ms",
		Help:    "Conversion duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"direction"})
	PlacemarksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kmlsheet_placemarks_total",
		Help: "Placemarks read or written",
	}, []string{"direction"})
	SkippedRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kmlsheet_skipped_rows_total",
		Help: "Rows skipped for invalid coordinates",
	})
	UploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kmlsheet_upload_bytes",
		Help:    "Size of uploaded files",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
)

func init() {
	prometheus.MustRegister(ConversionsTotal)
	prometheus.MustRegister(ConversionDurationMs)
	prometheus.MustRegister(PlacemarksTotal)
	prometheus.MustRegister(SkippedRowsTotal)
	prometheus.MustRegister(UploadBytes)
}

// Handler returns the /metrics handler.
func Handler() http.Handler { return promhttp.Handler() }
