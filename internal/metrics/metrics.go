// Package metrics provides Prometheus metrics for export runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClipsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bsi_clips_exported_total",
			Help: "Total number of clip exports by outcome",
		},
		[]string{"status"},
	)

	FramesSampled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bsi_frames_sampled_total",
			Help: "Total number of frames snapshotted",
		},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bsi_export_duration_seconds",
			Help:    "Time taken to export one clip",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	ExportsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bsi_exports_active",
			Help: "Number of export runs in progress",
		},
	)
)

// RecordClip records the outcome of one clip's export.
func RecordClip(status string, frames int, duration time.Duration) {
	ClipsExported.WithLabelValues(status).Inc()
	ExportDuration.WithLabelValues(status).Observe(duration.Seconds())
	if frames > 0 {
		FramesSampled.Add(float64(frames))
	}
}
