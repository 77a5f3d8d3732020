package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gamdlweb"

var (
	// DownloadsStartedTotal counts download tasks handed to the pipeline.
	DownloadsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_started_total",
			Help:      "Total number of download tasks started",
		},
	)

	// DownloadsFinishedTotal counts finished tasks by terminal status.
	DownloadsFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_finished_total",
			Help:      "Total number of finished download tasks by status",
		},
		[]string{"status"},
	)

	// DownloadsActive tracks currently running download tasks.
	DownloadsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "downloads_active",
			Help:      "Number of download tasks currently running",
		},
	)

	// DownloadDurationSeconds observes wall time of finished downloads.
	DownloadDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_duration_seconds",
			Help:      "Wall clock duration of finished download tasks",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

func init() {
	// Register metrics with Prometheus default registry
	prometheus.MustRegister(DownloadsStartedTotal)
	prometheus.MustRegister(DownloadsFinishedTotal)
	prometheus.MustRegister(DownloadsActive)
	prometheus.MustRegister(DownloadDurationSeconds)
}

// DownloadStarted records a new running download.
func DownloadStarted() {
	DownloadsStartedTotal.Inc()
	DownloadsActive.Inc()
}

// DownloadFinished records a finished download and its duration.
func DownloadFinished(status string, d time.Duration) {
	DownloadsFinishedTotal.WithLabelValues(status).Inc()
	DownloadsActive.Dec()
	DownloadDurationSeconds.Observe(d.Seconds())
}
