package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Download durations span small repos to large release archives.
var transferBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}

var (
	// Submission metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_submissions_total",
			Help: "Total number of submissions processed, by outcome",
		},
		[]string{"outcome"},
	)

	// Transfer metrics
	DownloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_download_bytes_total",
			Help: "Total bytes of archive data downloaded",
		},
	)

	DownloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_download_duration_seconds",
			Help:    "Duration of archive downloads in seconds, by result",
			Buckets: transferBuckets,
		},
		[]string{"result"},
	)

	UploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_upload_duration_seconds",
			Help:    "Duration of object uploads in seconds",
			Buckets: transferBuckets,
		},
	)

	// Side-effect metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_notifications_total",
			Help: "Total number of notification attempts, by result",
		},
		[]string{"result"},
	)

	AuditWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_audit_writes_total",
			Help: "Total number of delivery record writes, by result",
		},
		[]string{"result"},
	)

	OutcomeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_outcome_events_total",
			Help: "Total number of outcome events published, by result",
		},
		[]string{"result"},
	)
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// ResultLabel maps an error to the result label.
func ResultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
