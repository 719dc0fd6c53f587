package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan pipeline counters. Labels carry the audit log status message so
// dashboards can group rejections by cause.
var (
	ScanAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusgate_scan_attempts_total",
		Help: "Scan attempts by final outcome message.",
	}, []string{"outcome"})

	AttendanceMarked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusgate_attendance_marked_total",
		Help: "Attendance records written, by status.",
	}, []string{"status"})

	SessionsMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusgate_sessions_materialized_total",
		Help: "Sessions auto-created from timetable slots.",
	})

	EvidenceReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusgate_evidence_reviews_total",
		Help: "Deferred evidence reviews processed by the worker, by result.",
	}, []string{"result"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campusgate_scan_duration_seconds",
		Help:    "End-to-end scan verification latency.",
		Buckets: prometheus.DefBuckets,
	})
)
