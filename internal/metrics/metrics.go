// Package metrics exposes Prometheus instrumentation for report conversion.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion metrics
var (
	// ConversionsTotal tracks report conversions by outcome.
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspectcode_conversions_total",
			Help: "Total number of report conversions by status",
		},
		[]string{"status"},
	)

	// IssuesTotal tracks emitted issues by priority.
	IssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspectcode_issues_total",
			Help: "Total number of normalized issues emitted by priority",
		},
		[]string{"priority"},
	)

	// ConversionDuration tracks end-to-end conversion duration.
	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inspectcode_conversion_duration_seconds",
			Help:    "Report conversion duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// ReportSizeBytes tracks the size of converted reports.
	ReportSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inspectcode_report_size_bytes",
			Help:    "Size of converted reports in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

// Conversion statuses.
const (
	StatusOK           = "ok"
	StatusParseError   = "parse_error"
	StatusExtractError = "extract_error"
)
