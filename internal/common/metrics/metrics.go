package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClipersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipers_processed_total",
			Help: "Total number of Clipers that reached a terminal status",
		},
		[]string{"status"},
	)

	ExtractionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extraction_failures_total",
			Help: "Total number of extraction service calls routed to the fallback generator",
		},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "cliper_pipeline_duration_seconds",
			Help: "Duration of Cliper processing in seconds",
		},
	)

	MatchesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "job_matches_created_total",
			Help: "Total number of job matches persisted",
		},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "job_match_score",
			Help:    "Distribution of computed overall match scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total number of notification deliveries per channel",
		},
		[]string{"channel", "outcome"},
	)

	BackgroundTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_tasks_total",
			Help: "Total number of background tasks executed",
		},
		[]string{"name", "outcome"},
	)
)
