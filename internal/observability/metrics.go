// Package observability registers the Prometheus metrics for the sync service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garmin_sync",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Garmin Connect requests by data category and outcome.",
	}, []string{"category", "outcome"})
	logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garmin_sync",
		Subsystem: "upstream",
		Name:      "logins_total",
		Help:      "Garmin Connect login attempts by outcome.",
	}, []string{"outcome"})
	detailFetches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "garmin_sync",
		Subsystem: "upstream",
		Name:      "activity_detail_fetches_total",
		Help:      "Per-activity detail fetches issued while assembling reports.",
	})
	reportBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "garmin_sync",
		Subsystem: "report",
		Name:      "build_duration_seconds",
		Help:      "Wall time spent assembling a daily report.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})
	schedulerRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "garmin_sync",
		Subsystem: "scheduler",
		Name:      "runs_total",
		Help:      "Scheduled report runs by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(upstreamRequests, logins, detailFetches, reportBuildDuration, schedulerRuns)
}

// RecordUpstreamRequest counts one Garmin request for a data category.
func RecordUpstreamRequest(category, outcome string) {
	upstreamRequests.WithLabelValues(category, outcome).Inc()
}

// RecordLogin counts one login attempt.
func RecordLogin(outcome string) {
	logins.WithLabelValues(outcome).Inc()
}

// RecordDetailFetch counts one activity-detail fetch.
func RecordDetailFetch() {
	detailFetches.Inc()
}

// ObserveReportBuild records the duration of one report assembly.
func ObserveReportBuild(d time.Duration) {
	reportBuildDuration.Observe(d.Seconds())
}

// RecordSchedulerRun counts one scheduled run.
func RecordSchedulerRun(outcome string) {
	schedulerRuns.WithLabelValues(outcome).Inc()
}
