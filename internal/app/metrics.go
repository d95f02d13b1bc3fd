package app

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exposed at /metrics.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	IdeasCreated     prometheus.Counter
	FollowUpsCreated prometheus.Counter
	AnalysisResults  *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics registers the collectors with the default registry once and
// returns the shared set on every call.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ideaspark_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"route", "method", "code"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "ideaspark_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"route", "method", "code"},
			),
			IdeasCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "ideaspark_ideas_created_total",
					Help: "Number of ideas stored",
				},
			),
			FollowUpsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "ideaspark_follow_ups_created_total",
					Help: "Number of follow-up questions stored",
				},
			),
			AnalysisResults: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ideaspark_analysis_results_total",
					Help: "Analysis client results by operation and source",
				},
				[]string{"operation", "source"},
			),
			EventsPublished: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ideaspark_events_published_total",
					Help: "Domain events handed to publishers",
				},
				[]string{"type", "success"},
			),
		}
	})

	return sharedMetrics
}
