// Package metrics exposes the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCartMutations,
			Help: HelpTextCartMutations,
		},
		[]string{LabelOperation},
	)

	Checkouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCheckouts,
			Help: HelpTextCheckouts,
		},
		[]string{LabelOutcome},
	)

	GameSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGameSaves,
			Help: HelpTextGameSaves,
		},
		[]string{LabelOutcome},
	)

	BackendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBackendFailures,
			Help: HelpTextBackendFailures,
		},
		[]string{LabelOperation},
	)

	PollResultsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePollResultsDropped,
			Help: HelpTextPollResultsDropped,
		},
		[]string{LabelPoller},
	)
)
