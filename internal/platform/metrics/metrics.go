// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepRunsTotal counts accrual sweeps by trigger and outcome.
	SweepRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estate",
		Subsystem: "accrual",
		Name:      "sweep_runs_total",
		Help:      "Total accrual sweeps by trigger and outcome.",
	}, []string{"trigger", "outcome"})

	// SweepRecordsTotal counts accounts processed by sweeps, by result.
	SweepRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estate",
		Subsystem: "accrual",
		Name:      "sweep_records_total",
		Help:      "Accounts processed by accrual sweeps (unchanged/changed/error).",
	}, []string{"result"})

	// SweepDuration tracks how long whole sweeps take.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "estate",
		Subsystem: "accrual",
		Name:      "sweep_duration_seconds",
		Help:      "Accrual sweep duration in seconds.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	// CreditsTotal counts payment credits by outcome.
	CreditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estate",
		Subsystem: "accrual",
		Name:      "credits_total",
		Help:      "Payment credits applied to accounts by outcome.",
	}, []string{"outcome"})

	// EligibilityDecisionsTotal counts eligibility gate decisions.
	EligibilityDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estate",
		Subsystem: "accrual",
		Name:      "eligibility_decisions_total",
		Help:      "Eligibility gate decisions (allowed/denied/exempt).",
	}, []string{"decision"})

	// StatusEventsTotal counts status-change events by publish outcome.
	StatusEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estate",
		Subsystem: "accrual",
		Name:      "status_events_total",
		Help:      "accrual.status_changed events by publish outcome.",
	}, []string{"outcome"})

	// HTTPRequestsTotal counts API requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estate",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration tracks API latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "estate",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)
