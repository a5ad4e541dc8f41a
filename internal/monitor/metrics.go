package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveMonitors is the number of calls currently being polled.
	ActiveMonitors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "callsched",
			Subsystem: "monitor",
			Name:      "active",
			Help:      "Number of calls currently being monitored",
		},
	)

	// StatusPolls counts status fetches.
	// Labels: result (terminal, pending, error)
	StatusPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "callsched",
			Subsystem: "monitor",
			Name:      "status_polls_total",
			Help:      "Total number of call status fetches by result",
		},
		[]string{"result"},
	)

	// Outcomes counts how monitoring ended.
	// Labels: outcome (terminal, exhausted, stopped)
	Outcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "callsched",
			Subsystem: "monitor",
			Name:      "outcomes_total",
			Help:      "Total number of finished monitors by outcome",
		},
		[]string{"outcome"},
	)

	// Notifications counts delivery attempts.
	// Labels: result (sent, error, skipped)
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "callsched",
			Subsystem: "monitor",
			Name:      "notifications_total",
			Help:      "Total number of completion notifications by result",
		},
		[]string{"result"},
	)
)
