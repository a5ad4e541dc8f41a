package calls

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Placements counts call placement attempts.
// Labels: result (placed, error, config_error, invalid)
var Placements = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "callsched",
		Subsystem: "calls",
		Name:      "placements_total",
		Help:      "Total number of call placement attempts by result",
	},
	[]string{"result"},
)
