package window

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Sessions currently open",
	})

	finalizedSessions = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "sessions",
		Name:      "finalized_total",
		Help:      "Sessions closed and written to the durable store",
	})

	finalizeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "sessions",
		Name:      "finalize_errors_total",
		Help:      "Failed attempts to write a finalized session",
	})
)
