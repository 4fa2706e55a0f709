package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consumerProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "stream",
		Name:      "processed_total",
		Help:      "Stream elements fully dispatched",
	})

	consumerRetries = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "stream",
		Name:      "dispatch_retries_total",
		Help:      "Dispatch attempts that failed and were retried",
	})

	ticksPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "stream",
		Name:      "ticks_total",
		Help:      "Ticks injected into the stream",
	}, []string{"result"})
)
