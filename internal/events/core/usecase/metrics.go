package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// eventsIngested counts stored and published events per kind
var eventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "events",
	Name:      "ingested_total",
	Help:      "Total number of events stored and published to the stream",
}, []string{"kind"})
