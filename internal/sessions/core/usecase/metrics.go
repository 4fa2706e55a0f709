package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var dispatched = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "dispatch",
	Name:      "elements_total",
	Help:      "Stream elements dispatched, by outcome",
}, []string{"outcome"})

const (
	outcomeEvent     = "event"
	outcomeAnonymous = "anonymous"
	outcomeTick      = "tick"
	outcomeMalformed = "malformed"
)
