package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cubeExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Subsystem: "cube",
	Name:      "export_duration_seconds",
	Help:      "Time to read the session snapshot and build the cube",
	Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
})
