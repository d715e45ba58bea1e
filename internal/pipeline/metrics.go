package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	imagesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitin50",
		Subsystem: "pipeline",
		Name:      "images_total",
		Help:      "Number of images handled by folder runs, labeled by outcome.",
	}, []string{"outcome"})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fitin50",
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full folder run.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(imagesCounter, runDuration)
}

func recordImage(outcome ImageOutcome) {
	imagesCounter.WithLabelValues(string(outcome)).Inc()
}

func recordRunDuration(d time.Duration) {
	runDuration.Observe(d.Seconds())
}
