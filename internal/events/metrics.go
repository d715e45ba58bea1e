package events

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitin50",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Number of summary events successfully published to Kafka.",
	})

	publishFailedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitin50",
		Subsystem: "events",
		Name:      "publish_failed_total",
		Help:      "Number of summary events that failed to publish.",
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, publishFailedCounter)
}

func recordPublished(n int) {
	publishedCounter.Add(float64(n))
}

func recordPublishFailed(n int) {
	publishFailedCounter.Add(float64(n))
}
