package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitin50",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests grouped by method, path, and status code.",
	}, []string{"method", "path", "status"})

	lastRunGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitin50",
		Subsystem: "pipeline",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed folder run.",
	})

	leaderboardSizeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitin50",
		Subsystem: "leaderboard",
		Name:      "participants",
		Help:      "Number of participants on the most recently built leaderboard.",
	})
)

func init() {
	prometheus.MustRegister(httpRequestCounter, lastRunGauge, leaderboardSizeGauge)
}

// RecordHTTPRequest counts one served request.
func RecordHTTPRequest(method, path string, status int) {
	httpRequestCounter.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// RecordRunCompleted updates the folder-run watermark gauge.
func RecordRunCompleted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastRunGauge.Set(float64(ts.Unix()))
}

// RecordLeaderboardSize tracks how many participants the last build ranked.
func RecordLeaderboardSize(n int) {
	leaderboardSizeGauge.Set(float64(n))
}
